package cli

import (
	"fmt"
	"os"
	"strings"

	"questionnaire-builder/internal/app/models"
	"questionnaire-builder/internal/app/services/core/validation"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newValidateCmd(app *App) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Report broken references in a questionnaire",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.loadSession(cmd, args[0], app.idGenerator())
			if err != nil {
				return err
			}
			findings := session.Validate(cmd.Context())
			if err := printFindings(cmd, findings, asJSON); err != nil {
				return err
			}
			if len(findings) > 0 {
				return ErrFindings
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print findings as JSON")
	return cmd
}

func newNormalizeCmd(app *App) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "normalize <file>",
		Short: "Read a questionnaire and write it back in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.loadSession(cmd, args[0], app.idGenerator())
			if err != nil {
				return err
			}
			raw, err := session.Export(cmd.Context())
			if err != nil {
				return err
			}
			return writeDocument(cmd, output, raw)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the document to a file instead of stdout")
	return cmd
}

func newApplyCmd(app *App) *cobra.Command {
	var scriptPath, output string
	cmd := &cobra.Command{
		Use:   "apply <file>",
		Short: "Run a mutation script against a questionnaire",
		Long: strings.TrimSpace(`
Runs the steps of a YAML mutation script in order and prints the resulting
document. Findings of the final document are printed to stderr. The first
rejected step stops the script; nothing is written in that case.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(scriptPath)
			if err != nil {
				return err
			}
			script, err := ParseScript(data)
			if err != nil {
				return fmt.Errorf("%s: %w", scriptPath, err)
			}

			ids := app.idGenerator()
			session, err := app.loadSession(cmd, args[0], ids)
			if err != nil {
				return err
			}
			if err := script.Run(cmd.Context(), session, ids); err != nil {
				return err
			}

			raw, err := session.Export(cmd.Context())
			if err != nil {
				return err
			}
			if err := writeDocument(cmd, output, raw); err != nil {
				return err
			}
			for _, finding := range session.Validate(cmd.Context()) {
				fmt.Fprintln(cmd.ErrOrStderr(), finding.String())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&scriptPath, "script", "", "YAML mutation script")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the document to a file instead of stdout")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}

func newTreeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the item tree of a questionnaire",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.loadSession(cmd, args[0], app.idGenerator())
			if err != nil {
				return err
			}
			state, _ := session.Snapshot()
			out := cmd.OutOrStdout()
			state.Walk(func(node models.OrderItem, parentPath []string) {
				item := state.Items[node.LinkID]
				line := fmt.Sprintf("%s%s [%s]", strings.Repeat("  ", len(parentPath)), node.LinkID, item.Type)
				if item.Text != "" {
					line += " " + item.Text
				}
				fmt.Fprintln(out, line)
			})
			return nil
		},
	}
}

func newLibraryCmd(app *App) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "library",
		Short: "List the predefined value sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sets := app.bootstrap.Library.List()
			out := cmd.OutOrStdout()
			if asYAML {
				entries := make([]map[string]any, 0, len(sets))
				for _, vs := range sets {
					codes := []string{}
					for _, option := range vs.Options() {
						codes = append(codes, option.Code)
					}
					entries = append(entries, map[string]any{"id": vs.Ref.ID, "title": vs.Title, "codes": codes})
				}
				return yaml.NewEncoder(out).Encode(entries)
			}
			for _, vs := range sets {
				fmt.Fprintf(out, "%s\t%s\t%d codes\n", vs.Ref.ID, vs.Title, len(vs.Options()))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the sets with their codes as YAML")
	return cmd
}

func printFindings(cmd *cobra.Command, findings []validation.Finding, asJSON bool) error {
	if asJSON {
		if findings == nil {
			findings = []validation.Finding{}
		}
		return writeJSON(cmd, findings)
	}
	for _, finding := range findings {
		fmt.Fprintln(cmd.OutOrStdout(), finding.String())
	}
	return nil
}
