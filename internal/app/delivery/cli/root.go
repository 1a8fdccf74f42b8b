package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"questionnaire-builder/internal/app/config"
	"questionnaire-builder/internal/app/contracts"
	"questionnaire-builder/internal/app/drivers/logger"
	"questionnaire-builder/internal/app/drivers/metrics"
	"questionnaire-builder/internal/app/services/core/mapper"
	"questionnaire-builder/internal/app/services/core/questionnaires"
	"questionnaire-builder/internal/app/services/core/treestore"
	"questionnaire-builder/internal/app/services/shared/valuesets"
	"questionnaire-builder/internal/pkg/constvars"
	"questionnaire-builder/internal/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrFindings is returned by commands that completed but found problems in
// the document. The caller exits non-zero without printing it again.
var ErrFindings = errors.New("document has findings")

type App struct {
	LibraryPath string
	IDPrefix    string
	MetricsFile string
	Output      string

	bootstrap *config.Bootstrap
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           constvars.AppName,
		Short:         "Edit, normalize and check FHIR Questionnaire documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Report broken references
  qbuilder validate intake.json

  # Rewrite a document in canonical form
  qbuilder normalize intake.json -o intake.normalized.json

  # Run a mutation script and print the result
  qbuilder apply intake.json --script edits.yaml
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.boot()
	}

	cmd.PersistentFlags().StringVar(&app.LibraryPath, "library", "", "YAML file of predefined value sets (default: built-in library)")
	cmd.PersistentFlags().StringVar(&app.IDPrefix, "id-prefix", "", "Generate sequential identifiers with this prefix instead of UUIDs")
	cmd.PersistentFlags().StringVar(&app.MetricsFile, "metrics-file", "", "Write session metrics in Prometheus text format to this file")

	cmd.AddCommand(newValidateCmd(app))
	cmd.AddCommand(newNormalizeCmd(app))
	cmd.AddCommand(newApplyCmd(app))
	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newLibraryCmd(app))

	// cobra skips post-run hooks after a failed RunE, so wrap the commands
	// instead to record failed runs too.
	for _, sub := range cmd.Commands() {
		sub.RunE = app.finishing(sub.RunE)
	}

	return cmd
}

func (app *App) finishing(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if finishErr := app.finish(cmd); err == nil {
			err = finishErr
		}
		return err
	}
}

// finish writes the metrics file, if any, and flushes the logger.
func (app *App) finish(cmd *cobra.Command) error {
	b := app.bootstrap
	if b == nil {
		return nil
	}
	// stderr cannot be synced on every platform.
	defer func() { _ = b.Shutdown(cmd.Context()) }()

	path := b.DriverConfig.Metrics.OutputFileName
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, b.Registry); err != nil {
		b.Logger.Error("metrics file not written", zap.String(constvars.LoggingPathKey, path), zap.Error(err))
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}

func (app *App) boot() error {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()
	if app.LibraryPath != "" {
		internalConfig.Editor.ValueSetLibraryPath = app.LibraryPath
	}
	if app.MetricsFile != "" {
		driverConfig.Metrics.OutputFileName = app.MetricsFile
	}

	log, err := logger.NewZapLogger(driverConfig, internalConfig)
	if err != nil {
		return err
	}
	library, err := valuesets.LoadValueSetLibrary(internalConfig.Editor.ValueSetLibraryPath)
	if err != nil {
		return err
	}

	app.bootstrap = &config.Bootstrap{
		Logger:         log,
		Registry:       prometheus.NewRegistry(),
		Library:        library,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}
	return nil
}

func (app *App) idGenerator() contracts.IDGenerator {
	if app.IDPrefix != "" {
		return utils.NewSequenceGenerator(app.IDPrefix)
	}
	return utils.NewUUIDGenerator()
}

// newSession wires one editing session. Commands run a single session, so
// its metrics are registered once per registry.
func (app *App) newSession(ids contracts.IDGenerator) questionnaires.QuestionnaireUsecase {
	b := app.bootstrap
	return questionnaires.NewQuestionnaireUsecase(
		treestore.NewEngine(),
		mapper.NewMapper(mapper.Options{InlineOptionThreshold: b.InternalConfig.Editor.InlineOptionThreshold}),
		b.Library,
		ids,
		metrics.NewSessionMetrics(b.Registry),
		b.InternalConfig,
		b.Logger,
	)
}

// loadSession starts a session on the document at path.
func (app *App) loadSession(cmd *cobra.Command, path string, ids contracts.IDGenerator) (questionnaires.QuestionnaireUsecase, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	session := app.newSession(ids)
	if err := session.Import(cmd.Context(), raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return session, nil
}

func writeDocument(cmd *cobra.Command, output string, raw []byte) error {
	raw = append(raw, '\n')
	if output == "" || output == "-" {
		_, err := cmd.OutOrStdout().Write(raw)
		return err
	}
	return os.WriteFile(output, raw, 0o644)
}

func writeJSON(cmd *cobra.Command, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
	return err
}
