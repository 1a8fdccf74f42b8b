package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const emptyDocument = `{"resourceType": "Questionnaire", "status": "draft"}`

const danglingDocument = `{
  "resourceType": "Questionnaire",
  "status": "draft",
  "item": [
    {"linkId": "a", "type": "string", "text": "First"},
    {"linkId": "b", "type": "string", "enableWhen": [{"question": "gone", "operator": "exists", "answerBoolean": true}]}
  ]
}`

const intakeScript = `
steps:
  - op: create
    type: group
    linkId: general
  - op: create
    type: choice
    linkId: smokes
    parent: [general]
  - op: update
    linkId: smokes
    property: text
    value: Do you smoke?
  - op: useValueSet
    linkId: smokes
    valueSet: pre-yes-no
  - op: create
    type: open-choice
    linkId: mood
  - op: appendOption
    linkId: mood
    display: Good
  - op: appendOption
    linkId: mood
    display: Bad
  - op: create
    type: integer
    linkId: packs
    parent: [general]
  - op: update
    linkId: packs
    property: enableWhen
    value:
      - question: smokes
        operator: "="
        answerCoding: {system: "http://terminology.hl7.org/CodeSystem/v2-0136", code: "Y"}
  - op: metadata
    property: status
    value: active
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("APP_ENV", "development")
	t.Setenv("LOGGER_LEVEL", "error")
	t.Setenv("METRICS_FILE", "")

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestValidateCommand(t *testing.T) {
	t.Run("Clean Document", func(t *testing.T) {
		out, _, err := runCLI(t, "validate", writeFile(t, "q.json", emptyDocument))
		assert.NoError(t, err, "a document without findings should pass")
		assert.Empty(t, out)
	})

	t.Run("Dangling Rule", func(t *testing.T) {
		path := writeFile(t, "q.json", danglingDocument)
		out, _, err := runCLI(t, "validate", path)
		assert.ErrorIs(t, err, ErrFindings, "findings should make the command fail")
		assert.Equal(t, "b: enableWhen.question[0]\n", out)

		out, _, err = runCLI(t, "validate", "--json", path)
		assert.ErrorIs(t, err, ErrFindings)
		assert.Equal(t, "b", gjson.Get(out, "0.linkId").String())
		assert.Equal(t, int64(0), gjson.Get(out, "0.index").Int())
	})

	t.Run("Malformed Document", func(t *testing.T) {
		_, _, err := runCLI(t, "validate", writeFile(t, "q.json", `{"resourceType": "Patient"}`))
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrFindings, "decode failures are not findings")
	})
}

func TestMetricsFile(t *testing.T) {
	t.Run("Written After Command", func(t *testing.T) {
		metricsPath := filepath.Join(t.TempDir(), "qbuilder.prom")
		_, _, err := runCLI(t, "normalize", "--metrics-file", metricsPath, writeFile(t, "q.json", danglingDocument))
		require.NoError(t, err)

		raw, err := os.ReadFile(metricsPath)
		require.NoError(t, err, "the metrics file should exist")
		assert.Contains(t, string(raw), "qbuilder_session_operations_total", "session counters should be exported")
		assert.Contains(t, string(raw), `operation="import"`)
		assert.Contains(t, string(raw), "qbuilder_session_items 2", "the item gauge should reflect the document")
	})

	t.Run("Written When Findings Fail The Command", func(t *testing.T) {
		metricsPath := filepath.Join(t.TempDir(), "qbuilder.prom")
		_, _, err := runCLI(t, "validate", "--metrics-file", metricsPath, writeFile(t, "q.json", danglingDocument))
		require.ErrorIs(t, err, ErrFindings)

		raw, err := os.ReadFile(metricsPath)
		require.NoError(t, err, "a failed command should still write its metrics")
		assert.Contains(t, string(raw), "qbuilder_session_findings 1")
	})

	t.Run("Unwritable Path", func(t *testing.T) {
		metricsPath := filepath.Join(t.TempDir(), "missing", "qbuilder.prom")
		_, _, err := runCLI(t, "validate", "--metrics-file", metricsPath, writeFile(t, "q.json", emptyDocument))
		assert.Error(t, err, "a metrics file that cannot be written should fail the command")
	})
}

func TestNormalizeCommand(t *testing.T) {
	first, _, err := runCLI(t, "normalize", writeFile(t, "q.json", danglingDocument))
	require.NoError(t, err)

	second, _, err := runCLI(t, "normalize", writeFile(t, "q.json", first))
	require.NoError(t, err)
	assert.Equal(t, first, second, "normalizing a normalized document should change nothing")

	output := filepath.Join(t.TempDir(), "out.json")
	_, _, err = runCLI(t, "normalize", writeFile(t, "q.json", danglingDocument), "-o", output)
	require.NoError(t, err)
	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, first, string(written), "writing to a file should produce the same document")
}

func TestApplyCommand(t *testing.T) {
	doc := writeFile(t, "q.json", emptyDocument)

	t.Run("Intake Script", func(t *testing.T) {
		out, errOut, err := runCLI(t, "apply", doc, "--script", writeFile(t, "ops.yaml", intakeScript), "--id-prefix", "t")
		require.NoError(t, err, errOut)

		assert.Equal(t, "active", gjson.Get(out, "status").String())
		assert.Equal(t, "pre-yes-no", gjson.Get(out, "contained.0.id").String(), "the library set should be pinned")
		assert.Equal(t, "general", gjson.Get(out, "item.0.linkId").String())
		assert.Equal(t, "#pre-yes-no", gjson.Get(out, "item.0.item.0.answerValueSet").String())
		assert.Equal(t, "Do you smoke?", gjson.Get(out, "item.0.item.0.text").String())
		assert.Equal(t, "Y", gjson.Get(out, "item.0.item.1.enableWhen.0.answerCoding.code").String())
		assert.Equal(t, []string{"t-1", "t-3"}, []string{
			gjson.Get(out, "item.1.answerOption.0.valueCoding.code").String(),
			gjson.Get(out, "item.1.answerOption.1.valueCoding.code").String(),
		}, "option codes should come from the generator")
		assert.Equal(t, "t-2-system", gjson.Get(out, "item.1.answerOption.1.valueCoding.system").String(), "options should share one system")
		assert.Empty(t, errOut, "the result should have no findings")
	})

	t.Run("Authored Value Set And Remapped Duplicate", func(t *testing.T) {
		script := writeFile(t, "ops.yaml", `
steps:
  - op: create
    type: group
    linkId: g
  - op: create
    type: boolean
    linkId: c
    parent: [g]
  - op: create
    type: choice
    linkId: d
    parent: [g]
  - op: update
    linkId: d
    property: enableWhen
    value:
      - {question: c, operator: "=", answerBoolean: true}
  - op: createValueSet
    linkId: d
    value:
      title: Pain
      system: "urn:pain"
      concepts:
        - {code: none}
        - {code: severe, display: Severe}
  - op: duplicate
    linkId: g
    remap: true
`)
		out, errOut, err := runCLI(t, "apply", doc, "--script", script, "--id-prefix", "t")
		require.NoError(t, err, errOut)

		assert.Equal(t, "pre-t-1", gjson.Get(out, "contained.0.id").String(), "authored sets should get a pre- id")
		assert.Equal(t, "1.0", gjson.Get(out, "contained.0.version").String())
		assert.Equal(t, "#pre-t-1", gjson.Get(out, "item.0.item.1.answerValueSet").String())
		assert.Equal(t, "t-2", gjson.Get(out, "item.1.linkId").String(), "the copy should follow the original")
		assert.Equal(t, "t-3", gjson.Get(out, "item.1.item.1.enableWhen.0.question").String(), "remapped rules should target the copies")
		assert.Equal(t, "#pre-t-1", gjson.Get(out, "item.1.item.1.answerValueSet").String())
	})

	t.Run("Rejected Step", func(t *testing.T) {
		script := writeFile(t, "ops.yaml", `
steps:
  - op: create
    type: display
    linkId: note
  - op: create
    type: string
    linkId: child
    parent: [note]
`)
		out, _, err := runCLI(t, "apply", doc, "--script", script)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "step 2 (create)", "the failing step should be named")
		assert.Empty(t, out, "nothing should be written for a rejected script")
	})

	t.Run("Findings Go To Stderr", func(t *testing.T) {
		script := writeFile(t, "ops.yaml", `
steps:
  - op: delete
    linkId: a
`)
		out, errOut, err := runCLI(t, "apply", writeFile(t, "q.json", danglingDocument), "--script", script)
		require.NoError(t, err)
		assert.Equal(t, "b", gjson.Get(out, "item.0.linkId").String())
		assert.Equal(t, "b: enableWhen.question[0]\n", errOut)
	})

	t.Run("Missing Script Flag", func(t *testing.T) {
		_, _, err := runCLI(t, "apply", doc)
		assert.Error(t, err)
	})
}

func TestTreeCommand(t *testing.T) {
	doc := writeFile(t, "q.json", `{
  "resourceType": "Questionnaire",
  "status": "draft",
  "item": [
    {"linkId": "g", "type": "group", "text": "General", "item": [
      {"linkId": "name", "type": "string", "text": "Name"}
    ]},
    {"linkId": "bye", "type": "display"}
  ]
}`)
	out, _, err := runCLI(t, "tree", doc)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"g [group] General",
		"  name [string] Name",
		"bye [display]",
	}, "\n")+"\n", out)
}

func TestLibraryCommand(t *testing.T) {
	out, _, err := runCLI(t, "library")
	require.NoError(t, err)
	assert.Contains(t, out, "pre-yes-no\tYes / No\t2 codes\n")

	out, _, err = runCLI(t, "library", "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "id: pre-administrative-gender")

	_, _, err = runCLI(t, "library", "--library", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an unreadable library file should stop the command")
}

func TestParseScript(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"No Steps", "steps: []\n"},
		{"Unknown Op", "steps:\n  - op: explode\n"},
		{"Missing Op", "steps:\n  - linkId: a\n"},
		{"Malformed", "steps: [\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tc.raw))
			assert.Error(t, err)
		})
	}

	script, err := ParseScript([]byte(intakeScript))
	require.NoError(t, err)
	assert.Len(t, script.Steps, 10)
}
