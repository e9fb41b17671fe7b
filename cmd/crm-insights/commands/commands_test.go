package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePath = "../../../internal/testdata/snapshot.json"

func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("DATA_PATH", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestReportCommand_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	execute(t, "report", "--snapshot", fixturePath, "--format", "json", "--horizon", "3", "-o", path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded struct {
		Period    string                       `json:"period"`
		Forecasts map[string][]json.RawMessage `json:"forecasts"`
		Insights  []json.RawMessage            `json:"insights"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "month", decoded.Period)
	assert.Len(t, decoded.Forecasts["revenue"], 3)
	assert.Len(t, decoded.Insights, 5)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestReportCommand_Stdout(t *testing.T) {
	out := execute(t, "report", "--snapshot", fixturePath, "--format", "markdown", "-o", "-")
	assert.Contains(t, out, "# Business Insights Report")
}

func TestSchemaCommand(t *testing.T) {
	out := execute(t, "schema")

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Contains(t, schema, "properties")
}

func TestVersionCommand(t *testing.T) {
	out := execute(t, "version")
	assert.Contains(t, out, "crm-insights dev")
}

func TestReportCommand_Decay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	execute(t, "report", "--snapshot", fixturePath, "--format", "json", "--horizon", "4",
		"--decay-initial", "0.8", "--decay-floor", "0.6", "--decay-range", "0.2", "-o", path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded struct {
		Forecasts map[string][]struct {
			Confidence float64 `json:"confidence"`
		} `json:"forecasts"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	revenue := decoded.Forecasts["revenue"]
	require.Len(t, revenue, 4)
	assert.Equal(t, 0.8, revenue[0].Confidence)
	assert.Equal(t, 0.65, revenue[3].Confidence)
}
