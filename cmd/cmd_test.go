package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so runs do not leak state.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"ONCOMARK_MODEL", "ONCOMARK_FORMAT", "ONCOMARK_TOP", "ONCOMARK_WORKERS", "ONCOMARK_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestClassify_JSON(t *testing.T) {
	out, err := run(t, "classify", "--patient", "Alice", "--he4", "180", "--afp", "6", "--ca199", "22", "--format", "json", "--top", "2")
	require.NoError(t, err)

	var rep struct {
		Patient string `json:"patient"`
		Best    struct {
			Class string `json:"class"`
		} `json:"best"`
		Ranked []json.RawMessage `json:"ranked"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "Alice", rep.Patient)
	assert.Equal(t, "Ovarian_Early", rep.Best.Class)
	assert.Len(t, rep.Ranked, 2)
}

func TestClassify_Table(t *testing.T) {
	out, err := run(t, "classify", "--he4", "70", "--afp", "8", "--ca199", "6000")
	require.NoError(t, err)
	assert.Contains(t, out, "Predicted class: Pancreatic Stage IV")
}

func TestClassify_MissingMarkerFails(t *testing.T) {
	out, err := run(t, "classify", "--he4", "60", "--ca199", "20", "--format", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AFP")
	assert.Contains(t, out, `"error"`)
	assert.NotContains(t, out, `"best"`)
}

func TestClasses(t *testing.T) {
	out, err := run(t, "classes")
	require.NoError(t, err)
	for _, id := range []string{"Ovarian_Early", "Liver_Stage_II_III", "Pancreatic_Stage_IV"} {
		assert.Contains(t, out, id)
	}
}

func TestBatch_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panels.csv")
	csv := "patient,HE4,AFP,CA19-9\nAlice,180,6,22\nGrace,70,6000,24\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	out, err := run(t, "batch", path, "--format", "json", "--workers", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"patient":"Alice"`)
	assert.Contains(t, lines[1], `"class":"Liver_Stage_IV"`)
}

func TestBatch_ReportsFailedPanels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panels.csv")
	csv := "patient,HE4,AFP,CA19-9\nAlice,180,6,22\nPat,60,,20\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	out, err := run(t, "batch", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, out, "Patient: Alice")
	assert.Contains(t, out, "2 patients, 1 failed")
}

func TestExplain_JSON(t *testing.T) {
	out, err := run(t, "explain", "--he4", "151", "--afp", "5", "--ca199", "500", "--class", "Ovarian_Early", "--format", "json")
	require.NoError(t, err)

	var ex struct {
		Class string `json:"class"`
		Terms []struct {
			Background bool `json:"background"`
		} `json:"terms"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &ex))
	assert.Equal(t, "Ovarian_Early", ex.Class)
	require.Len(t, ex.Terms, 3)
	assert.False(t, ex.Terms[0].Background)
	assert.True(t, ex.Terms[2].Background)
}

func TestExplain_UnknownClass(t *testing.T) {
	_, err := run(t, "explain", "--he4", "60", "--afp", "5", "--ca199", "20", "--class", "NotARealClass")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NotARealClass")
}

func TestModelFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	model := `version: v1.0.0
healthy:
  HE4: {mean: 60, variance: 225}
  AFP: {mean: 5, variance: 9}
  CA19-9: {mean: 20, variance: 100}
classes:
  - {id: Only_Class, signal: AFP, mean: 100, variance: 7500}
`
	require.NoError(t, os.WriteFile(path, []byte(model), 0o644))

	out, err := run(t, "classes", "--model", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Only_Class")
	assert.NotContains(t, out, "Ovarian_Early")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("version: v1\nclasses: []\n"), 0o644))
	_, err = run(t, "classes", "--model", bad)
	assert.Error(t, err)
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, "classes", "--format", "xml")
	assert.Error(t, err)
}

func TestIsTerminal_NonTTYWriters(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f), "a regular file is not a terminal")
}
