package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "dev")
}

func TestPitchesListsDefaultSet(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "pitches")
	require.NoError(t, err)
	assert.Contains(t, stdout, "cmajor (8 pitches)")
	assert.Contains(t, stdout, "A4")
	assert.Contains(t, stdout, "440.00 Hz")
}

func TestPitchesJSONOutput(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "pitches", "--json")
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"midi\": 69")
	assert.Contains(t, stdout, "\"name\": \"A4\"")
}

func TestPitchesUnknownSetFails(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "pitches", "--pitch-set", "mixolydian")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pitch set")
}

func TestPitchesReadsConfiguredSetFile(t *testing.T) {
	configHome := t.TempDir()
	require.NoError(t, writePitchSetsFixture(configHome))

	stdout, _, err := executeCLI(t, configHome, "pitches", "--pitch-set", "fifths")
	require.NoError(t, err)
	assert.Contains(t, stdout, "fifths (3 pitches)")
	assert.Contains(t, stdout, "G4")
}

func TestRenderWritesWAVFiles(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "tones")

	stdout, _, err := executeCLI(t, t.TempDir(),
		"render", "--out", outDir, "--note-duration", "50ms")
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 8)

	data, err := os.ReadFile(filepath.Join(outDir, "A4.wav"))
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data[0:4]))
}

func TestRunRejectsInvalidTarget(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "run", "--mute", "--target", "H9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse target pitch")
}

func TestRunRejectsTargetOutsidePitchSet(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "run", "--mute", "--target", "C#4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in the pitch set")
}

func TestRunRejectsWindowLongerThanInterOnset(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "run", "--mute",
		"--inter-onset", "1s", "--window", "2s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds inter-onset interval")
}

func executeCLI(t *testing.T, configHome string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writePitchSetsFixture(configHome string) error {
	dir := filepath.Join(configHome, "pitchvigil")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	sets := `version = 1

[[sets]]
name = "fifths"
pitches = ["C4", "G4", "D5"]
`

	return os.WriteFile(filepath.Join(dir, "pitch_sets.toml"), []byte(sets), 0o644)
}
