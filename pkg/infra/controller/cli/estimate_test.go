package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimateWritesDefaultJSON(t *testing.T) {
	dir := t.TempDir()
	input := copyFixture(t, dir, "walk.bvh")

	out, logs, err := executeCommand(t, "estimate", input)
	require.NoError(t, err)

	outputPath := filepath.Join(dir, "walk_humanoid.json")
	require.FileExists(t, outputPath)
	require.Contains(t, out, "[OK]")
	require.Contains(t, out, outputPath)
	require.Contains(t, logs, "骨格推定完了")

	b, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	require.Contains(t, string(b), `"bone": "Hips"`)
}

func TestEstimateInfersFormatFromOutputPath(t *testing.T) {
	dir := t.TempDir()
	input := copyFixture(t, dir, "walk.bvh")
	outputPath := filepath.Join(dir, "out", "mapping.yaml")

	_, _, err := executeCommand(t, "estimate", input, "--out", outputPath)
	require.NoError(t, err)

	b, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(b), "bones:"))
}

func TestEstimatePrintsTable(t *testing.T) {
	dir := t.TempDir()
	input := copyFixture(t, dir, "walk.bvh")

	out, _, err := executeCommand(t, "estimate", input, "--format", "text", "--print")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "walk_humanoid.txt"))
	require.Contains(t, out, "LeftUpperLeg")
	require.Contains(t, out, "LeftUpLeg")
}

func TestEstimateErrors(t *testing.T) {
	dir := t.TempDir()
	input := copyFixture(t, dir, "walk.bvh")

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing argument", args: []string{"estimate"}},
		{name: "unknown format", args: []string{"estimate", input, "--format", "xml"}},
		{name: "extension mismatch", args: []string{"estimate", input, "--format", "json", "--out", filepath.Join(dir, "x.yaml")}},
		{name: "missing file", args: []string{"estimate", filepath.Join(dir, "missing.bvh")}},
		{name: "unsupported input", args: []string{"estimate", filepath.Join(dir, "walk.fbx")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeCommand(t, tt.args...)
			require.Error(t, err)
		})
	}
}

func TestEstimateDebugLogLevel(t *testing.T) {
	dir := t.TempDir()
	input := copyFixture(t, dir, "walk.bvh")

	_, logs, err := executeCommand(t, "--log-level", "debug", "estimate", input)
	require.NoError(t, err)
	require.Contains(t, logs, "DEBUG")
}
