package cli

import (
	"path/filepath"
	"testing"

	"github.com/miu200521358/mu_bvh2humanoid/pkg/usecase/port/moutput"
	"github.com/stretchr/testify/require"
)

func TestBatchEstimatesEveryFile(t *testing.T) {
	dir := t.TempDir()
	copyFixture(t, dir, "a.bvh")
	copyFixture(t, dir, filepath.Join("sub", "b.bvh"))

	out, _, err := executeCommand(t, "batch", dir)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "a_humanoid.json"))
	require.FileExists(t, filepath.Join(dir, "sub", "b_humanoid.json"))
	require.Contains(t, out, "合計=2 成功=2 失敗=0")
}

func TestBatchOutputDirKeepsLayout(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	copyFixture(t, dir, filepath.Join("sub", "b.bvh"))

	_, _, err := executeCommand(t, "batch", dir, "--out-dir", outDir, "--format", "yaml")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(outDir, "sub", "b_humanoid.yaml"))
}

func TestBatchReportsFailures(t *testing.T) {
	dir := t.TempDir()
	writeBrokenBvh(t, dir, "a.bvh")
	copyFixture(t, dir, "b.bvh")

	out, _, err := executeCommand(t, "batch", dir)
	require.Error(t, err)
	require.Contains(t, out, "[FAILED]")
	require.Contains(t, out, "合計=2 成功=1 失敗=1")
	require.FileExists(t, filepath.Join(dir, "b_humanoid.json"))
}

func TestBatchFailFastSkipsRemaining(t *testing.T) {
	dir := t.TempDir()
	writeBrokenBvh(t, dir, "a.bvh")
	copyFixture(t, dir, "b.bvh")

	out, _, err := executeCommand(t, "batch", dir, "--fail-fast")
	require.Error(t, err)
	require.Contains(t, out, "[SKIPPED]")
	require.NoFileExists(t, filepath.Join(dir, "b_humanoid.json"))
}

func TestBatchDryRunDoesNotSave(t *testing.T) {
	dir := t.TempDir()
	copyFixture(t, dir, "a.bvh")

	out, _, err := executeCommand(t, "batch", dir, "--dry-run")
	require.NoError(t, err)
	require.Contains(t, out, "[DRY-RUN]")
	require.NoFileExists(t, filepath.Join(dir, "a_humanoid.json"))
}

func TestBatchWithoutInputs(t *testing.T) {
	_, _, err := executeCommand(t, "batch", t.TempDir())
	require.Error(t, err)
}

func TestBatchOutputPath(t *testing.T) {
	input := filepath.Join("in", "sub", "walk.bvh")
	require.Equal(t, "", batchOutputPath("in", "", input, moutput.MappingFormatJSON))
	require.Equal(t,
		filepath.Join("out", "sub", "walk_humanoid.txt"),
		batchOutputPath("in", "out", input, moutput.MappingFormatText),
	)
}
