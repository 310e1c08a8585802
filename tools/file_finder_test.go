package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopia-map/hge_sampler/internal/runner"
)

func TestFileFinder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ply"), []byte("ply\n"), 0o644))
	list := filepath.Join(dir, "point_clouds.txt")
	require.NoError(t, os.WriteFile(list, []byte("a.ply 0 0 0 1 0 0 0\nb.ply 0 0 0 1 0 0 0\n"), 0o644))

	finder := NewStandardFileFinder()

	_, err := finder.GetFilesToProcess(&runner.Options{List: list})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b.ply")

	entries, err := finder.GetFilesToProcess(&runner.Options{List: list, KeepGoing: true})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, filepath.Join(dir, "a.ply"), entries[0].Filename)
}

func TestFileFinderEmptyList(t *testing.T) {
	list := filepath.Join(t.TempDir(), "point_clouds.txt")
	require.NoError(t, os.WriteFile(list, []byte("# nothing yet\n"), 0o644))

	_, err := NewStandardFileFinder().GetFilesToProcess(&runner.Options{List: list})
	assert.ErrorContains(t, err, "no entries")
}

func TestFilenameHelpers(t *testing.T) {
	assert.Equal(t, "scan_000", GetFilenameWithoutExtension("/data/scan_000.ply"))
	assert.Equal(t, `["a","b"]`, FmtJSONString([]string{"a", "b"}))

	dir := filepath.Join(t.TempDir(), "x", "y")
	require.NoError(t, CreateParentDirectory(filepath.Join(dir, "out.txt")))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
