package density

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridValues(t *testing.T, g *Grid) map[Coord]float32 {
	t.Helper()
	values := make(map[Coord]float32)
	require.NoError(t, g.ForEach(func(c Coord, v float32) error {
		values[c] = v
		return nil
	}))
	return values
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hge_volume.db")

	g := NewGrid(DefaultGridName, 4)
	g.Add(Coord{0, 0, 0}, 3)
	g.Add(Coord{-7, 12, 1}, 1)
	g.Add(Coord{1 << 20, -(1 << 20), 5}, 42)

	require.NoError(t, SaveSQLite(ctx, path, g))

	loaded, err := LoadSQLite(ctx, path, DefaultGridName)
	require.NoError(t, err)
	assert.Equal(t, DefaultGridName, loaded.Name())
	assert.Equal(t, float32(4), loaded.VoxelsPerUnit())
	assert.Equal(t, 0.25, loaded.VoxelSize())
	assert.Equal(t, gridValues(t, g), gridValues(t, loaded))
}

func TestSQLiteReplacesGridWithSameName(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "grids.db")

	first := NewGrid(DefaultGridName, 1)
	first.Add(Coord{1, 1, 1}, 1)
	other := NewGrid("other", 2)
	other.Add(Coord{2, 2, 2}, 2)
	require.NoError(t, SaveSQLite(ctx, path, first, other))

	second := NewGrid(DefaultGridName, 1)
	second.Add(Coord{3, 3, 3}, 9)
	require.NoError(t, SaveSQLite(ctx, path, second))

	loaded, err := LoadSQLite(ctx, path, DefaultGridName)
	require.NoError(t, err)
	assert.Equal(t, map[Coord]float32{{3, 3, 3}: 9}, gridValues(t, loaded))

	kept, err := LoadSQLite(ctx, path, "other")
	require.NoError(t, err)
	assert.Equal(t, map[Coord]float32{{2, 2, 2}: 2}, gridValues(t, kept))
}

func TestLoadSQLiteErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	_, err := LoadSQLite(ctx, filepath.Join(dir, "missing.db"), DefaultGridName)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)

	path := filepath.Join(dir, "grids.db")
	require.NoError(t, SaveSQLite(ctx, path, NewGrid(DefaultGridName, 1)))
	_, err = LoadSQLite(ctx, path, "absent")
	assert.True(t, errors.Is(err, ErrGridNotFound), "got %v", err)
}
