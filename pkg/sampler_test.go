package pkg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopia-map/hge_sampler/internal/density"
	"github.com/ecopia-map/hge_sampler/internal/export"
	"github.com/ecopia-map/hge_sampler/internal/runner"
	"github.com/ecopia-map/hge_sampler/internal/testutils"
	"github.com/ecopia-map/hge_sampler/pkg/algorithm_manager/std_algorithm_manager"
	"github.com/ecopia-map/hge_sampler/tools"
)

type fixture struct {
	dir  string
	list []string
}

func newFixture(t *testing.T) *fixture {
	return &fixture{dir: t.TempDir()}
}

// cloud adds a file of n points at (base+i, 0, 0) to the list, translated by ty along Y
func (f *fixture) cloud(t *testing.T, name string, n int, base float32, ty float32) {
	b := testutils.NewPlyBuilder().VertexElement(n)
	for i := 0; i < n; i++ {
		b.Vertex(base+float32(i), 0, 0, 10, 20, 30, 0, 0, 1)
	}
	b.WriteFile(t, f.dir, name)
	f.list = append(f.list, fmt.Sprintf("%s 0 %v 0 1 0 0 0", name, ty))
}

func (f *fixture) corrupt(t *testing.T, name string) {
	b := testutils.NewPlyBuilder().VertexElement(4).Vertex(0, 0, 0, 0, 0, 0, 0, 0, 1)
	b.WriteFile(t, f.dir, name)
	f.list = append(f.list, name+" 0 0 0 1 0 0 0")
}

func (f *fixture) writeList(t *testing.T) string {
	path := filepath.Join(f.dir, "point_clouds.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(f.list, "\n")+"\n"), 0o644))
	return path
}

func pointsOptions(list, output string, ratio int, format export.Format) *runner.Options {
	return &runner.Options{
		Mode:          runner.ModePoints,
		List:          list,
		Output:        output,
		Workers:       3,
		PointsOptions: &runner.PointsOptions{Ratio: ratio, Format: format},
	}
}

func run(opts *runner.Options) error {
	return NewSampler(tools.NewStandardFileFinder(), std_algorithm_manager.NewAlgorithmManager(opts)).
		Run(context.Background(), opts)
}

func TestSamplePointsInListOrder(t *testing.T) {
	f := newFixture(t)
	f.cloud(t, "a.ply", 5, 0, 0)
	f.cloud(t, "b.ply", 3, 100, 7)
	f.cloud(t, "c.ply", 1, 200, 0)
	output := filepath.Join(f.dir, "out", "samples.txt")

	require.NoError(t, run(pointsOptions(f.writeList(t), output, 2, export.FormatText)))

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"0 0 0 10 20 30 0 1 0",
		"2 0 0 10 20 30 0 1 0",
		"4 0 0 10 20 30 0 1 0",
		"100 0 7 10 20 30 0 1 0",
		"102 0 7 10 20 30 0 1 0",
		"200 0 0 10 20 30 0 1 0",
	}, "\n")+"\n", string(content))
}

func TestFailingFileStopsRun(t *testing.T) {
	f := newFixture(t)
	f.cloud(t, "a.ply", 2, 0, 0)
	f.corrupt(t, "broken.ply")
	output := filepath.Join(f.dir, "samples.obj")

	err := run(pointsOptions(f.writeList(t), output, 1, export.FormatObj))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.ply")

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no output after a failure")
}

func TestKeepGoingWritesRemainingFiles(t *testing.T) {
	f := newFixture(t)
	f.cloud(t, "a.ply", 2, 0, 0)
	f.corrupt(t, "broken.ply")
	f.list = append(f.list, "missing.ply 0 0 0 1 0 0 0")
	f.cloud(t, "c.ply", 1, 9, 0)
	output := filepath.Join(f.dir, "samples.obj")
	metrics := filepath.Join(f.dir, "hge.prom")

	opts := pointsOptions(f.writeList(t), output, 1, export.FormatObj)
	opts.KeepGoing = true
	opts.MetricsFile = metrics

	err := run(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 4 files failed")

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "v 0 0 0\nv 1 0 0\nv 9 0 0\n", string(content))

	exposition, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(exposition), "hge_files_loaded_total")
	assert.Contains(t, string(exposition), `hge_load_failures_total{reason="truncated"}`)
	assert.Contains(t, string(exposition), "hge_files_failed 2")
}

func TestMissingListedFileFailsUpFront(t *testing.T) {
	f := newFixture(t)
	f.cloud(t, "a.ply", 2, 0, 0)
	f.list = append(f.list, "missing.ply 0 0 0 1 0 0 0")

	err := run(pointsOptions(f.writeList(t), filepath.Join(f.dir, "out.txt"), 1, export.FormatText))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.ply")
}

func TestDensityRun(t *testing.T) {
	f := newFixture(t)
	f.cloud(t, "a.ply", 4, 0, 0)
	f.cloud(t, "b.ply", 4, 0, 0)
	output := filepath.Join(f.dir, "hge_volume.db")

	opts := &runner.Options{
		Mode:           runner.ModeDensity,
		List:           f.writeList(t),
		Output:         output,
		Workers:        2,
		DensityOptions: &runner.DensityOptions{VoxelsPerUnit: 0.5, GridName: density.DefaultGridName},
	}
	require.NoError(t, run(opts))

	grid, err := density.LoadSQLite(context.Background(), output, density.DefaultGridName)
	require.NoError(t, err)
	assert.Equal(t, 2, grid.Len())
	assert.Equal(t, float32(4), grid.Value(density.Coord{X: 0}))
	assert.Equal(t, float32(4), grid.Value(density.Coord{X: 1}))
}
