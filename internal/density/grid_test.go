package density

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordOfTruncatesTowardZero(t *testing.T) {
	g := NewGrid(DefaultGridName, 2)

	assert.Equal(t, Coord{0, 0, 0}, g.CoordOf(mgl32.Vec3{0.4, -0.4, 0}))
	assert.Equal(t, Coord{1, -1, 3}, g.CoordOf(mgl32.Vec3{0.5, -0.5, 1.75}))
	assert.Equal(t, Coord{-3, 4, 0}, g.CoordOf(mgl32.Vec3{-1.9, 2.2, 0.49}))
	assert.Equal(t, 0.5, g.VoxelSize())
}

func TestAddPointCounts(t *testing.T) {
	g := NewGrid(DefaultGridName, 1)
	g.AddPoint(mgl32.Vec3{0.1, 0.1, 0.1})
	g.AddPoint(mgl32.Vec3{0.9, 0.2, 0.3})
	g.AddPoint(mgl32.Vec3{-0.9, 0.2, 0.3})
	g.AddPoint(mgl32.Vec3{5, 5, 5})

	assert.Equal(t, float32(3), g.Value(Coord{0, 0, 0}))
	assert.Equal(t, float32(1), g.Value(Coord{5, 5, 5}))
	assert.Equal(t, float32(0), g.Value(Coord{1, 1, 1}))
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, 4.0, g.Total())
}

func TestAddPointsFuncMatchesAddPoint(t *testing.T) {
	points := []mgl32.Vec3{{0.1, 0.1, 0.1}, {0.9, 0.2, 0.3}, {-0.9, 0.2, 0.3}, {5, 5, 5}, {-2.5, 1, 0}}

	one := NewGrid(DefaultGridName, 2)
	for _, p := range points {
		one.AddPoint(p)
	}
	batch := NewGrid(DefaultGridName, 2)
	batch.AddPointsFunc(len(points), func(i int) mgl32.Vec3 { return points[i] })

	assert.Equal(t, one.Len(), batch.Len())
	assert.Equal(t, one.Total(), batch.Total())
	require.NoError(t, one.ForEach(func(c Coord, v float32) error {
		assert.Equal(t, v, batch.Value(c), "voxel %v", c)
		return nil
	}))

	batch.AddPointsFunc(0, func(int) mgl32.Vec3 { panic("not called") })
	assert.Equal(t, 5.0, batch.Total())
}

func TestMerge(t *testing.T) {
	shared := NewGrid(DefaultGridName, 4)
	shared.Add(Coord{1, 2, 3}, 2)

	local := NewGrid("local", 4)
	local.Add(Coord{1, 2, 3}, 1)
	local.Add(Coord{-1, 0, 0}, 5)

	require.NoError(t, shared.Merge(local))
	assert.Equal(t, float32(3), shared.Value(Coord{1, 2, 3}))
	assert.Equal(t, float32(5), shared.Value(Coord{-1, 0, 0}))
	assert.Equal(t, 2, local.Len(), "merge leaves the source untouched")

	assert.Error(t, shared.Merge(NewGrid("coarse", 1)))
	assert.Error(t, shared.Merge(shared))
}

func TestForEachIsOrdered(t *testing.T) {
	g := NewGrid(DefaultGridName, 1)
	for _, c := range []Coord{{2, 0, 0}, {0, 1, 0}, {0, 0, 5}, {-1, 9, 9}, {0, 0, -5}} {
		g.Add(c, 1)
	}

	var visited []Coord
	require.NoError(t, g.ForEach(func(c Coord, _ float32) error {
		visited = append(visited, c)
		return nil
	}))
	assert.Equal(t, []Coord{{-1, 9, 9}, {0, 0, -5}, {0, 0, 5}, {0, 1, 0}, {2, 0, 0}}, visited)
}

func TestConcurrentAdds(t *testing.T) {
	g := NewGrid(DefaultGridName, 1)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				g.AddPoint(mgl32.Vec3{float32(i % 10), 0, 0})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, g.Len())
	assert.Equal(t, 8000.0, g.Total())
	assert.Equal(t, float32(800), g.Value(Coord{3, 0, 0}))
}
