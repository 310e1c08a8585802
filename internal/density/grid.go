package density

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultGridName = "HGE"

	// grid class recorded with a stored grid, values are sample counts on the voxel lattice
	GridClassStaggered = "staggered"
)

// Coord is the integer index of a voxel
type Coord struct {
	X, Y, Z int32
}

func (c Coord) less(o Coord) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.Z < o.Z
}

// Grid is a sparse voxel grid accumulating one count per point falling into each voxel.
// It is safe for concurrent use.
type Grid struct {
	name          string
	voxelsPerUnit float32
	cells         map[Coord]float32
	sync.RWMutex
}

// NewGrid creates an empty grid whose voxels have edge 1/voxelsPerUnit
func NewGrid(name string, voxelsPerUnit float32) *Grid {
	return &Grid{
		name:          name,
		voxelsPerUnit: voxelsPerUnit,
		cells:         make(map[Coord]float32),
	}
}

func (g *Grid) Name() string {
	return g.name
}

func (g *Grid) VoxelsPerUnit() float32 {
	return g.voxelsPerUnit
}

// VoxelSize returns the edge length of a voxel
func (g *Grid) VoxelSize() float64 {
	return 1 / float64(g.voxelsPerUnit)
}

// CoordOf returns the voxel containing p. Each component is scaled then truncated toward zero,
// so voxels on both sides of an axis share index 0.
func (g *Grid) CoordOf(p mgl32.Vec3) Coord {
	return Coord{
		X: int32(p[0] * g.voxelsPerUnit),
		Y: int32(p[1] * g.voxelsPerUnit),
		Z: int32(p[2] * g.voxelsPerUnit),
	}
}

// AddPoint increments the voxel containing p
func (g *Grid) AddPoint(p mgl32.Vec3) {
	g.Add(g.CoordOf(p), 1)
}

// AddPointsFunc increments the voxel of position(i) for every i in [0, n), holding the lock once
func (g *Grid) AddPointsFunc(n int, position func(i int) mgl32.Vec3) {
	g.Lock()
	defer g.Unlock()
	for i := 0; i < n; i++ {
		g.cells[g.CoordOf(position(i))]++
	}
}

func (g *Grid) Add(c Coord, value float32) {
	g.Lock()
	g.cells[c] += value
	g.Unlock()
}

// Value returns the value of the voxel at c, zero for voxels never touched
func (g *Grid) Value(c Coord) float32 {
	g.RLock()
	defer g.RUnlock()
	return g.cells[c]
}

// Len returns the number of active voxels
func (g *Grid) Len() int {
	g.RLock()
	defer g.RUnlock()
	return len(g.cells)
}

// Total returns the sum of all voxel values
func (g *Grid) Total() float64 {
	g.RLock()
	defer g.RUnlock()
	var total float64
	for _, v := range g.cells {
		total += float64(v)
	}
	return total
}

// Merge adds every voxel of other into g. Both grids must share the same resolution.
func (g *Grid) Merge(other *Grid) error {
	if other == g {
		return fmt.Errorf("cannot merge grid %q into itself", g.name)
	}
	if other.voxelsPerUnit != g.voxelsPerUnit {
		return fmt.Errorf("cannot merge grid with %v voxels per unit into grid with %v", other.voxelsPerUnit, g.voxelsPerUnit)
	}

	other.RLock()
	defer other.RUnlock()
	g.Lock()
	defer g.Unlock()

	for c, v := range other.cells {
		g.cells[c] += v
	}
	return nil
}

// ForEach calls fn for every active voxel ordered by x, y then z
func (g *Grid) ForEach(fn func(c Coord, value float32) error) error {
	type voxel struct {
		coord Coord
		value float32
	}

	g.RLock()
	voxels := make([]voxel, 0, len(g.cells))
	for c, v := range g.cells {
		voxels = append(voxels, voxel{c, v})
	}
	g.RUnlock()

	sort.Slice(voxels, func(i, j int) bool { return voxels[i].coord.less(voxels[j].coord) })
	for _, v := range voxels {
		if err := fn(v.coord, v.value); err != nil {
			return err
		}
	}
	return nil
}
