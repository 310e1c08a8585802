package sampling

import (
	"context"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/ecopia-map/hge_sampler/internal/density"
	"github.com/ecopia-map/hge_sampler/internal/io"
	"github.com/ecopia-map/hge_sampler/internal/point_loader"
)

// DensityAccumulator counts the points of every file into a shared voxel grid which is stored
// as sqlite on Finish
type DensityAccumulator struct {
	grid   *density.Grid
	output string
}

func NewDensityAccumulator(gridName string, voxelsPerUnit float32, output string) (*DensityAccumulator, error) {
	if !(voxelsPerUnit > 0) {
		return nil, errors.Errorf("voxels per unit must be positive, got %v", voxelsPerUnit)
	}

	return &DensityAccumulator{
		grid:   density.NewGrid(gridName, voxelsPerUnit),
		output: output,
	}, nil
}

func (a *DensityAccumulator) Fields() point_loader.FieldSet {
	return point_loader.FieldPosition
}

func (a *DensityAccumulator) Grid() *density.Grid {
	return a.grid
}

// HandleStream counts the file into a grid of its own, then merges it into the shared grid
func (a *DensityAccumulator) HandleStream(unit *io.WorkUnit, stream *point_loader.PointStream) error {
	glog.V(1).Infoln("Adding density points...")

	local := density.NewGrid(a.grid.Name(), a.grid.VoxelsPerUnit())
	local.AddPointsFunc(stream.Size(), stream.Position)

	return a.grid.Merge(local)
}

func (a *DensityAccumulator) Finish(ctx context.Context) error {
	glog.V(1).Infof("> storing %d active voxels, voxel size %v", a.grid.Len(), a.grid.VoxelSize())
	return density.SaveSQLite(ctx, a.output, a.grid)
}
