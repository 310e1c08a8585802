package point_loader

import (
	"path/filepath"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/ecopia-map/hge_sampler/internal/geometry"
	"github.com/ecopia-map/hge_sampler/internal/ply"
)

// LoadPointStream loads the file at path and binds it to transform. Only the field groups in
// required must be present.
func LoadPointStream(path string, transform geometry.RigidTransform, required FieldSet) (*PointStream, error) {
	glog.V(1).Infoln("> loading file", filepath.Base(path))

	file, err := ply.LoadFile(path)
	if err != nil {
		instrumentLoadFailure(err)
		return nil, err
	}

	stream, err := NewPointStreamWithFields(file, transform, required)
	if err != nil {
		instrumentLoadFailure(err)
		return nil, errors.WithMessage(err, path)
	}

	instrumentLoad(file, stream)
	glog.V(1).Infof("> loaded %d points from %s (fields: %s)", stream.Size(), filepath.Base(path), stream.Fields())

	return stream, nil
}
