package sampling

import (
	"context"

	"github.com/ecopia-map/hge_sampler/internal/io"
	"github.com/ecopia-map/hge_sampler/internal/point_loader"
)

// Sampler consumes the point streams of a batch run and produces its output once every file
// was handled
type Sampler interface {
	io.StreamHandler

	// Fields returns the field groups every input file must declare
	Fields() point_loader.FieldSet

	// Finish writes the output. It is called once, after the last HandleStream returned.
	Finish(ctx context.Context) error
}
