package pkg

import (
	"context"
	stdio "io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/ecopia-map/hge_sampler/internal/export"
	"github.com/ecopia-map/hge_sampler/internal/runner"
	"github.com/ecopia-map/hge_sampler/tools"
)

// Subsampler keeps a random share of the records of a text sample file
type Subsampler struct{}

func NewSubsampler() runner.IRunner {
	return &Subsampler{}
}

func (s *Subsampler) Run(ctx context.Context, opts *runner.Options) (err error) {
	subOpts := opts.SubsampleOptions
	seed := subOpts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	glog.V(1).Infof("> subsampling %s with keep ratio %v (seed %d)", filepath.Base(subOpts.Input), subOpts.Ratio, seed)

	in, err := os.Open(subOpts.Input)
	if err != nil {
		return errors.Wrap(err, "cannot open sample file")
	}
	defer func() {
		err = multierr.Append(err, in.Close())
	}()

	if err := tools.CreateParentDirectory(opts.Output); err != nil {
		return errors.Wrap(err, "cannot create output directory")
	}
	out, err := os.Create(opts.Output)
	if err != nil {
		return errors.Wrap(err, "cannot create subsample output")
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	var writer export.PointWriter
	if subOpts.Format == export.FormatBytes {
		if writer, err = export.NewWriter(export.FormatBytes, out); err != nil {
			return err
		}
	} else {
		writer = export.NewSpacedTextWriter(out)
	}

	reader := export.NewTextReader(in)
	rng := rand.New(rand.NewSource(seed))
	ratio := float32(subOpts.Ratio)
	total := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		p, err := reader.Next()
		if err == stdio.EOF {
			break
		}
		if err != nil {
			return errors.WithMessage(err, subOpts.Input)
		}
		total++

		if rng.Float32() < ratio {
			if err := writer.Write(p); err != nil {
				return errors.Wrapf(err, "cannot write %s", opts.Output)
			}
		}
	}

	if err := writer.Close(); err != nil {
		return errors.Wrapf(err, "cannot write %s", opts.Output)
	}

	glog.V(1).Infof("> kept %d of %d records in %s", writer.Count(), total, opts.Output)
	return nil
}
