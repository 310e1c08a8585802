package runner

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/ecopia-map/hge_sampler/internal/export"
)

type Mode string

const (
	// every n-th point of each listed file, written as obj, text or bytes
	ModePoints Mode = "POINTS"
	// point counts per voxel of all listed files, stored as a sqlite grid
	ModeDensity Mode = "DENSITY"
	// random subset of a text sample file
	ModeSubsample Mode = "SUBSAMPLE"
)

func ParseMode(value string) Mode {
	switch m := Mode(strings.Trim(strings.ToUpper(value), " ")); m {
	case ModePoints, ModeDensity, ModeSubsample:
		return m
	}
	return ""
}

// Contains the options needed for a run
type Options struct {
	Mode        Mode
	List        string // transform list: filename tx ty tz qw qx qy qz per line
	Output      string // output file
	Workers     int    // number of files loaded concurrently
	KeepGoing   bool   // process all files even after a failure and report failures at the end
	MetricsFile string // if set, load counters are written there in prometheus text format

	PointsOptions    *PointsOptions
	DensityOptions   *DensityOptions
	SubsampleOptions *SubsampleOptions
}

type PointsOptions struct {
	Ratio  int // keep points 0, Ratio, 2*Ratio, ... of each file
	Format export.Format
}

type DensityOptions struct {
	VoxelsPerUnit float32
	GridName      string
}

type SubsampleOptions struct {
	Input  string  // text sample file
	Ratio  float64 // probability to keep each record
	Seed   int64   // 0 picks a random seed
	Format export.Format
}

// Validate checks that the options are consistent with the mode and that input files exist
func (opt *Options) Validate() error {
	switch opt.Mode {
	case ModePoints:
		if opt.PointsOptions == nil {
			return errors.New("missing points options")
		}
		if opt.PointsOptions.Ratio < 1 {
			return errors.Errorf("ratio must be at least 1, got %d", opt.PointsOptions.Ratio)
		}
		if _, err := export.ParseFormat(string(opt.PointsOptions.Format)); err != nil {
			return err
		}
	case ModeDensity:
		if opt.DensityOptions == nil {
			return errors.New("missing density options")
		}
		if !(opt.DensityOptions.VoxelsPerUnit > 0) {
			return errors.Errorf("voxels per unit must be positive, got %v", opt.DensityOptions.VoxelsPerUnit)
		}
		if opt.DensityOptions.GridName == "" {
			return errors.New("grid name cannot be empty")
		}
	case ModeSubsample:
		return opt.validateSubsample()
	default:
		return errors.Errorf("unknown mode %q", opt.Mode)
	}

	if opt.Workers < 1 {
		return errors.Errorf("workers must be at least 1, got %d", opt.Workers)
	}
	if _, err := os.Stat(opt.List); err != nil {
		return errors.Wrap(err, "transform list not found")
	}
	if opt.Output == "" {
		return errors.New("output cannot be empty")
	}
	return nil
}

func (opt *Options) validateSubsample() error {
	sub := opt.SubsampleOptions
	if sub == nil {
		return errors.New("missing subsample options")
	}
	if !(sub.Ratio >= 0 && sub.Ratio <= 1) {
		return errors.Errorf("keep ratio must be within [0, 1], got %v", sub.Ratio)
	}
	if sub.Format != export.FormatText && sub.Format != export.FormatBytes {
		return errors.Errorf("subsample output must be text or bytes, got %q", sub.Format)
	}
	if _, err := os.Stat(sub.Input); err != nil {
		return errors.Wrap(err, "sample file not found")
	}
	if opt.Output == "" {
		return errors.New("output cannot be empty")
	}
	return nil
}

// IRunner runs one mode end to end
type IRunner interface {
	Run(ctx context.Context, opts *Options) error
}
