package std_algorithm_manager

import (
	"github.com/pkg/errors"

	"github.com/ecopia-map/hge_sampler/internal/runner"
	"github.com/ecopia-map/hge_sampler/internal/sampling"
	"github.com/ecopia-map/hge_sampler/pkg/algorithm_manager"
)

type StandardAlgorithmManager struct {
	options *runner.Options
}

func NewAlgorithmManager(opts *runner.Options) algorithm_manager.AlgorithmManager {
	return &StandardAlgorithmManager{
		options: opts,
	}
}

// GetSamplerAlgorithm builds the stream consumer matching the run mode
func (m *StandardAlgorithmManager) GetSamplerAlgorithm() (sampling.Sampler, error) {
	switch m.options.Mode {
	case runner.ModePoints:
		opts := m.options.PointsOptions
		sampler, err := sampling.NewPointSampler(opts.Ratio, opts.Format, m.options.Output)
		if err != nil {
			return nil, err
		}
		return sampler, nil
	case runner.ModeDensity:
		opts := m.options.DensityOptions
		accumulator, err := sampling.NewDensityAccumulator(opts.GridName, opts.VoxelsPerUnit, m.options.Output)
		if err != nil {
			return nil, err
		}
		return accumulator, nil
	}
	return nil, errors.Errorf("no sampler for mode %q", m.options.Mode)
}
