package algorithm_manager

import (
	"github.com/ecopia-map/hge_sampler/internal/sampling"
)

type AlgorithmManager interface {
	GetSamplerAlgorithm() (sampling.Sampler, error)
}
