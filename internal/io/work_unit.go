package io

import (
	"github.com/ecopia-map/hge_sampler/internal/dataset"
	"github.com/ecopia-map/hge_sampler/internal/point_loader"
)

// Contains the minimal data needed to load one point cloud file: its position in the transform
// list, the file with its placement and the field groups the consumer must find in it
type WorkUnit struct {
	Index  int
	Entry  dataset.Entry
	Fields point_loader.FieldSet
}
