package io

import (
	"context"
	"sync"

	"github.com/golang/glog"

	"github.com/ecopia-map/hge_sampler/internal/dataset"
	"github.com/ecopia-map/hge_sampler/internal/point_loader"
)

type StandardProducer struct {
	entries []dataset.Entry
	fields  point_loader.FieldSet
}

func NewStandardProducer(entries []dataset.Entry, fields point_loader.FieldSet) *StandardProducer {
	return &StandardProducer{
		entries: entries,
		fields:  fields,
	}
}

// Submits a WorkUnit per list entry to the provided work channel, in list order.
// Stops early when ctx is cancelled. Closes the channel when all work is submitted.
func (p *StandardProducer) Produce(ctx context.Context, work chan *WorkUnit, wg *sync.WaitGroup) {
	defer wg.Done()
	defer close(work)

	for i, entry := range p.entries {
		unit := &WorkUnit{
			Index:  i,
			Entry:  entry,
			Fields: p.fields,
		}

		select {
		case <-ctx.Done():
			glog.Warningf("stopped submitting work after %d/%d files: %v", i, len(p.entries), ctx.Err())
			return
		case work <- unit:
		}
	}
}
