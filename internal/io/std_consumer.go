package io

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/ecopia-map/hge_sampler/internal/geometry"
	"github.com/ecopia-map/hge_sampler/internal/point_loader"
)

// StreamHandler receives the point stream of every file loaded by a consumer.
// It is called from several consumers at once.
type StreamHandler interface {
	HandleStream(unit *WorkUnit, stream *point_loader.PointStream) error
}

type LoadFunc func(path string, transform geometry.RigidTransform, fields point_loader.FieldSet) (*point_loader.PointStream, error)

type StandardConsumer struct {
	handler StreamHandler
	load    LoadFunc
}

func NewStandardConsumer(handler StreamHandler) *StandardConsumer {
	return &StandardConsumer{
		handler: handler,
		load:    point_loader.LoadPointStream,
	}
}

// Continually consumes WorkUnits submitted to a work channel, loading each file and passing it
// to the handler. Failures are sent to the error channel, which must be able to take one error
// per unit or be drained concurrently. Once ctx is cancelled remaining units are skipped but
// still drained so the producer never blocks.
func (c *StandardConsumer) Consume(ctx context.Context, workchan chan *WorkUnit, errchan chan error, waitGroup *sync.WaitGroup) {
	defer waitGroup.Done()

	for work := range workchan {
		if ctx.Err() != nil {
			glog.V(2).Infof("skipping %s: %v", filepath.Base(work.Entry.Filename), ctx.Err())
			continue
		}

		if err := c.doWork(work); err != nil {
			errchan <- err
		}
	}
}

// Loads the file of a WorkUnit and hands its points over
func (c *StandardConsumer) doWork(work *WorkUnit) error {
	stream, err := c.load(work.Entry.Filename, work.Entry.Transform, work.Fields)
	if err != nil {
		return &UnitError{Index: work.Index, Filename: work.Entry.Filename, Err: err}
	}

	if err := c.handler.HandleStream(work, stream); err != nil {
		return &UnitError{
			Index:    work.Index,
			Filename: work.Entry.Filename,
			Err:      errors.WithMessage(err, "cannot process points"),
		}
	}

	glog.V(1).Infoln("> done processing", filepath.Base(work.Entry.Filename))
	return nil
}

// UnitError is the failure of one list entry
type UnitError struct {
	Index    int
	Filename string
	Err      error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("file %d (%s): %v", e.Index, e.Filename, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}
