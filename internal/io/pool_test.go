package io

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecopia-map/hge_sampler/internal/dataset"
	"github.com/ecopia-map/hge_sampler/internal/geometry"
	"github.com/ecopia-map/hge_sampler/internal/point_loader"
	"github.com/ecopia-map/hge_sampler/internal/testutils"
)

type recordingHandler struct {
	sync.Mutex
	sizes map[int]int
	fail  map[int]error
}

func (h *recordingHandler) HandleStream(unit *WorkUnit, stream *point_loader.PointStream) error {
	h.Lock()
	defer h.Unlock()
	if err := h.fail[unit.Index]; err != nil {
		return err
	}
	if h.sizes == nil {
		h.sizes = make(map[int]int)
	}
	h.sizes[unit.Index] = stream.Size()
	return nil
}

func entries(paths ...string) []dataset.Entry {
	out := make([]dataset.Entry, 0, len(paths))
	for _, p := range paths {
		out = append(out, dataset.Entry{Filename: p, Transform: geometry.IdentityTransform()})
	}
	return out
}

func writeCloud(t *testing.T, dir, name string, points int) string {
	b := testutils.NewPlyBuilder().VertexElement(points)
	for i := 0; i < points; i++ {
		b.Vertex(float32(i), 0, 0, 1, 2, 3, 0, 0, 1)
	}
	return b.WriteFile(t, dir, name)
}

func runPool(ctx context.Context, list []dataset.Entry, handler StreamHandler, consumers int) []error {
	work := make(chan *WorkUnit, consumers)
	errs := make(chan error, len(list))

	var wg sync.WaitGroup
	wg.Add(1)
	go NewStandardProducer(list, point_loader.AllFields).Produce(ctx, work, &wg)
	for i := 0; i < consumers; i++ {
		wg.Add(1)
		go NewStandardConsumer(handler).Consume(ctx, work, errs, &wg)
	}
	wg.Wait()
	close(errs)

	var out []error
	for err := range errs {
		out = append(out, err)
	}
	return out
}

func TestProducerSubmitsInOrder(t *testing.T) {
	list := entries("a.ply", "b.ply", "c.ply")
	work := make(chan *WorkUnit, len(list))

	var wg sync.WaitGroup
	wg.Add(1)
	NewStandardProducer(list, point_loader.FieldPosition).Produce(context.Background(), work, &wg)
	wg.Wait()

	var got []string
	for unit := range work {
		assert.Equal(t, len(got), unit.Index)
		assert.Equal(t, point_loader.FieldPosition, unit.Fields)
		got = append(got, unit.Entry.Filename)
	}
	assert.Equal(t, []string{"a.ply", "b.ply", "c.ply"}, got)
}

func TestProducerStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	work := make(chan *WorkUnit)
	var wg sync.WaitGroup
	wg.Add(1)
	go NewStandardProducer(entries("a.ply", "b.ply"), point_loader.AllFields).Produce(ctx, work, &wg)
	wg.Wait()

	_, open := <-work
	assert.False(t, open)
}

func TestConsumersLoadEveryFile(t *testing.T) {
	dir := t.TempDir()
	list := entries(
		writeCloud(t, dir, "a.ply", 3),
		writeCloud(t, dir, "b.ply", 5),
		writeCloud(t, dir, "c.ply", 0),
		writeCloud(t, dir, "d.ply", 1),
	)

	handler := &recordingHandler{}
	errs := runPool(context.Background(), list, handler, 3)

	assert.Empty(t, errs)
	assert.Equal(t, map[int]int{0: 3, 1: 5, 2: 0, 3: 1}, handler.sizes)
}

func TestConsumersReportUnitErrors(t *testing.T) {
	dir := t.TempDir()
	handlerErr := errors.New("disk full")
	list := entries(
		writeCloud(t, dir, "a.ply", 2),
		filepath.Join(dir, "missing.ply"),
		writeCloud(t, dir, "c.ply", 2),
	)

	handler := &recordingHandler{fail: map[int]error{2: handlerErr}}
	errs := runPool(context.Background(), list, handler, 2)
	require.Len(t, errs, 2)

	sort.Slice(errs, func(i, j int) bool {
		var a, b *UnitError
		errors.As(errs[i], &a)
		errors.As(errs[j], &b)
		return a.Index < b.Index
	})

	var unitErr *UnitError
	require.True(t, errors.As(errs[0], &unitErr))
	assert.Equal(t, 1, unitErr.Index)
	assert.True(t, errors.Is(errs[0], fs.ErrNotExist))

	require.True(t, errors.As(errs[1], &unitErr))
	assert.Equal(t, 2, unitErr.Index)
	assert.True(t, errors.Is(errs[1], handlerErr))

	assert.Equal(t, map[int]int{0: 2}, handler.sizes)
}

func TestConsumerSkipsWorkAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loads := 0
	consumer := &StandardConsumer{
		handler: &recordingHandler{},
		load: func(string, geometry.RigidTransform, point_loader.FieldSet) (*point_loader.PointStream, error) {
			loads++
			return nil, errors.New("unexpected load")
		},
	}

	work := make(chan *WorkUnit, 2)
	work <- &WorkUnit{Index: 0, Entry: entries("a.ply")[0]}
	work <- &WorkUnit{Index: 1, Entry: entries("b.ply")[0]}
	close(work)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	consumer.Consume(ctx, work, errs, &wg)
	wg.Wait()

	assert.Zero(t, loads)
	assert.Empty(t, errs)
	assert.Empty(t, work, "remaining units are drained")
}
