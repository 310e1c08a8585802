package sampling

import (
	"bytes"
	"context"
	"os"
	"sort"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/ecopia-map/hge_sampler/internal/data"
	"github.com/ecopia-map/hge_sampler/internal/export"
	"github.com/ecopia-map/hge_sampler/internal/io"
	"github.com/ecopia-map/hge_sampler/internal/point_loader"
)

// PointSampler keeps every ratio-th point of each file, starting with the first one, and writes
// them grouped by file in list order. Each file's samples are held encoded until Finish.
type PointSampler struct {
	ratio  int
	format export.Format
	output string

	sync.Mutex
	sampled map[int]*sampledFile
}

// records of one file in the output format, without the bytes count header
type sampledFile struct {
	records []byte
	count   int
}

func NewPointSampler(ratio int, format export.Format, output string) (*PointSampler, error) {
	if ratio < 1 {
		return nil, errors.Errorf("sample ratio must be at least 1, got %d", ratio)
	}
	if _, err := export.ParseFormat(string(format)); err != nil {
		return nil, err
	}

	return &PointSampler{
		ratio:   ratio,
		format:  format,
		output:  output,
		sampled: make(map[int]*sampledFile),
	}, nil
}

func (s *PointSampler) Fields() point_loader.FieldSet {
	if s.format.PositionsOnly() {
		return point_loader.FieldPosition
	}
	return point_loader.AllFields
}

func (s *PointSampler) HandleStream(unit *io.WorkUnit, stream *point_loader.PointStream) error {
	glog.V(1).Infoln("Sampling points...")

	var buf bytes.Buffer
	writer, err := export.NewRecordWriter(s.format, &buf)
	if err != nil {
		return err
	}

	var p data.Point
	for i := 0; i < stream.Size(); i += s.ratio {
		stream.ReadPoint(i, &p)
		if err := writer.Write(&p); err != nil {
			return errors.Wrapf(err, "cannot encode point %d", i)
		}
	}
	if err := writer.Close(); err != nil {
		return errors.Wrap(err, "cannot encode sampled points")
	}

	s.Lock()
	s.sampled[unit.Index] = &sampledFile{records: buf.Bytes(), count: writer.Count()}
	s.Unlock()

	return nil
}

// SampledCount returns the number of points kept for the file at list position index
func (s *PointSampler) SampledCount(index int) int {
	s.Lock()
	defer s.Unlock()
	if file, ok := s.sampled[index]; ok {
		return file.count
	}
	return 0
}

func (s *PointSampler) Finish(ctx context.Context) (err error) {
	s.Lock()
	defer s.Unlock()

	indices := make([]int, 0, len(s.sampled))
	total := 0
	for index, file := range s.sampled {
		indices = append(indices, index)
		total += file.count
	}
	sort.Ints(indices)

	f, err := os.Create(s.output)
	if err != nil {
		return errors.Wrap(err, "cannot create sample output")
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	if s.format == export.FormatBytes {
		if err := export.WriteCountHeader(f, total); err != nil {
			return errors.Wrapf(err, "cannot write %s", s.output)
		}
	}

	for _, index := range indices {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := f.Write(s.sampled[index].records); err != nil {
			return errors.Wrapf(err, "cannot write %s", s.output)
		}
		delete(s.sampled, index)
	}

	glog.V(1).Infof("> wrote %d sampled points from %d files to %s", total, len(indices), s.output)
	return nil
}
