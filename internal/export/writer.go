package export

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"

	"github.com/ecopia-map/hge_sampler/internal/data"
)

// PointWriter serializes points in one of the output formats. Close flushes buffered output
// but does not close the underlying writer.
type PointWriter interface {
	Write(p *data.Point) error
	Count() int
	Close() error
}

func NewWriter(format Format, w io.Writer) (PointWriter, error) {
	switch format {
	case FormatObj:
		return &objWriter{lineWriter{w: bufio.NewWriter(w)}}, nil
	case FormatText:
		return &textWriter{lineWriter: lineWriter{w: bufio.NewWriter(w)}}, nil
	case FormatBytes:
		return newBytesWriter(w)
	}
	return nil, errors.Errorf("unknown output format %q", format)
}

// NewRecordWriter is NewWriter without the bytes count header, so the records of several
// writers can be concatenated behind one WriteCountHeader. Obj and text are unchanged.
func NewRecordWriter(format Format, w io.Writer) (PointWriter, error) {
	if format == FormatBytes {
		return &recordWriter{w: bufio.NewWriter(w)}, nil
	}
	return NewWriter(format, w)
}

// WriteCountHeader writes the uint32 point count that starts a bytes output
func WriteCountHeader(w io.Writer, count int) error {
	if count < 0 || uint64(count) > math.MaxUint32 {
		return errors.Errorf("bytes output cannot hold %d points", count)
	}
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(count))
	_, err := w.Write(header[:])
	return err
}

type recordWriter struct {
	w      *bufio.Writer
	count  int
	record [BytesRecordSize]byte
}

func (r *recordWriter) Count() int {
	return r.count
}

func (r *recordWriter) Write(p *data.Point) error {
	encodeRecord(r.record[:], p)
	if _, err := r.w.Write(r.record[:]); err != nil {
		return err
	}
	r.count++
	return nil
}

func (r *recordWriter) Close() error {
	return r.w.Flush()
}

type lineWriter struct {
	w     *bufio.Writer
	count int
	line  []byte
}

func (l *lineWriter) Count() int {
	return l.count
}

func (l *lineWriter) Close() error {
	return l.w.Flush()
}

func (l *lineWriter) appendFloat(v float32) {
	l.line = append(l.line, formatFloat(v)...)
}

func (l *lineWriter) flushLine() error {
	l.line = append(l.line, '\n')
	_, err := l.w.Write(l.line)
	l.line = l.line[:0]
	if err != nil {
		return err
	}
	l.count++
	return nil
}

type objWriter struct {
	lineWriter
}

func (o *objWriter) Write(p *data.Point) error {
	o.line = append(o.line, 'v', ' ')
	o.appendFloat(p.Position[0])
	o.line = append(o.line, ' ')
	o.appendFloat(p.Position[1])
	o.line = append(o.line, ' ')
	o.appendFloat(p.Position[2])
	return o.flushLine()
}

type textWriter struct {
	lineWriter
	// when set every field is followed by a space and records are not broken into lines
	spaced bool
}

// NewSpacedTextWriter writes text records as one stream of space terminated fields
func NewSpacedTextWriter(w io.Writer) PointWriter {
	return &textWriter{lineWriter: lineWriter{w: bufio.NewWriter(w)}, spaced: true}
}

func (t *textWriter) Write(p *data.Point) error {
	t.field(func() { t.appendFloat(p.Position[0]) })
	t.field(func() { t.appendFloat(p.Position[1]) })
	t.field(func() { t.appendFloat(p.Position[2]) })
	for _, c := range []uint8{p.Color.R, p.Color.G, p.Color.B} {
		t.field(func() { t.line = strconv.AppendUint(t.line, uint64(c), 10) })
	}
	t.field(func() { t.appendFloat(p.Normal[0]) })
	t.field(func() { t.appendFloat(p.Normal[1]) })
	t.field(func() { t.appendFloat(p.Normal[2]) })

	if !t.spaced {
		return t.flushLine()
	}
	_, err := t.w.Write(t.line)
	t.line = t.line[:0]
	if err != nil {
		return err
	}
	t.count++
	return nil
}

func (t *textWriter) field(appendValue func()) {
	if !t.spaced && len(t.line) > 0 {
		t.line = append(t.line, ' ')
	}
	appendValue()
	if t.spaced {
		t.line = append(t.line, ' ')
	}
}

// bytesWriter writes a placeholder count and patches it on Close when the destination can seek,
// otherwise it keeps the records in memory until Close.
type bytesWriter struct {
	dest   io.Writer
	seeker io.WriteSeeker
	start  int64
	buffer *bufio.Writer
	memory *bytes.Buffer
	count  int
	record [BytesRecordSize]byte
}

func newBytesWriter(w io.Writer) (*bytesWriter, error) {
	b := &bytesWriter{dest: w}

	if ws, ok := w.(io.WriteSeeker); ok {
		start, err := ws.Seek(0, io.SeekCurrent)
		if err == nil {
			if _, err := ws.Write(make([]byte, 4)); err != nil {
				return nil, errors.Wrap(err, "cannot write point count")
			}
			b.seeker = ws
			b.start = start
			b.buffer = bufio.NewWriter(ws)
			return b, nil
		}
	}

	b.memory = &bytes.Buffer{}
	b.buffer = bufio.NewWriter(b.memory)
	return b, nil
}

func (b *bytesWriter) Count() int {
	return b.count
}

func (b *bytesWriter) Write(p *data.Point) error {
	if uint64(b.count) == math.MaxUint32 {
		return errors.New("bytes output cannot hold more than 2^32-1 points")
	}

	encodeRecord(b.record[:], p)
	if _, err := b.buffer.Write(b.record[:]); err != nil {
		return err
	}
	b.count++
	return nil
}

// packs p as fffBBBfff little-endian into r
func encodeRecord(r []byte, p *data.Point) {
	putFloat32 := func(offset int, v float32) {
		binary.LittleEndian.PutUint32(r[offset:], math.Float32bits(v))
	}
	putFloat32(0, p.Position[0])
	putFloat32(4, p.Position[1])
	putFloat32(8, p.Position[2])
	r[12], r[13], r[14] = p.Color.R, p.Color.G, p.Color.B
	putFloat32(15, p.Normal[0])
	putFloat32(19, p.Normal[1])
	putFloat32(23, p.Normal[2])
}

func (b *bytesWriter) Close() error {
	if err := b.buffer.Flush(); err != nil {
		return err
	}

	if b.seeker == nil {
		if err := WriteCountHeader(b.dest, b.count); err != nil {
			return err
		}
		_, err := b.memory.WriteTo(b.dest)
		return err
	}

	end, err := b.seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if _, err := b.seeker.Seek(b.start, io.SeekStart); err != nil {
		return err
	}
	if err := WriteCountHeader(b.seeker, b.count); err != nil {
		return err
	}
	_, err = b.seeker.Seek(end, io.SeekStart)
	return err
}
