package ply

import (
	"bytes"
	"io"
	"math"

	"github.com/pkg/errors"
)

// upper bound of the buffer reserved up front when the input size is unknown
const maxInitialPayload = 1 << 20

// Element is a named group of fixed layout records. The payload is filled once when the
// file body is read and never modified afterwards, so an Element can be shared between
// goroutines once loading returned.
type Element struct {
	Name       string
	Count      int
	Properties []Property

	payload []byte
}

// UnitSize is the byte width of one record
func (e *Element) UnitSize() int {
	size := 0
	for _, p := range e.Properties {
		size += p.Type.Width()
	}
	return size
}

// TotalSize is the byte size of the whole element body
func (e *Element) TotalSize() int {
	return e.UnitSize() * e.Count
}

// Offset returns the position of the first property called name inside a record,
// i.e. the sum of the widths of the properties declared before it.
func (e *Element) Offset(name string) (int, error) {
	offset := 0
	for _, p := range e.Properties {
		if p.Name == name {
			return offset, nil
		}
		offset += p.Type.Width()
	}
	return 0, &MissingPropertyError{Name: name}
}

// PropertyByName returns the first property called name
func (e *Element) PropertyByName(name string) (Property, bool) {
	for _, p := range e.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Payload returns the raw body. Callers must not modify it.
func (e *Element) Payload() []byte {
	return e.payload
}

func (e *Element) Float32(record, offset int) float32 {
	return DecodeFloat32(e.field(record, offset, 4))
}

func (e *Element) Int32(record, offset int) int32 {
	return DecodeInt32(e.field(record, offset, 4))
}

func (e *Element) UInt8(record, offset int) uint8 {
	return DecodeUInt8(e.field(record, offset, 1))
}

func (e *Element) field(record, offset, width int) []byte {
	start := record*e.UnitSize() + offset
	return e.payload[start : start+width]
}

// checkedTotalSize computes TotalSize failing instead of overflowing
func (e *Element) checkedTotalSize() (int, error) {
	unit := e.UnitSize()
	if unit != 0 && e.Count > math.MaxInt/unit {
		return 0, errors.Wrapf(ErrPayloadTooLarge, "element %q: %d records of %d bytes", e.Name, e.Count, unit)
	}
	return unit * e.Count, nil
}

// read fills the payload with exactly TotalSize bytes from r. available is the number of
// bytes known to be left in r, or -1 when unknown.
func (e *Element) read(r io.Reader, available int64) error {
	total, err := e.checkedTotalSize()
	if err != nil {
		return err
	}
	if available >= 0 && available < int64(total) {
		return &TruncatedPayloadError{Element: e.Name, Expected: int64(total), Actual: available}
	}

	if available < 0 {
		return e.readUnsized(r, total)
	}

	payload := make([]byte, total)
	n, err := io.ReadFull(r, payload)
	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		return &TruncatedPayloadError{Element: e.Name, Expected: int64(total), Actual: int64(n)}
	case err != nil:
		return errors.Wrapf(err, "ply: reading element %q", e.Name)
	}

	e.payload = payload
	return nil
}

// readUnsized grows the payload as bytes arrive, so a header declaring more records than the
// stream holds fails with a truncation error instead of a huge allocation
func (e *Element) readUnsized(r io.Reader, total int) error {
	var buf bytes.Buffer
	buf.Grow(min(total, maxInitialPayload))

	n, err := io.CopyN(&buf, r, int64(total))
	switch {
	case err == io.EOF:
		return &TruncatedPayloadError{Element: e.Name, Expected: int64(total), Actual: n}
	case err != nil:
		return errors.Wrapf(err, "ply: reading element %q", e.Name)
	}

	e.payload = buf.Bytes()
	return nil
}
