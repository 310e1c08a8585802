package ply

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCurrentElement is returned when a property is declared before any element
	ErrNoCurrentElement = errors.New("property declared outside of an element")

	// ErrMalformedCount is returned when an element count is not a non-negative integer
	ErrMalformedCount = errors.New("malformed element count")

	// ErrMissingTerminator is returned when the header ends before the end_header line
	ErrMissingTerminator = errors.New("header terminator not found")

	// ErrPayloadTooLarge is returned when count * unit size does not fit in an int
	ErrPayloadTooLarge = errors.New("declared payload size overflows")
)

// MalformedHeaderError reports a header line that could not be interpreted.
type MalformedHeaderError struct {
	Line int    // 1-based header line number
	Text string // the offending line, without line terminator
	Err  error
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("ply: malformed header at line %d (%q): %v", e.Line, e.Text, e.Err)
}

func (e *MalformedHeaderError) Unwrap() error {
	return e.Err
}

// UnknownPropertyTypeError reports a type token outside of float, int and uchar.
type UnknownPropertyTypeError struct {
	Token string
}

func (e *UnknownPropertyTypeError) Error() string {
	return fmt.Sprintf("ply: unsupported property type %q", e.Token)
}

// TruncatedPayloadError reports an element body shorter than its declared schema.
type TruncatedPayloadError struct {
	Element  string
	Expected int64
	Actual   int64
}

func (e *TruncatedPayloadError) Error() string {
	return fmt.Sprintf("ply: element %q payload truncated: expected %d bytes, got %d", e.Element, e.Expected, e.Actual)
}

type MissingPropertyError struct {
	Name string
}

func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("ply: property %q not declared", e.Name)
}

type UnknownElementError struct {
	Name string
}

func (e *UnknownElementError) Error() string {
	return fmt.Sprintf("ply: element %q not declared", e.Name)
}

// PropertyTypeMismatchError reports a property declared with a different type than the one
// a reader decodes it as.
type PropertyTypeMismatchError struct {
	Name string
	Want PropertyType
	Got  PropertyType
}

func (e *PropertyTypeMismatchError) Error() string {
	return fmt.Sprintf("ply: property %q has type %s, expected %s", e.Name, e.Got, e.Want)
}
