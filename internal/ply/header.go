package ply

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	directiveElement  = "element"
	directiveProperty = "property"
	directiveFormat   = "format"
	directiveComment  = "comment"
	headerTerminator  = "end_header"

	littleEndianFormat = "binary_little_endian"
)

// Header is the schema declared by the text section of a file
type Header struct {
	Format   string // declared encoding, informational only
	Comments []string
	Elements []*Element
}

// ParseHeader consumes header lines from r up to and including the end_header line.
// On success r is positioned at the first byte of the binary body.
func ParseHeader(r *bufio.Reader) (*Header, error) {
	header := &Header{}
	var current *Element

	for lineNumber := 1; ; lineNumber++ {
		line, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, errors.Wrapf(err, "ply: reading header line %d", lineNumber)
		}
		if err == io.EOF && line == "" {
			return nil, &MalformedHeaderError{Line: lineNumber, Err: ErrMissingTerminator}
		}

		text := strings.TrimRight(line, "\r\n")
		if text == headerTerminator {
			break
		}
		if err == io.EOF {
			return nil, &MalformedHeaderError{Line: lineNumber, Text: text, Err: ErrMissingTerminator}
		}

		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case directiveElement:
			element, err := parseElementDirective(fields)
			if err != nil {
				return nil, &MalformedHeaderError{Line: lineNumber, Text: text, Err: err}
			}
			header.Elements = append(header.Elements, element)
			current = element
			glog.V(2).Infof("ply: found element %s (%d records)", element.Name, element.Count)

		case directiveProperty:
			if current == nil {
				return nil, &MalformedHeaderError{Line: lineNumber, Text: text, Err: ErrNoCurrentElement}
			}
			property, err := parsePropertyDirective(fields)
			if err != nil {
				var typeErr *UnknownPropertyTypeError
				if errors.As(err, &typeErr) {
					return nil, typeErr
				}
				return nil, &MalformedHeaderError{Line: lineNumber, Text: text, Err: err}
			}
			current.Properties = append(current.Properties, property)
			glog.V(2).Infof("ply: found property %s for element %s", property.Name, current.Name)

		case directiveFormat:
			if len(fields) > 1 {
				header.Format = fields[1]
				if header.Format != littleEndianFormat {
					glog.Warningf("ply: format %q declared, body is decoded as %s", header.Format, littleEndianFormat)
				}
			}

		case directiveComment:
			header.Comments = append(header.Comments, strings.TrimSpace(strings.TrimPrefix(text, directiveComment)))
		}
	}

	return header, nil
}

// element <name> <count>
func parseElementDirective(fields []string) (*Element, error) {
	if len(fields) != 3 {
		return nil, errors.Errorf("expected 'element <name> <count>', got %d tokens", len(fields))
	}
	count, err := strconv.Atoi(fields[2])
	if err != nil || count < 0 {
		return nil, errors.Wrapf(ErrMalformedCount, "count %q", fields[2])
	}
	return &Element{Name: fields[1], Count: count}, nil
}

// property <type> <name>
func parsePropertyDirective(fields []string) (Property, error) {
	if len(fields) < 2 {
		return Property{}, errors.New("expected 'property <type> <name>'")
	}
	propertyType, err := ParsePropertyType(fields[1])
	if err != nil {
		return Property{}, err
	}
	if len(fields) != 3 {
		return Property{}, errors.Errorf("expected 'property <type> <name>', got %d tokens", len(fields))
	}
	return Property{Name: fields[2], Type: propertyType}, nil
}
