package export

import (
	"fmt"
	"strconv"
	"strings"
)

type Format string

const (
	// Wavefront vertices, positions only
	FormatObj Format = "obj"
	// one point per line: x y z r g b nx ny nz
	FormatText Format = "text"
	// uint32 point count followed by packed little-endian x y z r g b nx ny nz records
	FormatBytes Format = "bytes"
)

// size of one packed record of the bytes format
const BytesRecordSize = 3*4 + 3 + 3*4

func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case FormatObj, FormatText, FormatBytes:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q, must be one of [obj|text|bytes]", value)
}

// PositionsOnly reports whether the format ignores colors and normals
func (f Format) PositionsOnly() bool {
	return f == FormatObj
}

// DefaultFilename is the output file name used when none is given
func (f Format) DefaultFilename() string {
	switch f {
	case FormatObj:
		return "hge_sample_points.obj"
	case FormatBytes:
		return "hge_sample_points.bytes"
	}
	return "hge_sample_points_custom.txt"
}

// formatFloat renders v with six significant digits, dropping trailing zeros
func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', 6, 32)
}
