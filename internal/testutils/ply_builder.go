// Package testutils builds point cloud fixtures for tests.
package testutils

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// PlyBuilder assembles a binary little-endian file in memory
type PlyBuilder struct {
	header []string
	body   bytes.Buffer
}

func NewPlyBuilder() *PlyBuilder {
	return &PlyBuilder{
		header: []string{"ply", "format binary_little_endian 1.0", "comment generated for tests"},
	}
}

// Line appends a raw header line
func (b *PlyBuilder) Line(line string) *PlyBuilder {
	b.header = append(b.header, line)
	return b
}

func (b *PlyBuilder) Element(name string, count int) *PlyBuilder {
	return b.Line("element " + name + " " + strconv.Itoa(count))
}

func (b *PlyBuilder) Property(typeToken, name string) *PlyBuilder {
	return b.Line("property " + typeToken + " " + name)
}

// VertexElement declares a vertex element with position, color and normal properties
func (b *PlyBuilder) VertexElement(count int) *PlyBuilder {
	return b.Element("vertex", count).
		Property("float", "x").Property("float", "y").Property("float", "z").
		Property("uchar", "red").Property("uchar", "green").Property("uchar", "blue").
		Property("float", "nx").Property("float", "ny").Property("float", "nz")
}

// Vertex appends one record matching VertexElement
func (b *PlyBuilder) Vertex(x, y, z float32, r, g, bl uint8, nx, ny, nz float32) *PlyBuilder {
	return b.Float32(x, y, z).UInt8(r, g, bl).Float32(nx, ny, nz)
}

func (b *PlyBuilder) Float32(values ...float32) *PlyBuilder {
	var buf [4]byte
	for _, v := range values {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		b.body.Write(buf[:])
	}
	return b
}

func (b *PlyBuilder) Int32(values ...int32) *PlyBuilder {
	var buf [4]byte
	for _, v := range values {
		binary.LittleEndian.PutUint32(buf[:], uint32(v))
		b.body.Write(buf[:])
	}
	return b
}

func (b *PlyBuilder) UInt8(values ...uint8) *PlyBuilder {
	b.body.Write(values)
	return b
}

// Raw appends arbitrary body bytes
func (b *PlyBuilder) Raw(data []byte) *PlyBuilder {
	b.body.Write(data)
	return b
}

// HeaderBytes returns the header text including the end_header line
func (b *PlyBuilder) HeaderBytes() []byte {
	var out bytes.Buffer
	for _, line := range b.header {
		out.WriteString(line)
		out.WriteByte('\n')
	}
	out.WriteString("end_header\n")
	return out.Bytes()
}

func (b *PlyBuilder) BodyBytes() []byte {
	return b.body.Bytes()
}

func (b *PlyBuilder) Bytes() []byte {
	return append(b.HeaderBytes(), b.body.Bytes()...)
}

// WriteFile writes the file in dir and returns its path
func (b *PlyBuilder) WriteFile(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
	return path
}
