package point_loader

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/ecopia-map/hge_sampler/internal/converters"
	"github.com/ecopia-map/hge_sampler/internal/converters/swap_yz"
	"github.com/ecopia-map/hge_sampler/internal/data"
	"github.com/ecopia-map/hge_sampler/internal/geometry"
	"github.com/ecopia-map/hge_sampler/internal/ply"
)

// VertexElementName is the element a PointStream reads points from
const VertexElementName = "vertex"

// PointStream exposes the points of a loaded file in the consumer's convention.
// Byte offsets of the fields are resolved once at construction.
//
// A PointStream borrows the element payload and never modifies it; concurrent reads are safe.
// Indices must satisfy 0 <= i < Size().
type PointStream struct {
	vertices  *ply.Element
	payload   []byte
	stride    int
	transform geometry.RigidTransform
	converter converters.AxisConverter
	fields    FieldSet
	offsets   [slotCount]int
}

// NewPointStream binds the vertex element of file to transform. Position, color and normal
// properties must all be declared; the first missing one is reported as a
// *ply.MissingPropertyError.
func NewPointStream(file *ply.File, transform geometry.RigidTransform) (*PointStream, error) {
	return NewPointStreamWithFields(file, transform, AllFields)
}

// NewPointStreamWithFields is like NewPointStream but only the groups in required have to be
// declared. Groups not required are still made available when the file has them.
func NewPointStreamWithFields(file *ply.File, transform geometry.RigidTransform, required FieldSet) (*PointStream, error) {
	vertices, err := file.Element(VertexElementName)
	if err != nil {
		return nil, err
	}

	stream := &PointStream{
		vertices:  vertices,
		payload:   vertices.Payload(),
		stride:    vertices.UnitSize(),
		transform: transform,
		converter: swap_yz.NewSwapYZ(),
	}

	for _, group := range fieldGroups {
		err := stream.resolveGroup(group)
		if err == nil {
			stream.fields |= group.set
			continue
		}
		if required.Has(group.set) {
			return nil, err
		}
	}

	return stream, nil
}

func (s *PointStream) resolveGroup(group fieldGroup) error {
	var offsets [3]int
	for i, name := range group.names {
		property, ok := s.vertices.PropertyByName(name)
		if !ok {
			return &ply.MissingPropertyError{Name: name}
		}
		if property.Type != group.wanted {
			return &ply.PropertyTypeMismatchError{Name: name, Want: group.wanted, Got: property.Type}
		}
		offset, err := s.vertices.Offset(name)
		if err != nil {
			return err
		}
		offsets[i] = offset
	}
	for i, slot := range group.slots {
		s.offsets[slot] = offsets[i]
	}
	return nil
}

// Size is the number of points declared for the vertex element
func (s *PointStream) Size() int {
	return s.vertices.Count
}

// Fields reports which groups can be read
func (s *PointStream) Fields() FieldSet {
	return s.fields
}

func (s *PointStream) Transform() geometry.RigidTransform {
	return s.transform
}

// Position returns point i moved by the transform, with Y and Z swapped
func (s *PointStream) Position(i int) mgl32.Vec3 {
	s.mustHave(FieldPosition)
	local := s.vec3(i, slotX, slotY, slotZ)
	return s.converter.Convert(s.transform.Apply(local))
}

// Color returns the color of point i as stored
func (s *PointStream) Color(i int) data.Color {
	s.mustHave(FieldColor)
	base := i * s.stride
	return data.Color{
		R: ply.DecodeUInt8(s.payload[base+s.offsets[slotRed]:]),
		G: ply.DecodeUInt8(s.payload[base+s.offsets[slotGreen]:]),
		B: ply.DecodeUInt8(s.payload[base+s.offsets[slotBlue]:]),
	}
}

// Normal returns the normal of point i rotated by the transform, with Y and Z swapped
func (s *PointStream) Normal(i int) mgl32.Vec3 {
	s.mustHave(FieldNormal)
	local := s.vec3(i, slotNX, slotNY, slotNZ)
	return s.converter.Convert(s.transform.ApplyRotation(local))
}

// Point returns every available group of point i
func (s *PointStream) Point(i int) *data.Point {
	p := &data.Point{}
	s.ReadPoint(i, p)
	return p
}

// ReadPoint fills p with every available group of point i, leaving the other groups untouched
func (s *PointStream) ReadPoint(i int, p *data.Point) {
	if s.fields.Has(FieldPosition) {
		p.Position = s.Position(i)
	}
	if s.fields.Has(FieldColor) {
		p.Color = s.Color(i)
	}
	if s.fields.Has(FieldNormal) {
		p.Normal = s.Normal(i)
	}
}

func (s *PointStream) vec3(i, sx, sy, sz int) mgl32.Vec3 {
	base := i * s.stride
	return mgl32.Vec3{
		ply.DecodeFloat32(s.payload[base+s.offsets[sx]:]),
		ply.DecodeFloat32(s.payload[base+s.offsets[sy]:]),
		ply.DecodeFloat32(s.payload[base+s.offsets[sz]:]),
	}
}

func (s *PointStream) mustHave(group FieldSet) {
	if !s.fields.Has(group) {
		panic("point_loader: " + group.String() + " fields were not resolved for this stream")
	}
}
