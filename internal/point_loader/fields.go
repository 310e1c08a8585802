package point_loader

import "github.com/ecopia-map/hge_sampler/internal/ply"

// FieldSet selects groups of vertex properties a PointStream must provide
type FieldSet uint8

const (
	FieldPosition FieldSet = 1 << iota // x, y, z
	FieldColor                         // red, green, blue
	FieldNormal                        // nx, ny, nz

	AllFields = FieldPosition | FieldColor | FieldNormal
)

// Has reports whether every group in other is part of f
func (f FieldSet) Has(other FieldSet) bool {
	return f&other == other
}

func (f FieldSet) String() string {
	s := ""
	for _, g := range fieldGroups {
		if f.Has(g.set) {
			if s != "" {
				s += "|"
			}
			s += g.label
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// slots in PointStream.offsets
const (
	slotX = iota
	slotY
	slotZ
	slotRed
	slotGreen
	slotBlue
	slotNX
	slotNY
	slotNZ
	slotCount
)

type fieldGroup struct {
	set    FieldSet
	label  string
	names  [3]string
	slots  [3]int
	wanted ply.PropertyType
}

// resolution order is x, y, z, red, green, blue, nx, ny, nz
var fieldGroups = []fieldGroup{
	{FieldPosition, "position", [3]string{"x", "y", "z"}, [3]int{slotX, slotY, slotZ}, ply.Float32},
	{FieldColor, "color", [3]string{"red", "green", "blue"}, [3]int{slotRed, slotGreen, slotBlue}, ply.UInt8},
	{FieldNormal, "normal", [3]string{"nx", "ny", "nz"}, [3]int{slotNX, slotNY, slotNZ}, ply.Float32},
}
