package converters

import "github.com/go-gl/mathgl/mgl32"

// AxisConverter maps a vector from the source file's axis convention to the one
// expected by consumers
type AxisConverter interface {
	Convert(v mgl32.Vec3) mgl32.Vec3
}
