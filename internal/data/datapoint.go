package data

import "github.com/go-gl/mathgl/mgl32"

// Color holds 8 bit RGB components
type Color struct {
	R uint8
	G uint8
	B uint8
}

// Contains one sampled point in the consumer's convention: position and normal already
// transformed and axis converted, color as stored in the file
type Point struct {
	Position mgl32.Vec3
	Color    Color
	Normal   mgl32.Vec3
}

// Builds a new Point from the given position, color and normal
func NewPoint(position mgl32.Vec3, color Color, normal mgl32.Vec3) *Point {
	return &Point{
		Position: position,
		Color:    color,
		Normal:   normal,
	}
}
