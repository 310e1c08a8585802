package swap_yz

import (
	"github.com/ecopia-map/hge_sampler/internal/converters"
	"github.com/go-gl/mathgl/mgl32"
)

// SwapYZ exchanges the second and third components: Z-up files become Y-up
type SwapYZ struct{}

func NewSwapYZ() converters.AxisConverter {
	return &SwapYZ{}
}

func (c *SwapYZ) Convert(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[0], v[2], v[1]}
}
