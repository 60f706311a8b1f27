package scene

import (
	"github.com/Pallinder/go-randomdata"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/config"
)

type PointLight struct {
	Position mgl32.Vec3 `json:"position"`
	Radius   float32    `json:"radius"`
	Color    mgl32.Vec4 `json:"color"`
}

// Model places the light orb: a sphere scaled down to 0.2.
func (pl *PointLight) Model() mgl32.Mat4 {
	return mgl32.Translate3D(pl.Position.X(), pl.Position.Y(), pl.Position.Z()).
		Mul4(mgl32.Scale3D(0.2, 0.2, 0.2))
}

func channel() float32 {
	if randomdata.Boolean() {
		return 1
	}
	return 0
}

// PointLightGrid lays lights out row by row, each colour channel either
// fully on or off.
func PointLightGrid(grid config.PointLights) []PointLight {
	lights := make([]PointLight, 0, grid.Count())
	for x := grid.XMin; x < grid.XMax; x++ {
		for y := grid.YMin; y < grid.YMax; y++ {
			if len(lights) == config.MaxPointLights {
				return lights
			}
			lights = append(lights, PointLight{
				Position: mgl32.Vec3{
					float32(x)*grid.Spacing + grid.Offset,
					grid.Height,
					float32(y)*grid.Spacing + grid.Offset,
				},
				Radius: grid.Radius,
				Color:  mgl32.Vec4{channel(), channel(), channel(), 1},
			})
		}
	}
	return lights
}
