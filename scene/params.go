package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/config"
	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/utils"
)

// Params are the values the debug panels let the user tweak.
type Params struct {
	Material       config.Material     `json:"material"`
	ColorCorrect   config.ColorCorrect `json:"colorCorrect"`
	Shadow         config.Shadow       `json:"shadow"`
	LightDirection mgl32.Vec3          `json:"lightDirection"`
	LightColor     mgl32.Vec3          `json:"lightColor"`
}

type Snapshot struct {
	Params
	Screen         config.Screen `json:"screen"`
	CameraPosition mgl32.Vec3    `json:"cameraPosition"`
	CameraTarget   mgl32.Vec3    `json:"cameraTarget"`
	LightPosition  mgl32.Vec3    `json:"lightPosition"`
	PointLights    []PointLight  `json:"pointLights"`
	Time           float32       `json:"time"`
	Frame          uint64        `json:"frame"`
}

func (s *State) Params() Params {
	return Params{
		Material:       s.Material,
		ColorCorrect:   s.ColorCorrect,
		Shadow:         s.Shadow,
		LightDirection: s.Light.Direction,
		LightColor:     s.Light.Color,
	}
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Params:         s.Params(),
		Screen:         s.Screen,
		CameraPosition: s.Camera.Position,
		CameraTarget:   s.Camera.Target,
		LightPosition:  s.LightCamera.Position,
		PointLights:    append([]PointLight(nil), s.PointLights...),
		Time:           s.Time,
		Frame:          s.Frame,
	}
}

func clampV3(v mgl32.Vec3, min, max float32) mgl32.Vec3 {
	return mgl32.Vec3{utils.ClampF(v[0], min, max), utils.ClampF(v[1], min, max), utils.ClampF(v[2], min, max)}
}

// ApplyParams copies p into the state, clamped to the slider ranges.
// A zero light direction keeps the current one. Shadow map size is fixed
// at startup and not taken from p.
func (s *State) ApplyParams(p Params) {
	s.Material = config.Material{
		Ambient:   utils.ClampF(p.Material.Ambient, 0, 1),
		Diffuse:   utils.ClampF(p.Material.Diffuse, 0, 1),
		Specular:  utils.ClampF(p.Material.Specular, 0, 1),
		Shininess: utils.ClampF(p.Material.Shininess, 2, 1024),
	}
	s.ColorCorrect = config.ColorCorrect{
		Exposure:   utils.ClampF(p.ColorCorrect.Exposure, 0, 2),
		Contrast:   utils.ClampF(p.ColorCorrect.Contrast, 0, 2),
		Brightness: utils.ClampF(p.ColorCorrect.Brightness, 0, 2),
		Filter:     clampV3(p.ColorCorrect.Filter, 0, 1),
	}
	s.Shadow.MinBias = utils.ClampF(p.Shadow.MinBias, 0, 1)
	s.Shadow.MaxBias = utils.ClampF(p.Shadow.MaxBias, 0, 1)

	if dir := clampV3(p.LightDirection, -1, 1); dir.Len() != 0 {
		s.Light.Direction = dir
	}
	s.Light.Color = clampV3(p.LightColor, 0, 1)
	s.aimLightCamera()
}
