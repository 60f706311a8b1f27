// Package scene holds the state the frame loop owns and mutates.
package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/config"
	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/hierarchy"
	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/r3d"
)

type LightCamera struct {
	r3d.Camera
	Distance float32
}

type State struct {
	Screen config.Screen

	Camera      r3d.Camera
	Orbit       *r3d.OrbitController
	LightCamera LightCamera

	Light        config.Light
	Material     config.Material
	ColorCorrect config.ColorCorrect
	Shadow       config.Shadow
	PointLights  []PointLight

	Plane    r3d.Transform
	Skeleton *hierarchy.Hierarchy
	Spins    []config.Spin // per skeleton node

	Time  float32
	Frame uint64
}

func New(cfg *config.Scene) (*State, error) {
	specs, err := cfg.SkeletonSpecs()
	if err != nil {
		return nil, err
	}
	skeleton, err := hierarchy.New(specs)
	if err != nil {
		return nil, errors.Wrap(err, "skeleton")
	}

	s := &State{
		Screen:       cfg.Screen,
		Light:        cfg.Light,
		Material:     cfg.Material,
		ColorCorrect: cfg.ColorCorrect,
		Shadow:       cfg.Shadow,
		PointLights:  PointLightGrid(cfg.PointLights),
		Plane:        r3d.NewTransform(),
		Skeleton:     skeleton,
		Spins:        make([]config.Spin, len(cfg.Skeleton)),
	}
	for i := range cfg.Skeleton {
		s.Spins[i] = cfg.Skeleton[i].Spin
	}
	s.Plane.Position = cfg.Plane.Position

	s.Camera = r3d.NewCamera()
	s.Camera.Position = cfg.Camera.Position
	s.Camera.Target = cfg.Camera.Target
	s.Camera.Fov = cfg.Camera.Fov
	s.Camera.Near = cfg.Camera.Near
	s.Camera.Far = cfg.Camera.Far
	s.Camera.Aspect = float32(cfg.Screen.Width) / float32(cfg.Screen.Height)

	s.Orbit = orbitFor(cfg.Camera.Position, cfg.Camera.Target)

	s.LightCamera = LightCamera{
		Camera: r3d.Camera{
			Target:       cfg.LightCamera.Target,
			Aspect:       1,
			Near:         cfg.LightCamera.Near,
			Far:          cfg.LightCamera.Far,
			Orthographic: true,
			OrthoHeight:  cfg.LightCamera.OrthoHeight,
		},
		Distance: cfg.LightCamera.Distance,
	}
	s.aimLightCamera()

	s.Skeleton.Update()
	return s, nil
}

func (s *State) aimLightCamera() {
	s.LightCamera.Position = s.LightCamera.Target.Sub(s.Light.Direction.Mul(s.LightCamera.Distance))
}

// Update advances the animation by dt seconds and resolves the skeleton.
// Global matrices are valid for rendering once it returns. A negative or
// non-finite dt is treated as zero.
func (s *State) Update(dt float32) {
	if dt < 0 || math.IsNaN(float64(dt)) || math.IsInf(float64(dt), 0) {
		dt = 0
	}
	s.Time += dt
	s.Frame++

	for i, spin := range s.Spins {
		if spin.Speed != 0 {
			s.Skeleton.Node(i).Transform.Rotate(spin.Speed*dt, spin.Axis)
		}
	}
	s.aimLightCamera()
	s.Skeleton.Update()
}

func (s *State) LightMatrix() mgl32.Mat4 {
	return s.LightCamera.ViewProjection()
}

// orbitFor returns an orbit whose home is the given camera placement.
func orbitFor(position, target mgl32.Vec3) *r3d.OrbitController {
	offset := position.Sub(target)
	dist := offset.Len()
	if dist == 0 {
		return r3d.NewOrbitController(target, 0, 0, 0)
	}
	pitch := math.Asin(float64(offset.Y() / dist))
	yaw := math.Atan2(float64(offset.X()), float64(offset.Z()))
	return r3d.NewOrbitController(target, dist,
		mgl32.RadToDeg(float32(pitch)), mgl32.RadToDeg(float32(yaw)))
}

// ResetCamera puts the camera back where the scene started.
func (s *State) ResetCamera() {
	s.Orbit.Reset()
	s.Orbit.Apply(&s.Camera)
}

// Resize follows the window framebuffer size.
func (s *State) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.Errorf("invalid screen size %dx%d", width, height)
	}
	s.Screen.Width = width
	s.Screen.Height = height
	s.Camera.Aspect = float32(width) / float32(height)
	return nil
}
