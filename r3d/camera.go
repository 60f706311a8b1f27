package r3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Fov      float32 // vertical, degrees
	Aspect   float32
	Near     float32
	Far      float32

	Orthographic bool
	OrthoHeight  float32
}

func NewCamera() Camera {
	return Camera{
		Position: mgl32.Vec3{0, 0, 5},
		Fov:      60,
		Aspect:   1.77,
		Near:     0.1,
		Far:      100,
	}
}

func (c *Camera) View() mgl32.Mat4 {
	up := mgl32.Vec3{0, 1, 0}
	// straight up or down the basis collapses, look along -Z instead
	if dir := c.Target.Sub(c.Position); dir.Len() != 0 && math.Abs(float64(dir.Normalize().Dot(up))) > 0.999 {
		up = mgl32.Vec3{0, 0, -1}
	}
	return mgl32.LookAtV(c.Position, c.Target, up)
}

func (c *Camera) Projection() mgl32.Mat4 {
	if c.Orthographic {
		w := c.OrthoHeight * c.Aspect
		return mgl32.Ortho(-w/2, w/2, -c.OrthoHeight/2, c.OrthoHeight/2, c.Near, c.Far)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}

func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

type Orbit struct {
	Target   mgl32.Vec3
	Distance float32
	Pitch    float32 // x rotation
	Yaw      float32 // y rotation
}

type OrbitController struct {
	Orbit
	initial Orbit
}

func NewOrbitController(target mgl32.Vec3, dist, pitch, yaw float32) *OrbitController {
	o := Orbit{
		Target:   target,
		Distance: dist,
		Pitch:    pitch,
		Yaw:      yaw,
	}
	return &OrbitController{Orbit: o, initial: o}
}

func (c *OrbitController) Position() mgl32.Vec3 {
	pitch := float64(mgl32.DegToRad(c.Pitch))
	yaw := float64(mgl32.DegToRad(c.Yaw))
	return mgl32.Vec3{
		c.Distance * float32(math.Cos(pitch)*math.Sin(yaw)),
		c.Distance * float32(math.Sin(pitch)),
		c.Distance * float32(math.Cos(pitch)*math.Cos(yaw)),
	}.Add(c.Target)
}

// Apply moves cam onto the orbit.
func (c *OrbitController) Apply(cam *Camera) {
	cam.Position = c.Position()
	cam.Target = c.Target
}

func (c *OrbitController) Reset() {
	c.Orbit = c.initial
}
