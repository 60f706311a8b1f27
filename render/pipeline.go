package render

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/config"
	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/scene"
)

// Assets names the programs, meshes and textures the host loaded.
type Assets struct {
	DepthProgram    string
	GeometryProgram string
	DeferredProgram string
	LightOrbProgram string
	PostProgram     string
	SkeletonMesh    string
	PlaneMesh       string
	SphereMesh      string
	SkeletonTexture string
	PlaneTexture    string
}

var DefaultAssets = Assets{
	DepthProgram:    "depthOnly",
	GeometryProgram: "geometryPass",
	DeferredProgram: "deferredLit",
	LightOrbProgram: "lightOrb",
	PostProgram:     "postprocess",
	SkeletonMesh:    "suzanne",
	PlaneMesh:       "plane",
	SphereMesh:      "sphere",
	SkeletonTexture: "Monkey_Color",
	PlaneTexture:    "Floor_Color",
}

type Pipeline struct {
	Assets Assets

	Shadow      *Framebuffer
	GBuffer     *Framebuffer
	PostProcess *Framebuffer
}

func NewPipeline(s *scene.State) (*Pipeline, error) {
	p := &Pipeline{
		Assets: DefaultAssets,
		Shadow: NewShadowMap(s.Shadow.MapSize),
	}
	if err := p.Resize(s.Screen.Width, s.Screen.Height); err != nil {
		return nil, err
	}
	if err := p.Shadow.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Resize recreates the screen sized buffers.
func (p *Pipeline) Resize(width, height int) error {
	gbuffer := NewGBuffer(width, height)
	post := NewPostProcessBuffer("postprocess", width, height)
	for _, fb := range []*Framebuffer{gbuffer, post} {
		if err := fb.Validate(); err != nil {
			return errors.Wrap(err, "resize")
		}
	}
	p.GBuffer = gbuffer
	p.PostProcess = post
	return nil
}

func (p *Pipeline) Frame(dev Device, s *scene.State) {
	p.ShadowPass(dev, s)
	p.GeometryPass(dev, s)
	p.LightingPass(dev, s)
	p.LightOrbPass(dev, s)
	p.PostProcessPass(dev, s)
}

func (p *Pipeline) drawSkeleton(dev Device, s *scene.State) {
	for i := 0; i < s.Skeleton.Len(); i++ {
		dev.SetUniform("_Model", s.Skeleton.Node(i).Global)
		dev.Draw(p.Assets.SkeletonMesh)
	}
}

func (p *Pipeline) ShadowPass(dev Device, s *scene.State) {
	dev.BindFramebuffer(p.Shadow)
	dev.Viewport(p.Shadow.Width, p.Shadow.Height)
	dev.Clear(false, true)
	dev.CullFace(CullFront)

	dev.UseProgram(p.Assets.DepthProgram)
	dev.SetUniform("_ViewProjection", s.LightMatrix())
	p.drawSkeleton(dev, s)
	dev.SetUniform("_Model", s.Plane.Matrix())
	dev.Draw(p.Assets.PlaneMesh)
}

func (p *Pipeline) GeometryPass(dev Device, s *scene.State) {
	dev.BindFramebuffer(p.GBuffer)
	dev.Viewport(p.GBuffer.Width, p.GBuffer.Height)
	dev.Clear(true, true)
	dev.CullFace(CullBack)

	dev.BindTexture(0, p.Shadow.DepthTexture())
	dev.BindTexture(1, p.Assets.SkeletonTexture)
	dev.BindTexture(2, p.Assets.PlaneTexture)

	dev.UseProgram(p.Assets.GeometryProgram)
	dev.SetUniform("_ViewProjection", s.Camera.ViewProjection())
	dev.SetUniform("_MainTex", 1)
	p.drawSkeleton(dev, s)
	dev.SetUniform("_MainTex", 2)
	dev.SetUniform("_Model", s.Plane.Matrix())
	dev.Draw(p.Assets.PlaneMesh)
}

func (p *Pipeline) LightingPass(dev Device, s *scene.State) {
	dev.BindFramebuffer(p.PostProcess)
	dev.Viewport(s.Screen.Width, s.Screen.Height)
	dev.Clear(true, true)

	dev.UseProgram(p.Assets.DeferredProgram)
	for i := range p.GBuffer.Color {
		dev.BindTexture(i, p.GBuffer.Texture(i))
	}
	dev.BindTexture(3, p.Shadow.DepthTexture())

	dev.SetUniform("_ShadowMap", 3)
	dev.SetUniform("_LightViewProjection", s.LightMatrix())
	dev.SetUniform("_LightDirection", s.Light.Direction)
	dev.SetUniform("_LightColor", s.Light.Color)
	dev.SetUniform("_MinBias", s.Shadow.MinBias)
	dev.SetUniform("_MaxBias", s.Shadow.MaxBias)
	dev.SetUniform("_Material.AmbientCo", s.Material.Ambient)
	dev.SetUniform("_Material.DiffuseCo", s.Material.Diffuse)
	dev.SetUniform("_Material.SpecularCo", s.Material.Specular)
	dev.SetUniform("_Material.Shininess", s.Material.Shininess)
	dev.SetUniform("_EyePos", s.Camera.Position)

	// the shader array is fixed size, unused slots get a zero radius
	for i := 0; i < config.MaxPointLights; i++ {
		var light scene.PointLight
		if i < len(s.PointLights) {
			light = s.PointLights[i]
		}
		prefix := fmt.Sprintf("_PointLights[%d].", i)
		dev.SetUniform(prefix+"position", light.Position)
		dev.SetUniform(prefix+"radius", light.Radius)
		dev.SetUniform(prefix+"color", light.Color)
	}

	dev.DrawFullscreen()
	dev.BlitDepth(p.GBuffer, p.PostProcess, s.Screen.Width, s.Screen.Height)
}

func (p *Pipeline) LightOrbPass(dev Device, s *scene.State) {
	dev.UseProgram(p.Assets.LightOrbProgram)
	dev.SetUniform("_ViewProjection", s.Camera.ViewProjection())
	for i := range s.PointLights {
		light := &s.PointLights[i]
		dev.SetUniform("_Model", light.Model())
		dev.SetUniform("_Color", light.Color.Vec3())
		dev.Draw(p.Assets.SphereMesh)
	}
}

func (p *Pipeline) PostProcessPass(dev Device, s *scene.State) {
	dev.BindFramebuffer(nil)
	dev.Viewport(s.Screen.Width, s.Screen.Height)
	dev.Clear(true, true)

	dev.UseProgram(p.Assets.PostProgram)
	dev.SetUniform("_Exposure", s.ColorCorrect.Exposure)
	dev.SetUniform("_Contrast", s.ColorCorrect.Contrast)
	dev.SetUniform("_Brightness", s.ColorCorrect.Brightness)
	dev.SetUniform("_ColorFilter", s.ColorCorrect.Filter)

	dev.BindTexture(0, p.PostProcess.Texture(0))
	dev.DrawFullscreen()
}
