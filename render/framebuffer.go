package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

type Attachment struct {
	Name   string
	Format string
}

type Framebuffer struct {
	Name   string
	Width  int
	Height int

	Color []Attachment
	// Depth is the depth attachment format, empty for none.
	Depth string
	// Border is sampled outside the texture, nil to clamp to edge.
	Border *mgl32.Vec4
}

// Texture names the texture behind a color attachment.
func (fb *Framebuffer) Texture(attachment int) string {
	return fb.Name + "." + fb.Color[attachment].Name
}

func (fb *Framebuffer) DepthTexture() string {
	return fb.Name + ".depth"
}

func (fb *Framebuffer) Validate() error {
	if fb.Width <= 0 || fb.Height <= 0 {
		return errors.Errorf("framebuffer %q: invalid size %dx%d", fb.Name, fb.Width, fb.Height)
	}
	if len(fb.Color) == 0 && fb.Depth == "" {
		return errors.Errorf("framebuffer %q: no attachments", fb.Name)
	}
	if len(fb.Color) > 8 {
		return errors.Errorf("framebuffer %q: %d color attachments, at most 8", fb.Name, len(fb.Color))
	}
	return nil
}

func NewPostProcessBuffer(name string, width, height int) *Framebuffer {
	return &Framebuffer{
		Name:   name,
		Width:  width,
		Height: height,
		Color:  []Attachment{{Name: "color", Format: "RGBA16"}},
		Depth:  "DEPTH_COMPONENT16",
	}
}

// NewGBuffer holds world position, world normal and albedo.
func NewGBuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Name:   "gbuffer",
		Width:  width,
		Height: height,
		Color: []Attachment{
			{Name: "position", Format: "RGB32F"},
			{Name: "normal", Format: "RGB16F"},
			{Name: "albedo", Format: "RGB16F"},
		},
		Depth: "DEPTH_COMPONENT16",
	}
}

// NewShadowMap is depth only; samples outside the light frustum read as
// maximum distance.
func NewShadowMap(size int) *Framebuffer {
	white := mgl32.Vec4{1, 1, 1, 1}
	return &Framebuffer{
		Name:   "shadow",
		Width:  size,
		Height: size,
		Depth:  "DEPTH_COMPONENT16",
		Border: &white,
	}
}
