// Package render issues the frame's passes against a Device. The device
// owns the actual graphics context; this package only decides what is
// bound, uploaded and drawn, and in which order.
package render

type CullMode int

const (
	CullBack CullMode = iota
	CullFront
)

func (m CullMode) String() string {
	if m == CullFront {
		return "front"
	}
	return "back"
}

type Device interface {
	// BindFramebuffer with nil binds the window backbuffer.
	BindFramebuffer(fb *Framebuffer)
	Viewport(width, height int)
	Clear(color, depth bool)
	CullFace(mode CullMode)
	UseProgram(name string)
	SetUniform(name string, value interface{})
	BindTexture(unit int, texture string)
	Draw(mesh string)
	DrawFullscreen()
	BlitDepth(src, dst *Framebuffer, width, height int)
}
