package render

import (
	"fmt"
	"strings"
)

type Command struct {
	Op    string      `json:"op"`
	Name  string      `json:"name,omitempty"`
	Value interface{} `json:"value,omitempty"`
}

func (c Command) String() string {
	if c.Value == nil {
		return fmt.Sprintf("%s %s", c.Op, c.Name)
	}
	return fmt.Sprintf("%s %s %v", c.Op, c.Name, c.Value)
}

func framebufferName(fb *Framebuffer) string {
	if fb == nil {
		return "backbuffer"
	}
	return fb.Name
}

// Recorder keeps every command it receives.
type Recorder struct {
	Commands []Command
}

func (r *Recorder) add(op, name string, value interface{}) {
	r.Commands = append(r.Commands, Command{Op: op, Name: name, Value: value})
}

func (r *Recorder) Reset() { r.Commands = r.Commands[:0] }

func (r *Recorder) BindFramebuffer(fb *Framebuffer)           { r.add("bindFramebuffer", framebufferName(fb), nil) }
func (r *Recorder) Viewport(width, height int)                { r.add("viewport", "", [2]int{width, height}) }
func (r *Recorder) CullFace(mode CullMode)                    { r.add("cullFace", mode.String(), nil) }
func (r *Recorder) UseProgram(name string)                    { r.add("useProgram", name, nil) }
func (r *Recorder) BindTexture(unit int, texture string)      { r.add("bindTexture", texture, unit) }
func (r *Recorder) SetUniform(name string, value interface{}) { r.add("setUniform", name, value) }
func (r *Recorder) Draw(mesh string)                          { r.add("draw", mesh, nil) }
func (r *Recorder) DrawFullscreen()                           { r.add("drawFullscreen", "", nil) }

func (r *Recorder) Clear(color, depth bool) {
	var bits []string
	if color {
		bits = append(bits, "color")
	}
	if depth {
		bits = append(bits, "depth")
	}
	r.add("clear", strings.Join(bits, "|"), nil)
}

func (r *Recorder) BlitDepth(src, dst *Framebuffer, width, height int) {
	r.add("blitDepth", framebufferName(src)+"->"+framebufferName(dst), [2]int{width, height})
}

// Passes splits the recording at framebuffer binds.
func (r *Recorder) Passes() [][]Command {
	var passes [][]Command
	for _, c := range r.Commands {
		if c.Op == "bindFramebuffer" || len(passes) == 0 {
			passes = append(passes, nil)
		}
		passes[len(passes)-1] = append(passes[len(passes)-1], c)
	}
	return passes
}

// Counter only tallies what a frame costs.
type Counter struct {
	Framebuffers int
	Programs     int
	Uniforms     int
	Textures     int
	Draws        int
	Fullscreen   int
	Blits        int
}

func (c *Counter) BindFramebuffer(fb *Framebuffer)                    { c.Framebuffers++ }
func (c *Counter) Viewport(width, height int)                         {}
func (c *Counter) Clear(color, depth bool)                            {}
func (c *Counter) CullFace(mode CullMode)                             {}
func (c *Counter) UseProgram(name string)                             { c.Programs++ }
func (c *Counter) SetUniform(name string, value interface{})          { c.Uniforms++ }
func (c *Counter) BindTexture(unit int, texture string)               { c.Textures++ }
func (c *Counter) Draw(mesh string)                                   { c.Draws++ }
func (c *Counter) DrawFullscreen()                                    { c.Fullscreen++ }
func (c *Counter) BlitDepth(src, dst *Framebuffer, width, height int) { c.Blits++ }

var (
	_ Device = (*Recorder)(nil)
	_ Device = (*Counter)(nil)
)
