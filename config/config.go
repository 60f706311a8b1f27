package config

import (
	_ "embed"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/hierarchy"
	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/r3d"
	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/utils"
)

//go:embed default.yaml
var defaultScene []byte

const MaxPointLights = 64

type Screen struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Camera struct {
	Position mgl32.Vec3 `yaml:"position"`
	Target   mgl32.Vec3 `yaml:"target"`
	Fov      float32    `yaml:"fov"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
}

type Light struct {
	Direction mgl32.Vec3 `yaml:"direction"`
	Color     mgl32.Vec3 `yaml:"color"`
}

// LightCamera is the orthographic camera rendering the shadow map. It
// sits Distance units against the light direction from Target.
type LightCamera struct {
	Target      mgl32.Vec3 `yaml:"target"`
	Distance    float32    `yaml:"distance"`
	OrthoHeight float32    `yaml:"orthoHeight"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
}

type Material struct {
	Ambient   float32 `yaml:"ambient" json:"ambient"`
	Diffuse   float32 `yaml:"diffuse" json:"diffuse"`
	Specular  float32 `yaml:"specular" json:"specular"`
	Shininess float32 `yaml:"shininess" json:"shininess"`
}

type ColorCorrect struct {
	Exposure   float32    `yaml:"exposure" json:"exposure"`
	Contrast   float32    `yaml:"contrast" json:"contrast"`
	Brightness float32    `yaml:"brightness" json:"brightness"`
	Filter     mgl32.Vec3 `yaml:"filter" json:"filter"`
}

type Shadow struct {
	MinBias float32 `yaml:"minBias" json:"minBias"`
	MaxBias float32 `yaml:"maxBias" json:"maxBias"`
	MapSize int     `yaml:"mapSize" json:"mapSize"`
}

// PointLights places lights on a grid: x in [XMin,XMax), y in [YMin,YMax),
// at (x*Spacing+Offset, Height, y*Spacing+Offset).
type PointLights struct {
	XMin    int     `yaml:"xMin"`
	XMax    int     `yaml:"xMax"`
	YMin    int     `yaml:"yMin"`
	YMax    int     `yaml:"yMax"`
	Spacing float32 `yaml:"spacing"`
	Offset  float32 `yaml:"offset"`
	Height  float32 `yaml:"height"`
	Radius  float32 `yaml:"radius"`
}

func (pl *PointLights) Count() int {
	if pl.XMax <= pl.XMin || pl.YMax <= pl.YMin {
		return 0
	}
	return (pl.XMax - pl.XMin) * (pl.YMax - pl.YMin)
}

type Plane struct {
	Position     mgl32.Vec3 `yaml:"position"`
	Size         float32    `yaml:"size"`
	Subdivisions int        `yaml:"subdivisions"`
}

type Spin struct {
	Axis  mgl32.Vec3 `yaml:"axis"`
	Speed float32    `yaml:"speed"` // radians per second
}

type Joint struct {
	Name     string      `yaml:"name"`
	Parent   string      `yaml:"parent"`
	Position mgl32.Vec3  `yaml:"position"`
	Rotation mgl32.Vec3  `yaml:"rotation"` // euler degrees
	Scale    *mgl32.Vec3 `yaml:"scale"`
	Spin     Spin        `yaml:"spin"`
}

func (j *Joint) Transform() r3d.Transform {
	t := r3d.NewTransform()
	t.Position = j.Position
	t.Rotation = utils.EulerToQuat(utils.DegToRadV3(j.Rotation))
	if j.Scale != nil {
		t.Scale = *j.Scale
	}
	return t
}

type Scene struct {
	Screen       Screen       `yaml:"screen"`
	Camera       Camera       `yaml:"camera"`
	Light        Light        `yaml:"light"`
	LightCamera  LightCamera  `yaml:"lightCamera"`
	Material     Material     `yaml:"material"`
	ColorCorrect ColorCorrect `yaml:"colorCorrect"`
	Shadow       Shadow       `yaml:"shadow"`
	PointLights  PointLights  `yaml:"pointLights"`
	Plane        Plane        `yaml:"plane"`
	Skeleton     []Joint      `yaml:"skeleton"`
}

func Default() *Scene {
	var s Scene
	if err := yaml.Unmarshal(defaultScene, &s); err != nil {
		panic(err)
	}
	return &s
}

func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read scene file %q", path)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Scene file %q", path)
	}
	return s, nil
}

// Parse reads a scene on top of the default one, so a file only needs
// the fields it changes. A skeleton list replaces the default skeleton.
func Parse(data []byte) (*Scene, error) {
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, errors.Wrap(err, "Unmarshaling error")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scene) Validate() error {
	if s.Screen.Width <= 0 || s.Screen.Height <= 0 {
		return errors.Errorf("screen: invalid size %dx%d", s.Screen.Width, s.Screen.Height)
	}
	if s.Shadow.MapSize <= 0 {
		return errors.Errorf("shadow: invalid map size %d", s.Shadow.MapSize)
	}
	if s.Camera.Near <= 0 || s.Camera.Near >= s.Camera.Far {
		return errors.Errorf("camera: invalid clip planes %v..%v", s.Camera.Near, s.Camera.Far)
	}
	if s.Camera.Fov <= 0 || s.Camera.Fov >= 180 {
		return errors.Errorf("camera: invalid fov %v", s.Camera.Fov)
	}
	if s.LightCamera.OrthoHeight <= 0 {
		return errors.Errorf("lightCamera: invalid ortho height %v", s.LightCamera.OrthoHeight)
	}
	if s.LightCamera.Distance == 0 {
		return errors.New("lightCamera: distance is zero")
	}
	if s.LightCamera.Near >= s.LightCamera.Far {
		return errors.Errorf("lightCamera: invalid clip planes %v..%v", s.LightCamera.Near, s.LightCamera.Far)
	}
	if s.Light.Direction.Len() == 0 {
		return errors.New("light: direction is zero")
	}
	if n := s.PointLights.Count(); n > MaxPointLights {
		return errors.Errorf("pointLights: %d lights, at most %d supported", n, MaxPointLights)
	}
	_, err := s.SkeletonSpecs()
	return err
}

// SkeletonSpecs resolves parent names into indices. A parent has to be
// declared before the joints referencing it.
func (s *Scene) SkeletonSpecs() ([]hierarchy.NodeSpec, error) {
	specs := make([]hierarchy.NodeSpec, len(s.Skeleton))
	declared := make(map[string]int, len(s.Skeleton))
	for i := range s.Skeleton {
		j := &s.Skeleton[i]
		if j.Name == "" {
			return nil, errors.Errorf("skeleton: joint %d has no name", i)
		}
		if _, dup := declared[j.Name]; dup {
			return nil, errors.Errorf("skeleton: joint %q declared twice", j.Name)
		}
		specs[i] = hierarchy.NodeSpec{Name: j.Name, Transform: j.Transform()}
		if j.Parent != "" {
			p, ok := declared[j.Parent]
			if !ok {
				return nil, errors.Wrapf(hierarchy.ErrInvalidHierarchy,
					"skeleton: joint %q parent %q is not declared before it", j.Name, j.Parent)
			}
			specs[i].Parent = hierarchy.ParentIndex(p)
		}
		declared[j.Name] = i
	}
	return specs, nil
}
