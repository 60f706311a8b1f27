// Package viewer runs the frame loop and serialises access to the scene
// state for the inspector.
package viewer

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/config"
	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/hierarchy"
	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/render"
	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/scene"
	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/status"
	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/utils"
	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/utils/gltfutils"
)

type Viewer struct {
	Session uuid.UUID
	Hub     *status.Hub

	lock      sync.Mutex
	state     *scene.State
	pipeline  *render.Pipeline
	lastFrame render.Recorder
}

func New(cfg *config.Scene) (*Viewer, error) {
	state, err := scene.New(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "scene")
	}
	pipeline, err := render.NewPipeline(state)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline")
	}
	v := &Viewer{
		Session:  uuid.New(),
		Hub:      status.NewHub(),
		state:    state,
		pipeline: pipeline,
	}
	v.pipeline.Frame(&v.lastFrame, v.state)
	return v, nil
}

// Step advances the scene by dt seconds and renders one frame into dev
// as well as into the frame recording. dev may be nil.
func (v *Viewer) Step(dt float32, dev render.Device) Pose {
	v.lock.Lock()
	defer v.lock.Unlock()

	v.state.Update(dt)
	v.lastFrame.Reset()
	v.pipeline.Frame(&v.lastFrame, v.state)
	if dev != nil {
		v.pipeline.Frame(dev, v.state)
	}
	return v.pose()
}

// Run steps at fps frames per second until ctx is done, broadcasting
// every pose to the hub.
func (v *Viewer) Run(ctx context.Context, fps int, dev render.Device) error {
	if fps <= 0 {
		return errors.Errorf("invalid fps %d", fps)
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	log.Printf("[viewer] Running session %v at %d fps", v.Session, fps)
	prev := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[viewer] Stopped")
			return nil
		case now := <-ticker.C:
			dt := float32(now.Sub(prev).Seconds())
			prev = now
			pose := v.Step(dt, dev)
			if err := v.Hub.Broadcast(pose); err != nil {
				log.Printf("[viewer] Broadcast error: %v", err)
			}
		}
	}
}

type NodePose struct {
	Name     string     `json:"name"`
	Parent   *int       `json:"parent"`
	Rotation mgl32.Vec3 `json:"rotation"` // local euler degrees
	Local    mgl32.Mat4 `json:"local"`
	Global   mgl32.Mat4 `json:"global"`
}

type Pose struct {
	Session uuid.UUID  `json:"session"`
	Frame   uint64     `json:"frame"`
	Time    float32    `json:"time"`
	Nodes   []NodePose `json:"nodes"`
}

func nodePoses(h *hierarchy.Hierarchy) []NodePose {
	nodes := make([]NodePose, h.Len())
	for i := range nodes {
		n := h.Node(i)
		nodes[i] = NodePose{
			Name:     n.Name,
			Rotation: utils.RadToDegV3(utils.QuatToEuler(n.Transform.Rotation)),
			Local:    n.Local,
			Global:   n.Global,
		}
		if p, ok := n.Parent(); ok {
			nodes[i].Parent = hierarchy.ParentIndex(p)
		}
	}
	return nodes
}

func (v *Viewer) pose() Pose {
	return Pose{
		Session: v.Session,
		Frame:   v.state.Frame,
		Time:    v.state.Time,
		Nodes:   nodePoses(v.state.Skeleton),
	}
}

func (v *Viewer) Pose() Pose {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.pose()
}

type Snapshot struct {
	Session uuid.UUID `json:"session"`
	scene.Snapshot
}

func (v *Viewer) Snapshot() Snapshot {
	v.lock.Lock()
	defer v.lock.Unlock()
	return Snapshot{Session: v.Session, Snapshot: v.state.Snapshot()}
}

func (v *Viewer) ApplyParams(p scene.Params) Snapshot {
	v.lock.Lock()
	v.state.ApplyParams(p)
	v.lock.Unlock()
	return v.Snapshot()
}

func (v *Viewer) Params() scene.Params {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.state.Params()
}

func (v *Viewer) ResetCamera() {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.state.ResetCamera()
}

func (v *Viewer) Resize(width, height int) error {
	v.lock.Lock()
	defer v.lock.Unlock()
	if err := v.pipeline.Resize(width, height); err != nil {
		return err
	}
	return v.state.Resize(width, height)
}

// LastFrame copies the commands of the most recent frame.
func (v *Viewer) LastFrame() []render.Command {
	v.lock.Lock()
	defer v.lock.Unlock()
	return append([]render.Command(nil), v.lastFrame.Commands...)
}

func (v *Viewer) ExportGLB(w io.Writer) error {
	v.lock.Lock()
	doc := gltfutils.NewDocument()
	gltfutils.ExportHierarchy(doc, v.state.Skeleton)
	v.lock.Unlock()
	return gltfutils.ExportBinary(w, doc)
}

// LoadPose reads a glTF or GLB document and copies the transforms of its
// nodes onto the skeleton nodes of the same name. Nodes without a match
// are ignored; a document matching no node is an error.
func (v *Viewer) LoadPose(r io.Reader) (Pose, error) {
	doc, err := gltfutils.Decode(r)
	if err != nil {
		return Pose{}, err
	}
	imported, err := gltfutils.ImportHierarchy(doc)
	if err != nil {
		return Pose{}, errors.Wrap(err, "pose")
	}

	v.lock.Lock()
	defer v.lock.Unlock()
	matched := 0
	for _, spec := range imported.Specs() {
		if i, ok := v.state.Skeleton.Index(spec.Name); ok {
			v.state.Skeleton.Node(i).Transform = spec.Transform
			matched++
		}
	}
	if matched == 0 {
		return Pose{}, errors.Errorf("pose: none of %d nodes match the skeleton", imported.Len())
	}
	v.state.Skeleton.Update()
	log.Printf("[viewer] Loaded pose for %d of %d nodes", matched, v.state.Skeleton.Len())
	return v.pose(), nil
}

func (v *Viewer) StringTree() string {
	v.lock.Lock()
	defer v.lock.Unlock()
	return v.state.Skeleton.StringTree()
}

// State hands the scene to f under the viewer lock.
func (v *Viewer) State(f func(s *scene.State)) {
	v.lock.Lock()
	defer v.lock.Unlock()
	f(v.state)
}
