package web

import (
	"bytes"
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/viewer"
	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/webutils"
)

const (
	defaultStep  = 1.0 / 60
	maxPoseBytes = 16 << 20
)

type server struct {
	viewer *viewer.Viewer
}

func (s *server) HandlerScene(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, s.viewer.Snapshot())
}

// HandlerSceneUpdate takes a partial set of parameters; absent fields keep
// their current values.
func (s *server) HandlerSceneUpdate(w http.ResponseWriter, r *http.Request) {
	params := s.viewer.Params()
	if err := webutils.ReadJson(r, &params); err != nil {
		webutils.WriteBadRequest(w, err)
		return
	}
	webutils.WriteJson(w, s.viewer.ApplyParams(params))
}

func (s *server) HandlerHierarchy(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, s.viewer.Pose())
}

func (s *server) HandlerFrame(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, s.viewer.LastFrame())
}

func (s *server) HandlerCameraReset(w http.ResponseWriter, r *http.Request) {
	s.viewer.ResetCamera()
	webutils.WriteJson(w, s.viewer.Snapshot())
}

func (s *server) HandlerStep(w http.ResponseWriter, r *http.Request) {
	dt := float32(defaultStep)
	if q := r.URL.Query().Get("dt"); q != "" {
		v, err := strconv.ParseFloat(q, 32)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			webutils.WriteBadRequest(w, errors.Errorf("param 'dt' %q is not a finite non-negative number", q))
			return
		}
		dt = float32(v)
	}
	pose := s.viewer.Step(dt, nil)
	if err := s.viewer.Hub.Broadcast(pose); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, pose)
}

func (s *server) HandlerResize(w http.ResponseWriter, r *http.Request) {
	width, _ := strconv.Atoi(mux.Vars(r)["width"])
	height, _ := strconv.Atoi(mux.Vars(r)["height"])
	if err := s.viewer.Resize(width, height); err != nil {
		webutils.WriteBadRequest(w, err)
		return
	}
	webutils.WriteJson(w, s.viewer.Snapshot())
}

// HandlerLoadPose takes a glTF or GLB body and poses the skeleton with it.
func (s *server) HandlerLoadPose(w http.ResponseWriter, r *http.Request) {
	pose, err := s.viewer.LoadPose(http.MaxBytesReader(w, r.Body, maxPoseBytes))
	if err != nil {
		webutils.WriteBadRequest(w, err)
		return
	}
	if err := s.viewer.Hub.Broadcast(pose); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, pose)
}

func (s *server) HandlerDumpGLB(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.viewer.ExportGLB(&buf); err != nil {
		webutils.WriteError(w, errors.Wrap(err, "Failed to export gltf"))
		return
	}
	webutils.WriteFileHeaders(w, "hierarchy.glb")
	webutils.WriteResult(w, buf.Bytes())
}
