package web

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/config"
	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/viewer"
)

func newServer(t *testing.T) (*viewer.Viewer, http.Handler) {
	v, err := viewer.New(config.Default())
	if err != nil {
		t.Fatal(err)
	}
	return v, NewRouter(v)
}

func do(t *testing.T, h http.Handler, method, url, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, url, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, url, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("%v: %s", err, rec.Body.String())
	}
}

func TestScene(t *testing.T) {
	v, h := newServer(t)
	var snap struct {
		Session  string
		Material config.Material
		Screen   config.Screen
	}
	decode(t, do(t, h, http.MethodGet, "/json/scene", ""), &snap)
	if snap.Session != v.Session.String() || snap.Material.Shininess != 128 || snap.Screen.Width != 1080 {
		t.Errorf("snapshot %+v", snap)
	}
}

func TestSceneUpdate(t *testing.T) {
	_, h := newServer(t)
	var snap struct {
		Material     config.Material
		ColorCorrect config.ColorCorrect
	}
	rec := do(t, h, http.MethodPost, "/json/scene", `{"material": {"shininess": 32}, "colorCorrect": {"contrast": 5}}`)
	decode(t, rec, &snap)
	if snap.Material.Shininess != 32 || snap.Material.Diffuse != 0.5 {
		t.Errorf("material %+v", snap.Material)
	}
	if snap.ColorCorrect.Contrast != 2 || snap.ColorCorrect.Exposure != 1 {
		t.Errorf("color correct %+v", snap.ColorCorrect)
	}

	if rec := do(t, h, http.MethodPost, "/json/scene", `{"material": `); rec.Code != http.StatusBadRequest {
		t.Errorf("broken body gave %d", rec.Code)
	}
}

func TestHierarchyAndStep(t *testing.T) {
	_, h := newServer(t)

	var pose viewer.Pose
	decode(t, do(t, h, http.MethodGet, "/json/hierarchy", ""), &pose)
	if pose.Frame != 0 || len(pose.Nodes) != 3 || pose.Nodes[1].Name != "arm" || *pose.Nodes[1].Parent != 0 {
		t.Errorf("pose %+v", pose)
	}

	decode(t, do(t, h, http.MethodPost, "/action/step?dt=0.5", ""), &pose)
	if pose.Frame != 1 || pose.Time != 0.5 {
		t.Errorf("after step %d %v", pose.Frame, pose.Time)
	}
	decode(t, do(t, h, http.MethodPost, "/action/step", ""), &pose)
	if pose.Frame != 2 {
		t.Errorf("default step frame %d", pose.Frame)
	}

	for _, bad := range []string{"/action/step?dt=abc", "/action/step?dt=-1"} {
		if rec := do(t, h, http.MethodPost, bad, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("%s gave %d", bad, rec.Code)
		}
	}
}

func TestStepNonFinite(t *testing.T) {
	v, h := newServer(t)
	for _, bad := range []string{"NaN", "Inf", "-Inf", "+Inf"} {
		if rec := do(t, h, http.MethodPost, "/action/step?dt="+bad, ""); rec.Code != http.StatusBadRequest {
			t.Errorf("dt=%s gave %d: %s", bad, rec.Code, rec.Body.String())
		}
	}

	var pose viewer.Pose
	decode(t, do(t, h, http.MethodPost, "/action/step?dt=0.016", ""), &pose)
	if pose.Frame != 1 {
		t.Errorf("frame %d after rejected steps", pose.Frame)
	}
	decode(t, do(t, h, http.MethodGet, "/json/hierarchy", ""), &pose)
	for i, f := range v.Pose().Nodes[0].Global {
		if math.IsNaN(float64(f)) {
			t.Fatalf("global[%d] of root is NaN", i)
		}
	}
}

func TestFrame(t *testing.T) {
	_, h := newServer(t)
	var frame []struct {
		Op   string
		Name string
	}
	decode(t, do(t, h, http.MethodGet, "/json/frame", ""), &frame)
	if len(frame) == 0 || frame[0].Op != "bindFramebuffer" || frame[0].Name != "shadow" {
		t.Errorf("frame starts with %+v", frame[:1])
	}
}

func TestCameraResetAndResize(t *testing.T) {
	_, h := newServer(t)
	var snap struct {
		CameraPosition [3]float32
		Screen         config.Screen
	}
	decode(t, do(t, h, http.MethodPost, "/action/camera/reset", ""), &snap)
	if snap.CameraPosition != [3]float32{0, 0, 5} {
		t.Errorf("camera %v", snap.CameraPosition)
	}

	decode(t, do(t, h, http.MethodPost, "/action/resize/800/600", ""), &snap)
	if snap.Screen.Width != 800 || snap.Screen.Height != 600 {
		t.Errorf("screen %+v", snap.Screen)
	}
	if rec := do(t, h, http.MethodPost, "/action/resize/0/600", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("zero width gave %d", rec.Code)
	}
}

func TestDumpGLB(t *testing.T) {
	_, h := newServer(t)
	rec := do(t, h, http.MethodGet, "/dump/hierarchy.glb", "")
	if rec.Code != http.StatusOK || !bytes.HasPrefix(rec.Body.Bytes(), []byte("glTF")) {
		t.Errorf("dump %d %q", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "hierarchy.glb") {
		t.Errorf("content disposition %q", cd)
	}
}

func TestLoadPose(t *testing.T) {
	src, srcHandler := newServer(t)
	src.Step(0.4, nil)
	glb := do(t, srcHandler, http.MethodGet, "/dump/hierarchy.glb", "").Body.String()

	v, h := newServer(t)
	var pose viewer.Pose
	decode(t, do(t, h, http.MethodPost, "/action/pose", glb), &pose)
	if len(pose.Nodes) != 3 || pose.Nodes[2].Global != v.Pose().Nodes[2].Global {
		t.Errorf("pose %+v", pose)
	}
	if rot := pose.Nodes[0].Rotation; rot[1] < 22 || rot[1] > 24 {
		t.Errorf("torso rotation %v after loading", rot)
	}

	if rec := do(t, h, http.MethodPost, "/action/pose", "garbage"); rec.Code != http.StatusBadRequest {
		t.Errorf("garbage pose gave %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	_, h := newServer(t)
	if rec := do(t, h, http.MethodGet, "/action/step", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /action/step gave %d", rec.Code)
	}
}
