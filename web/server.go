package web

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/viewer"
)

func NewRouter(v *viewer.Viewer) *mux.Router {
	s := &server{viewer: v}

	r := mux.NewRouter()
	r.HandleFunc("/json/scene", s.HandlerScene).Methods(http.MethodGet)
	r.HandleFunc("/json/scene", s.HandlerSceneUpdate).Methods(http.MethodPost)
	r.HandleFunc("/json/hierarchy", s.HandlerHierarchy).Methods(http.MethodGet)
	r.HandleFunc("/json/frame", s.HandlerFrame).Methods(http.MethodGet)
	r.HandleFunc("/action/camera/reset", s.HandlerCameraReset).Methods(http.MethodPost)
	r.HandleFunc("/action/step", s.HandlerStep).Methods(http.MethodPost)
	r.HandleFunc("/action/resize/{width:[0-9]+}/{height:[0-9]+}", s.HandlerResize).Methods(http.MethodPost)
	r.HandleFunc("/action/pose", s.HandlerLoadPose).Methods(http.MethodPost)
	r.HandleFunc("/dump/hierarchy.glb", s.HandlerDumpGLB).Methods(http.MethodGet)
	r.HandleFunc("/ws/pose", v.Hub.ServeWS)
	return r
}

func StartServer(addr string, v *viewer.Viewer) error {
	h := handlers.LoggingHandler(os.Stdout, NewRouter(v))
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
