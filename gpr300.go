package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/config"
	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/render"
	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/scene"
	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/utils"
	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/viewer"
	"github.com/JoeyClementeCode/gpr300-sp24-joey-clemente/web"
)

func main() {
	var addr, scenePath, posePath string
	var fps, frames int
	var dump bool
	flag.StringVar(&addr, "i", ":8000", "Address of inspector server")
	flag.StringVar(&scenePath, "config", "", "Path to scene yaml, built in scene if empty")
	flag.StringVar(&posePath, "pose", "", "Path to glTF or GLB file posing the skeleton at start")
	flag.IntVar(&fps, "fps", 60, "Frames per second of the frame loop")
	flag.IntVar(&frames, "frames", 0, "Run this many frames headless, print the skeleton and exit")
	flag.BoolVar(&dump, "dump", false, "Dump the initial scene state and exit")
	flag.Parse()

	if fps <= 0 {
		log.Fatalf("invalid -fps %d", fps)
	}

	cfg := config.Default()
	if scenePath != "" {
		var err error
		if cfg, err = config.Load(scenePath); err != nil {
			log.Fatal(err)
		}
	}

	v, err := viewer.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if posePath != "" {
		f, err := os.Open(posePath)
		if err != nil {
			log.Fatal(err)
		}
		_, err = v.LoadPose(f)
		f.Close()
		if err != nil {
			log.Fatal(err)
		}
	}

	if dump {
		v.State(func(s *scene.State) {
			utils.LogDump(s.Snapshot())
		})
		log.Printf("\n%s", v.StringTree())
		return
	}

	if frames > 0 {
		var counter render.Counter
		dt := float32(1) / float32(fps)
		for i := 0; i < frames; i++ {
			v.Step(dt, &counter)
		}
		log.Printf("%d frames: %s", frames, utils.SDump(counter))
		log.Printf("\n%s", v.StringTree())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		if err := web.StartServer(addr, v); err != nil {
			log.Fatal(err)
		}
	}()

	if err := v.Run(ctx, fps, nil); err != nil {
		log.Fatal(err)
	}
	v.Hub.Close()
}
