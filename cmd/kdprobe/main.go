// kdprobe loads a model scene, plays an animation on it and runs collision
// queries against the posed model.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/kdframe/internal/assets"
	"github.com/Faultbox/kdframe/internal/config"
	"github.com/Faultbox/kdframe/internal/logger"
)

var (
	flagScene      = flag.String("scene", "", "Scene file (.yaml, .yml, .msgpack, .mpk)")
	flagClip       = flag.String("clip", "", "Animation clip to play")
	flagFrames     = flag.Int("frames", 0, "Number of animation ticks to advance")
	flagRay        = flag.String("ray", "", "Ray query x,y,z:dx,dy,dz:range")
	flagSphere     = flag.String("sphere", "", "Sphere query x,y,z:r")
	flagOrbit      = flag.String("orbit", "", "Sight ray from an orbit camera yaw,pitch,distance looking at the origin")
	flagTypes      = flag.String("types", "ground", "Comma separated query types")
	flagSaveConfig = flag.String("save-config", "", "Write the effective config to this path")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *flagSaveConfig != "" {
		if err := cfg.SaveTo(*flagSaveConfig); err != nil {
			logger.Error("saving config", zap.Error(err))
			os.Exit(1)
		}
	}

	if *flagScene == "" {
		fmt.Fprintln(os.Stderr, "Usage: kdprobe -scene <file> [-clip name] [-frames N] [-ray x,y,z:dx,dy,dz:range] [-sphere x,y,z:r] [-orbit yaw,pitch,dist] [-types ground,bump]")
		os.Exit(1)
	}

	req, err := parseRequest(*flagScene, *flagClip, *flagFrames, *flagRay, *flagSphere, *flagOrbit, *flagTypes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store := assets.NewStore(cfg.Assets.Root, logger.Named("assets"))
	if err := run(cfg, req, store, os.Stdout); err != nil {
		logger.Error("probe failed", zap.Error(err))
		os.Exit(1)
	}

	if !cfg.Assets.Watch {
		return
	}

	w, err := assets.NewWatcher(store, cfg.Assets.Debounce, cfg.Assets.Root)
	if err != nil {
		logger.Error("starting watcher", zap.Error(err))
		os.Exit(1)
	}
	defer w.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	logger.Info("watching for scene changes", zap.String("root", cfg.Assets.Root))

	for {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return
			}
			if path != store.Path(req.scene) {
				continue
			}
			if err := run(cfg, req, store, os.Stdout); err != nil {
				logger.Warn("probe failed after change", zap.String("path", path), zap.Error(err))
			}
		case err, ok := <-w.Errors:
			if ok {
				logger.Warn("watch error", zap.Error(err))
			}
		case <-sig:
			return
		}
	}
}
