// Package main is the entry point for the portal viewer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/portal-viewer/internal/assets"
	"github.com/Faultbox/portal-viewer/internal/config"
	"github.com/Faultbox/portal-viewer/internal/engine/capture"
	"github.com/Faultbox/portal-viewer/internal/engine/renderer"
	"github.com/Faultbox/portal-viewer/internal/engine/window"
	"github.com/Faultbox/portal-viewer/internal/logger"
	"github.com/Faultbox/portal-viewer/internal/viewer"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		return 1
	}

	if path := config.DumpPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			return 1
		}
		return 0
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Info("=== Portal Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		logger.Error("failed to create window", zap.Error(err))
		return 1
	}
	defer win.Close()

	dw, dh := win.DrawableSize()
	rend, err := renderer.New(renderer.Config{
		Width:   dw,
		Height:  dh,
		Samples: cfg.Window.Antialias,
	})
	if err != nil {
		logger.Error("failed to create renderer", zap.Error(err))
		return 1
	}
	defer rend.Close()

	v, err := viewer.New(cfg, viewer.Deps{
		Renderer: rend,
		Surface:  win,
		Capturer: capture.New(cfg.Capture.Dir, "portal"),
	})
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := assets.NewLoader(assets.NewSource(""), v.Post)
	v.LoadModel(ctx, loader, cfg.Scene.Model)

	if err := v.Run(ctx); err != nil {
		logger.Error("viewer error", zap.Error(err))
		return 1
	}

	logger.Info("viewer closed normally")
	return 0
}
