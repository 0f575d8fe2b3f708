// cmd/headless/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/opd-ai/go-physics2d/pkg/config"
	"github.com/opd-ai/go-physics2d/pkg/engine"
	"github.com/opd-ai/go-physics2d/pkg/health"
	"github.com/opd-ai/go-physics2d/pkg/logging"
)

func main() {
	logger := logging.NewLogger()
	ctx := logging.WithRunID(context.Background(), "")

	scenePath := flag.String("scene", "", "Path to a scene file (JSON or YAML)")
	preset := flag.String("preset", "balls", "Built-in scene: "+strings.Join(config.PresetNames(), ", "))
	writeDefault := flag.Bool("default", false, "Write the selected preset to -scene and exit")
	duration := flag.Duration("duration", 0, "Stop after this much simulated time (0 runs until interrupted)")
	healthAddr := flag.String("health", "", "Serve /health and /ready on this address (e.g. :8080)")
	maxMemory := flag.Int64("max-memory", 500, "Readiness memory limit in MB")
	flag.Parse()

	// Write the preset out if requested
	if *writeDefault {
		if err := writeScene(*preset, *scenePath); err != nil {
			logger.Error(ctx, "Failed to create scene file", err,
				"scene_path", *scenePath,
				"preset", *preset,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created scene file", "scene_path", *scenePath, "preset", *preset)
		return
	}

	scene, err := config.ResolveScene(*scenePath, *preset)
	if err != nil {
		logger.Error(ctx, "Failed to load scene", err, "scene_path", *scenePath, "preset", *preset)
		os.Exit(1)
	}

	world, err := engine.BuildWorld(scene, engine.WithLogger(logger), engine.WithContext(ctx))
	if err != nil {
		logger.Error(ctx, "Failed to build world", err, "scene", scene.Name)
		os.Exit(1)
	}

	r := newRunner(world, logger, ticksFor(*duration, world.StepDuration()))

	if *healthAddr != "" {
		healthServer := startHealthServer(ctx, logger, *healthAddr, r.monitor, *maxMemory)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := healthServer.Shutdown(shutdownCtx); err != nil {
				logger.Error(ctx, "Health check server shutdown failed", err)
			}
		}()
	}

	// Handle graceful shutdown
	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(world.StepDuration())
	defer ticker.Stop()
	report := time.NewTicker(time.Second)
	defer report.Stop()

	if r.run(runCtx, time.Now(), ticker.C, report.C) {
		logger.Info(ctx, "Simulation reached its duration", "duration", duration.String())
	} else {
		logger.Info(ctx, "Shutting down simulation")
	}
}

// writeScene saves a built-in preset to path
func writeScene(preset, path string) error {
	if path == "" {
		return errors.New("no scene path given, use -scene with -default")
	}
	scene, err := config.Preset(preset)
	if err != nil {
		return err
	}
	return config.SaveScene(scene, path)
}

// ticksFor converts a simulated duration into a tick limit. 0 means no limit.
func ticksFor(d, step time.Duration) uint64 {
	if d <= 0 || step <= 0 {
		return 0
	}
	return uint64(d / step)
}

// startHealthServer serves liveness and readiness probes in the background
func startHealthServer(ctx context.Context, logger *logging.Logger, addr string, monitor *health.Monitor, maxMemoryMB int64) *http.Server {
	checker := health.NewChecker()
	checker.AddCheck(health.NewProgressCheck(monitor, 2*time.Second))
	checker.AddCheck(health.NewStateCheck(monitor))
	checker.AddCheck(health.NewMemoryCheck(maxMemoryMB, nil))

	server := &http.Server{
		Addr:         addr,
		Handler:      checker.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info(ctx, "Starting health check server", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "Health check server failed", err)
		}
	}()
	return server
}
