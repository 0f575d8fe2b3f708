// cmd/sandbox/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-physics2d/pkg/audio"
	"github.com/opd-ai/go-physics2d/pkg/config"
	"github.com/opd-ai/go-physics2d/pkg/engine"
	"github.com/opd-ai/go-physics2d/pkg/logging"
	"github.com/opd-ai/go-physics2d/pkg/render"
	engorender "github.com/opd-ai/go-physics2d/pkg/render/engo"
)

func main() {
	scenePath := flag.String("scene", "", "Path to a scene file (JSON or YAML)")
	preset := flag.String("preset", "balls", "Built-in scene: "+strings.Join(config.PresetNames(), ", "))
	renderer := flag.String("renderer", "terminal", "Renderer type: 'terminal', 'engo' or 'null'")
	sound := flag.Bool("sound", false, "Play impact sounds")
	showIndex := flag.Bool("quadtree", false, "Show quadtree node boundaries")
	width := flag.Int("width", 1024, "Window width (engo only)")
	height := flag.Int("height", 768, "Window height (engo only)")
	logPath := flag.String("log", "", "Log file (terminal renderer logs nowhere by default)")
	frames := flag.Int("frames", 600, "Frames to run (null renderer only)")
	maxFrame := flag.Duration("max-frame", 250*time.Millisecond, "Longest frame fed to the simulation when the scene sets no limit (0 disables)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, closeLog, err := newLogger(*renderer, *logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	scene, err := config.ResolveScene(*scenePath, *preset)
	if err != nil {
		logger.Error(ctx, "Failed to load scene", err, "scene", *scenePath, "preset", *preset)
		os.Exit(1)
	}

	// Interactive runs clamp long frames unless the scene sets its own limit
	if scene.Simulation.MaxFrameDelta == 0 {
		scene.Simulation.MaxFrameDelta = config.Duration(*maxFrame)
	}

	world, err := engine.BuildWorld(scene, engine.WithLogger(logger), engine.WithContext(ctx))
	if err != nil {
		logger.Error(ctx, "Failed to build world", err, "scene", scene.Name)
		os.Exit(1)
	}
	logger.Info(ctx, "Scene loaded",
		"scene", scene.Name,
		"bodies", world.Len(),
		"soft_bodies", len(world.SoftBodies()),
		"tick_rate", scene.Simulation.TickRate,
	)

	if *sound {
		player := audio.NewPlayer(audio.DefaultImpactParams(), logger)
		if err := player.Initialize(); err != nil {
			logger.Warn(ctx, "Sound disabled", "error", err)
		} else {
			player.Attach(world.EventBus())
			defer player.Close()
		}
	}

	controls := render.NewControls(world, scene, logger)
	controls.Options.Index = *showIndex

	switch *renderer {
	case "terminal":
		screen, err := tcell.NewScreen()
		if err != nil {
			logger.Error(ctx, "Failed to create terminal screen", err)
			os.Exit(1)
		}
		if err := screen.Init(); err != nil {
			logger.Error(ctx, "Failed to initialize terminal screen", err)
			os.Exit(1)
		}
		runTerminal(ctx, screen, controls, logger)
		screen.Fini()

	case "engo":
		engorender.Run("physics sandbox: "+scene.Name, *width, *height, controls, logger)

	case "null":
		runNull(ctx, controls, *frames, logger)

	default:
		logger.Error(ctx, "Unknown renderer", fmt.Errorf("renderer %q", *renderer))
		os.Exit(1)
	}
}

// newLogger keeps log output off the terminal the tcell renderer owns
func newLogger(renderer, path string) (*logging.Logger, func(), error) {
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return logging.NewLoggerTo(f), func() { f.Close() }, nil
	}
	if renderer == "terminal" {
		return logging.NewLoggerTo(io.Discard), func() {}, nil
	}
	return logging.NewLogger(), func() {}, nil
}

// runNull steps one fixed step per frame and draws into a counting renderer
func runNull(ctx context.Context, controls *render.Controls, frames int, logger *logging.Logger) {
	r := render.NewNullRenderer(logger)
	world := controls.World()
	world.Start()
	defer world.Stop()

	start := time.Now()
	for i := 0; i < frames; i++ {
		if ctx.Err() != nil {
			break
		}
		world.Advance(world.StepDuration())
		controls.Frame(r)
	}

	logger.Info(ctx, "Null run finished",
		"frames", r.Frames,
		"status", controls.Status(),
		"elapsed", time.Since(start).String(),
	)
}
