// pkg/config/presets.go
package config

import (
	"fmt"
	"math"
	"sort"

	"github.com/opd-ai/go-physics2d/pkg/physics"
)

// Preset dimensions shared by the built-in scenes
const (
	presetWidth  = 800.0
	presetHeight = 600.0
)

var allWalls = []string{"bottom", "top", "left", "right"}

// presets maps a name to the function that builds the scene
var presets = map[string]func() *SceneConfig{
	"balls":     ballsPreset,
	"blocks":    blocksPreset,
	"collide":   collidePreset,
	"softbox":   softBoxPreset,
	"rope":      ropePreset,
	"eightball": eightBallPreset,
}

// PresetNames returns the built-in scene names in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns a fresh copy of a built-in scene
func Preset(name string) (*SceneConfig, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", name)
	}
	return build(), nil
}

// ResolveScene loads the scene file at path, or the named preset when path
// is empty, and applies environment overrides to its simulation settings
func ResolveScene(path, preset string) (*SceneConfig, error) {
	var scene *SceneConfig
	var err error
	if path != "" {
		scene, err = LoadScene(path)
	} else {
		scene, err = Preset(preset)
	}
	if err != nil {
		return nil, err
	}

	if err := ApplyEnvironmentOverrides(&scene.Simulation); err != nil {
		return nil, fmt.Errorf("failed to apply environment configuration: %w", err)
	}
	return scene, nil
}

func baseScene(name string) *SceneConfig {
	return &SceneConfig{
		Name:       name,
		Bounds:     physics.NewRect(0, 0, presetWidth, presetHeight),
		Walls:      append([]string(nil), allWalls...),
		Simulation: DefaultSimulation(),
	}
}

// ballsPreset drops a grid of circles with alternating sideways velocities
func ballsPreset() *SceneConfig {
	scene := baseScene("balls")
	for row := 0; row < 5; row++ {
		for col := 0; col < 10; col++ {
			vx := 40.0
			if (row+col)%2 == 1 {
				vx = -40
			}
			scene.Bodies = append(scene.Bodies, BodyConfig{
				Shape:    "circle",
				Position: physics.Vector2D{X: 80 + float64(col)*70, Y: 60 + float64(row)*60},
				Velocity: physics.Vector2D{X: vx, Y: 0},
				Radius:   12 + float64((row*10+col)%3)*4,
				Mass:     1,
			})
		}
	}
	return scene
}

// blocksPreset stacks boxes and mixed polygons on a static ledge
func blocksPreset() *SceneConfig {
	scene := baseScene("blocks")
	scene.Simulation.Gravity = physics.Vector2D{X: 0, Y: 5}
	scene.Simulation.LinearDrag = 0.9
	scene.Simulation.AngularDrag = 1
	scene.Simulation.RestThreshold = 0.05

	scene.Bodies = append(scene.Bodies, BodyConfig{
		Shape:    "box",
		Position: physics.Vector2D{X: 400, Y: 450},
		Width:    500,
		Height:   20,
		Static:   true,
	})
	for i := 0; i < 6; i++ {
		scene.Bodies = append(scene.Bodies, BodyConfig{
			Shape:    "box",
			Position: physics.Vector2D{X: 300 + float64(i%2)*10, Y: 400 - float64(i)*45},
			Width:    60,
			Height:   40,
			Mass:     2,
		})
	}
	scene.Bodies = append(scene.Bodies,
		BodyConfig{Shape: "regular", Position: physics.Vector2D{X: 500, Y: 200}, Sides: 5, Radius: 30, Mass: 3, Theta: 0.3},
		BodyConfig{Shape: "regular", Position: physics.Vector2D{X: 560, Y: 100}, Sides: 3, Radius: 35, Mass: 2},
		BodyConfig{
			Shape:    "polygon",
			Position: physics.Vector2D{X: 450, Y: 60},
			Vertices: []physics.Vector2D{{X: -30, Y: 20}, {X: 30, Y: 20}, {X: 20, Y: -20}, {X: -20, Y: -20}},
			Mass:     2,
		},
	)
	return scene
}

// collidePreset is the head-on two circle exchange without gravity
func collidePreset() *SceneConfig {
	scene := baseScene("collide")
	scene.Walls = nil
	scene.Bounds = physics.NewRect(-100, -100, 200, 200)
	scene.Simulation.Gravity = physics.Vector2D{}
	scene.Bodies = []BodyConfig{
		{Shape: "circle", Position: physics.Vector2D{X: 0, Y: 0}, Velocity: physics.Vector2D{X: 10}, Radius: 10, Mass: 1},
		{Shape: "circle", Position: physics.Vector2D{X: 15, Y: 0}, Velocity: physics.Vector2D{X: -10}, Radius: 10, Mass: 1},
	}
	return scene
}

// softBoxPreset drops braced verlet boxes next to a rigid obstacle
func softBoxPreset() *SceneConfig {
	scene := baseScene("softbox")
	scene.Simulation.Gravity = physics.Vector2D{X: 0, Y: 50}
	scene.SoftBodies = []SoftBodyConfig{
		{Kind: "box", Center: physics.Vector2D{X: 250, Y: 100}, Size: 80, Mass: 1},
		{Kind: "box", Center: physics.Vector2D{X: 500, Y: 200}, Size: 60, Mass: 1},
	}
	scene.Bodies = []BodyConfig{
		{Shape: "box", Position: physics.Vector2D{X: 400, Y: 500}, Width: 200, Height: 30, Static: true},
	}
	return scene
}

// ropePreset hangs pinned verlet ropes
func ropePreset() *SceneConfig {
	scene := baseScene("rope")
	scene.Simulation.Gravity = physics.Vector2D{X: 0, Y: 50}
	scene.SoftBodies = []SoftBodyConfig{
		{Kind: "rope", Start: physics.Vector2D{X: 200, Y: 50}, End: physics.Vector2D{X: 400, Y: 50}, Segments: 20, Mass: 1},
		{Kind: "rope", Start: physics.Vector2D{X: 550, Y: 50}, End: physics.Vector2D{X: 550, Y: 250}, Segments: 12, Mass: 1},
	}
	return scene
}

// eightBallPreset racks fifteen balls in a triangle with a cue ball
// heading into the apex. Gravity is off and drag slows the table.
func eightBallPreset() *SceneConfig {
	scene := baseScene("eightball")
	scene.Simulation.Gravity = physics.Vector2D{}
	scene.Simulation.LinearDrag = 0.3
	scene.Simulation.RestThreshold = 1

	const radius = 12.0
	apex := physics.Vector2D{X: 520, Y: 300}
	rowStep := radius * math.Sqrt(3)
	for row := 0; row < 5; row++ {
		for i := 0; i <= row; i++ {
			scene.Bodies = append(scene.Bodies, BodyConfig{
				Shape: "circle",
				Position: physics.Vector2D{
					X: apex.X + float64(row)*rowStep,
					Y: apex.Y + (float64(i)-float64(row)/2)*2*radius,
				},
				Radius: radius,
				Mass:   1,
			})
		}
	}
	scene.Bodies = append(scene.Bodies, BodyConfig{
		Shape:    "circle",
		Position: physics.Vector2D{X: 200, Y: 300},
		Velocity: physics.Vector2D{X: 400, Y: 0},
		Radius:   radius,
		Mass:     1,
	})
	return scene
}
