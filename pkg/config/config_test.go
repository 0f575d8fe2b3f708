package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/opd-ai/go-physics2d/pkg/physics"
)

func TestDefaultSimulation(t *testing.T) {
	cfg := DefaultSimulation()

	if cfg.TickRate != 60 {
		t.Errorf("Expected TickRate 60, got %d", cfg.TickRate)
	}
	if cfg.Iterations != 5 {
		t.Errorf("Expected Iterations 5, got %d", cfg.Iterations)
	}
	if cfg.Restitution != 0.4 || cfg.CircleRestitution != 1.0 || cfg.WallRestitution != 0.8 {
		t.Errorf("Unexpected restitution defaults %f/%f/%f",
			cfg.Restitution, cfg.CircleRestitution, cfg.WallRestitution)
	}
	if cfg.MaxFrameDelta != 0 {
		t.Errorf("Expected frame clamp off by default, got %v", time.Duration(cfg.MaxFrameDelta))
	}
	if cfg.Quadtree.Capacity != 4 || cfg.Quadtree.MinArea != 900 {
		t.Errorf("Unexpected quadtree defaults %+v", cfg.Quadtree)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default simulation should validate, got %v", err)
	}
}

func TestSimulationConfig_StepDuration(t *testing.T) {
	tests := []struct {
		name     string
		tickRate int
		expected time.Duration
	}{
		{"sixty_hz", 60, time.Second / 60},
		{"two_forty_hz", 240, time.Second / 240},
		{"six_hz", 6, time.Second / 6},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := SimulationConfig{TickRate: tt.tickRate}
			if got := cfg.StepDuration(); got != tt.expected {
				t.Errorf("StepDuration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSimulationConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*SimulationConfig)
		field  string
	}{
		{"zero_tick_rate", func(c *SimulationConfig) { c.TickRate = 0 }, "tickRate"},
		{"negative_iterations", func(c *SimulationConfig) { c.Iterations = -1 }, "iterations"},
		{"negative_frame_delta", func(c *SimulationConfig) { c.MaxFrameDelta = -1 }, "maxFrameDelta"},
		{"negative_drag", func(c *SimulationConfig) { c.LinearDrag = -0.1 }, "drag"},
		{"negative_restitution", func(c *SimulationConfig) { c.WallRestitution = -1 }, "restitution"},
		{"zero_capacity", func(c *SimulationConfig) { c.Quadtree.Capacity = 0 }, "quadtree.capacity"},
		{"negative_min_area", func(c *SimulationConfig) { c.Quadtree.MinArea = -5 }, "quadtree.minArea"},
		{"negative_margin", func(c *SimulationConfig) { c.QueryMargin = -1 }, "queryMargin"},
		{"unknown_contact_mode", func(c *SimulationConfig) { c.ContactMode = "gjk" }, "contactMode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSimulation()
			tt.modify(&cfg)

			var verr *ValidationError
			if err := cfg.Validate(); !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}

func TestSceneConfig_Validate(t *testing.T) {
	scene := &SceneConfig{Bounds: physics.NewRect(0, 0, 100, 100), Simulation: DefaultSimulation()}
	if err := scene.Validate(); err != nil {
		t.Fatalf("Valid scene rejected: %v", err)
	}

	scene.Walls = []string{"floor", "diagonal"}
	if err := scene.Validate(); err == nil || !strings.Contains(err.Error(), "diagonal") {
		t.Errorf("Expected unknown wall error, got %v", err)
	}

	scene.Walls = nil
	scene.Bounds.Size.X = 0
	if err := scene.Validate(); err == nil {
		t.Error("Expected error for empty bounds")
	}
}

func TestParseWallSide(t *testing.T) {
	tests := []struct {
		name     string
		expected physics.WallSide
		ok       bool
	}{
		{"bottom", physics.WallBottom, true},
		{"Floor", physics.WallBottom, true},
		{"ceiling", physics.WallTop, true},
		{"LEFT", physics.WallLeft, true},
		{"right", physics.WallRight, true},
		{"middle", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			side, ok := ParseWallSide(tt.name)
			if ok != tt.ok || (ok && side != tt.expected) {
				t.Errorf("ParseWallSide(%q) = %v, %v", tt.name, side, ok)
			}
		})
	}
}

func TestLoadScene_JSON(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "scene.json")

	content := `{
		"name": "json-scene",
		"bounds": {"Pos": {"X": 0, "Y": 0}, "Size": {"X": 320, "Y": 240}},
		"walls": ["bottom"],
		"simulation": {"tickRate": 240, "maxFrameDelta": "100ms"},
		"bodies": [{"shape": "circle", "position": {"X": 10, "Y": 20}, "radius": 5, "mass": 2}]
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test scene: %v", err)
	}

	scene, err := LoadScene(path)
	if err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}

	if scene.Name != "json-scene" || scene.Bounds.Size.X != 320 {
		t.Errorf("Unexpected scene header %+v", scene)
	}
	if scene.Simulation.TickRate != 240 {
		t.Errorf("Expected TickRate 240, got %d", scene.Simulation.TickRate)
	}
	if time.Duration(scene.Simulation.MaxFrameDelta) != 100*time.Millisecond {
		t.Errorf("Expected MaxFrameDelta 100ms, got %v", time.Duration(scene.Simulation.MaxFrameDelta))
	}
	// fields absent from the file keep their defaults
	if scene.Simulation.Iterations != 5 {
		t.Errorf("Expected default Iterations 5, got %d", scene.Simulation.Iterations)
	}
	if len(scene.Bodies) != 1 || scene.Bodies[0].Radius != 5 || scene.Bodies[0].Position.Y != 20 {
		t.Errorf("Unexpected bodies %+v", scene.Bodies)
	}
}

func TestLoadScene_YAML(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "scene.yaml")

	content := `name: yaml-scene
bounds:
  pos: {x: 0, y: 0}
  size: {x: 400, y: 300}
walls: [bottom, left, right]
simulation:
  contactMode: segment
  gravity: {x: 0, y: 5}
bodies:
  - shape: box
    position: {x: 100, y: 50}
    width: 40
    height: 20
    mass: 1
  - shape: polygon
    position: {x: 200, y: 50}
    mass: 1
    vertices:
      - {x: -10, y: 10}
      - {x: 10, y: 10}
      - {x: 0, y: -10}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test scene: %v", err)
	}

	scene, err := LoadScene(path)
	if err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}

	if scene.Simulation.ContactMode != "segment" || scene.Simulation.Gravity.Y != 5 {
		t.Errorf("Unexpected simulation %+v", scene.Simulation)
	}
	if len(scene.Walls) != 3 {
		t.Errorf("Expected 3 walls, got %v", scene.Walls)
	}
	if len(scene.Bodies) != 2 || len(scene.Bodies[1].Vertices) != 3 {
		t.Fatalf("Unexpected bodies %+v", scene.Bodies)
	}
	if scene.Bodies[0].Width != 40 || scene.Bodies[0].Height != 20 {
		t.Errorf("Unexpected box %+v", scene.Bodies[0])
	}
}

func TestLoadScene_FileNotFound(t *testing.T) {
	_, err := LoadScene("/nonexistent/scene.json")
	if err == nil {
		t.Fatal("Expected error for non-existent file")
	}
	if !strings.Contains(err.Error(), "failed to read scene file") {
		t.Errorf("Unexpected error message: %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("Expected wrapped os.ErrNotExist")
	}
}

func TestLoadScene_InvalidContent(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"invalid_json", "scene.json", `{"name": "broken",`},
		{"invalid_yaml", "scene.yml", "bodies: [\n  - shape: circle\n  radius"},
		{"invalid_duration", "scene.json", `{"simulation": {"maxFrameDelta": "soon"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tempDir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("Failed to write test file: %v", err)
			}
			_, err := LoadScene(path)
			if err == nil || !strings.Contains(err.Error(), "failed to parse scene file") {
				t.Errorf("Expected parse error, got %v", err)
			}
		})
	}
}

func TestSaveScene_RoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	original, err := Preset("blocks")
	if err != nil {
		t.Fatalf("Preset failed: %v", err)
	}

	for _, file := range []string{"blocks.json", "blocks.yaml"} {
		t.Run(file, func(t *testing.T) {
			path := filepath.Join(tempDir, file)
			if err := SaveScene(original, path); err != nil {
				t.Fatalf("SaveScene failed: %v", err)
			}

			loaded, err := LoadScene(path)
			if err != nil {
				t.Fatalf("LoadScene failed: %v", err)
			}
			if loaded.Name != original.Name || len(loaded.Bodies) != len(original.Bodies) {
				t.Errorf("Scene header changed: %q/%d", loaded.Name, len(loaded.Bodies))
			}
			if loaded.Simulation.MaxFrameDelta != original.Simulation.MaxFrameDelta {
				t.Errorf("MaxFrameDelta changed: %v", time.Duration(loaded.Simulation.MaxFrameDelta))
			}
			if loaded.Simulation.LinearDrag != original.Simulation.LinearDrag {
				t.Errorf("LinearDrag changed: %f", loaded.Simulation.LinearDrag)
			}
			if !loaded.Bodies[0].Static || loaded.Bodies[0].Width != original.Bodies[0].Width {
				t.Errorf("First body changed: %+v", loaded.Bodies[0])
			}
		})
	}
}

func TestSaveScene_JSONDurationIsText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	scene := &SceneConfig{Name: "d", Simulation: DefaultSimulation()}
	scene.Simulation.MaxFrameDelta = Duration(250 * time.Millisecond)
	if err := SaveScene(scene, path); err != nil {
		t.Fatalf("SaveScene failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	var raw map[string]map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Saved file is not valid JSON: %v", err)
	}
	if raw["simulation"]["maxFrameDelta"] != "250ms" {
		t.Errorf("Expected maxFrameDelta \"250ms\", got %v", raw["simulation"]["maxFrameDelta"])
	}
}

func TestSaveScene_InvalidPath(t *testing.T) {
	err := SaveScene(&SceneConfig{}, "/nonexistent/directory/scene.json")
	if err == nil || !strings.Contains(err.Error(), "failed to write scene file") {
		t.Errorf("Expected write error, got %v", err)
	}
}

func TestSaveScene_NilScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nil.json")
	if err := SaveScene(nil, path); err == nil {
		t.Error("Expected error when saving nil scene")
	}
}
