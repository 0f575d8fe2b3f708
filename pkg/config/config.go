// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/opd-ai/go-physics2d/pkg/physics"
)

// SimulationConfig contains the tuning of a physics world
type SimulationConfig struct {
	TickRate      int              `json:"tickRate" yaml:"tickRate"` // fixed steps per second
	Iterations    int              `json:"iterations" yaml:"iterations"`
	MaxFrameDelta Duration         `json:"maxFrameDelta" yaml:"maxFrameDelta"` // 0 feeds every frame through unclamped
	Gravity       physics.Vector2D `json:"gravity" yaml:"gravity"`
	LinearDrag    float64          `json:"linearDrag" yaml:"linearDrag"`
	AngularDrag   float64          `json:"angularDrag" yaml:"angularDrag"`
	RestThreshold float64          `json:"restThreshold" yaml:"restThreshold"`

	Restitution       float64 `json:"restitution" yaml:"restitution"`
	CircleRestitution float64 `json:"circleRestitution" yaml:"circleRestitution"`
	WallRestitution   float64 `json:"wallRestitution" yaml:"wallRestitution"`

	ContactMode string         `json:"contactMode" yaml:"contactMode"` // "sat" or "segment"
	QueryMargin float64        `json:"queryMargin" yaml:"queryMargin"`
	Quadtree    QuadtreeConfig `json:"quadtree" yaml:"quadtree"`
	Verlet      VerletConfig   `json:"verlet" yaml:"verlet"`
}

// QuadtreeConfig contains the broad phase subdivision policy
type QuadtreeConfig struct {
	Capacity int     `json:"capacity" yaml:"capacity"`
	MinArea  float64 `json:"minArea" yaml:"minArea"`
}

// VerletConfig contains soft body tuning
type VerletConfig struct {
	Damping        float64 `json:"damping" yaml:"damping"`
	GroundFriction float64 `json:"groundFriction" yaml:"groundFriction"`
	Stiffness      float64 `json:"stiffness" yaml:"stiffness"`
	Iterations     int     `json:"iterations" yaml:"iterations"`
}

// SceneConfig describes a complete scene: world region, walls and bodies
type SceneConfig struct {
	Name       string           `json:"name" yaml:"name"`
	Bounds     physics.Rect     `json:"bounds" yaml:"bounds"`
	Walls      []string         `json:"walls,omitempty" yaml:"walls,omitempty"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Bodies     []BodyConfig     `json:"bodies" yaml:"bodies"`
	SoftBodies []SoftBodyConfig `json:"softBodies,omitempty" yaml:"softBodies,omitempty"`
}

// BodyConfig describes one rigid body. Shape selects which of the shape
// fields are read: circle (Radius), box (Width, Height), regular (Sides,
// Radius) or polygon (Vertices).
type BodyConfig struct {
	Shape           string             `json:"shape" yaml:"shape"`
	Position        physics.Vector2D   `json:"position" yaml:"position"`
	Velocity        physics.Vector2D   `json:"velocity,omitempty" yaml:"velocity,omitempty"`
	Theta           float64            `json:"theta,omitempty" yaml:"theta,omitempty"`
	AngularVelocity float64            `json:"angularVelocity,omitempty" yaml:"angularVelocity,omitempty"`
	Mass            float64            `json:"mass" yaml:"mass"`
	Static          bool               `json:"static,omitempty" yaml:"static,omitempty"`
	Restitution     float64            `json:"restitution,omitempty" yaml:"restitution,omitempty"`
	Radius          float64            `json:"radius,omitempty" yaml:"radius,omitempty"`
	Width           float64            `json:"width,omitempty" yaml:"width,omitempty"`
	Height          float64            `json:"height,omitempty" yaml:"height,omitempty"`
	Sides           int                `json:"sides,omitempty" yaml:"sides,omitempty"`
	Vertices        []physics.Vector2D `json:"vertices,omitempty" yaml:"vertices,omitempty"`
}

// SoftBodyConfig describes a verlet rope or braced box
type SoftBodyConfig struct {
	Kind     string           `json:"kind" yaml:"kind"` // "rope" or "box"
	Start    physics.Vector2D `json:"start,omitempty" yaml:"start,omitempty"`
	End      physics.Vector2D `json:"end,omitempty" yaml:"end,omitempty"`
	Segments int              `json:"segments,omitempty" yaml:"segments,omitempty"`
	Center   physics.Vector2D `json:"center,omitempty" yaml:"center,omitempty"`
	Size     float64          `json:"size,omitempty" yaml:"size,omitempty"`
	Mass     float64          `json:"mass" yaml:"mass"`
}

// Duration is a time.Duration that reads and writes as "250ms" in both
// JSON and YAML
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// StepDuration returns the fixed step length implied by TickRate
func (c *SimulationConfig) StepDuration() time.Duration {
	if c.TickRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.TickRate)
}

// Validate checks the simulation tuning for values the world cannot run with
func (c *SimulationConfig) Validate() error {
	switch {
	case c.TickRate <= 0:
		return &ValidationError{Field: "tickRate", Message: "must be positive"}
	case c.TickRate > int(time.Second):
		return &ValidationError{Field: "tickRate", Message: "step would be shorter than a nanosecond"}
	case c.Iterations < 0:
		return &ValidationError{Field: "iterations", Message: "must not be negative"}
	case c.MaxFrameDelta < 0:
		return &ValidationError{Field: "maxFrameDelta", Message: "must not be negative"}
	case c.LinearDrag < 0 || c.AngularDrag < 0:
		return &ValidationError{Field: "drag", Message: "must not be negative"}
	case c.Restitution < 0 || c.CircleRestitution < 0 || c.WallRestitution < 0:
		return &ValidationError{Field: "restitution", Message: "must not be negative"}
	case c.Quadtree.Capacity < 1:
		return &ValidationError{Field: "quadtree.capacity", Message: "must be at least 1"}
	case c.Quadtree.MinArea < 0:
		return &ValidationError{Field: "quadtree.minArea", Message: "must not be negative"}
	case c.QueryMargin < 0:
		return &ValidationError{Field: "queryMargin", Message: "must not be negative"}
	}
	if _, ok := physics.ParseContactMode(c.ContactMode); !ok {
		return &ValidationError{Field: "contactMode", Message: fmt.Sprintf("unknown mode %q", c.ContactMode)}
	}
	return nil
}

// Validate checks the scene-level fields. Body shapes are checked when the
// scene is built.
func (s *SceneConfig) Validate() error {
	if s.Bounds.Size.X <= 0 || s.Bounds.Size.Y <= 0 {
		return &ValidationError{Field: "bounds", Message: "must have a positive size"}
	}
	for _, w := range s.Walls {
		if _, ok := ParseWallSide(w); !ok {
			return &ValidationError{Field: "walls", Message: fmt.Sprintf("unknown wall %q", w)}
		}
	}
	return s.Simulation.Validate()
}

// ParseWallSide maps a wall name to its side
func ParseWallSide(name string) (physics.WallSide, bool) {
	switch strings.ToLower(name) {
	case "bottom", "floor":
		return physics.WallBottom, true
	case "top", "ceiling":
		return physics.WallTop, true
	case "left":
		return physics.WallLeft, true
	case "right":
		return physics.WallRight, true
	default:
		return 0, false
	}
}

// isYAML reports whether the path has a YAML extension
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// LoadScene loads a scene from a JSON or YAML file, chosen by extension.
// Fields the file leaves out keep the DefaultSimulation values.
func LoadScene(path string) (*SceneConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	scene := &SceneConfig{Simulation: DefaultSimulation()}
	if isYAML(path) {
		err = yaml.Unmarshal(data, scene)
	} else {
		err = json.Unmarshal(data, scene)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse scene file: %w", err)
	}

	return scene, nil
}

// SaveScene saves a scene to a file, as YAML or JSON by extension
func SaveScene(scene *SceneConfig, path string) error {
	if scene == nil {
		return fmt.Errorf("failed to marshal scene: nil scene")
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(scene)
	} else {
		data, err = json.MarshalIndent(scene, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal scene: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scene file: %w", err)
	}

	return nil
}

// DefaultSimulation returns the default simulation tuning
func DefaultSimulation() SimulationConfig {
	return SimulationConfig{
		TickRate:          60,
		Iterations:        5,
		Gravity:           physics.Vector2D{X: 0, Y: 100},
		RestThreshold:     0,
		Restitution:       0.4,
		CircleRestitution: 1.0,
		WallRestitution:   0.8,
		ContactMode:       "sat",
		QueryMargin:       2,
		Quadtree: QuadtreeConfig{
			Capacity: 4,
			MinArea:  900,
		},
		Verlet: VerletConfig{
			Damping:        0.98,
			GroundFriction: 0.85,
			Stiffness:      1,
			Iterations:     5,
		},
	}
}
