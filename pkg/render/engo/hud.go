// pkg/render/engo/hud.go
package engo

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/opd-ai/go-physics2d/pkg/render"
)

const hudFontURL = "hud/goregular.ttf"

// LoadHUDFont registers the embedded Go font with engo and prepares it
// at the given size
func LoadHUDFont(size float64) (*common.Font, error) {
	if err := engo.Files.LoadReaderData(hudFontURL, bytes.NewReader(goregular.TTF)); err != nil {
		return nil, fmt.Errorf("failed to load HUD font: %w", err)
	}
	font := &common.Font{URL: hudFontURL, FG: color.White, Size: size}
	if err := font.CreatePreloaded(); err != nil {
		return nil, fmt.Errorf("failed to prepare HUD font: %w", err)
	}
	return font, nil
}

// HUDSystem shows the status line in the window's top-left corner
type HUDSystem struct {
	controls *render.Controls
	sink     RenderSink
	font     *common.Font

	text  shape
	added bool
	last  string

	// refresh is the minimum time between text rebuilds, in seconds
	refresh float32
	elapsed float32
}

// NewHUDSystem creates a HUD reading from controls
func NewHUDSystem(controls *render.Controls, sink RenderSink) *HUDSystem {
	return &HUDSystem{
		controls: controls,
		sink:     sink,
		refresh:  0.2,
	}
}

// SetFont sets the font used for HUD text rendering. Without a font the
// status is tracked but not drawn.
func (hud *HUDSystem) SetFont(font *common.Font) {
	hud.font = font
}

// Text returns the status line last shown
func (hud *HUDSystem) Text() string {
	return hud.last
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Update refreshes the status line
func (hud *HUDSystem) Update(dt float32) {
	hud.elapsed += dt
	if hud.last != "" && hud.elapsed < hud.refresh {
		return
	}
	hud.elapsed = 0

	status := hud.controls.Status()
	if status == hud.last {
		return
	}
	hud.last = status

	if hud.font == nil {
		return
	}
	hud.text.Drawable = common.Text{Font: hud.font, Text: status}
	if !hud.added {
		hud.text.BasicEntity = ecs.NewBasic()
		hud.text.Position = engo.Point{X: 8, Y: 8}
		hud.text.StartZIndex = 10
		hud.sink.Add(&hud.text.BasicEntity, &hud.text.RenderComponent, &hud.text.SpaceComponent)
		hud.added = true
	}
}
