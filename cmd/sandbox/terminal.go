// cmd/sandbox/terminal.go
package main

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-physics2d/pkg/logging"
	"github.com/opd-ai/go-physics2d/pkg/physics"
	"github.com/opd-ai/go-physics2d/pkg/render"
)

const frameInterval = 16 * time.Millisecond

var arrowDirs = map[tcell.Key]physics.Vector2D{
	tcell.KeyUp:    {X: 0, Y: -1},
	tcell.KeyDown:  {X: 0, Y: 1},
	tcell.KeyLeft:  {X: -1, Y: 0},
	tcell.KeyRight: {X: 1, Y: 0},
}

// handleKey applies one key press. It returns false when the sandbox
// should exit.
func handleKey(ctx context.Context, controls *render.Controls, ev *tcell.EventKey, logger *logging.Logger) bool {
	if dir, ok := arrowDirs[ev.Key()]; ok {
		controls.Nudge(dir)
		return true
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyTab:
		controls.SelectNext()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			controls.TogglePause()
		case 'r':
			if err := controls.Reset(); err != nil {
				logger.Error(ctx, "Failed to reset scene", err)
			}
		case 'i':
			controls.ToggleIndex()
		case 'c':
			controls.ToggleContacts()
		}
	}
	return true
}

// runTerminal drives the world from a ticker and draws it with tcell until
// the user quits or ctx is cancelled
func runTerminal(ctx context.Context, screen tcell.Screen, controls *render.Controls, logger *logging.Logger) {
	r := render.NewTerminalRenderer(screen, controls.World().Bounds())

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(screen, eventChan, done)

	world := controls.World()
	world.Start()
	defer world.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return

		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !handleKey(ctx, controls, ev, logger) {
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case now := <-ticker.C:
			world.Advance(now.Sub(last))
			last = now

			r.SetView(world.Bounds())
			r.SetStatus(controls.Status() + "  | q quit  space pause  r reset  tab select  arrows nudge  i index  c contacts")
			controls.Frame(r)
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or done
// is closed
func pollEvents(screen tcell.Screen, out chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case out <- ev:
		case <-done:
			return
		}
	}
}
