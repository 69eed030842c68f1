// Package input turns SDL2 events into per-frame input state.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/pbrview/internal/app"
	"github.com/Faultbox/pbrview/internal/engine/camera"
)

// Bindings maps app actions to keys.
var Bindings = map[app.Action]sdl.Scancode{
	app.ActionQuit:             sdl.SCANCODE_ESCAPE,
	app.ActionRegenerateLights: sdl.SCANCODE_TAB,
	app.ActionScreenshot:       sdl.SCANCODE_F12,
}

// EventType identifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
)

// Event is one processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8
}

var _ app.Input = (*Input)(nil)

// Input tracks events of the current frame and held keys across frames.
type Input struct {
	events []Event
	held   map[sdl.Scancode]bool

	dragging bool
	dx, dy   float32
}

// New creates an input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[sdl.Scancode]bool),
	}
}

// Update drains the SDL queue. It returns true when the window was closed.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	i.dx, i.dy = 0, 0
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			sc := e.Keysym.Scancode
			switch e.Type {
			case sdl.KEYDOWN:
				if e.Repeat == 0 {
					i.events = append(i.events, Event{Type: EventKeyDown, Key: sc})
				}
				i.held[sc] = true
			case sdl.KEYUP:
				i.events = append(i.events, Event{Type: EventKeyUp, Key: sc})
				delete(i.held, sc)
			}

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:   EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
			})
			i.dx += float32(e.XRel)
			i.dy += float32(e.YRel)

		case *sdl.MouseButtonEvent:
			ev := Event{
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			}
			if e.Type == sdl.MOUSEBUTTONDOWN {
				ev.Type = EventMouseDown
				if e.Button == sdl.BUTTON_LEFT {
					i.dragging = true
				}
			} else {
				ev.Type = EventMouseUp
				if e.Button == sdl.BUTTON_LEFT {
					i.dragging = false
				}
			}
			i.events = append(i.events, ev)
		}
	}

	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed reports whether the key went down this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// IsKeyDown reports whether the key is held.
func (i *Input) IsKeyDown(scancode sdl.Scancode) bool {
	return i.held[scancode]
}

// Resized returns the last window size reported this frame.
func (i *Input) Resized() (width, height int, ok bool) {
	for _, e := range i.events {
		if e.Type == EventWindowResize {
			width, height, ok = e.Width, e.Height, true
		}
	}
	return width, height, ok
}

// Controls builds the fly-camera snapshot: WASD move, Space up, X down,
// Shift fast, Ctrl slow, left drag looks.
func (i *Input) Controls() camera.Controls {
	c := camera.Controls{
		Forward:  i.held[sdl.SCANCODE_W],
		Back:     i.held[sdl.SCANCODE_S],
		Left:     i.held[sdl.SCANCODE_A],
		Right:    i.held[sdl.SCANCODE_D],
		Up:       i.held[sdl.SCANCODE_SPACE],
		Down:     i.held[sdl.SCANCODE_X],
		Fast:     i.held[sdl.SCANCODE_LSHIFT] || i.held[sdl.SCANCODE_RSHIFT],
		Slow:     i.held[sdl.SCANCODE_LCTRL] || i.held[sdl.SCANCODE_RCTRL],
		Dragging: i.dragging,
	}
	if i.dragging {
		c.DX, c.DY = i.dx, i.dy
	}
	return c
}

// Pressed implements app.Input using Bindings.
func (i *Input) Pressed(a app.Action) bool {
	sc, ok := Bindings[a]
	return ok && i.IsKeyPressed(sc)
}
