package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		event sdl.Event
		want  Event
		ok    bool
	}{
		{"quit", &sdl.QuitEvent{}, Event{Type: EventQuit}, true},
		{"resize", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESIZED, Data1: 800, Data2: 600},
			Event{Type: EventWindowResize, Width: 800, Height: 600}, true},
		{"window moved", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_MOVED}, Event{}, false},
		{"key down", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_SPACE}},
			Event{Type: EventKeyDown, Key: sdl.SCANCODE_SPACE}, true},
		{"key up", &sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_SPACE}}, Event{}, false},
		{"drag", &sdl.MouseMotionEvent{State: leftMask, XRel: 3, YRel: -2},
			Event{Type: EventDrag, DX: 3, DY: -2}, true},
		{"hover", &sdl.MouseMotionEvent{XRel: 3, YRel: -2}, Event{}, false},
		{"wheel", &sdl.MouseWheelEvent{Y: -1}, Event{Type: EventWheel, DY: -1}, true},
		{"horizontal wheel", &sdl.MouseWheelEvent{X: 1}, Event{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translate(tt.event)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestIsKeyPressed(t *testing.T) {
	in := New()
	in.events = append(in.events,
		Event{Type: EventKeyDown, Key: sdl.SCANCODE_B},
		Event{Type: EventWheel, DY: 1})

	if !in.IsKeyPressed(sdl.SCANCODE_B) {
		t.Error("expected B to be pressed")
	}
	if in.IsKeyPressed(sdl.SCANCODE_SPACE) {
		t.Error("space was not pressed")
	}
}
