package engine

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// Held keys start repeating after repeatDelay frames, then every repeatInterval frames
const (
	repeatDelay    = 20
	repeatInterval = 3
)

// trackedKeys are the keys the control surface reacts to
var trackedKeys = []glfw.Key{
	glfw.KeyEscape,
	glfw.KeyUp,
	glfw.KeyDown,
	glfw.KeyLeft,
	glfw.KeyRight,
	glfw.KeySpace,
	glfw.KeyLeftBracket,
	glfw.KeyRightBracket,
	glfw.KeyR,
	glfw.KeyLeftShift,
	glfw.KeyRightShift,
}

// InputHandler samples keyboard and cursor state once per frame
type InputHandler struct {
	window       *glfw.Window
	currentKeys  map[glfw.Key]bool
	previousKeys map[glfw.Key]bool
	heldFrames   map[glfw.Key]int
	mousePos     mgl32.Vec2
}

// NewInputHandler creates a new input handler
func NewInputHandler(window *glfw.Window) *InputHandler {
	handler := &InputHandler{
		window:       window,
		currentKeys:  make(map[glfw.Key]bool),
		previousKeys: make(map[glfw.Key]bool),
		heldFrames:   make(map[glfw.Key]int),
	}

	window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		handler.mousePos = mgl32.Vec2{float32(x), float32(y)}
	})

	return handler
}

// Update copies the current key state to the previous one and polls again
func (ih *InputHandler) Update() {
	for _, key := range trackedKeys {
		ih.previousKeys[key] = ih.currentKeys[key]
		down := ih.window.GetKey(key) == glfw.Press
		ih.currentKeys[key] = down
		if down {
			ih.heldFrames[key]++
		} else {
			ih.heldFrames[key] = 0
		}
	}
}

// IsKeyDown checks whether the key is held this frame
func (ih *InputHandler) IsKeyDown(key glfw.Key) bool {
	return ih.currentKeys[key]
}

// IsKeyPressed checks whether the key went down this frame
func (ih *InputHandler) IsKeyPressed(key glfw.Key) bool {
	return ih.currentKeys[key] && !ih.previousKeys[key]
}

// IsKeyRepeated is IsKeyPressed plus auto-repeat while the key stays down
func (ih *InputHandler) IsKeyRepeated(key glfw.Key) bool {
	return shouldRepeat(ih.heldFrames[key])
}

// Mouse returns the last cursor position in window coordinates
func (ih *InputHandler) Mouse() mgl32.Vec2 {
	return ih.mousePos
}

func shouldRepeat(held int) bool {
	if held == 1 {
		return true
	}
	return held > repeatDelay && (held-repeatDelay)%repeatInterval == 0
}
