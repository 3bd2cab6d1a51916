package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Action is a keyboard command.
type Action int

const (
	ActionNone Action = iota
	ActionUndo
	ActionRedo
	ActionNewGame
)

// InputHandler snapshots mouse and keyboard state once per frame.
type InputHandler struct {
	mouseX, mouseY   int // logical coordinates
	leftPressed      bool
	leftJustPressed  bool
	leftJustReleased bool
	wheelY           float64

	keys []ebiten.Key
	ctrl bool
}

// NewInputHandler creates a new input handler.
func NewInputHandler() *InputHandler {
	return &InputHandler{}
}

// Update refreshes the snapshot. Call once per frame.
func (ih *InputHandler) Update() {
	rawX, rawY := ebiten.CursorPosition()
	scale := max(UIScale, 1.0)
	ih.mouseX = int(float64(rawX) / scale)
	ih.mouseY = int(float64(rawY) / scale)

	ih.leftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	ih.leftJustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	ih.leftPressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	_, ih.wheelY = ebiten.Wheel()

	ih.keys = inpututil.AppendJustPressedKeys(ih.keys[:0])
	ih.ctrl = ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
}

// MousePosition returns the mouse position in logical coordinates.
func (ih *InputHandler) MousePosition() (int, int) {
	return ih.mouseX, ih.mouseY
}

// IsLeftJustPressed reports a left button press this frame.
func (ih *InputHandler) IsLeftJustPressed() bool {
	return ih.leftJustPressed
}

// IsLeftJustReleased reports a left button release this frame.
func (ih *InputHandler) IsLeftJustReleased() bool {
	return ih.leftJustReleased
}

// IsLeftPressed reports whether the left button is held.
func (ih *InputHandler) IsLeftPressed() bool {
	return ih.leftPressed
}

// Wheel returns the vertical scroll this frame.
func (ih *InputHandler) Wheel() float64 {
	return ih.wheelY
}

// IsInBounds reports whether the mouse is inside the rectangle.
func (ih *InputHandler) IsInBounds(x, y, w, h int) bool {
	return ih.mouseX >= x && ih.mouseX < x+w && ih.mouseY >= y && ih.mouseY < y+h
}

// Action maps this frame's key presses to a command: ctrl+z, Left or A
// undo; ctrl+y, ctrl+r, Right or D redo; N starts a new game.
func (ih *InputHandler) Action() Action {
	for _, k := range ih.keys {
		if ih.ctrl {
			switch k {
			case ebiten.KeyZ:
				return ActionUndo
			case ebiten.KeyY, ebiten.KeyR:
				return ActionRedo
			}
			continue
		}
		switch k {
		case ebiten.KeyArrowLeft, ebiten.KeyA:
			return ActionUndo
		case ebiten.KeyArrowRight, ebiten.KeyD:
			return ActionRedo
		case ebiten.KeyN:
			return ActionNewGame
		}
	}
	return ActionNone
}

// PromotionKey returns the promotion letter pressed this frame, if any.
func (ih *InputHandler) PromotionKey() (byte, bool) {
	for _, k := range ih.keys {
		switch k {
		case ebiten.KeyQ:
			return 'q', true
		case ebiten.KeyR:
			return 'r', true
		case ebiten.KeyB:
			return 'b', true
		case ebiten.KeyN, ebiten.KeyK:
			return 'n', true
		}
	}
	return 0, false
}

// Cancelled reports whether Escape was pressed.
func (ih *InputHandler) Cancelled() bool {
	for _, k := range ih.keys {
		if k == ebiten.KeyEscape {
			return true
		}
	}
	return false
}
