package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/petri/camera"
)

var mouseButtons = []struct {
	button rl.MouseButton
	cam    camera.Button
}{
	{rl.MouseButtonLeft, camera.ButtonLeft},
	{rl.MouseButtonMiddle, camera.ButtonMiddle},
	{rl.MouseButtonRight, camera.ButtonRight},
}

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < maxStepsPerUpdate {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		mode := g.camera.ToggleMode()
		slog.Info("view_mode_toggled", "mode", mode.String())
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.camera.ResetOrbit()
	}
	if rl.IsKeyPressed(rl.KeyO) {
		g.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyDelete) {
		g.ClearColony()
	}

	g.handleOverlayKeys()
	g.handleMouse()
}

// handleOverlayKeys toggles overlays bound to keys pressed this frame.
func (g *Game) handleOverlayKeys() {
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if id, on, ok := g.overlays.HandleKeyPress(key); ok {
			slog.Debug("overlay toggled", "overlay", string(id), "enabled", on)
		}
	}
}

// handleMouse routes clicks to the control panel or the camera.
func (g *Game) handleMouse() {
	mouse := rl.GetMousePosition()
	screen := g.camera.FromWindow(mouse.X, mouse.Y)
	overPanel := g.panel.Contains(mouse)

	if wheel := rl.GetMouseWheelMove(); wheel != 0 && !overPanel {
		g.camera.HandleZoom(wheel, screen)
	}

	for _, b := range mouseButtons {
		if rl.IsMouseButtonReleased(b.button) {
			g.camera.EndDrag(b.cam)
		}
		if !rl.IsMouseButtonPressed(b.button) || overPanel {
			continue
		}
		if b.cam == camera.ButtonLeft && g.panel.HandleClick(mouse, screen) {
			continue
		}
		g.camera.StartDrag(b.cam, screen)
	}

	if g.camera.Dragging() {
		g.camera.MoveDrag(screen)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h
	g.camera.Resize(w, h)
}

// frameDT returns the last frame's duration in seconds.
func (g *Game) frameDT() float32 {
	return rl.GetFrameTime()
}
