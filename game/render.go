package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/petri/bacteria"
	"github.com/pthm-cable/petri/camera"
	"github.com/pthm-cable/petri/ui"
)

// gridSpacing is the world distance between grid lines.
const gridSpacing = 50

const controlsLegend = "Tab: 2D/3D | Wheel: zoom | Middle drag: pan | Left drag (3D): orbit | R: reset orbit | Space: pause | ,/.: speed | O: overlays | Del: clear"

var theme = ui.DefaultTheme()

// Draw renders the game state.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rgb(g.cfg.Render.Background, 255))

	if g.camera.Mode == camera.Mode3D {
		g.draw3D()
	} else {
		g.draw2D()
	}

	g.drawUI()
	rl.EndDrawing()
}

// draw2D renders outlines and effects through the pan/zoom mapping.
func (g *Game) draw2D() {
	minX, minY, maxX, maxY := g.camera.VisibleWorldBounds()

	if g.overlays.IsEnabled(ui.OverlayGrid) {
		for x := floorTo(minX, gridSpacing); x <= maxX; x += gridSpacing {
			rl.DrawLineV(g.toWindow(mgl32.Vec2{x, minY}), g.toWindow(mgl32.Vec2{x, maxY}), gridColor(x))
		}
		for y := floorTo(minY, gridSpacing); y <= maxY; y += gridSpacing {
			rl.DrawLineV(g.toWindow(mgl32.Vec2{minX, y}), g.toWindow(mgl32.Vec2{maxX, y}), gridColor(y))
		}
	}

	if g.overlays.IsEnabled(ui.OverlayEffects) {
		base := rgb(g.cfg.Render.EffectColor, 255)
		for _, e := range g.effects.Effects() {
			c := g.toWindow(e.Center)
			r := e.VisibleRadius() * g.camera.Zoom
			rl.DrawCircleV(c, r, rl.Fade(base, 0.15*e.Opacity()))
			rl.DrawCircleLinesV(c, r, rl.Fade(base, e.Opacity()))
		}
	}

	glow := g.glowStrength()
	// Outlines are at most a few tens of units across.
	const margin = 16
	g.colony.View(func(b bacteria.Bacterium) {
		pos := b.Position
		if pos.X < minX-margin || pos.X > maxX+margin || pos.Y < minY-margin || pos.Y > maxY+margin {
			return
		}
		outline := b.Outline()
		if len(outline) == 0 {
			return
		}
		col := g.bacteriumColor(b)
		center := pos.Vec2()
		prev := g.toWindow(center.Add(outline[len(outline)-1]))
		for _, v := range outline {
			cur := g.toWindow(center.Add(v))
			if glow > 0 {
				rl.DrawLineEx(prev, cur, 1+4*glow, rl.Fade(col, 0.3*glow))
			}
			rl.DrawLineV(prev, cur, col)
			prev = cur
		}
	})
}

// draw3D renders the colony on the z = 0 ground plane with the orbit camera.
// Depth lifts each outline off the plane.
func (g *Game) draw3D() {
	cam := g.camera
	rl.BeginMode3D(rl.Camera3D{
		Position:   vec3(cam.Eye()),
		Target:     vec3(cam.Target()),
		Up:         vec3(cam.Up()),
		Fovy:       cam.Settings().FovY,
		Projection: rl.CameraPerspective,
	})
	// Use the camera's own near/far planes instead of raylib's defaults.
	rl.SetMatrixProjection(toMatrix(cam.ProjectionMatrix()))

	if g.overlays.IsEnabled(ui.OverlayGrid) {
		const half = 10 * gridSpacing
		for i := float32(-half); i <= half; i += gridSpacing {
			rl.DrawLine3D(rl.Vector3{X: i, Y: -half}, rl.Vector3{X: i, Y: half}, gridColor(i))
			rl.DrawLine3D(rl.Vector3{X: -half, Y: i}, rl.Vector3{X: half, Y: i}, gridColor(i))
		}
	}

	if g.overlays.IsEnabled(ui.OverlayEffects) {
		base := rgb(g.cfg.Render.EffectColor, 255)
		for _, e := range g.effects.Effects() {
			center := rl.Vector3{X: e.Center.X(), Y: e.Center.Y()}
			rl.DrawCircle3D(center, e.VisibleRadius(), rl.Vector3{Z: 1}, 0, rl.Fade(base, e.Opacity()))
		}
	}

	g.colony.View(func(b bacteria.Bacterium) {
		outline := b.Outline()
		if len(outline) == 0 {
			return
		}
		col := g.bacteriumColor(b)
		pos := b.Position
		last := outline[len(outline)-1]
		prev := rl.Vector3{X: pos.X + last.X(), Y: pos.Y + last.Y(), Z: pos.Depth}
		for _, v := range outline {
			cur := rl.Vector3{X: pos.X + v.X(), Y: pos.Y + v.Y(), Z: pos.Depth}
			rl.DrawLine3D(prev, cur, col)
			prev = cur
		}
	})

	rl.EndMode3D()
}

// drawUI renders the control panel, HUD and optional panels.
func (g *Game) drawUI() {
	w, h := int32(g.screenWidth), int32(g.screenHeight)
	mouse := rl.GetMousePosition()
	fps := rl.GetFPS()

	g.panel.Draw(g.colony.Len(), fps, g.camera.FromWindow(mouse.X, mouse.Y))

	data := ui.HUDData{
		Title:         "Petri",
		Population:    g.colony.Len(),
		MaxGeneration: g.colony.MaxGeneration(),
		Effects:       g.effects.Len(),
		Tick:          g.tick,
		SimTime:       g.simTime,
		Speed:         g.stepsPerUpdate,
		FPS:           fps,
		Paused:        g.paused,
		ViewMode:      g.camera.Mode.String(),
		Zoom:          g.camera.Zoom,
		Distance:      g.camera.Distance,
	}
	for s, n := range g.colony.Census() {
		if s.Valid() {
			data.Census[s] = n
		}
	}
	g.hud.Draw(data, w, h)

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfView.Draw(g.perfCollector.Stats(), w, h)
	}
	g.controls.Draw(g.overlays, w, h)
	g.hud.DrawControls(h, controlsLegend)
}

// bacteriumColor picks the outline color for the active color overlay.
func (g *Game) bacteriumColor(b bacteria.Bacterium) rl.Color {
	if g.overlays.IsEnabled(ui.OverlayHealthColors) {
		return theme.HealthColor(b.Health)
	}
	return rl.Fade(theme.SpeciesColor(b.Species), 0.35+0.65*b.Health)
}

func (g *Game) glowStrength() float32 {
	if !g.overlays.IsEnabled(ui.OverlayGlow) {
		return 0
	}
	return g.glow
}

// toWindow maps a world point to raylib window coordinates.
func (g *Game) toWindow(p mgl32.Vec2) rl.Vector2 {
	w := g.camera.ToWindow(g.camera.WorldToScreen2D(p))
	return rl.Vector2{X: w.X(), Y: w.Y()}
}

func gridColor(v float32) rl.Color {
	if v == 0 {
		return rl.Color{R: 90, G: 90, B: 110, A: 200}
	}
	return rl.Color{R: 40, G: 44, B: 56, A: 160}
}

func floorTo(v, step float32) float32 {
	n := int(v / step)
	if float32(n)*step > v {
		n--
	}
	return float32(n) * step
}

func rgb(c [3]int, a uint8) rl.Color {
	return rl.Color{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2]), A: a}
}

func vec3(v mgl32.Vec3) rl.Vector3 {
	return rl.Vector3{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// toMatrix converts a column-major mgl32 matrix to raylib's layout.
func toMatrix(m mgl32.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: m[0], M1: m[1], M2: m[2], M3: m[3],
		M4: m[4], M5: m[5], M6: m[6], M7: m[7],
		M8: m[8], M9: m[9], M10: m[10], M11: m[11],
		M12: m[12], M13: m[13], M14: m[14], M15: m[15],
	}
}
