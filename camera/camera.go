// Package camera maps between screen and world space for a 2D pan/zoom
// view and a 3D orbit view.
//
// Screen coordinates use a bottom-left origin with Y up. Use FromWindow to
// convert top-left window coordinates before passing them in.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mode selects the active projection.
type Mode uint8

const (
	Mode2D Mode = iota
	Mode3D
)

func (m Mode) String() string {
	if m == Mode3D {
		return "3D"
	}
	return "2D"
}

// Button identifies the pointer button driving a drag.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// Settings holds the camera limits and sensitivities. Angles are degrees.
type Settings struct {
	MinZoom         float32
	MaxZoom         float32
	ZoomSensitivity float32 // 2D zoom step is 1 + 2*ZoomSensitivity

	RotationSensitivity float32 // radians per pixel
	ZoomSensitivity3D   float32 // distance per scroll unit
	MinDistance         float32
	MaxDistance         float32
	MinPitch            float32
	MaxPitch            float32
	FovY                float32

	OrthoNear float32
	OrthoFar  float32
	Near      float32
	Far       float32

	DefaultDistance float32
	DefaultYaw      float32
	DefaultPitch    float32
}

// DefaultSettings returns the stock camera limits.
func DefaultSettings() Settings {
	return Settings{
		MinZoom:             0.2,
		MaxZoom:             30,
		ZoomSensitivity:     0.1,
		RotationSensitivity: 0.005,
		ZoomSensitivity3D:   1.5,
		MinDistance:         5,
		MaxDistance:         5000,
		MinPitch:            -89,
		MaxPitch:            89,
		FovY:                45,
		OrthoNear:           -10,
		OrthoFar:            10,
		Near:                0.1,
		Far:                 10000,
		DefaultDistance:     100,
		DefaultYaw:          0,
		DefaultPitch:        60,
	}
}

// Camera is the viewport state for both modes.
type Camera struct {
	Mode Mode

	// 2D: world coordinates of the bottom-left screen corner.
	Offset mgl32.Vec2
	Zoom   float32

	// 3D orbit around Center. Yaw and Pitch are radians.
	Center   mgl32.Vec3
	Distance float32
	Yaw      float32
	Pitch    float32

	Width, Height float32

	settings Settings

	dragging   bool
	dragButton Button
	lastDrag   mgl32.Vec2
}

// New creates a 2D camera with the world origin centred on a w x h screen.
func New(w, h float32, s Settings) *Camera {
	def := DefaultSettings()
	if s.MinZoom <= 0 {
		s.MinZoom = def.MinZoom
	}
	if s.MaxZoom < s.MinZoom {
		s.MaxZoom = s.MinZoom
	}
	if s.MinDistance <= 0 {
		s.MinDistance = def.MinDistance
	}
	if s.MaxDistance < s.MinDistance {
		s.MaxDistance = s.MinDistance
	}

	c := &Camera{
		Mode:     Mode2D,
		Zoom:     clamp(1, s.MinZoom, s.MaxZoom),
		Width:    max(w, 1),
		Height:   max(h, 1),
		settings: s,
	}
	c.Offset = mgl32.Vec2{-c.Width / (2 * c.Zoom), -c.Height / (2 * c.Zoom)}
	c.resetOrbit()
	return c
}

// Settings returns the limits the camera was built with.
func (c *Camera) Settings() Settings {
	return c.settings
}

// FromWindow converts top-left window coordinates to screen coordinates.
func (c *Camera) FromWindow(x, y float32) mgl32.Vec2 {
	return mgl32.Vec2{x, c.Height - y}
}

// ToWindow converts screen coordinates to top-left window coordinates.
func (c *Camera) ToWindow(p mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{p.X(), c.Height - p.Y()}
}

// ScreenToWorld2D maps a screen point to the world plane. It reports false
// in 3D mode.
func (c *Camera) ScreenToWorld2D(p mgl32.Vec2) (mgl32.Vec2, bool) {
	if c.Mode != Mode2D {
		return mgl32.Vec2{}, false
	}
	return c.Offset.Add(p.Mul(1 / c.Zoom)), true
}

// WorldToScreen2D is the inverse of ScreenToWorld2D, valid in either mode
// for the 2D view state.
func (c *Camera) WorldToScreen2D(w mgl32.Vec2) mgl32.Vec2 {
	return w.Sub(c.Offset).Mul(c.Zoom)
}

// ScreenToGround maps a screen point to the z = 0 plane in either mode.
// In 3D it casts the cursor ray and reports false when the ray misses the
// plane in front of the camera.
func (c *Camera) ScreenToGround(p mgl32.Vec2) (mgl32.Vec2, bool) {
	if c.Mode == Mode2D {
		return c.ScreenToWorld2D(p)
	}

	view := c.ViewMatrix()
	proj := c.ProjectionMatrix()
	w, h := int(c.Width), int(c.Height)

	far, err := mgl32.UnProject(mgl32.Vec3{p.X(), p.Y(), 1}, view, proj, 0, 0, w, h)
	if err != nil {
		return mgl32.Vec2{}, false
	}

	eye := c.Eye()
	dir := far.Sub(eye)
	if float32(math.Abs(float64(dir.Z()))) < 1e-6 {
		return mgl32.Vec2{}, false
	}
	t := -eye.Z() / dir.Z()
	if t < 0 {
		return mgl32.Vec2{}, false
	}
	hit := eye.Add(dir.Mul(t))
	return mgl32.Vec2{hit.X(), hit.Y()}, true
}

// HandleZoom applies one scroll step. In 2D the world point under cursor
// stays fixed; in 3D the orbit distance changes.
func (c *Camera) HandleZoom(scroll float32, cursor mgl32.Vec2) {
	if scroll == 0 {
		return
	}

	if c.Mode == Mode3D {
		c.Distance = clamp(c.Distance-scroll*c.settings.ZoomSensitivity3D,
			c.settings.MinDistance, c.settings.MaxDistance)
		return
	}

	factor := 1 + 2*c.settings.ZoomSensitivity
	zoom := c.Zoom
	if scroll > 0 {
		zoom *= factor
	} else {
		zoom /= factor
	}
	zoom = clamp(zoom, c.settings.MinZoom, c.settings.MaxZoom)
	if zoom == c.Zoom {
		return
	}

	anchor := c.Offset.Add(cursor.Mul(1 / c.Zoom))
	c.Zoom = zoom
	c.Offset = anchor.Sub(cursor.Mul(1 / zoom))
}

// StartDrag begins a pan (middle button, 2D) or orbit (left button, 3D).
// Other buttons are ignored.
func (c *Camera) StartDrag(b Button, p mgl32.Vec2) {
	switch {
	case c.Mode == Mode2D && b == ButtonMiddle:
	case c.Mode == Mode3D && b == ButtonLeft:
	default:
		return
	}
	c.dragging = true
	c.dragButton = b
	c.lastDrag = p
}

// MoveDrag continues an active drag to p.
func (c *Camera) MoveDrag(p mgl32.Vec2) {
	if !c.dragging {
		return
	}
	d := p.Sub(c.lastDrag)
	c.lastDrag = p

	if c.Mode == Mode2D {
		c.Offset = c.Offset.Sub(d.Mul(1 / c.Zoom))
		return
	}

	rot := c.settings.RotationSensitivity
	c.Yaw = wrapAngle(c.Yaw - d.X()*rot)
	// Screen Y is up: dragging upwards raises the pitch.
	c.Pitch = clamp(c.Pitch+d.Y()*rot,
		mgl32.DegToRad(c.settings.MinPitch), mgl32.DegToRad(c.settings.MaxPitch))
}

// EndDrag stops the drag started with b.
func (c *Camera) EndDrag(b Button) {
	if c.dragging && b == c.dragButton {
		c.dragging = false
	}
}

// Dragging reports whether a drag is in progress.
func (c *Camera) Dragging() bool {
	return c.dragging
}

// ToggleMode switches between 2D and 3D and cancels any drag.
func (c *Camera) ToggleMode() Mode {
	if c.Mode == Mode2D {
		c.Mode = Mode3D
	} else {
		c.Mode = Mode2D
	}
	c.dragging = false
	return c.Mode
}

// ResetOrbit restores the default 3D distance and angles. It does nothing
// in 2D mode.
func (c *Camera) ResetOrbit() {
	if c.Mode == Mode3D {
		c.resetOrbit()
	}
}

func (c *Camera) resetOrbit() {
	s := c.settings
	c.Center = mgl32.Vec3{}
	c.Distance = clamp(s.DefaultDistance, s.MinDistance, s.MaxDistance)
	c.Yaw = wrapAngle(mgl32.DegToRad(s.DefaultYaw))
	c.Pitch = clamp(mgl32.DegToRad(s.DefaultPitch),
		mgl32.DegToRad(s.MinPitch), mgl32.DegToRad(s.MaxPitch))
}

// Resize updates the screen size, keeping the world point at the centre
// of the 2D view fixed.
func (c *Camera) Resize(w, h float32) {
	if w <= 0 || h <= 0 || (w == c.Width && h == c.Height) {
		return
	}
	centre := c.Offset.Add(mgl32.Vec2{c.Width, c.Height}.Mul(1 / (2 * c.Zoom)))
	c.Width, c.Height = w, h
	c.Offset = centre.Sub(mgl32.Vec2{w, h}.Mul(1 / (2 * c.Zoom)))
}

// ProjectionMatrix returns the projection for the active mode.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	if c.Mode == Mode3D {
		return mgl32.Perspective(mgl32.DegToRad(c.settings.FovY), c.Width/c.Height,
			c.settings.Near, c.settings.Far)
	}
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	return mgl32.Ortho(minX, maxX, minY, maxY, c.settings.OrthoNear, c.settings.OrthoFar)
}

// ViewMatrix returns the view transform for the active mode. The 2D view
// is the identity since Offset and Zoom live in the projection.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	if c.Mode == Mode3D {
		return mgl32.LookAtV(c.Eye(), c.Target(), c.Up())
	}
	return mgl32.Ident4()
}

// Eye returns the orbit camera position.
func (c *Camera) Eye() mgl32.Vec3 {
	cp := float32(math.Cos(float64(c.Pitch)))
	dir := mgl32.Vec3{
		cp * float32(math.Cos(float64(c.Yaw))),
		cp * float32(math.Sin(float64(c.Yaw))),
		float32(math.Sin(float64(c.Pitch))),
	}
	return c.Center.Add(dir.Mul(c.Distance))
}

// Target returns the orbit centre.
func (c *Camera) Target() mgl32.Vec3 {
	return c.Center
}

// Up returns the world up vector. Depth grows towards the viewer.
func (c *Camera) Up() mgl32.Vec3 {
	return mgl32.Vec3{0, 0, 1}
}

// VisibleWorldBounds returns the world rectangle covered by the 2D view.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	minX, minY = c.Offset.X(), c.Offset.Y()
	maxX = minX + c.Width/c.Zoom
	maxY = minY + c.Height/c.Zoom
	return
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// wrapAngle maps a into [0, 2π).
func wrapAngle(a float32) float32 {
	w := math.Mod(float64(a), 2*math.Pi)
	if w < 0 {
		w += 2 * math.Pi
	}
	// Values just below 2π round up in float32.
	if r := float32(w); r < 2*math.Pi {
		return r
	}
	return 0
}
