package ui

import (
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws the shared panel primitives with one theme.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a bordered panel background.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a header line and returns the next row's Y.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight + 2
}

// DrawLabelValue draws "label:" with value in the value column and
// returns the next row's Y.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	t := r.Theme
	rl.DrawText(label+":", x, y, t.FontSize, t.LabelColor)
	rl.DrawText(value, x+t.LabelWidth, y, t.FontSize, t.ValueColor)
	return y + t.LineHeight
}

// DrawColorSwatch draws a species-style legend row: a filled square,
// the label and a count in the value column.
func (r *Renderer) DrawColorSwatch(x, y int32, label string, color rl.Color, count int) int32 {
	t := r.Theme
	side := t.FontSize - 2

	rl.DrawRectangle(x, y+1, side, side, color)
	rl.DrawText(label, x+side+6, y, t.FontSize, t.LabelColor)
	rl.DrawText(strconv.Itoa(count), x+t.LabelWidth+side, y, t.FontSize, t.ValueColor)
	return y + t.LineHeight
}
