package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsPanel lists every overlay with its key and on/off state.
type ControlsPanel struct {
	renderer *Renderer
	minWidth int32
	visible  bool
}

// NewControlsPanel creates a hidden controls panel at least minWidth wide.
func NewControlsPanel(minWidth int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		minWidth: minWidth,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// legendRow is one line of the panel: a category header or an overlay.
type legendRow struct {
	header  string
	desc    OverlayDescriptor
	enabled bool
}

func legendRows(overlays *OverlayRegistry) []legendRow {
	var rows []legendRow
	for _, cat := range overlays.Categories() {
		rows = append(rows, legendRow{header: categoryLabel(cat)})
		for _, d := range overlays.ByCategory(cat) {
			rows = append(rows, legendRow{desc: d, enabled: overlays.IsEnabled(d.ID)})
		}
	}
	return rows
}

// Draw renders the panel in the bottom-left corner, above the key legend.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry, screenW, screenH int32) {
	if !c.visible {
		return
	}
	t := c.renderer.Theme
	rows := legendRows(overlays)

	width := c.minWidth
	for _, row := range rows {
		w := rl.MeasureText(row.desc.Name+" [F3]", t.FontSize) + 14 + t.Padding*2
		width = max(width, w)
	}
	height := int32(len(rows)+1)*t.LineHeight + t.Padding*2

	x, y := AnchorBottomLeft.Place(screenW, screenH, width, height, 30)
	c.renderer.DrawPanel(x, y, width, height)
	x += t.Padding
	y = c.renderer.DrawSectionHeader(x, y+t.Padding, "Overlays (O to hide)")

	for _, row := range rows {
		if row.header != "" {
			rl.DrawText(row.header, x, y, t.HeaderFontSize, t.LabelColor)
		} else {
			c.drawToggle(x, y, width-t.Padding*2, row)
		}
		y += t.LineHeight
	}
}

func (c *ControlsPanel) drawToggle(x, y, width int32, row legendRow) {
	t := c.renderer.Theme

	dot, name := t.Inactive, t.LabelColor
	if row.enabled {
		dot, name = t.HealthHigh, rl.White
	}
	rl.DrawCircle(x+8, y+t.FontSize/2, 4, dot)
	rl.DrawText(row.desc.Name, x+16, y, t.FontSize, name)

	if row.desc.KeyLabel == "" {
		return
	}
	key := "[" + row.desc.KeyLabel + "]"
	rl.DrawText(key, x+width-rl.MeasureText(key, t.FontSize), y, t.FontSize, t.HintColor)
}

func categoryLabel(cat string) string {
	switch cat {
	case "color":
		return "Coloring"
	case "visual":
		return "Scene"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
