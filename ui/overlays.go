package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlaySpeciesColors OverlayID = "species_colors"
	OverlayHealthColors  OverlayID = "health_colors"
	OverlayGlow          OverlayID = "glow"
	OverlayEffects       OverlayID = "effects"
	OverlayGrid          OverlayID = "grid"
	OverlayPerf          OverlayID = "perf"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID        OverlayID   // Unique identifier
	Name      string      // Display name
	Key       int32       // Keyboard key to toggle (0 = no key)
	KeyLabel  string      // Key label for display (e.g., "S", "V")
	Category  string      // Grouping (e.g., "visual", "debug")
	Default   bool        // Enabled at startup
	Exclusive []OverlayID // Other overlays to disable when this is enabled
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:        OverlaySpeciesColors,
		Name:      "Species Colors",
		Key:       rl.KeyS,
		KeyLabel:  "S",
		Category:  "color",
		Default:   true,
		Exclusive: []OverlayID{OverlayHealthColors},
	})
	r.Register(OverlayDescriptor{
		ID:        OverlayHealthColors,
		Name:      "Health Colors",
		Key:       rl.KeyH,
		KeyLabel:  "H",
		Category:  "color",
		Exclusive: []OverlayID{OverlaySpeciesColors},
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayGlow,
		Name:     "Glow",
		Key:      rl.KeyG,
		KeyLabel: "G",
		Category: "visual",
		Default:  true,
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayEffects,
		Name:     "Antibiotic Zones",
		Key:      rl.KeyE,
		KeyLabel: "E",
		Category: "visual",
		Default:  true,
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayGrid,
		Name:     "World Grid",
		Key:      rl.KeyX,
		KeyLabel: "X",
		Category: "debug",
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayPerf,
		Name:     "Step Timing",
		Key:      rl.KeyF3,
		KeyLabel: "F3",
		Category: "debug",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}
