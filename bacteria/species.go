// Package bacteria defines the simulated agents and their species profiles.
package bacteria

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Species selects one of the fixed stat profiles.
type Species uint8

const (
	Cocci Species = iota
	Diplococcus
	Staphylococci
	Bacillus
)

// NumSpecies is the number of known species tags.
const NumSpecies = 4

// MaxResistance caps antibiotic resistance so every species stays killable.
const MaxResistance = 0.95

// ErrUnknownSpecies is returned when a species name cannot be parsed.
var ErrUnknownSpecies = errors.New("unknown species")

var speciesNames = [NumSpecies]string{"Cocci", "Diplococcus", "Staphylococci", "Bacillus"}

// String returns the species name.
func (s Species) String() string {
	if int(s) < len(speciesNames) {
		return speciesNames[s]
	}
	return fmt.Sprintf("Species(%d)", uint8(s))
}

// Valid reports whether s is one of the known tags.
func (s Species) Valid() bool {
	return s < NumSpecies
}

// ParseSpecies converts a case-insensitive name into a Species.
func ParseSpecies(name string) (Species, error) {
	for i, n := range speciesNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Species(i), nil
		}
	}
	return 0, fmt.Errorf("parsing %q: %w", name, ErrUnknownSpecies)
}

// AllSpecies returns the known species in tag order.
func AllSpecies() []Species {
	return []Species{Cocci, Diplococcus, Staphylococci, Bacillus}
}

// Stats is the immutable profile a species is constructed from.
type Stats struct {
	InitialHealth    float32
	DivisionInterval float32 // seconds
	Resistance       float32 // fraction of antibiotic damage ignored
	Outline          []mgl32.Vec2
}

// EffectiveResistance returns the resistance clamped to [0, MaxResistance].
func (s Stats) EffectiveResistance() float32 {
	return mgl32.Clamp(s.Resistance, 0, MaxResistance)
}

func rect(halfW, halfH float32) []mgl32.Vec2 {
	return []mgl32.Vec2{{-halfW, -halfH}, {halfW, -halfH}, {halfW, halfH}, {-halfW, halfH}}
}

var statTable = [NumSpecies]Stats{
	Cocci:         {InitialHealth: 1.0, DivisionInterval: 8.0, Resistance: 0.2, Outline: rect(5, 5)},
	Diplococcus:   {InitialHealth: 1.0, DivisionInterval: 4.0, Resistance: 0.4, Outline: rect(8, 4)},
	Staphylococci: {InitialHealth: 1.0, DivisionInterval: 6.0, Resistance: 0.1, Outline: rect(10, 10)},
	Bacillus:      {InitialHealth: 1.0, DivisionInterval: 7.0, Resistance: 0.3, Outline: rect(12, 3)},
}

// defaultStats is used for tags outside the table.
var defaultStats = Stats{
	InitialHealth:    1.0,
	DivisionInterval: 5.0,
	Resistance:       0,
	Outline:          rect(0.5, 0.5),
}

// StatsFor returns the profile for s, falling back to the default profile
// for unknown tags. The outline is a copy.
func StatsFor(s Species) Stats {
	st := defaultStats
	if s.Valid() {
		st = statTable[s]
	}
	st.Outline = append([]mgl32.Vec2(nil), st.Outline...)
	return st
}

func resistanceFor(s Species) float32 {
	if s.Valid() {
		return statTable[s].EffectiveResistance()
	}
	return defaultStats.EffectiveResistance()
}

// outlineFor returns the shared outline without copying. Callers must not
// modify it.
func outlineFor(s Species) []mgl32.Vec2 {
	if s.Valid() {
		return statTable[s].Outline
	}
	return defaultStats.Outline
}
