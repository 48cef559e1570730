// Package colony owns the live bacteria and advances them frame by frame.
package colony

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/bacteria"
)

// DefaultDivisionProbability is the chance an eligible bacterium divides.
const DefaultDivisionProbability = 0.05

// Lineage records where a bacterium came from.
type Lineage struct {
	ID         uint32
	Parent     uint32 // 0 for placed bacteria
	Generation uint32
	BornAt     float32 // simulation seconds
}

// Params holds the colony update parameters.
type Params struct {
	DivisionProbability float32
	Clone               bacteria.CloneParams
}

// DefaultParams returns the stock colony parameters.
func DefaultParams() Params {
	return Params{
		DivisionProbability: DefaultDivisionProbability,
		Clone:               bacteria.DefaultCloneParams(),
	}
}

// UpdateResult summarises one Update pass.
type UpdateResult struct {
	Divisions int
	Culled    int
	Births    [bacteria.NumSpecies]int
	Deaths    [bacteria.NumSpecies]int
}

type birth struct {
	child  bacteria.Bacterium
	parent Lineage
}

// Colony stores bacteria in an ECS world and keeps them in insertion order.
// Entity handles are generation checked, so a handle to a culled bacterium
// never resolves to a newer one.
type Colony struct {
	world *ecs.World

	mapper  *ecs.Map2[bacteria.Bacterium, Lineage]
	bugMap  *ecs.Map[bacteria.Bacterium]
	lineMap *ecs.Map[Lineage]
	filter  *ecs.Filter2[bacteria.Bacterium, Lineage]

	order   []ecs.Entity
	pending []birth

	params Params
	rng    bacteria.Rand

	nextID           uint32
	clock            float32
	intervalOverride float32
}

// New creates an empty colony.
func New(params Params, rng bacteria.Rand) *Colony {
	world := ecs.NewWorld()
	return &Colony{
		world:   world,
		mapper:  ecs.NewMap2[bacteria.Bacterium, Lineage](world),
		bugMap:  ecs.NewMap[bacteria.Bacterium](world),
		lineMap: ecs.NewMap[Lineage](world),
		filter:  ecs.NewFilter2[bacteria.Bacterium, Lineage](world),
		params:  params,
		rng:     rng,
		nextID:  1,
	}
}

// Add inserts a bacterium at the end of the colony.
func (c *Colony) Add(b bacteria.Bacterium) ecs.Entity {
	return c.insert(b, Lineage{})
}

func (c *Colony) insert(b bacteria.Bacterium, parent Lineage) ecs.Entity {
	if c.intervalOverride > 0 {
		b.SetDivisionInterval(c.intervalOverride)
	}

	lin := Lineage{
		ID:     c.nextID,
		Parent: parent.ID,
		BornAt: c.clock,
	}
	if parent.ID != 0 {
		lin.Generation = parent.Generation + 1
	}
	c.nextID++

	e := c.mapper.NewEntity(&b, &lin)
	c.order = append(c.order, e)
	return e
}

// Len returns the number of bacteria in the colony, dead ones included
// until the next cull.
func (c *Colony) Len() int {
	return len(c.order)
}

// Get returns the bacterium for e, or false if it has been removed.
func (c *Colony) Get(e ecs.Entity) (*bacteria.Bacterium, bool) {
	if !c.world.Alive(e) {
		return nil, false
	}
	return c.bugMap.Get(e), true
}

// Lineage returns the lineage record for e.
func (c *Colony) Lineage(e ecs.Entity) (Lineage, bool) {
	if !c.world.Alive(e) {
		return Lineage{}, false
	}
	return *c.lineMap.Get(e), true
}

// Entities returns the handles in colony order.
func (c *Colony) Entities() []ecs.Entity {
	return append([]ecs.Entity(nil), c.order...)
}

// Each calls fn for every bacterium in colony order. fn may modify the
// bacterium in place; use View for read-only access.
func (c *Colony) Each(fn func(b *bacteria.Bacterium)) {
	for _, e := range c.order {
		fn(c.bugMap.Get(e))
	}
}

// EachAlive calls fn for every living bacterium in colony order. fn may
// modify the bacterium in place.
func (c *Colony) EachAlive(fn func(b *bacteria.Bacterium)) {
	for _, e := range c.order {
		if b := c.bugMap.Get(e); b.Alive() {
			fn(b)
		}
	}
}

// View calls fn with a copy of every living bacterium in colony order.
func (c *Colony) View(fn func(b bacteria.Bacterium)) {
	for _, e := range c.order {
		if b := c.bugMap.Get(e); b.Alive() {
			fn(*b)
		}
	}
}

// Snapshot returns a copy of every bacterium in colony order.
func (c *Colony) Snapshot() []bacteria.Bacterium {
	out := make([]bacteria.Bacterium, 0, len(c.order))
	for _, e := range c.order {
		out = append(out, *c.bugMap.Get(e))
	}
	return out
}

// Clock returns the simulated time in seconds.
func (c *Colony) Clock() float32 {
	return c.clock
}

// Update advances the colony by dt seconds.
//
// The order is fixed: advance every clock, roll division for eligible
// bacteria, insert the offspring, then cull the dead. Offspring are not
// advanced in the frame they are born. An eligible bacterium has its clock
// reset whether or not the roll succeeds.
func (c *Colony) Update(dt float32) UpdateResult {
	var res UpdateResult
	if dt < 0 {
		dt = 0
	}
	c.clock += dt

	for _, e := range c.order {
		c.bugMap.Get(e).Advance(dt)
	}

	c.pending = c.pending[:0]
	for _, e := range c.order {
		b, lin := c.mapper.Get(e)
		if !b.CanDivide() {
			continue
		}
		if c.rng.Float32() < c.params.DivisionProbability {
			c.pending = append(c.pending, birth{
				child:  b.Clone(c.rng, c.params.Clone),
				parent: *lin,
			})
		}
		b.ResetDivisionClock()
	}

	for _, p := range c.pending {
		c.insert(p.child, p.parent)
		res.Divisions++
		if p.child.Species.Valid() {
			res.Births[p.child.Species]++
		}
	}

	res.Culled = c.cull(&res.Deaths)
	return res
}

// Cull removes dead bacteria, keeping survivors in their relative order.
// It returns the number removed.
func (c *Colony) Cull() int {
	var deaths [bacteria.NumSpecies]int
	return c.cull(&deaths)
}

func (c *Colony) cull(deaths *[bacteria.NumSpecies]int) int {
	kept := c.order[:0]
	removed := 0
	for _, e := range c.order {
		b := c.bugMap.Get(e)
		if b.Alive() {
			kept = append(kept, e)
			continue
		}
		if b.Species.Valid() {
			deaths[b.Species]++
		}
		c.world.RemoveEntity(e)
		removed++
	}
	// Drop stale handles from the tail so they cannot be observed.
	for i := len(kept); i < len(c.order); i++ {
		c.order[i] = ecs.Entity{}
	}
	c.order = kept
	return removed
}

// SetDivisionInterval overrides the division interval of every current and
// future bacterium. Zero or less clears the override for future bacteria.
func (c *Colony) SetDivisionInterval(seconds float32) {
	if seconds <= 0 {
		c.intervalOverride = 0
		return
	}
	c.intervalOverride = seconds
	for _, e := range c.order {
		c.bugMap.Get(e).SetDivisionInterval(seconds)
	}
}

// DivisionInterval returns the active override, or 0 if none.
func (c *Colony) DivisionInterval() float32 {
	return c.intervalOverride
}

// Census counts living bacteria per species.
func (c *Colony) Census() map[bacteria.Species]int {
	counts := make(map[bacteria.Species]int, bacteria.NumSpecies)
	query := c.filter.Query()
	for query.Next() {
		b, _ := query.Get()
		if b.Alive() {
			counts[b.Species]++
		}
	}
	return counts
}

// MaxGeneration returns the deepest lineage generation among live bacteria.
func (c *Colony) MaxGeneration() uint32 {
	var maxGen uint32
	query := c.filter.Query()
	for query.Next() {
		b, lin := query.Get()
		if b.Alive() && lin.Generation > maxGen {
			maxGen = lin.Generation
		}
	}
	return maxGen
}

// Clear removes every bacterium.
func (c *Colony) Clear() {
	for _, e := range c.order {
		c.world.RemoveEntity(e)
	}
	c.order = c.order[:0]
}
