// Package tank implements the fish tank core: a bounded rectangular grid of
// cells occupied by fish and decorations, movement with bounds and collision
// checks, a limited-radius field of view, and emoji board rendering.
package tank

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"

	"fishtank/shared"
)

// Default glyphs used for rendering. Borders frame the full board only; the
// empty glyph fills unoccupied cells on both the board and mini-maps.
const (
	DefaultTopBorder    = "🌊"
	DefaultBottomBorder = "🪨"
	DefaultSideBorder   = "🪟"
	EmptyGlyph          = "⬛"

	// OpenWaterGlyph fills unoccupied cells in the borderless board text
	// sent to the narrator.
	OpenWaterGlyph = "⬜"

	// DefaultViewRadius is the mini-map radius used for a fish's field of view.
	DefaultViewRadius = 2
)

// Tank represents the fish tank containing fish and decorations. It is the
// single source of truth for spatial legality: every position mutation goes
// through its bounds and occupancy checks.
type Tank struct {
	width  int
	height int

	topBorder    string
	bottomBorder string
	sideBorder   string

	fish        []*Fish
	decorations []*Decoration

	// Occupancy indexes, maintained on every successful move so lookups do
	// not scan the occupant lists. Fish and decorations are indexed apart
	// because a fish glyph wins over a decoration glyph at the same cell.
	fishAt  map[shared.Position]*Fish
	decorAt map[shared.Position]*Decoration

	rounds     int
	storySoFar []string

	logger *log.Logger
}

// NewTank creates an empty tank with the given dimensions and default
// border glyphs. Width and height must be positive.
func NewTank(width, height int, logger *log.Logger) (*Tank, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("tank dimensions must be positive, got %dx%d", width, height)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Tank{
		width:        width,
		height:       height,
		topBorder:    DefaultTopBorder,
		bottomBorder: DefaultBottomBorder,
		sideBorder:   DefaultSideBorder,
		fishAt:       make(map[shared.Position]*Fish),
		decorAt:      make(map[shared.Position]*Decoration),
		logger:       logger,
	}, nil
}

// SetBorders overrides the border glyphs used by Render.
func (t *Tank) SetBorders(top, bottom, side string) {
	t.topBorder = top
	t.bottomBorder = bottom
	t.sideBorder = side
}

// Width returns the tank width.
func (t *Tank) Width() int { return t.width }

// Height returns the tank height.
func (t *Tank) Height() int { return t.height }

// Fish returns the tank's fish in insertion order.
func (t *Tank) Fish() []*Fish { return t.fish }

// Decorations returns the tank's decorations in insertion order.
func (t *Tank) Decorations() []*Decoration { return t.decorations }

// AddFish adds a fish to the tank. Placement is not collision-checked;
// collisions are enforced at the point of movement.
func (t *Tank) AddFish(f *Fish) {
	t.logger.Printf("Adding fish %s at position (%d, %d)", f.Name, f.position.X, f.position.Y)
	f.tank = t
	t.fish = append(t.fish, f)
	if _, taken := t.fishAt[f.position]; !taken {
		t.fishAt[f.position] = f
	}
}

// AddDecoration adds a decoration to the tank.
func (t *Tank) AddDecoration(d *Decoration) {
	t.logger.Printf("Adding decoration %s at position (%d, %d)", d.Glyph, d.position.X, d.position.Y)
	t.decorations = append(t.decorations, d)
	if _, taken := t.decorAt[d.position]; !taken {
		t.decorAt[d.position] = d
	}
}

// IsWithinBounds reports whether the position lies inside the tank.
func (t *Tank) IsWithinBounds(pos shared.Position) bool {
	return pos.X >= 0 && pos.X < t.width && pos.Y >= 0 && pos.Y < t.height
}

// IsOccupied reports whether any fish or decoration sits at the position.
func (t *Tank) IsOccupied(pos shared.Position) bool {
	return t.IsOccupiedExcept(pos, nil)
}

// IsOccupiedExcept reports whether any occupant other than the given fish
// sits at the position.
func (t *Tank) IsOccupiedExcept(pos shared.Position, except *Fish) bool {
	if _, ok := t.decorAt[pos]; ok {
		return true
	}
	if f, ok := t.fishAt[pos]; ok && f != except {
		return true
	}
	return false
}

// FishAt returns the first fish at the position in insertion order, or nil.
func (t *Tank) FishAt(pos shared.Position) *Fish {
	return t.fishAt[pos]
}

// DecorationAt returns the first decoration at the position in insertion
// order, or nil.
func (t *Tank) DecorationAt(pos shared.Position) *Decoration {
	return t.decorAt[pos]
}

// GlyphAt returns the glyph shown for the cell: the fish glyph if a fish is
// there, else the decoration glyph, else the empty glyph. A fish always
// wins over a decoration at the same cell.
func (t *Tank) GlyphAt(pos shared.Position) string {
	if f := t.fishAt[pos]; f != nil {
		return f.Glyph
	}
	if d := t.decorAt[pos]; d != nil {
		return d.Glyph
	}
	return EmptyGlyph
}

// AttemptMove computes a candidate position one cell away from the fish in
// the requested direction and accepts it iff the candidate is within bounds
// and unoccupied. It reports whether the fish moved. An unrecognized
// direction token is a no-op that reports no movement. No partial state
// changes occur on failure.
func (t *Tank) AttemptMove(f *Fish, direction shared.Direction) bool {
	t.logger.Printf("Fish %s attempting to move %s from position (%d, %d)", f.Name, direction, f.position.X, f.position.Y)

	offset, ok := direction.Offset()
	if !ok {
		t.logger.Printf("Invalid direction %q provided.", direction)
		return false
	}

	candidate := f.position.Add(offset)
	if !t.IsWithinBounds(candidate) {
		t.logger.Printf("Move blocked. %s remains at (%d, %d): (%d, %d) is out of bounds", f.Name, f.position.X, f.position.Y, candidate.X, candidate.Y)
		return false
	}
	if t.IsOccupiedExcept(candidate, f) {
		t.logger.Printf("Move blocked. %s remains at (%d, %d): (%d, %d) is occupied", f.Name, f.position.X, f.position.Y, candidate.X, candidate.Y)
		return false
	}

	t.relocate(f, candidate)
	t.logger.Printf("Move successful. %s moved to (%d, %d)", f.Name, candidate.X, candidate.Y)

	f.UpdateFieldOfView()
	return true
}

// relocate moves the fish to pos and repairs the fish occupancy index.
func (t *Tank) relocate(f *Fish, pos shared.Position) {
	old := f.position
	f.position = pos
	if t.fishAt[old] == f {
		delete(t.fishAt, old)
		// Another fish may have been shadowed at the old cell.
		for _, other := range t.fish {
			if other != f && other.position == old {
				t.fishAt[old] = other
				break
			}
		}
	}
	if _, taken := t.fishAt[pos]; !taken {
		t.fishAt[pos] = f
	}
}

// PlaceRandomly moves the fish to a random unoccupied cell. It gives up
// after a bounded number of attempts on a crowded tank.
func (t *Tank) PlaceRandomly(f *Fish, rng *rand.Rand) error {
	for attempts := 0; attempts < 100; attempts++ {
		pos := shared.Position{X: rng.Intn(t.width), Y: rng.Intn(t.height)}
		if !t.IsOccupiedExcept(pos, f) {
			t.relocate(f, pos)
			return nil
		}
	}
	return fmt.Errorf("no empty positions available in %dx%d tank", t.width, t.height)
}

// HasDistinctGlyphs reports whether every occupant glyph in the tank is
// unique. The narrator identifies fish by glyph, so duplicates make its
// replies ambiguous.
func (t *Tank) HasDistinctGlyphs() bool {
	seen := mapset.New[string]()
	for _, f := range t.fish {
		if seen.Has(f.Glyph) {
			return false
		}
		seen.Put(f.Glyph)
	}
	for _, d := range t.decorations {
		if seen.Has(d.Glyph) {
			return false
		}
		seen.Put(d.Glyph)
	}
	return true
}

// Roster returns a markdown summary of the fish in the tank, one line per
// fish.
func (t *Tank) Roster() string {
	roster := ""
	for _, f := range t.fish {
		roster += fmt.Sprintf("- %s %s (%s, %s)\n", f.Glyph, f.Name, f.Species, f.Traits)
	}
	return roster
}

// Rounds returns how many narrator rounds the tank has been through.
func (t *Tank) Rounds() int { return t.rounds }

// NextRound advances the round counter and returns the new round number.
func (t *Tank) NextRound() int {
	t.rounds++
	return t.rounds
}

// StorySoFar returns the accumulated narrative, one entry per round.
func (t *Tank) StorySoFar() []string { return t.storySoFar }

// AppendStory records one round's narrative.
func (t *Tank) AppendStory(story string) {
	t.storySoFar = append(t.storySoFar, story)
}

// ApplyArrangement teleports fish to narrator-proposed positions, keyed by
// glyph. Proposals that are out of bounds or land on a cell occupied by
// someone else are logged and skipped, so the tank invariants hold whatever
// the narrator says.
func (t *Tank) ApplyArrangement(proposed map[string]shared.Position) {
	for _, f := range t.fish {
		pos, ok := proposed[f.Glyph]
		if !ok {
			continue
		}
		if pos == f.position {
			continue
		}
		if !t.IsWithinBounds(pos) {
			t.logger.Printf("Skipping proposed position (%d, %d) for %s: out of bounds", pos.X, pos.Y, f.Name)
			continue
		}
		if t.IsOccupiedExcept(pos, f) {
			t.logger.Printf("Skipping proposed position (%d, %d) for %s: occupied", pos.X, pos.Y, f.Name)
			continue
		}
		t.relocate(f, pos)
		f.UpdateFieldOfView()
	}
}

// Snapshot captures the whole tank state for persistence.
func (t *Tank) Snapshot() shared.TankSnapshot {
	snap := shared.TankSnapshot{
		Width:        t.width,
		Height:       t.height,
		TopBorder:    t.topBorder,
		BottomBorder: t.bottomBorder,
		SideBorder:   t.sideBorder,
		Rounds:       t.rounds,
		StorySoFar:   append([]string(nil), t.storySoFar...),
	}
	for _, f := range t.fish {
		snap.Fish = append(snap.Fish, shared.FishState{
			ID:       f.id.String(),
			Name:     f.Name,
			Species:  f.Species,
			Traits:   f.Traits,
			Goal:     f.Goal,
			Glyph:    f.Glyph,
			Position: f.position,
		})
	}
	for _, d := range t.decorations {
		snap.Decorations = append(snap.Decorations, shared.DecorationState{
			Glyph:    d.Glyph,
			Position: d.position,
		})
	}
	return snap
}

// Restore rebuilds a tank wholesale from a previously saved snapshot.
func Restore(snap shared.TankSnapshot, logger *log.Logger) (*Tank, error) {
	t, err := NewTank(snap.Width, snap.Height, logger)
	if err != nil {
		return nil, fmt.Errorf("restoring tank: %w", err)
	}
	if snap.TopBorder != "" {
		t.SetBorders(snap.TopBorder, snap.BottomBorder, snap.SideBorder)
	}
	t.rounds = snap.Rounds
	t.storySoFar = append([]string(nil), snap.StorySoFar...)

	for _, state := range snap.Fish {
		f := NewFish(state.Name, state.Species, state.Traits, state.Goal, state.Glyph, state.Position)
		if id, err := uuid.Parse(state.ID); err == nil {
			f.id = id
		}
		t.AddFish(f)
	}
	for _, state := range snap.Decorations {
		t.AddDecoration(NewDecoration(state.Glyph, state.Position))
	}
	return t, nil
}
