package tank

import (
	"fmt"

	"github.com/google/uuid"

	"fishtank/shared"
)

// Fish represents a fish in the fish tank with attributes such as name,
// position, species, and personality traits. A fish is the only kind of
// occupant that can move.
type Fish struct {
	id       uuid.UUID
	Name     string
	Species  string
	Traits   string
	Goal     string
	Glyph    string
	position shared.Position

	fieldOfView [][]ViewCell
	tank        *Tank
}

// NewFish creates a new fish at the given position. The fish is not part of
// any tank until it is added with Tank.AddFish.
func NewFish(name, species, traits, goal, glyph string, pos shared.Position) *Fish {
	return &Fish{
		id:       uuid.New(),
		Name:     name,
		Species:  species,
		Traits:   traits,
		Goal:     goal,
		Glyph:    glyph,
		position: pos,
	}
}

// ID returns the fish's unique identifier.
func (f *Fish) ID() uuid.UUID {
	return f.id
}

// Position returns the fish's current position.
func (f *Fish) Position() shared.Position {
	return f.position
}

// FieldOfView returns the mini-map computed after the fish's last
// successful move. It is nil until the fish has moved.
func (f *Fish) FieldOfView() [][]ViewCell {
	return f.fieldOfView
}

// Move attempts to move the fish one cell in the given direction. It
// reports whether the move was accepted. On success the fish's field of
// view is recomputed; on failure the fish's state is untouched. This is the
// only path by which a fish changes position during normal play.
func (f *Fish) Move(direction shared.Direction) bool {
	if f.tank == nil {
		return false
	}
	return f.tank.AttemptMove(f, direction)
}

// UpdateFieldOfView recomputes the fish's field of view from its current
// position in the tank.
func (f *Fish) UpdateFieldOfView() {
	if f.tank == nil {
		return
	}
	f.fieldOfView = f.tank.MiniMap(f.position, DefaultViewRadius)
}

func (f *Fish) String() string {
	return fmt.Sprintf("%s (%s, %s) at position (%d, %d)", f.Name, f.Species, f.Traits, f.position.X, f.position.Y)
}

// Decoration represents an inanimate object in the fish tank. Its position
// never changes once placed.
type Decoration struct {
	Glyph    string
	position shared.Position
}

// NewDecoration creates a new decoration at the given position.
func NewDecoration(glyph string, pos shared.Position) *Decoration {
	return &Decoration{Glyph: glyph, position: pos}
}

// Position returns the decoration's position.
func (d *Decoration) Position() shared.Position {
	return d.position
}
