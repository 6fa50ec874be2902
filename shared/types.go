// Package shared contains common types and data structures used across the
// fish tank system. It defines positions, movement directions, and the
// snapshot structures exchanged between the tank core and the snapshot store.
package shared

// Position represents a 2D coordinate in the tank.
// X increases eastward, Y increases southward (screen coordinates).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the position offset by another position.
func (p Position) Add(offset Position) Position {
	return Position{X: p.X + offset.X, Y: p.Y + offset.Y}
}

// Direction is a movement command token. The recognized set is closed:
// north, south, east, west. Any other token is a no-op.
type Direction string

const (
	DirectionNorth Direction = "north"
	DirectionSouth Direction = "south"
	DirectionEast  Direction = "east"
	DirectionWest  Direction = "west"
)

// Directions lists the recognized movement directions.
var Directions = []Direction{DirectionNorth, DirectionSouth, DirectionEast, DirectionWest}

// Offset returns the one-cell displacement for the direction and whether
// the direction token is recognized.
func (d Direction) Offset() (Position, bool) {
	switch d {
	case DirectionNorth:
		return Position{X: 0, Y: -1}, true
	case DirectionSouth:
		return Position{X: 0, Y: 1}, true
	case DirectionEast:
		return Position{X: 1, Y: 0}, true
	case DirectionWest:
		return Position{X: -1, Y: 0}, true
	default:
		return Position{}, false
	}
}

// FishState represents the persisted state of a single fish.
type FishState struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Species  string   `json:"species"`
	Traits   string   `json:"traits"`
	Goal     string   `json:"goal"`
	Glyph    string   `json:"glyph"`
	Position Position `json:"position"`
}

// DecorationState represents the persisted state of a stationary decoration.
type DecorationState struct {
	Glyph    string   `json:"glyph"`
	Position Position `json:"position"`
}

// TankSnapshot represents the whole persisted state of a tank. It carries
// everything needed to restore the tank between runs.
type TankSnapshot struct {
	Width        int               `json:"width"`
	Height       int               `json:"height"`
	TopBorder    string            `json:"top_border"`
	BottomBorder string            `json:"bottom_border"`
	SideBorder   string            `json:"side_border"`
	Fish         []FishState       `json:"fish"`
	Decorations  []DecorationState `json:"decorations"`
	Rounds       int               `json:"rounds"`
	StorySoFar   []string          `json:"story_so_far"`
}
