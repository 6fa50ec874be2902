// Package bot implements an autopilot that steers a single fish toward a
// goal cell, one cardinal step per call, routing around tank walls and
// occupied cells.
package bot

import (
	"log"

	"github.com/beefsack/go-astar"

	"fishtank/shared"
	"fishtank/tank"
)

// world adapts the tank to the pathfinder. Nodes are cached per search so
// each position maps to exactly one Pather value.
type world struct {
	tank  *tank.Tank
	pilot *tank.Fish
	nodes map[shared.Position]*node
}

type node struct {
	world *world
	pos   shared.Position
}

func (w *world) node(pos shared.Position) *node {
	if n, ok := w.nodes[pos]; ok {
		return n
	}
	n := &node{world: w, pos: pos}
	w.nodes[pos] = n
	return n
}

// PathNeighbors returns the passable cardinal neighbors of the node. Cells
// occupied by anything other than the piloted fish are impassable.
func (n *node) PathNeighbors() []astar.Pather {
	var neighbors []astar.Pather
	for _, d := range shared.Directions {
		offset, _ := d.Offset()
		pos := n.pos.Add(offset)
		if !n.world.tank.IsWithinBounds(pos) {
			continue
		}
		if n.world.tank.IsOccupiedExcept(pos, n.world.pilot) {
			continue
		}
		neighbors = append(neighbors, n.world.node(pos))
	}
	return neighbors
}

func (n *node) PathNeighborCost(astar.Pather) float64 {
	return 1
}

func (n *node) PathEstimatedCost(to astar.Pather) float64 {
	other := to.(*node)
	dx := n.pos.X - other.pos.X
	dy := n.pos.Y - other.pos.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return float64(dx + dy)
}

// Autopilot drives one fish toward a goal position through regular moves.
// Every step goes through the tank's normal movement checks, so the
// autopilot can never put the fish somewhere an ordinary move could not.
type Autopilot struct {
	tank   *tank.Tank
	fish   *tank.Fish
	goal   shared.Position
	logger *log.Logger
}

// New creates an autopilot steering the fish toward the goal.
func New(t *tank.Tank, f *tank.Fish, goal shared.Position, logger *log.Logger) *Autopilot {
	if logger == nil {
		logger = log.Default()
	}
	return &Autopilot{tank: t, fish: f, goal: goal, logger: logger}
}

// Arrived reports whether the fish has reached the goal.
func (a *Autopilot) Arrived() bool {
	return a.fish.Position() == a.goal
}

// Next returns the direction of the next step along a shortest path to the
// goal, or false if the fish has arrived or no path exists.
func (a *Autopilot) Next() (shared.Direction, bool) {
	if a.Arrived() {
		return "", false
	}
	if !a.tank.IsWithinBounds(a.goal) {
		a.logger.Printf("Autopilot goal (%d, %d) is outside the tank", a.goal.X, a.goal.Y)
		return "", false
	}

	w := &world{tank: a.tank, pilot: a.fish, nodes: make(map[shared.Position]*node)}
	path, _, found := astar.Path(w.node(a.fish.Position()), w.node(a.goal))
	if !found || len(path) < 2 {
		a.logger.Printf("Autopilot found no path for %s from (%d, %d) to (%d, %d)",
			a.fish.Name, a.fish.Position().X, a.fish.Position().Y, a.goal.X, a.goal.Y)
		return "", false
	}

	// astar returns the path goal-first, so the cell after the start is the
	// second-to-last element.
	next := path[len(path)-2].(*node).pos
	return directionTo(a.fish.Position(), next)
}

// Step advances the fish one cell along the path. It reports whether the
// fish moved.
func (a *Autopilot) Step() bool {
	direction, ok := a.Next()
	if !ok {
		return false
	}
	return a.fish.Move(direction)
}

// directionTo maps a one-cell displacement to its direction token.
func directionTo(from, to shared.Position) (shared.Direction, bool) {
	for _, d := range shared.Directions {
		offset, _ := d.Offset()
		if from.Add(offset) == to {
			return d, true
		}
	}
	return "", false
}
