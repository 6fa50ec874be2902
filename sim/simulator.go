// Package sim runs the narrator-driven simulation loop: render the tank,
// ask the narrator for a new arrangement and story, apply it, and persist a
// snapshot.
package sim

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"strings"

	"fishtank/bot"
	"fishtank/narrator"
	"fishtank/shared"
	"fishtank/tank"
)

// Storyteller produces a raw narrator reply for one round.
type Storyteller interface {
	NextRound(ctx context.Context, firstRound bool, roster, board string) (string, error)
}

// SnapshotSaver persists tank snapshots between rounds.
type SnapshotSaver interface {
	Save(snap shared.TankSnapshot) error
}

// Simulator drives the tank one round at a time. With a nil storyteller it
// runs in dev mode: each fish attempts one random move per round and no
// external service is involved.
type Simulator struct {
	tank        *tank.Tank
	storyteller Storyteller
	saver       SnapshotSaver
	rng         *rand.Rand
	logger      *log.Logger
	out         io.Writer

	// Dev-mode autopilots, one per fish, replaced when a fish arrives at
	// its target or gets stuck.
	pilots map[*tank.Fish]*bot.Autopilot
}

// New creates a simulator. The saver may be nil to skip persistence, and
// the storyteller may be nil for dev mode.
func New(t *tank.Tank, storyteller Storyteller, saver SnapshotSaver, rng *rand.Rand, logger *log.Logger, out io.Writer) *Simulator {
	if logger == nil {
		logger = log.Default()
	}
	if out == nil {
		out = io.Discard
	}
	return &Simulator{
		tank:        t,
		storyteller: storyteller,
		saver:       saver,
		rng:         rng,
		logger:      logger,
		out:         out,
		pilots:      make(map[*tank.Fish]*bot.Autopilot),
	}
}

// RunRound executes one simulation round. A malformed or missing narrator
// reply is logged and the round leaves the tank unchanged; only snapshot
// persistence failures are returned as errors.
func (s *Simulator) RunRound(ctx context.Context) error {
	round := s.tank.NextRound()

	fmt.Fprintln(s.out, "\nCurrent Fish Tank:")
	fmt.Fprint(s.out, s.tank.Render())

	before := s.tank.Layout()

	if s.storyteller == nil {
		s.runDevRound(round)
	} else {
		s.runNarratorRound(ctx, round)
	}

	for _, change := range tank.DiffLayouts(before, s.tank.Layout()) {
		s.logger.Printf("Round %d change: %s", round, change)
	}

	if s.saver != nil {
		if err := s.saver.Save(s.tank.Snapshot()); err != nil {
			return fmt.Errorf("saving snapshot after round %d: %w", round, err)
		}
	}
	return nil
}

// runNarratorRound does the synchronous narrator round trip. Any failure
// discards the round.
func (s *Simulator) runNarratorRound(ctx context.Context, round int) {
	raw, err := s.storyteller.NextRound(ctx, round == 1, s.tank.Roster(), s.tank.BoardText())
	if err != nil {
		s.logger.Printf("Round %d skipped: narrator request failed: %v", round, err)
		return
	}

	reply, err := narrator.ParseReply(raw)
	if err != nil {
		s.logger.Printf("Round %d skipped: invalid narrator reply: %v", round, err)
		return
	}

	glyphs := make([]string, 0, len(s.tank.Fish()))
	for _, f := range s.tank.Fish() {
		glyphs = append(glyphs, f.Glyph)
	}

	s.tank.ApplyArrangement(reply.Arrangement(glyphs))
	s.tank.AppendStory(reply.Story)

	fmt.Fprintln(s.out, "\nStory:")
	fmt.Fprintln(s.out, WrapStory(reply.Story, 80))
}

// runDevRound steers each fish one autopilot step toward a random target
// cell instead of consulting the narrator. A fish that has arrived or
// cannot route gets a fresh target next round; in the meantime it wanders
// one random cell.
func (s *Simulator) runDevRound(round int) {
	for _, f := range s.tank.Fish() {
		pilot, ok := s.pilots[f]
		if !ok || pilot.Arrived() {
			goal := shared.Position{X: s.rng.Intn(s.tank.Width()), Y: s.rng.Intn(s.tank.Height())}
			pilot = bot.New(s.tank, f, goal, s.logger)
			s.pilots[f] = pilot
		}
		if pilot.Step() {
			continue
		}
		delete(s.pilots, f)
		direction := shared.Directions[s.rng.Intn(len(shared.Directions))]
		moved := f.Move(direction)
		s.logger.Printf("Dev mode: %s wandered %s (moved=%t)", f.Name, direction, moved)
	}
	s.tank.AppendStory(fmt.Sprintf("Round %d: the fish drift about the tank.", round))
}

// WrapStory word-wraps each line of the story to the given width so it
// prints nicely in a terminal.
func WrapStory(story string, width int) string {
	var lines []string
	for _, line := range strings.Split(story, "\n") {
		lines = append(lines, wrapLine(line, width))
	}
	return strings.Join(lines, "\n")
}

func wrapLine(line string, width int) string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return line
	}

	var b strings.Builder
	length := 0
	for i, word := range words {
		if i > 0 {
			if length+1+len(word) > width {
				b.WriteByte('\n')
				length = 0
			} else {
				b.WriteByte(' ')
				length++
			}
		}
		b.WriteString(word)
		length += len(word)
	}
	return b.String()
}
