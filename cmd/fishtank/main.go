package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"fishtank/config"
	"fishtank/narrator"
	"fishtank/shared"
	"fishtank/sim"
	"fishtank/store"
	"fishtank/tank"
)

func main() {
	devMode := flag.Bool("dev", false, "Run in development mode (random moves, no narrator)")
	configPath := flag.String("config", config.DefaultPath(), "Path to the config file")
	snapshotPath := flag.String("snapshot", "", "Path to the snapshot database (overrides config)")
	rounds := flag.Int("rounds", 0, "Number of rounds to run (0 = until stopped)")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	if err := config.SaveDefault(*configPath, logger); err != nil {
		logger.Printf("Warning: failed to create default config file: %v", err)
	}

	cfg, err := config.Load(*configPath, logger)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if *snapshotPath != "" {
		cfg.SnapshotPath = *snapshotPath
	}

	snapshots, err := store.Open(cfg.SnapshotPath, logger)
	if err != nil {
		logger.Fatalf("Failed to open snapshot store: %v", err)
	}
	defer snapshots.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	fishTank, err := loadOrCreateTank(cfg, snapshots, rng, logger)
	if err != nil {
		logger.Fatalf("Failed to set up tank: %v", err)
	}
	if !fishTank.HasDistinctGlyphs() {
		logger.Fatalf("Tank occupants must have distinct glyphs")
	}

	var storyteller sim.Storyteller
	if *devMode {
		logger.Println("Running in development mode")
	} else {
		if cfg.GeminiAPIKey == "" {
			logger.Fatalf("No Gemini API key found. Set GEMINI_API_KEY or add it to %s, or run with -dev", *configPath)
		}
		storyteller, err = narrator.New(context.Background(), cfg.GeminiAPIKey, logger)
		if err != nil {
			logger.Fatalf("Failed to create narrator: %v", err)
		}
	}

	simulator := sim.New(fishTank, storyteller, snapshots, rng, logger, os.Stdout)

	fmt.Print(fishTank.Roster())

	stdin := bufio.NewScanner(os.Stdin)
	for i := 0; *rounds == 0 || i < *rounds; i++ {
		if err := simulator.RunRound(context.Background()); err != nil {
			logger.Fatalf("Round failed: %v", err)
		}
		if *rounds == 0 && !askContinue(stdin) {
			break
		}
	}

	printFieldsOfView(fishTank)
	logger.Println("Simulation finished.")
}

// loadOrCreateTank restores the tank from the latest snapshot, or builds
// the default tank when no snapshot exists.
func loadOrCreateTank(cfg *config.Config, snapshots *store.Store, rng *rand.Rand, logger *log.Logger) (*tank.Tank, error) {
	snap, err := snapshots.Latest()
	switch {
	case err == nil:
		logger.Printf("Restoring tank from snapshot (round %d)", snap.Rounds)
		return tank.Restore(snap, logger)
	case errors.Is(err, store.ErrNoSnapshot):
		logger.Println("No snapshot found, creating a fresh tank")
		return newDefaultTank(cfg, rng, logger)
	default:
		return nil, err
	}
}

// newDefaultTank builds the stock cast: five fish at random open cells and
// a couple of plants.
func newDefaultTank(cfg *config.Config, rng *rand.Rand, logger *log.Logger) (*tank.Tank, error) {
	t, err := tank.NewTank(cfg.TankWidth, cfg.TankHeight, logger)
	if err != nil {
		return nil, err
	}

	cast := []*tank.Fish{
		tank.NewFish("Goldie", "Goldfish", "curious", "Exploring the tank", "🐠", shared.Position{X: 0, Y: 0}),
		tank.NewFish("Bubbles", "Betta", "timid", "Finding a quiet spot", "🐟", shared.Position{X: 1, Y: 1}),
		tank.NewFish("Finley", "Angelfish", "bold", "Patrolling territory", "🐡", shared.Position{X: 2, Y: 2}),
		tank.NewFish("Stripe", "Zebra Fish", "aggressive", "Challenging rivals", "🐙", shared.Position{X: 3, Y: 3}),
		tank.NewFish("Glimmer", "Guppy", "peaceful", "Socializing with others", "🦐", shared.Position{X: 4, Y: 4}),
	}
	for _, f := range cast {
		t.AddFish(f)
		if err := t.PlaceRandomly(f, rng); err != nil {
			return nil, err
		}
	}

	for _, glyph := range []string{"🌿", "🌱"} {
		pos, err := randomOpenCell(t, rng)
		if err != nil {
			return nil, err
		}
		t.AddDecoration(tank.NewDecoration(glyph, pos))
	}

	return t, nil
}

func randomOpenCell(t *tank.Tank, rng *rand.Rand) (shared.Position, error) {
	for attempts := 0; attempts < 100; attempts++ {
		pos := shared.Position{X: rng.Intn(t.Width()), Y: rng.Intn(t.Height())}
		if !t.IsOccupied(pos) {
			return pos, nil
		}
	}
	return shared.Position{}, fmt.Errorf("no empty positions available in %dx%d tank", t.Width(), t.Height())
}

func askContinue(stdin *bufio.Scanner) bool {
	fmt.Print("\nContinue simulation? (y/n): ")
	if !stdin.Scan() {
		return false
	}
	return strings.ToLower(strings.TrimSpace(stdin.Text())) == "y"
}

// printFieldsOfView dumps each fish's last computed field of view, one row
// per line, with "--" for cells outside the tank.
func printFieldsOfView(t *tank.Tank) {
	for _, f := range t.Fish() {
		fmt.Printf("Fish %s field of view:\n", f.Name)
		for _, row := range f.FieldOfView() {
			cells := make([]string, 0, len(row))
			for _, cell := range row {
				if !cell.Visible {
					cells = append(cells, "--")
					continue
				}
				cells = append(cells, cell.Glyph)
			}
			fmt.Println(strings.Join(cells, " "))
		}
	}
}
