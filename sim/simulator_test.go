package sim

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"math/rand"
	"strings"
	"testing"

	"fishtank/shared"
	"fishtank/tank"
)

type fakeStoryteller struct {
	reply string
	err   error

	calls      int
	firstRound bool
	roster     string
	board      string
}

func (f *fakeStoryteller) NextRound(_ context.Context, firstRound bool, roster, board string) (string, error) {
	f.calls++
	f.firstRound = firstRound
	f.roster = roster
	f.board = board
	return f.reply, f.err
}

type fakeSaver struct {
	saves []shared.TankSnapshot
	err   error
}

func (f *fakeSaver) Save(snap shared.TankSnapshot) error {
	f.saves = append(f.saves, snap)
	return f.err
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestTank(t *testing.T) *tank.Tank {
	t.Helper()
	tk, err := tank.NewTank(5, 5, testLogger())
	if err != nil {
		t.Fatalf("NewTank failed: %v", err)
	}
	tk.AddFish(tank.NewFish("Goldie", "Goldfish", "curious", "roam", "🐠", shared.Position{X: 0, Y: 0}))
	tk.AddDecoration(tank.NewDecoration("🌿", shared.Position{X: 3, Y: 3}))
	return tk
}

func TestRunRoundAppliesNarratorReply(t *testing.T) {
	tk := newTestTank(t)
	storyteller := &fakeStoryteller{
		reply: "---start tank---\n" +
			"⬜⬜⬜⬜⬜\n" +
			"⬜⬜🐠⬜⬜\n" +
			"⬜⬜⬜⬜⬜\n" +
			"⬜⬜⬜⬜⬜\n" +
			"⬜⬜⬜⬜⬜\n" +
			"---end tank---\n" +
			"---start story---\n" +
			"Goldie darts to the middle of the tank.\n" +
			"---end story---\n",
	}
	saver := &fakeSaver{}
	var out bytes.Buffer

	s := New(tk, storyteller, saver, rand.New(rand.NewSource(1)), testLogger(), &out)
	if err := s.RunRound(context.Background()); err != nil {
		t.Fatalf("RunRound failed: %v", err)
	}

	if !storyteller.firstRound {
		t.Error("First round should be flagged to the storyteller")
	}
	if !strings.Contains(storyteller.roster, "Goldie") {
		t.Errorf("Roster sent to storyteller = %q", storyteller.roster)
	}
	if !strings.Contains(storyteller.board, "🐠") {
		t.Errorf("Board sent to storyteller = %q", storyteller.board)
	}

	fish := tk.Fish()[0]
	if got := fish.Position(); got != (shared.Position{X: 2, Y: 1}) {
		t.Errorf("Fish at (%d, %d), want (2, 1)", got.X, got.Y)
	}
	if len(tk.StorySoFar()) != 1 || !strings.Contains(tk.StorySoFar()[0], "darts") {
		t.Errorf("Story so far = %v", tk.StorySoFar())
	}
	if len(saver.saves) != 1 {
		t.Fatalf("Expected 1 snapshot save, got %d", len(saver.saves))
	}
	if saver.saves[0].Rounds != 1 {
		t.Errorf("Saved snapshot rounds = %d, want 1", saver.saves[0].Rounds)
	}
	if !strings.Contains(out.String(), "Goldie darts") {
		t.Error("Story should be printed to the output writer")
	}
}

func TestRunRoundSkipsMalformedReply(t *testing.T) {
	tk := newTestTank(t)
	before := tk.Render()
	storyteller := &fakeStoryteller{reply: "the fish are fine, no markers today"}
	saver := &fakeSaver{}

	s := New(tk, storyteller, saver, rand.New(rand.NewSource(1)), testLogger(), nil)
	if err := s.RunRound(context.Background()); err != nil {
		t.Fatalf("RunRound should not fail on a malformed reply: %v", err)
	}

	if got := tk.Render(); got != before {
		t.Error("Tank must be unchanged when the narrator reply is malformed")
	}
	if len(tk.StorySoFar()) != 0 {
		t.Errorf("No story should be recorded for a skipped round, got %v", tk.StorySoFar())
	}
	if len(saver.saves) != 1 {
		t.Errorf("Snapshot should still be saved after a skipped round, got %d saves", len(saver.saves))
	}
}

func TestRunRoundSkipsFailedRequest(t *testing.T) {
	tk := newTestTank(t)
	before := tk.Render()
	storyteller := &fakeStoryteller{err: errors.New("service unavailable")}

	s := New(tk, storyteller, nil, rand.New(rand.NewSource(1)), testLogger(), nil)
	if err := s.RunRound(context.Background()); err != nil {
		t.Fatalf("RunRound should not fail on a narrator error: %v", err)
	}
	if got := tk.Render(); got != before {
		t.Error("Tank must be unchanged when the narrator request fails")
	}
}

func TestRunRoundDevMode(t *testing.T) {
	tk := newTestTank(t)

	s := New(tk, nil, nil, rand.New(rand.NewSource(42)), testLogger(), nil)
	for i := 0; i < 10; i++ {
		if err := s.RunRound(context.Background()); err != nil {
			t.Fatalf("RunRound failed: %v", err)
		}
	}

	if tk.Rounds() != 10 {
		t.Errorf("Rounds = %d, want 10", tk.Rounds())
	}
	if len(tk.StorySoFar()) != 10 {
		t.Errorf("Story entries = %d, want 10", len(tk.StorySoFar()))
	}
	pos := tk.Fish()[0].Position()
	if !tk.IsWithinBounds(pos) {
		t.Errorf("Fish ended up outside the tank at (%d, %d)", pos.X, pos.Y)
	}
}

func TestRunRoundReturnsSaveError(t *testing.T) {
	tk := newTestTank(t)
	saver := &fakeSaver{err: errors.New("disk full")}

	s := New(tk, nil, saver, rand.New(rand.NewSource(1)), testLogger(), nil)
	if err := s.RunRound(context.Background()); err == nil {
		t.Error("RunRound should surface snapshot save failures")
	}
}

func TestSecondRoundNotFlaggedFirst(t *testing.T) {
	tk := newTestTank(t)
	storyteller := &fakeStoryteller{reply: "no markers"}

	s := New(tk, storyteller, nil, rand.New(rand.NewSource(1)), testLogger(), nil)
	s.RunRound(context.Background())
	s.RunRound(context.Background())

	if storyteller.calls != 2 {
		t.Fatalf("Storyteller called %d times, want 2", storyteller.calls)
	}
	if storyteller.firstRound {
		t.Error("Second round should not be flagged as the first")
	}
}

func TestWrapStory(t *testing.T) {
	story := "one two three four five"
	got := WrapStory(story, 9)
	want := "one two\nthree\nfour five"
	if got != want {
		t.Errorf("WrapStory = %q, want %q", got, want)
	}

	if got := WrapStory("", 80); got != "" {
		t.Errorf("WrapStory of empty string = %q", got)
	}
	if got := WrapStory("short line", 80); got != "short line" {
		t.Errorf("WrapStory = %q, want unchanged text", got)
	}
}
