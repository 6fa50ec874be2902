package narrator

import (
	"errors"
	"strings"
	"testing"

	"fishtank/shared"
)

func TestParseReply(t *testing.T) {
	validReply := "Here you go!\n" +
		"---start tank---\n" +
		"⬜🐠⬜\n" +
		"⬜⬜🐟\n" +
		"⬜⬜⬜\n" +
		"---end tank---\n" +
		"---start story---\n" +
		"Goldie chases Bubbles into the corner.\n" +
		"---end story---\n"

	tests := []struct {
		name      string
		raw       string
		wantErr   error
		wantRows  int
		wantStory string
	}{
		{
			name:      "valid reply",
			raw:       validReply,
			wantRows:  3,
			wantStory: "Goldie chases Bubbles into the corner.",
		},
		{
			name:    "missing tank markers",
			raw:     "---start story---\nA quiet day.\n---end story---\n",
			wantErr: ErrMissingTankSection,
		},
		{
			name:    "missing end tank marker",
			raw:     "---start tank---\n⬜⬜\n---start story---\nA quiet day.\n---end story---\n",
			wantErr: ErrMissingTankSection,
		},
		{
			name:    "missing story markers",
			raw:     "---start tank---\n⬜⬜\n---end tank---\nno story here",
			wantErr: ErrMissingStorySection,
		},
		{
			name:    "empty tank section",
			raw:     "---start tank---\n\n---end tank---\n---start story---\nA quiet day.\n---end story---\n",
			wantErr: ErrEmptyBoard,
		},
		{
			name:    "empty reply",
			raw:     "",
			wantErr: ErrMissingTankSection,
		},
		{
			name:    "prose only",
			raw:     "The fish are doing great, thanks for asking!",
			wantErr: ErrMissingTankSection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := ParseReply(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseReply error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseReply failed: %v", err)
			}
			if len(reply.Board) != tt.wantRows {
				t.Errorf("Board has %d rows, want %d", len(reply.Board), tt.wantRows)
			}
			if reply.Story != tt.wantStory {
				t.Errorf("Story = %q, want %q", reply.Story, tt.wantStory)
			}
		})
	}
}

func TestArrangement(t *testing.T) {
	reply := &Reply{
		Board: []string{
			"⬜🐠⬜",
			"🌿⬜🐟",
			"⬜🐠⬜", // duplicate glyph: first occurrence wins
		},
	}

	arrangement := reply.Arrangement([]string{"🐠", "🐟", "🦐"})

	if got, ok := arrangement["🐠"]; !ok || got != (shared.Position{X: 1, Y: 0}) {
		t.Errorf("🐠 at %v, want (1, 0)", got)
	}
	if got, ok := arrangement["🐟"]; !ok || got != (shared.Position{X: 2, Y: 1}) {
		t.Errorf("🐟 at %v, want (2, 1)", got)
	}
	if _, ok := arrangement["🦐"]; ok {
		t.Error("🦐 is not on the board and should not appear in the arrangement")
	}
	if _, ok := arrangement["🌿"]; ok {
		t.Error("Glyphs not asked for should not appear in the arrangement")
	}
}

func TestArrangementIgnoresEmptyCells(t *testing.T) {
	reply := &Reply{Board: []string{"⬜⬛ 🐠"}}

	arrangement := reply.Arrangement([]string{"🐠"})
	if got := arrangement["🐠"]; got != (shared.Position{X: 3, Y: 0}) {
		t.Errorf("🐠 at %v, want (3, 0)", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	first, err := buildPrompt(PromptData{
		FirstRound: true,
		Roster:     "- 🐠 Goldie (Goldfish, curious)\n",
		Board:      "⬜🐠\n⬜⬜\n",
	})
	if err != nil {
		t.Fatalf("buildPrompt failed: %v", err)
	}
	for _, want := range []string{
		"personae dramatis",
		"- 🐠 Goldie (Goldfish, curious)",
		"⬜🐠",
		TankStartMarker,
		StoryStartMarker,
	} {
		if !strings.Contains(first, want) {
			t.Errorf("First-round prompt missing %q:\n%s", want, first)
		}
	}

	later, err := buildPrompt(PromptData{Board: "⬜🐠\n"})
	if err != nil {
		t.Fatalf("buildPrompt failed: %v", err)
	}
	if strings.Contains(later, "personae dramatis") {
		t.Error("Later rounds should not repeat the roster")
	}
	if !strings.Contains(later, TankStartMarker) {
		t.Error("Later rounds should still instruct the reply markers")
	}
}
