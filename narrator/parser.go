package narrator

import (
	"errors"
	"fmt"
	"strings"

	"fishtank/shared"
	"fishtank/tank"
)

// The narrator's reply is free text carrying two delimited sections: the
// proposed board between the tank markers and the narrative between the
// story markers. Anything that deviates from this structure is rejected
// outright; there is no best-effort recovery.
const (
	TankStartMarker  = "---start tank---"
	TankEndMarker    = "---end tank---"
	StoryStartMarker = "---start story---"
	StoryEndMarker   = "---end story---"
)

var (
	// ErrMissingTankSection indicates the reply lacks the tank markers.
	ErrMissingTankSection = errors.New("narrator: reply missing tank markers")
	// ErrMissingStorySection indicates the reply lacks the story markers.
	ErrMissingStorySection = errors.New("narrator: reply missing story markers")
	// ErrEmptyBoard indicates the tank section holds no board rows.
	ErrEmptyBoard = errors.New("narrator: reply tank section is empty")
)

// Reply is a successfully parsed narrator response.
type Reply struct {
	// Board holds the proposed arrangement, one line per tank row.
	Board []string
	// Story is the narrative for the round.
	Story string
}

// ParseReply extracts the board and story sections from a raw narrator
// reply. It fails closed: a missing or empty section returns an error and
// the caller is expected to skip the round.
func ParseReply(raw string) (*Reply, error) {
	boardSection, ok := extractSection(raw, TankStartMarker, TankEndMarker)
	if !ok {
		return nil, fmt.Errorf("%w: expected %q and %q", ErrMissingTankSection, TankStartMarker, TankEndMarker)
	}
	storySection, ok := extractSection(raw, StoryStartMarker, StoryEndMarker)
	if !ok {
		return nil, fmt.Errorf("%w: expected %q and %q", ErrMissingStorySection, StoryStartMarker, StoryEndMarker)
	}

	var board []string
	for _, line := range strings.Split(boardSection, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			continue
		}
		board = append(board, line)
	}
	if len(board) == 0 {
		return nil, ErrEmptyBoard
	}

	return &Reply{
		Board: board,
		Story: strings.TrimSpace(storySection),
	}, nil
}

// extractSection returns the text between the first occurrence of start and
// the next occurrence of end.
func extractSection(raw, start, end string) (string, bool) {
	i := strings.Index(raw, start)
	if i < 0 {
		return "", false
	}
	rest := raw[i+len(start):]
	j := strings.Index(rest, end)
	if j < 0 {
		return "", false
	}
	return rest[:j], true
}

// Arrangement scans the parsed board for the given glyphs and returns the
// first position each glyph appears at. Rows map to Y, rune columns to X.
// Open water and blank cells are ignored.
func (r *Reply) Arrangement(glyphs []string) map[string]shared.Position {
	arrangement := make(map[string]shared.Position)
	for y, line := range r.Board {
		for x, cell := range []rune(line) {
			if cell == ' ' {
				continue
			}
			glyph := string(cell)
			if glyph == tank.OpenWaterGlyph || glyph == tank.EmptyGlyph {
				continue
			}
			for _, want := range glyphs {
				if glyph != want {
					continue
				}
				if _, seen := arrangement[glyph]; !seen {
					arrangement[glyph] = shared.Position{X: x, Y: y}
				}
			}
		}
	}
	return arrangement
}
