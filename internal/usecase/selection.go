package usecase

import (
	"fmt"
	"strings"

	"github.com/nketchum/sidebet/internal/domain/bet"
)

type direction string

const (
	directionOver  direction = "over"
	directionUnder direction = "under"
)

// parsedSelection is the structured reading of a free-text selection. All
// string parsing of selections lives here so the strategy can be swapped
// without touching settlement rules.
type parsedSelection struct {
	raw        string
	direction  direction
	playerName string
}

// parseSelection interprets a selection for one bet type. An unreadable
// selection returns an error; settlement maps that to status unknown,
// never to a loss.
func parseSelection(betType, selection string) (parsedSelection, error) {
	out := parsedSelection{raw: strings.TrimSpace(selection)}
	if out.raw == "" {
		return out, fmt.Errorf("empty selection")
	}

	switch betType {
	case bet.TypeMoneyline, bet.TypeSpread:
		// Team reference is matched against the game's sides at
		// settlement time; nothing more to extract here.
		return out, nil
	case bet.TypeOverUnder:
		dir, _, ok := splitOnDirection(out.raw)
		if !ok {
			return out, fmt.Errorf("selection %q has no over/under direction", selection)
		}
		out.direction = dir
		return out, nil
	case bet.TypePlayerProp:
		dir, before, ok := splitOnDirection(out.raw)
		if !ok {
			return out, fmt.Errorf("selection %q has no over/under direction", selection)
		}
		out.direction = dir
		out.playerName = strings.TrimSpace(before)
		return out, nil
	default:
		return out, fmt.Errorf("unsupported bet type %q", betType)
	}
}

// splitOnDirection finds the first standalone "over"/"under" word and
// returns the direction plus everything before it.
func splitOnDirection(selection string) (direction, string, bool) {
	words := strings.Fields(selection)
	for i, word := range words {
		switch strings.ToLower(strings.Trim(word, ".,:;")) {
		case string(directionOver):
			return directionOver, strings.Join(words[:i], " "), true
		case string(directionUnder):
			return directionUnder, strings.Join(words[:i], " "), true
		}
	}
	return "", "", false
}

// teamSide identifies which side of a game a selection references, by
// inclusion of the team's full name or its trailing word (mascot),
// case-insensitively. Referencing both sides, or neither, is ambiguous.
func teamSide(selection, homeTeam, awayTeam string) (string, bool) {
	home := referencesTeam(selection, homeTeam)
	away := referencesTeam(selection, awayTeam)
	switch {
	case home && !away:
		return sideHome, true
	case away && !home:
		return sideAway, true
	default:
		return "", false
	}
}

func referencesTeam(selection, team string) bool {
	sel := strings.ToLower(selection)
	full := strings.ToLower(strings.TrimSpace(team))
	if full == "" {
		return false
	}
	if strings.Contains(sel, full) {
		return true
	}
	words := strings.Fields(full)
	mascot := words[len(words)-1]
	return strings.Contains(sel, mascot)
}

const (
	sideHome = "home"
	sideAway = "away"
)
