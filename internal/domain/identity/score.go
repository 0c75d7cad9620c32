package identity

import (
	"fmt"
	"time"
)

// Score rates how likely two identities denote the same real-world contest,
// 0-100. Additive capped bands keep a single noisy signal (a mislabeled
// timestamp, a renamed team) from vetoing an otherwise obvious match, while
// exact source-ID agreement stays an unconditional accept.
func Score(a, b Identity) int {
	if sameSourceID(a.ScoresID, b.ScoresID) || sameSourceID(a.OddsID, b.OddsID) {
		return 100
	}

	score := 0

	homeMatch := TeamsMatch(a.HomeTeam, b.HomeTeam)
	awayMatch := TeamsMatch(a.AwayTeam, b.AwayTeam)
	switch {
	case homeMatch && awayMatch:
		score += 50
	case homeMatch || awayMatch:
		// Partial agreement only ranks near-misses above unrelated
		// games; it never approves a match by itself.
		score += 20
	}

	score += kickoffProximityPoints(a.Kickoff, b.Kickoff)

	// Week agreement disambiguates between matched teams' games; without
	// any team overlap it says nothing about identity.
	if (homeMatch || awayMatch) && sameWeek(a, b) {
		score += 20
	}

	if score > 100 {
		return 100
	}
	return score
}

func sameSourceID(a, b string) bool {
	return a != "" && a == b
}

func sameWeek(a, b Identity) bool {
	return a.Week > 0 && a.Week == b.Week && a.Season > 0 && a.Season == b.Season
}

func kickoffProximityPoints(a, b time.Time) int {
	if a.IsZero() || b.IsZero() {
		return 0
	}
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= 30*time.Minute:
		return 30
	case diff <= 2*time.Hour:
		return 25
	case diff <= 6*time.Hour:
		return 15
	case diff <= 24*time.Hour:
		return 5
	default:
		return 0
	}
}

// MethodForScore derives the observability label from the score band.
func MethodForScore(score int) Method {
	switch {
	case score >= 100:
		return MethodExactID
	case score >= 95:
		return MethodTeamAndTime
	case score >= 85:
		return MethodTeamAndWeek
	default:
		return MethodFuzzyTeam
	}
}

// FindBestMatch scores the target against every candidate and returns the
// maximum, if it clears minConfidence. Ties keep the first-seen candidate;
// callers wanting stricter disambiguation should pre-filter by week.
func FindBestMatch(target Identity, candidates []Identity, minConfidence int) (Match, bool) {
	best := Match{Confidence: -1}
	for _, candidate := range Dedupe(candidates) {
		score := Score(target, candidate)
		if score > best.Confidence {
			best = Match{
				Identity:   candidate,
				Confidence: score,
				Method:     MethodForScore(score),
			}
		}
	}
	if best.Confidence < minConfidence || best.Confidence < 0 {
		return Match{}, false
	}
	return best, true
}

// Dedupe drops repeated candidates carrying the same matchup signature.
// Duplicate rows are an upstream data-quality condition; they are filtered
// here rather than repaired in the external store.
func Dedupe(candidates []Identity) []Identity {
	if len(candidates) <= 1 {
		return candidates
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]Identity, 0, len(candidates))
	for _, candidate := range candidates {
		key := signature(candidate)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, candidate)
	}
	return out
}

func signature(item Identity) string {
	return fmt.Sprintf("%s|%s|%d",
		normalizeTeamName(CanonicalTeamName(item.HomeTeam)),
		normalizeTeamName(CanonicalTeamName(item.AwayTeam)),
		item.Kickoff.UTC().Truncate(time.Minute).Unix(),
	)
}
