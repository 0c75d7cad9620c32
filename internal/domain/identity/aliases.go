package identity

import "strings"

type franchise struct {
	city     string
	nickname string
	extra    []string
}

// One row per franchise. Extra aliases cover abbreviations and the
// shortenings the odds feeds and media blurbs actually use.
var franchises = []franchise{
	{"Arizona", "Cardinals", []string{"ari", "cards"}},
	{"Atlanta", "Falcons", []string{"atl"}},
	{"Baltimore", "Ravens", []string{"bal"}},
	{"Buffalo", "Bills", []string{"buf"}},
	{"Carolina", "Panthers", []string{"car"}},
	{"Chicago", "Bears", []string{"chi"}},
	{"Cincinnati", "Bengals", []string{"cin"}},
	{"Cleveland", "Browns", []string{"cle"}},
	{"Dallas", "Cowboys", []string{"dal"}},
	{"Denver", "Broncos", []string{"den"}},
	{"Detroit", "Lions", []string{"det"}},
	{"Green Bay", "Packers", []string{"gb", "pack"}},
	{"Houston", "Texans", []string{"hou"}},
	{"Indianapolis", "Colts", []string{"ind", "indy"}},
	{"Jacksonville", "Jaguars", []string{"jax", "jac", "jags"}},
	{"Kansas City", "Chiefs", []string{"kc"}},
	{"Las Vegas", "Raiders", []string{"lv", "oakland raiders"}},
	{"Los Angeles", "Chargers", []string{"lac", "la chargers"}},
	{"Los Angeles", "Rams", []string{"lar", "la rams"}},
	{"Miami", "Dolphins", []string{"mia", "fins"}},
	{"Minnesota", "Vikings", []string{"min", "vikes"}},
	{"New England", "Patriots", []string{"ne", "nwe", "pats"}},
	{"New Orleans", "Saints", []string{"no", "nor"}},
	{"New York", "Giants", []string{"nyg", "ny giants"}},
	{"New York", "Jets", []string{"nyj", "ny jets"}},
	{"Philadelphia", "Eagles", []string{"phi", "philly"}},
	{"Pittsburgh", "Steelers", []string{"pit"}},
	{"San Francisco", "49ers", []string{"sf", "sfo", "niners"}},
	{"Seattle", "Seahawks", []string{"sea", "hawks"}},
	{"Tampa Bay", "Buccaneers", []string{"tb", "tam", "bucs"}},
	{"Tennessee", "Titans", []string{"ten"}},
	{"Washington", "Commanders", []string{"was", "wsh"}},
}

// franchiseByAlias resolves any known alias to a franchise index.
// "Los Angeles" and "New York" alone are ambiguous and stay unmapped.
var franchiseByAlias = buildAliasIndex()

func buildAliasIndex() map[string]int {
	index := make(map[string]int, len(franchises)*5)
	ambiguous := make(map[string]struct{})

	add := func(alias string, idx int) {
		alias = normalizeTeamName(alias)
		if alias == "" {
			return
		}
		if _, dup := ambiguous[alias]; dup {
			return
		}
		if existing, ok := index[alias]; ok && existing != idx {
			delete(index, alias)
			ambiguous[alias] = struct{}{}
			return
		}
		index[alias] = idx
	}

	for idx, item := range franchises {
		add(item.city+" "+item.nickname, idx)
		add(item.city, idx)
		add(item.nickname, idx)
		for _, alias := range item.extra {
			add(alias, idx)
		}
	}
	return index
}

func normalizeTeamName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, ".", "")
	return strings.Join(strings.Fields(name), " ")
}

// resolveFranchise maps a provider team string to a franchise index.
func resolveFranchise(name string) (int, bool) {
	idx, ok := franchiseByAlias[normalizeTeamName(name)]
	return idx, ok
}

// aliasSet expands one provider team string into every comparable alias.
// Unknown strings compare only against themselves, which still lets two
// sources that agree verbatim on an unmodeled name match.
func aliasSet(name string) map[string]struct{} {
	normalized := normalizeTeamName(name)
	if normalized == "" {
		return map[string]struct{}{}
	}

	idx, ok := resolveFranchise(normalized)
	if !ok {
		return map[string]struct{}{normalized: {}}
	}

	item := franchises[idx]
	out := make(map[string]struct{}, len(item.extra)+3)
	add := func(alias string) {
		alias = normalizeTeamName(alias)
		// Aliases shared between franchises ("Los Angeles", "New York")
		// are dropped from the index and must not join any alias set.
		if owner, ok := franchiseByAlias[alias]; ok && owner == idx {
			out[alias] = struct{}{}
		}
	}
	add(item.city + " " + item.nickname)
	add(item.city)
	add(item.nickname)
	for _, alias := range item.extra {
		add(alias)
	}
	return out
}

// TeamsMatch reports whether two provider team strings denote the same
// franchise, via alias-set intersection.
func TeamsMatch(a, b string) bool {
	setA := aliasSet(a)
	if len(setA) == 0 {
		return false
	}
	for alias := range aliasSet(b) {
		if _, ok := setA[alias]; ok {
			return true
		}
	}
	return false
}

// TeamSlug returns a short, URL-safe token for a team, preferring the
// franchise abbreviation. Unknown names fall back to a dashed form of the
// normalized input.
func TeamSlug(name string) string {
	idx, ok := resolveFranchise(name)
	if ok {
		item := franchises[idx]
		if len(item.extra) > 0 {
			return item.extra[0]
		}
		name = item.nickname
	}
	return strings.ReplaceAll(normalizeTeamName(name), " ", "-")
}

// CanonicalTeamName returns the full franchise name for any known alias,
// or the input unchanged when the alias is not modeled.
func CanonicalTeamName(name string) string {
	idx, ok := resolveFranchise(name)
	if !ok {
		return name
	}
	return franchises[idx].city + " " + franchises[idx].nickname
}
