package app

import (
	"regexp"
	"strings"
)

// Span attributes get the statement collapsed to one line and capped so a
// large IN list or JSONB payload cannot blow up trace storage.
const maxTracedQueryLength = 512

var queryWhitespaceRegex = regexp.MustCompile(`\s+`)

func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	flat := queryWhitespaceRegex.ReplaceAllString(query, " ")
	if len(flat) > maxTracedQueryLength {
		return flat[:maxTracedQueryLength] + "..."
	}

	return flat
}
