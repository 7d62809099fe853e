package matching

import (
	"fmt"
	"regexp"
	"strings"
)

// Decorations that hurt search precision more than they help recall
var decorationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\([^)]*\)`),
	regexp.MustCompile(`\[[^\]]*\]`),
	regexp.MustCompile(`(?i)\s*f(ea)?t\..*`),
	regexp.MustCompile(`(?i)\s*-\s*(remaster(ed)?|live|single version|radio edit).*`),
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// PlanQueries generates the ordered search query variants for a source
// song, most specific first. The matcher runs every variant and keeps the
// globally best candidate; earlier variants trade recall for precision,
// later ones the reverse. The plan is never empty.
func PlanQueries(title, artist, album string) []string {
	title = normalizeField(title)
	artist = normalizeField(artist)
	album = normalizeField(album)

	var queries []string
	add := func(q string) {
		q = strings.TrimSpace(q)
		if q == "" {
			return
		}
		for _, existing := range queries {
			if existing == q {
				return
			}
		}
		queries = append(queries, q)
	}

	if artist != "" && title != "" {
		add(fmt.Sprintf("%q %q", artist, title))
		add(artist + " " + title)

		// A stripped-down title variant catches remaster/feat. decorated
		// listings that the literal title misses
		if stripped := stripDecorations(title); stripped != title {
			add(artist + " " + stripped)
		}
	}
	if artist != "" && album != "" {
		add(artist + " " + album)
	}
	add(title)
	add(artist)

	if len(queries) == 0 {
		add(album)
	}
	if len(queries) == 0 {
		// Degenerate metadata; the plan is never empty
		queries = append(queries, "*")
	}

	return queries
}

// normalizeField trims and collapses whitespace
func normalizeField(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// stripDecorations removes bracketed qualifiers and feat. credits
func stripDecorations(s string) string {
	for _, pattern := range decorationPatterns {
		s = pattern.ReplaceAllString(s, " ")
	}
	return normalizeField(s)
}
