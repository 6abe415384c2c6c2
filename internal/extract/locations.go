package extract

import (
	"strings"
	"unicode/utf8"

	mapset "github.com/deckarep/golang-set/v2"
)

// LocationExtractor recognizes place names from court references, contextual
// indicators (Tatort, wohnhaft in, ...) and a gazetteer of Austrian towns.
type LocationExtractor struct {
	rules *Rules
}

func NewLocationExtractor(rules *Rules) *LocationExtractor {
	return &LocationExtractor{rules: rules}
}

// Extract returns the sorted, deduplicated location names found in the text,
// in their original casing. Always returns a non-nil slice.
func (e *LocationExtractor) Extract(fulltext, description string) []string {
	combined := fulltext + " " + description
	if strings.TrimSpace(combined) == "" {
		return []string{}
	}

	locations := mapset.NewThreadUnsafeSet[string]()

	for _, pattern := range e.rules.CourtPatterns {
		for _, m := range pattern.FindAllStringSubmatch(combined, -1) {
			loc := strings.TrimSpace(m[1])
			if loc == "" || e.rules.LocationStopWords.Contains(strings.ToLower(loc)) {
				continue
			}
			locations.Add(loc)
		}
	}

	for _, pattern := range e.rules.LocationIndicators {
		for _, m := range pattern.FindAllStringSubmatch(combined, -1) {
			loc := strings.TrimSpace(m[1])
			if utf8.RuneCountInString(loc) <= 2 {
				continue
			}
			if e.rules.LocationStopWords.Contains(strings.ToLower(loc)) {
				continue
			}
			locations.Add(loc)
		}
	}

	// Gazetteer pass over capitalized tokens.
	for _, token := range e.rules.ProperNoun.FindAllString(combined, -1) {
		if e.rules.Gazetteer.Contains(strings.ToLower(token)) {
			locations.Add(token)
		}
	}

	return sortedSlice(locations)
}
