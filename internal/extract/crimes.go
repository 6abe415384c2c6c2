package extract

import (
	"regexp"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

var digitRun = regexp.MustCompile(`\d+`)

// CrimeExtractor recognizes crime types from statute citations (§ numbers),
// law abbreviations and German keyword matches.
type CrimeExtractor struct {
	rules *Rules
}

func NewCrimeExtractor(rules *Rules) *CrimeExtractor {
	return &CrimeExtractor{rules: rules}
}

// Extract returns the sorted, deduplicated crime labels found in the text.
// Always returns a non-nil slice.
func (e *CrimeExtractor) Extract(fulltext, description string) []string {
	combined := fulltext + " " + description
	if strings.TrimSpace(combined) == "" {
		return []string{}
	}

	crimes := mapset.NewThreadUnsafeSet[string]()

	// "§ 140", "§§ 171, 174", "nach § 431", "gem. § 460". The §§ form may
	// carry a comma-separated list, so every digit run in the capture counts.
	for _, pattern := range e.rules.ParagraphPatterns {
		for _, m := range pattern.FindAllStringSubmatch(combined, -1) {
			for _, num := range digitRun.FindAllString(m[1], -1) {
				if label, ok := e.rules.CrimeCodes[num]; ok {
					crimes.Add(label)
				}
			}
		}
	}

	for _, abbr := range e.rules.LawAbbreviations {
		if abbr.Pattern.MatchString(combined) {
			crimes.Add(abbr.Label)
		}
	}

	lower := strings.ToLower(combined)
	for keyword, label := range e.rules.CrimeKeywords {
		if strings.Contains(lower, keyword) {
			crimes.Add(label)
		}
	}

	return sortedSlice(crimes)
}

func sortedSlice(set mapset.Set[string]) []string {
	out := set.ToSlice()
	sort.Strings(out)
	return out
}
