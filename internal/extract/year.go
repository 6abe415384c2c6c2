package extract

import (
	"sort"
	"strconv"
	"strings"

	"github.com/chpollin/km/internal/model"
)

// YearExtractor mines a record's historical year from its text fields, with
// the identifier and the catalogue number as fallbacks.
type YearExtractor struct {
	rules *Rules
}

func NewYearExtractor(rules *Rules) *YearExtractor {
	return &YearExtractor{rules: rules}
}

type yearCandidate struct {
	year   int
	rank   int
	source model.DateSource
}

// Extract returns the historical year and its provenance tag. Strategies in
// order: contextual rules over fulltext+description, a bare plausible-year
// scan, the identifier suffix, the catalogue-number estimate. Returns
// (0, DateSourceNone) when nothing applies.
func (e *YearExtractor) Extract(fulltext, description, identifier string) (int, model.DateSource) {
	combined := strings.TrimSpace(fulltext + " " + description)
	if combined != "" {
		if year, source, ok := e.contextual(combined); ok {
			return year, source
		}
		if year, ok := e.bareScan(combined); ok {
			return year, model.DateSourceText
		}
	}
	if year, ok := e.fromIdentifier(identifier); ok {
		return year, model.DateSourceIdentifier
	}
	if year, ok := e.estimate(description); ok {
		return year, model.DateSourceEstimated
	}
	return 0, model.DateSourceNone
}

// contextual collects every rule match and picks the candidate with the
// lowest (rank, year). A birth year always beats a crime year beats a court
// date, and within one rank the earliest year wins.
func (e *YearExtractor) contextual(text string) (int, model.DateSource, bool) {
	var candidates []yearCandidate
	for _, rule := range e.rules.YearRules {
		for _, m := range rule.Pattern.FindAllStringSubmatch(text, -1) {
			year, err := strconv.Atoi(m[1])
			if err != nil || !e.plausible(year) {
				continue
			}
			candidates = append(candidates, yearCandidate{year, rule.Rank, rule.Source})
		}
	}
	if len(candidates) == 0 {
		return 0, model.DateSourceNone, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].rank != candidates[j].rank {
			return candidates[i].rank < candidates[j].rank
		}
		return candidates[i].year < candidates[j].year
	})
	best := candidates[0]
	return best.year, best.source, true
}

// bareScan falls back to the earliest free-standing year in the plausible
// window.
func (e *YearExtractor) bareScan(text string) (int, bool) {
	best := 0
	for _, m := range e.rules.BareYear.FindAllStringSubmatch(text, -1) {
		year, err := strconv.Atoi(m[1])
		if err != nil || !e.plausible(year) {
			continue
		}
		if best == 0 || year < best {
			best = year
		}
	}
	return best, best != 0
}

// fromIdentifier reads a trailing ".YYYY" off the object identifier, e.g.
// "o:km.1920".
func (e *YearExtractor) fromIdentifier(identifier string) (int, bool) {
	m := e.rules.IdentifierYear.FindStringSubmatch(identifier)
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil || !e.plausible(year) {
		return 0, false
	}
	return year, true
}

// estimate maps a KM-KK.N / KM-O.N catalogue number in the description to a
// decade bucket. Lower catalogue numbers were accessioned earlier.
func (e *YearExtractor) estimate(description string) (int, bool) {
	m := e.rules.CatalogueID.FindStringSubmatch(description)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	for _, bucket := range e.rules.EstimationBuckets {
		if bucket.MaxID == 0 || id < bucket.MaxID {
			return bucket.Year, true
		}
	}
	return 0, false
}

// DateRange returns [minYear, maxYear] over every plausible year in the text,
// falling back to [year, year] for the single extracted year. Nil when the
// record has no year at all.
func (e *YearExtractor) DateRange(fulltext, description string, year int) []int {
	combined := fulltext + " " + description
	min, max := 0, 0
	for _, m := range e.rules.BareYear.FindAllStringSubmatch(combined, -1) {
		y, err := strconv.Atoi(m[1])
		if err != nil || !e.plausible(y) {
			continue
		}
		if min == 0 || y < min {
			min = y
		}
		if y > max {
			max = y
		}
	}
	if min != 0 {
		return []int{min, max}
	}
	if year != 0 {
		return []int{year, year}
	}
	return nil
}

func (e *YearExtractor) plausible(year int) bool {
	return year >= e.rules.YearMin && year <= e.rules.YearMax
}
