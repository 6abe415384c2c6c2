// Package validate checks enriched records against the pipeline's output
// guarantees. It is a post-hoc safety net for strict mode and for auditing
// externally produced enrichment files.
package validate

import (
	"fmt"
	"sort"

	"github.com/chpollin/km/internal/model"
)

// Issue is one violated guarantee on one record.
type Issue struct {
	PID   string `json:"pid"`
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.PID, i.Field, i.Msg)
}

// Validator checks enrichment output. The year window must match the one the
// extractors ran with.
type Validator struct {
	yearMin int
	yearMax int
}

func New(cfg model.ExtractionConfig) *Validator {
	return &Validator{yearMin: cfg.YearMin, yearMax: cfg.YearMax}
}

var knownSources = map[model.DateSource]bool{
	model.DateSourceBirth:      true,
	model.DateSourceCrime:      true,
	model.DateSourceCourt:      true,
	model.DateSourceDeath:      true,
	model.DateSourceDate:       true,
	model.DateSourceText:       true,
	model.DateSourceIdentifier: true,
	model.DateSourceEstimated:  true,
	model.DateSourceNone:       true,
}

// Record returns every violated guarantee for one enriched record.
func (v *Validator) Record(rec model.EnrichedRecord) []Issue {
	var issues []Issue
	add := func(field, format string, args ...any) {
		issues = append(issues, Issue{PID: rec.PID, Field: field, Msg: fmt.Sprintf(format, args...)})
	}

	if rec.HasYear() {
		if rec.HistoricalYear < v.yearMin || rec.HistoricalYear > v.yearMax {
			add("historicalYear", "%d outside window [%d,%d]", rec.HistoricalYear, v.yearMin, v.yearMax)
		}
		if rec.DateSource == model.DateSourceNone || rec.DateSource == "" {
			add("dateSource", "year present but no source")
		}
		if len(rec.DateRange) != 2 {
			add("dateRange", "expected [min,max], got %v", rec.DateRange)
		} else if rec.DateRange[0] > rec.DateRange[1] {
			add("dateRange", "unordered range %v", rec.DateRange)
		}
	} else {
		if rec.DateSource != model.DateSourceNone && rec.DateSource != "" {
			add("dateSource", "source %q without a year", rec.DateSource)
		}
		if rec.DateRange != nil {
			add("dateRange", "range %v without a year", rec.DateRange)
		}
	}
	if !knownSources[rec.DateSource] && rec.DateSource != "" {
		add("dateSource", "unknown source %q", rec.DateSource)
	}

	if rec.ObjectClass == "" {
		add("objectClass", "empty class")
	}
	if rec.Container == "karteikarten" && rec.ObjectClass != "Dokument.Karteikarte" {
		add("objectClass", "card record classified as %q", rec.ObjectClass)
	}

	checkSorted(add, "crimeType", rec.CrimeTypes)
	checkSorted(add, "locations", rec.Locations)

	if rec.ExtractionQuality < 0 || rec.ExtractionQuality > 1 {
		add("extractionQuality", "%v outside [0,1]", rec.ExtractionQuality)
	}

	return issues
}

// Batch validates every record and returns all issues.
func (v *Validator) Batch(records []model.EnrichedRecord) []Issue {
	var issues []Issue
	for _, rec := range records {
		issues = append(issues, v.Record(rec)...)
	}
	return issues
}

func checkSorted(add func(field, format string, args ...any), field string, list []string) {
	if !sort.StringsAreSorted(list) {
		add(field, "not sorted: %v", list)
		return
	}
	for i := 1; i < len(list); i++ {
		if list[i] == list[i-1] {
			add(field, "duplicate entry %q", list[i])
			return
		}
	}
}
