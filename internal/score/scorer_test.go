package score

import (
	"testing"

	"github.com/chpollin/km/internal/model"
)

func TestScorer_EmptyRecord(t *testing.T) {
	scorer := NewScorer(DefaultWeights())

	rec := model.EnrichedRecord{ObjectClass: "Beweisstück.Unklassifiziert"}

	if got := scorer.Score(rec); got != 0 {
		t.Errorf("Expected score 0 for empty record, got %v", got)
	}
}

func TestScorer_FullRecordCappedAtOne(t *testing.T) {
	scorer := NewScorer(DefaultWeights())

	rec := model.EnrichedRecord{
		HistoricalYear: 1905,
		DateSource:     model.DateSourceCourt,
		CrimeTypes:     []string{"Mord"},
		Locations:      []string{"Graz"},
		Persons:        []model.Person{{Name: "Franz M."}},
		ObjectClass:    "Waffe.Feuerwaffe.Revolver",
	}

	if got := scorer.Score(rec); got != 1 {
		t.Errorf("Expected capped score 1, got %v", got)
	}
}

func TestScorer_EstimatedYearCountsHalf(t *testing.T) {
	scorer := NewScorer(DefaultWeights())

	exact := model.EnrichedRecord{
		HistoricalYear: 1905,
		DateSource:     model.DateSourceCrime,
		ObjectClass:    "Beweisstück.Unklassifiziert",
	}
	estimated := exact
	estimated.DateSource = model.DateSourceEstimated

	if got := scorer.Score(exact); got != 0.3 {
		t.Errorf("Expected 0.3 for exact year, got %v", got)
	}
	if got := scorer.Score(estimated); got != 0.15 {
		t.Errorf("Expected 0.15 for estimated year, got %v", got)
	}
}

func TestScorer_MonotoneInDetectedFields(t *testing.T) {
	scorer := NewScorer(DefaultWeights())

	rec := model.EnrichedRecord{ObjectClass: "Beweisstück.Unklassifiziert"}
	prev := scorer.Score(rec)

	rec.HistoricalYear = 1905
	rec.DateSource = model.DateSourceCrime
	steps := []func(){
		func() { rec.CrimeTypes = []string{"Diebstahl"} },
		func() { rec.Locations = []string{"Leoben"} },
		func() { rec.Persons = []model.Person{{Name: "Josef K."}} },
		func() { rec.ObjectClass = "Dokument.Karteikarte" },
	}
	for i, step := range steps {
		step()
		got := scorer.Score(rec)
		if got < prev {
			t.Errorf("Step %d: score decreased from %v to %v", i, prev, got)
		}
		prev = got
	}
}

func TestScorer_BoundsAndRounding(t *testing.T) {
	scorer := NewScorer(DefaultWeights())

	rec := model.EnrichedRecord{
		HistoricalYear: 1910,
		DateSource:     model.DateSourceEstimated,
		ObjectClass:    "Dokument.Karteikarte",
	}

	got := scorer.Score(rec)
	if got < 0 || got > 1 {
		t.Fatalf("Score out of bounds: %v", got)
	}
	if got != 0.25 {
		t.Errorf("Expected 0.25 (0.15 + 0.10), got %v", got)
	}
}
