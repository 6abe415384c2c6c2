// Package score computes the extraction-quality confidence of an enriched
// record as a weighted sum over the signal types that produced a value.
package score

import (
	"math"

	"github.com/chpollin/km/internal/model"
)

// Weights holds the per-signal contributions. The sum may exceed 1; the final
// score is capped.
type Weights struct {
	ExactYear     float64
	EstimatedYear float64
	Crimes        float64
	Locations     float64
	Persons       float64
	Classified    float64
}

// DefaultWeights returns the production weighting. An estimated year counts
// half an exact one.
func DefaultWeights() Weights {
	return Weights{
		ExactYear:     0.30,
		EstimatedYear: 0.15,
		Crimes:        0.25,
		Locations:     0.20,
		Persons:       0.15,
		Classified:    0.10,
	}
}

// Scorer scores enriched records. Stateless and safe for concurrent use.
type Scorer struct {
	weights Weights
}

func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Score returns the record's extraction quality in [0,1], rounded to two
// decimals. Monotone: adding a detected field never lowers the score.
func (s *Scorer) Score(rec model.EnrichedRecord) float64 {
	q := 0.0
	if rec.HasYear() {
		if rec.IsEstimated() {
			q += s.weights.EstimatedYear
		} else {
			q += s.weights.ExactYear
		}
	}
	if len(rec.CrimeTypes) > 0 {
		q += s.weights.Crimes
	}
	if len(rec.Locations) > 0 {
		q += s.weights.Locations
	}
	if len(rec.Persons) > 0 {
		q += s.weights.Persons
	}
	if rec.IsClassified() {
		q += s.weights.Classified
	}
	if q > 1 {
		q = 1
	}
	return math.Round(q*100) / 100
}
