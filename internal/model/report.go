package model

import "math"

// FieldFlags records which signal types a single record produced. The batch
// statistics are a pure fold over these flags, so per-record enrichment can
// run on independent workers and the counters merge commutatively.
type FieldFlags struct {
	ExactDate     bool
	EstimatedDate bool
	Classified    bool
	Crimes        bool
	Locations     bool
	Persons       bool
	NoFulltext    bool
	Failed        bool
}

// Stats holds the coverage counters for one enrichment batch.
type Stats struct {
	Total             int `json:"total"`
	WithDate          int `json:"with_date"`
	WithEstimatedDate int `json:"with_estimated_date"`
	Classified        int `json:"classified"`
	WithCrimes        int `json:"with_crimes"`
	WithLocations     int `json:"with_locations"`
	WithPersons       int `json:"with_persons"`
	WithoutFulltext   int `json:"without_fulltext"`
	Failed            int `json:"failed"`

	// Coverage maps field names to ratios in [0,1], rounded to 3 decimals.
	// All ratios are zero for an empty batch; never a division error.
	Coverage map[string]float64 `json:"coverage"`
}

// Add folds one record's flags into the counters.
func (s *Stats) Add(f FieldFlags) {
	s.Total++
	if f.ExactDate {
		s.WithDate++
	}
	if f.EstimatedDate {
		s.WithEstimatedDate++
	}
	if f.Classified {
		s.Classified++
	}
	if f.Crimes {
		s.WithCrimes++
	}
	if f.Locations {
		s.WithLocations++
	}
	if f.Persons {
		s.WithPersons++
	}
	if f.NoFulltext {
		s.WithoutFulltext++
	}
	if f.Failed {
		s.Failed++
	}
}

// Merge combines counters from another partial batch. Commutative and
// associative, so partial stats from parallel workers can be reduced in any
// order.
func (s *Stats) Merge(o Stats) {
	s.Total += o.Total
	s.WithDate += o.WithDate
	s.WithEstimatedDate += o.WithEstimatedDate
	s.Classified += o.Classified
	s.WithCrimes += o.WithCrimes
	s.WithLocations += o.WithLocations
	s.WithPersons += o.WithPersons
	s.WithoutFulltext += o.WithoutFulltext
	s.Failed += o.Failed
}

// Finalize computes the coverage ratios. Safe to call on an empty batch.
func (s *Stats) Finalize() {
	s.Coverage = map[string]float64{
		"date":             ratio(s.WithDate+s.WithEstimatedDate, s.Total),
		"date_exact":       ratio(s.WithDate, s.Total),
		"date_estimated":   ratio(s.WithEstimatedDate, s.Total),
		"classified":       ratio(s.Classified, s.Total),
		"crimes":           ratio(s.WithCrimes, s.Total),
		"locations":        ratio(s.WithLocations, s.Total),
		"persons":          ratio(s.WithPersons, s.Total),
		"without_fulltext": ratio(s.WithoutFulltext, s.Total),
	}
}

func ratio(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 1000
}
