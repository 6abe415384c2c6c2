// Package enrich orchestrates the per-record extraction pipeline: year,
// crimes, locations, persons, object class, quality score.
package enrich

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/chpollin/km/internal/classify"
	"github.com/chpollin/km/internal/extract"
	"github.com/chpollin/km/internal/model"
	"github.com/chpollin/km/internal/score"
	"github.com/chpollin/km/internal/worker"
)

// Enricher runs the full extraction pipeline over records. Stateless after
// construction and safe for concurrent use.
type Enricher struct {
	years      *extract.YearExtractor
	crimes     *extract.CrimeExtractor
	locations  *extract.LocationExtractor
	persons    *extract.PersonExtractor
	classifier *classify.Classifier
	scorer     *score.Scorer
	log        *logrus.Logger
}

// New builds an enricher with the default rule set, taxonomy and weights,
// calibrated by the extraction configuration.
func New(cfg model.ExtractionConfig, log *logrus.Logger) *Enricher {
	if log == nil {
		log = logrus.New()
	}
	rules := extract.DefaultRules(cfg)
	return &Enricher{
		years:      extract.NewYearExtractor(rules),
		crimes:     extract.NewCrimeExtractor(rules),
		locations:  extract.NewLocationExtractor(rules),
		persons:    extract.NewPersonExtractor(rules),
		classifier: classify.New(classify.DefaultTaxonomy()),
		scorer:     score.NewScorer(score.DefaultWeights()),
		log:        log,
	}
}

// EnrichRecord enriches one record. A panic inside any extractor is contained
// to this record: it comes back unclassified with zero quality and the Failed
// flag set, and the batch keeps going.
func (e *Enricher) EnrichRecord(rec model.Record) (enriched model.EnrichedRecord, flags model.FieldFlags) {
	defer func() {
		if r := recover(); r != nil {
			e.log.WithFields(logrus.Fields{
				"pid":   rec.PID,
				"panic": r,
			}).Error("enrichment failed, record kept unenriched")
			enriched = model.EnrichedRecord{
				Record:      rec,
				DateSource:  model.DateSourceNone,
				ObjectClass: classify.ClassUnclassified,
			}
			flags = model.FieldFlags{NoFulltext: rec.Fulltext == "", Failed: true}
		}
	}()

	enriched = model.EnrichedRecord{Record: rec}
	flags = model.FieldFlags{NoFulltext: rec.Fulltext == ""}

	year, source := e.years.Extract(rec.Fulltext, rec.Description, rec.Identifier)
	if year != 0 {
		enriched.HistoricalYear = year
		enriched.DateSource = source
		enriched.DateRange = e.years.DateRange(rec.Fulltext, rec.Description, year)
		if source == model.DateSourceEstimated {
			flags.EstimatedDate = true
		} else {
			flags.ExactDate = true
		}
	} else {
		enriched.DateSource = model.DateSourceNone
	}

	if crimes := e.crimes.Extract(rec.Fulltext, rec.Description); len(crimes) > 0 {
		enriched.CrimeTypes = crimes
		flags.Crimes = true
	}
	if locations := e.locations.Extract(rec.Fulltext, rec.Description); len(locations) > 0 {
		enriched.Locations = locations
		flags.Locations = true
	}
	if rec.Fulltext != "" {
		if persons := e.persons.Extract(rec.Fulltext); len(persons) > 0 {
			enriched.Persons = persons
			flags.Persons = true
		}
	}

	enriched.ObjectClass = e.classifier.Classify(rec)
	if enriched.IsClassified() {
		flags.Classified = true
	}

	enriched.ExtractionQuality = e.scorer.Score(enriched)
	return enriched, flags
}

// EnrichAll enriches sequentially, sorts and finalizes the statistics.
func (e *Enricher) EnrichAll(records []model.Record) ([]model.EnrichedRecord, model.Stats) {
	enriched := make([]model.EnrichedRecord, 0, len(records))
	var stats model.Stats
	for _, rec := range records {
		er, flags := e.EnrichRecord(rec)
		enriched = append(enriched, er)
		stats.Add(flags)
	}
	SortRecords(enriched)
	stats.Finalize()
	return enriched, stats
}

// EnrichAllParallel fans the batch out over the worker pool. Output is
// identical to EnrichAll; per-record extraction is deterministic and the
// final sort is canonical.
func (e *Enricher) EnrichAllParallel(ctx context.Context, records []model.Record, workers int) ([]model.EnrichedRecord, model.Stats) {
	if workers <= 1 || len(records) < 2 {
		return e.EnrichAll(records)
	}
	batch := worker.NewBatchEnricher(e, workers)
	enriched, stats := batch.Process(ctx, records)
	SortRecords(enriched)
	stats.Finalize()
	return enriched, stats
}

// SortRecords orders chronologically: exact years first ascending, then
// estimated years ascending, undated records last. Ties keep a stable order
// by PID.
func SortRecords(records []model.EnrichedRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		gi, yi := sortKey(records[i])
		gj, yj := sortKey(records[j])
		if gi != gj {
			return gi < gj
		}
		if yi != yj {
			return yi < yj
		}
		return records[i].PID < records[j].PID
	})
}

func sortKey(r model.EnrichedRecord) (group, year int) {
	switch {
	case !r.HasYear():
		return 2, 0
	case r.IsEstimated():
		return 1, r.HistoricalYear
	default:
		return 0, r.HistoricalYear
	}
}
