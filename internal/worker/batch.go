package worker

import (
	"context"

	"github.com/chpollin/km/internal/model"
)

// Enricher is the per-record enrichment operation run on pool workers.
type Enricher interface {
	EnrichRecord(rec model.Record) (model.EnrichedRecord, model.FieldFlags)
}

// EnrichJob enriches one record.
type EnrichJob struct {
	Record   model.Record
	Enricher Enricher
}

// EnrichResult carries one enriched record and its statistics flags.
type EnrichResult struct {
	Record model.EnrichedRecord
	Flags  model.FieldFlags
}

func (r *EnrichResult) GetError() error { return nil }

// Execute runs the enrichment. Failures surface as the Failed flag, never as
// an error; a bad record must not abort the batch.
func (j *EnrichJob) Execute(_ context.Context) Result {
	enriched, flags := j.Enricher.EnrichRecord(j.Record)
	return &EnrichResult{Record: enriched, Flags: flags}
}

// BatchEnricher fans records out over a pool and folds the per-record flags
// into partial statistics. The caller sorts and finalizes.
type BatchEnricher struct {
	enricher Enricher
	workers  int
}

func NewBatchEnricher(enricher Enricher, workers int) *BatchEnricher {
	return &BatchEnricher{enricher: enricher, workers: workers}
}

// Process enriches all records in parallel. The returned slice is in
// completion order; statistics are not finalized.
func (b *BatchEnricher) Process(ctx context.Context, records []model.Record) ([]model.EnrichedRecord, model.Stats) {
	pool := NewPool(b.workers)
	pool.Start()

	// Submission and draining run concurrently so the pool buffers never
	// stall on archive-sized batches.
	go func() {
		defer pool.Close()
		for _, rec := range records {
			select {
			case <-ctx.Done():
				return
			default:
			}
			pool.Submit(&EnrichJob{Record: rec, Enricher: b.enricher})
		}
	}()

	enriched := make([]model.EnrichedRecord, 0, len(records))
	var stats model.Stats
	for result := range pool.Results() {
		er, ok := result.(*EnrichResult)
		if !ok {
			continue
		}
		enriched = append(enriched, er.Record)
		stats.Add(er.Flags)
	}
	return enriched, stats
}
