package worker

import (
	"context"
	"strings"
	"testing"

	"github.com/chpollin/km/internal/model"
)

type stubEnricher struct{}

func (stubEnricher) EnrichRecord(rec model.Record) (model.EnrichedRecord, model.FieldFlags) {
	enriched := model.EnrichedRecord{Record: rec, ObjectClass: "Dokument.Karteikarte"}
	flags := model.FieldFlags{Classified: true, NoFulltext: rec.Fulltext == ""}
	if strings.Contains(rec.Fulltext, "1905") {
		enriched.HistoricalYear = 1905
		enriched.DateSource = model.DateSourceCrime
		flags.ExactDate = true
	}
	return enriched, flags
}

func TestBatchEnricher_FoldsStats(t *testing.T) {
	batch := NewBatchEnricher(stubEnricher{}, 4)

	records := []model.Record{
		{PID: "o:km.1", Fulltext: "Tat 1905"},
		{PID: "o:km.2", Fulltext: "kein Jahr"},
		{PID: "o:km.3"},
	}

	enriched, stats := batch.Process(context.Background(), records)

	if len(enriched) != 3 {
		t.Fatalf("Expected 3 enriched records, got %d", len(enriched))
	}
	if stats.Total != 3 {
		t.Errorf("Expected total 3, got %d", stats.Total)
	}
	if stats.WithDate != 1 {
		t.Errorf("Expected 1 dated record, got %d", stats.WithDate)
	}
	if stats.Classified != 3 {
		t.Errorf("Expected 3 classified records, got %d", stats.Classified)
	}
	if stats.WithoutFulltext != 1 {
		t.Errorf("Expected 1 record without fulltext, got %d", stats.WithoutFulltext)
	}
}

func TestBatchEnricher_EmptyBatch(t *testing.T) {
	batch := NewBatchEnricher(stubEnricher{}, 2)

	enriched, stats := batch.Process(context.Background(), nil)

	if len(enriched) != 0 {
		t.Errorf("Expected no enriched records, got %d", len(enriched))
	}
	if stats.Total != 0 {
		t.Errorf("Expected total 0, got %d", stats.Total)
	}
}
