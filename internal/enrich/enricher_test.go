package enrich

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/chpollin/km/internal/model"
)

func newTestEnricher() *Enricher {
	return New(model.DefaultConfig().Extraction, nil)
}

func TestEnricher_CardWithPerson(t *testing.T) {
	enricher := newTestEnricher()

	rec := model.Record{
		Container: "karteikarten",
		Fulltext:  "Täter: Franz M. Alter: 34 Jahre",
	}

	enriched, flags := enricher.EnrichRecord(rec)

	if enriched.ObjectClass != "Dokument.Karteikarte" {
		t.Errorf("Expected Dokument.Karteikarte, got %s", enriched.ObjectClass)
	}
	if len(enriched.Persons) != 1 || enriched.Persons[0].Name != "Franz M." || enriched.Persons[0].Age != 34 {
		t.Errorf("Expected person Franz M. aged 34, got %v", enriched.Persons)
	}
	if !flags.Persons || !flags.Classified {
		t.Errorf("Expected persons and classified flags, got %+v", flags)
	}
}

func TestEnricher_ParagraphCrime(t *testing.T) {
	enricher := newTestEnricher()

	enriched, _ := enricher.EnrichRecord(model.Record{Fulltext: "verurteilt nach § 460"})

	found := false
	for _, c := range enriched.CrimeTypes {
		if c == "Diebstahl" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected Diebstahl in crime types, got %v", enriched.CrimeTypes)
	}
}

func TestEnricher_CourtDateAndLocation(t *testing.T) {
	enricher := newTestEnricher()

	enriched, _ := enricher.EnrichRecord(model.Record{Fulltext: "Gericht Graz, Urteil v. 12.03.1905"})

	if enriched.HistoricalYear != 1905 {
		t.Errorf("Expected year 1905, got %d", enriched.HistoricalYear)
	}
	if enriched.DateSource != model.DateSourceCourt {
		t.Errorf("Expected court date source, got %q", enriched.DateSource)
	}
	found := false
	for _, loc := range enriched.Locations {
		if loc == "Graz" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected Graz in locations, got %v", enriched.Locations)
	}
}

func TestEnricher_PistolWithCaliber(t *testing.T) {
	enricher := newTestEnricher()

	rec := model.Record{Container: "objekte", Title: "Pistole Cal. 7,65"}
	enriched, _ := enricher.EnrichRecord(rec)

	if enriched.ObjectClass != "Waffe.Feuerwaffe.Pistole.Cal7.65" {
		t.Errorf("Expected Waffe.Feuerwaffe.Pistole.Cal7.65, got %s", enriched.ObjectClass)
	}
}

func TestEnricher_IdentifierFallback(t *testing.T) {
	enricher := newTestEnricher()

	rec := model.Record{Fulltext: "Objekt ohne Datumsangabe", Identifier: "o:km.1920"}
	enriched, _ := enricher.EnrichRecord(rec)

	if enriched.HistoricalYear != 1920 {
		t.Errorf("Expected year 1920, got %d", enriched.HistoricalYear)
	}
	if enriched.DateSource != model.DateSourceIdentifier {
		t.Errorf("Expected identifier date source, got %q", enriched.DateSource)
	}
	if len(enriched.DateRange) != 2 || enriched.DateRange[0] != 1920 || enriched.DateRange[1] != 1920 {
		t.Errorf("Expected degenerate range [1920 1920], got %v", enriched.DateRange)
	}
}

func TestEnricher_EmptyBatchStats(t *testing.T) {
	enricher := newTestEnricher()

	enriched, stats := enricher.EnrichAll(nil)

	if len(enriched) != 0 {
		t.Errorf("Expected no records, got %d", len(enriched))
	}
	for field, ratio := range stats.Coverage {
		if ratio != 0 {
			t.Errorf("Expected zero coverage for %s, got %v", field, ratio)
		}
	}
}

func TestEnricher_Idempotent(t *testing.T) {
	enricher := newTestEnricher()

	rec := model.Record{
		Container: "karteikarten",
		PID:       "o:km.12",
		Fulltext:  "Täter: Franz M. Alter: 34 Jahre, Wilderei, Bezirksgericht Leoben, geb. 1887",
	}

	first, _ := enricher.EnrichRecord(rec)
	second, _ := enricher.EnrichRecord(rec)

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(a) != string(b) {
		t.Errorf("Enrichment not deterministic:\n%s\n%s", a, b)
	}
}

func TestEnricher_SortOrder(t *testing.T) {
	enricher := newTestEnricher()

	records := []model.Record{
		{PID: "o:km.1", Fulltext: "kein Datum, kein Inhalt"},
		{PID: "o:km.2", Description: "Inventar KM-KK.42"},
		{PID: "o:km.3", Fulltext: "geb. 1887"},
		{PID: "o:km.4", Fulltext: "Tat im Mai 1860"},
	}

	enriched, _ := enricher.EnrichAll(records)

	order := make([]string, len(enriched))
	for i, r := range enriched {
		order[i] = r.PID
	}
	// Exact years ascending (1860, 1887), then the 1900 estimate, then the
	// undated record.
	want := []string{"o:km.4", "o:km.3", "o:km.2", "o:km.1"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("Expected order %v, got %v", want, order)
		}
	}
}

func TestEnricher_ParallelMatchesSequential(t *testing.T) {
	enricher := newTestEnricher()

	records := []model.Record{
		{PID: "o:km.1", Container: "karteikarten", Fulltext: "Täter: Franz M. Alter: 34 Jahre, geb. 1887"},
		{PID: "o:km.2", Container: "objekte", Title: "Revolver", Fulltext: "Mordfall, Wien, 1904"},
		{PID: "o:km.3", Fulltext: "verurteilt nach § 460, Bezirksgericht Leoben"},
		{PID: "o:km.4"},
	}

	seq, seqStats := enricher.EnrichAll(records)
	par, parStats := enricher.EnrichAllParallel(context.Background(), records, 4)

	a, _ := json.Marshal(seq)
	b, _ := json.Marshal(par)
	if string(a) != string(b) {
		t.Errorf("Parallel output differs from sequential:\n%s\n%s", a, b)
	}
	sa, _ := json.Marshal(seqStats)
	sb, _ := json.Marshal(parStats)
	if string(sa) != string(sb) {
		t.Errorf("Parallel stats differ: %s vs %s", sa, sb)
	}
}

func TestEnricher_QualityBounds(t *testing.T) {
	enricher := newTestEnricher()

	records := []model.Record{
		{},
		{Container: "karteikarten", Fulltext: "Täter: Franz M. Alter: 34 Jahre, Wilderei, Tatort Leoben, geb. 1887"},
	}
	for _, rec := range records {
		enriched, _ := enricher.EnrichRecord(rec)
		if enriched.ExtractionQuality < 0 || enriched.ExtractionQuality > 1 {
			t.Errorf("Quality out of bounds: %v", enriched.ExtractionQuality)
		}
		if enriched.ObjectClass == "" {
			t.Error("ObjectClass must never be empty")
		}
	}
}
