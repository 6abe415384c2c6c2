package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/chpollin/km/internal/model"
)

// WriteJSON writes v as indented JSON. Used for all_objects.json and the
// enriched output files.
func WriteJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// ReadRecords loads a harvester output file (all_objects.json).
func ReadRecords(path string) ([]model.Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []model.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

// ReadEnriched loads an enriched output file.
func ReadEnriched(path string) ([]model.EnrichedRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []model.EnrichedRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

// WriteRecordsCSV writes the flat spreadsheet view of the harvest. Fulltext
// stays in the JSON file; the CSV is for eyeballing the collection.
func WriteRecordsCSV(path string, records []model.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	header := []string{
		"container", "pid", "model", "title", "identifier", "createdDate",
		"description", "rdf_downloaded", "tei_downloaded", "lido_downloaded",
		"image_downloaded",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.Container, rec.PID, rec.Model, rec.Title, rec.Identifier,
			rec.CreatedDate, rec.Description,
			strconv.FormatBool(rec.RDFDownloaded),
			strconv.FormatBool(rec.TEIDownloaded),
			strconv.FormatBool(rec.LIDODownloaded),
			strconv.FormatBool(rec.ImageDownloaded),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
