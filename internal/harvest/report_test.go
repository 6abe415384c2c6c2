package harvest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chpollin/km/internal/model"
)

func TestBuildReport(t *testing.T) {
	records := []model.Record{
		{Container: "karteikarten", Model: "cm:TEI", TEIDownloaded: true, RDFDownloaded: true, Fulltext: "Text", CreatedDate: "1905"},
		{Container: "karteikarten", Model: "cm:TEI", CreatedDate: "1888"},
		{Container: "objekte", Model: "cm:LIDO", LIDODownloaded: true, ImageDownloaded: true, Description: "Revolver"},
		{Container: "objekte"},
	}

	report := BuildReport(records)

	if report.Total != 4 || report.TEI != 2 || report.LIDO != 1 || report.Unknown != 1 {
		t.Errorf("Model counts wrong: %+v", report)
	}
	if report.TEIFiles != 1 || report.RDF != 1 || report.LIDOFiles != 1 || report.Images != 1 {
		t.Errorf("Download counts wrong: %+v", report)
	}
	if report.Fulltext != 1 || report.Described != 1 {
		t.Errorf("Coverage counts wrong: %+v", report)
	}
	if report.Containers["karteikarten"] != 2 || report.Containers["objekte"] != 2 {
		t.Errorf("Container counts wrong: %v", report.Containers)
	}
	if report.DateMin != "1888" || report.DateMax != "1905" {
		t.Errorf("Date range wrong: %s .. %s", report.DateMin, report.DateMax)
	}
}

func TestReport_WriteFiles(t *testing.T) {
	report := BuildReport([]model.Record{
		{Container: "karteikarten", Model: "cm:TEI", TEIDownloaded: true},
	})

	dir := t.TempDir()
	textPath := filepath.Join(dir, "download_analysis.txt")
	csvPath := filepath.Join(dir, "download_statistics.csv")

	if err := report.WriteText(textPath); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	if err := report.WriteCSV(csvPath); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	text, err := os.ReadFile(textPath)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !strings.Contains(string(text), "Objects total:     1") {
		t.Errorf("Unexpected analysis text:\n%s", text)
	}

	csvData, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !strings.Contains(string(csvData), "tei_downloaded,1") {
		t.Errorf("Unexpected statistics CSV:\n%s", csvData)
	}
}
