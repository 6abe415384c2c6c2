package harvest

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/chpollin/km/internal/model"
)

// Report summarizes a harvested collection: content models, download success
// and descriptive coverage per container.
type Report struct {
	Total      int
	TEI        int
	LIDO       int
	Unknown    int
	RDF        int
	TEIFiles   int
	LIDOFiles  int
	Images     int
	Fulltext   int
	Described  int
	Containers map[string]int
	DateMin    string
	DateMax    string
}

// BuildReport computes collection statistics from harvested records.
func BuildReport(records []model.Record) *Report {
	r := &Report{Containers: make(map[string]int)}
	for _, rec := range records {
		r.Total++
		switch {
		case rec.IsTEI():
			r.TEI++
		case rec.IsLIDO():
			r.LIDO++
		default:
			r.Unknown++
		}
		if rec.RDFDownloaded {
			r.RDF++
		}
		if rec.TEIDownloaded {
			r.TEIFiles++
		}
		if rec.LIDODownloaded {
			r.LIDOFiles++
		}
		if rec.ImageDownloaded {
			r.Images++
		}
		if rec.Fulltext != "" {
			r.Fulltext++
		}
		if rec.Description != "" {
			r.Described++
		}
		if rec.Container != "" {
			r.Containers[rec.Container]++
		}
		if rec.CreatedDate != "" {
			if r.DateMin == "" || rec.CreatedDate < r.DateMin {
				r.DateMin = rec.CreatedDate
			}
			if rec.CreatedDate > r.DateMax {
				r.DateMax = rec.CreatedDate
			}
		}
	}
	return r
}

// WriteText writes the human-readable analysis file.
func (r *Report) WriteText(path string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Collection analysis\n")
	fmt.Fprintf(&b, "===================\n\n")
	fmt.Fprintf(&b, "Objects total:     %d\n", r.Total)
	fmt.Fprintf(&b, "  TEI:             %d\n", r.TEI)
	fmt.Fprintf(&b, "  LIDO:            %d\n", r.LIDO)
	fmt.Fprintf(&b, "  unknown model:   %d\n\n", r.Unknown)
	fmt.Fprintf(&b, "Downloads\n")
	fmt.Fprintf(&b, "  TEI sources:     %s\n", r.rate(r.TEIFiles, r.TEI))
	fmt.Fprintf(&b, "  LIDO sources:    %s\n", r.rate(r.LIDOFiles, r.LIDO))
	fmt.Fprintf(&b, "  RDF streams:     %s\n", r.rate(r.RDF, r.TEI))
	fmt.Fprintf(&b, "  images:          %s\n\n", r.rate(r.Images, r.Total))
	fmt.Fprintf(&b, "Coverage\n")
	fmt.Fprintf(&b, "  with fulltext:   %s\n", r.rate(r.Fulltext, r.Total))
	fmt.Fprintf(&b, "  with description:%s\n", r.rate(r.Described, r.Total))
	if r.DateMin != "" {
		fmt.Fprintf(&b, "  createdDate:     %s .. %s\n", r.DateMin, r.DateMax)
	}
	fmt.Fprintf(&b, "\nContainers\n")
	for _, name := range sortedKeys(r.Containers) {
		fmt.Fprintf(&b, "  %-16s %d\n", name, r.Containers[name])
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// WriteCSV writes the machine-readable statistics file.
func (r *Report) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	rows := [][]string{
		{"metric", "value"},
		{"total", strconv.Itoa(r.Total)},
		{"tei", strconv.Itoa(r.TEI)},
		{"lido", strconv.Itoa(r.LIDO)},
		{"unknown_model", strconv.Itoa(r.Unknown)},
		{"tei_downloaded", strconv.Itoa(r.TEIFiles)},
		{"lido_downloaded", strconv.Itoa(r.LIDOFiles)},
		{"rdf_downloaded", strconv.Itoa(r.RDF)},
		{"images_downloaded", strconv.Itoa(r.Images)},
		{"with_fulltext", strconv.Itoa(r.Fulltext)},
		{"with_description", strconv.Itoa(r.Described)},
	}
	for _, name := range sortedKeys(r.Containers) {
		rows = append(rows, []string{"container_" + name, strconv.Itoa(r.Containers[name])})
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (r *Report) rate(count, of int) string {
	if of == 0 {
		return fmt.Sprintf("%d", count)
	}
	return fmt.Sprintf("%d/%d (%.1f%%)", count, of, float64(count)/float64(of)*100)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
