package harvest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chpollin/km/internal/model"
	"github.com/chpollin/km/internal/worker"
)

// The two GAMS contexts making up the collection. Karteikarten are TEI card
// transcriptions, Objekte are LIDO museum objects.
var contexts = []string{"karteikarten", "objekte"}

var objectIDPattern = regexp.MustCompile(`o:km\.\d+`)

// imageExtensions are tried in order against IMAGE.1; the archive is not
// consistent about which variant exists.
var imageExtensions = []string{"", ".jpg", ".png", ".tiff", ".jpeg"}

// Summary is the outcome of one harvest run.
type Summary struct {
	Started  time.Time
	Finished time.Time
	Total    int
	TEI      int
	LIDO     int
	RDF      int
	Images   int
	Failed   int
}

// Harvester downloads the whole collection into a local directory tree:
//
//	<out>/metadata/            context metadata, all_objects.json/.csv
//	<out>/karteikarten/{rdf,tei,images}
//	<out>/objekte/{lido,images}
//	<out>/logs/                download_summary.txt
type Harvester struct {
	client  *Client
	baseURL string
	outDir  string
	workers int
	log     *logrus.Logger
}

func NewHarvester(client *Client, cfg *model.Config, outDir string, log *logrus.Logger) *Harvester {
	if log == nil {
		log = logrus.New()
	}
	return &Harvester{
		client:  client,
		baseURL: strings.TrimRight(cfg.HTTP.BaseURL, "/"),
		outDir:  outDir,
		workers: cfg.Concurrency.Workers,
		log:     log,
	}
}

// Run harvests both contexts and returns the records plus a run summary.
// Individual object failures are logged and counted, never fatal; a context
// that cannot be listed at all is.
func (h *Harvester) Run(ctx context.Context) ([]model.Record, *Summary, error) {
	if err := h.makeDirs(); err != nil {
		return nil, nil, err
	}
	summary := &Summary{Started: time.Now()}

	type idBatch struct {
		container string
		ids       []string
	}
	var batches []idBatch
	total := 0
	for _, container := range contexts {
		ids, err := h.listContext(ctx, container)
		if err != nil {
			return nil, nil, fmt.Errorf("list context %s: %w", container, err)
		}
		h.log.WithFields(logrus.Fields{"context": container, "objects": len(ids)}).Info("context listed")
		batches = append(batches, idBatch{container: container, ids: ids})
		total += len(ids)
	}

	pool := worker.NewPool(h.workers)
	pool.Start()
	go func() {
		defer pool.Close()
		for _, batch := range batches {
			for _, pid := range batch.ids {
				select {
				case <-ctx.Done():
					return
				default:
				}
				pool.Submit(&harvestJob{harvester: h, pid: pid, container: batch.container})
			}
		}
	}()

	records := make([]model.Record, 0, total)
	for result := range pool.Results() {
		hr, ok := result.(*harvestResult)
		if !ok {
			continue
		}
		if hr.Err != nil {
			summary.Failed++
			h.log.WithError(hr.Err).WithField("pid", hr.Record.PID).Warn("object harvest failed")
		}
		records = append(records, hr.Record)
		summary.Total++
		if hr.Record.TEIDownloaded {
			summary.TEI++
		}
		if hr.Record.LIDODownloaded {
			summary.LIDO++
		}
		if hr.Record.RDFDownloaded {
			summary.RDF++
		}
		if hr.Record.ImageDownloaded {
			summary.Images++
		}
	}

	// Stable output order for diffable re-runs.
	sort.Slice(records, func(i, j int) bool {
		return objectNumber(records[i].PID) < objectNumber(records[j].PID)
	})

	summary.Finished = time.Now()
	if err := h.writeSummary(summary); err != nil {
		h.log.WithError(err).Warn("summary write failed")
	}
	return records, summary, nil
}

func (h *Harvester) makeDirs() error {
	dirs := []string{
		filepath.Join(h.outDir, "metadata"),
		filepath.Join(h.outDir, "karteikarten", "rdf"),
		filepath.Join(h.outDir, "karteikarten", "tei"),
		filepath.Join(h.outDir, "karteikarten", "images"),
		filepath.Join(h.outDir, "objekte", "lido"),
		filepath.Join(h.outDir, "objekte", "images"),
		filepath.Join(h.outDir, "logs"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// listContext fetches a context's METADATA datastream and extracts the
// object ids, deduplicated and sorted by catalogue number.
func (h *Harvester) listContext(ctx context.Context, container string) ([]string, error) {
	url := fmt.Sprintf("%s/archive/objects/context:km.%s/datastreams/METADATA/content", h.baseURL, container)
	resp, err := h.client.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(h.outDir, "metadata", container+"_metadata.xml")
	if err := os.WriteFile(path, resp.Body, 0o644); err != nil {
		return nil, err
	}
	return ExtractObjectIDs(resp.Body), nil
}

// ExtractObjectIDs pulls the o:km.N ids out of a context metadata document.
func ExtractObjectIDs(metadata []byte) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, id := range objectIDPattern.FindAllString(string(metadata), -1) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return objectNumber(ids[i]) < objectNumber(ids[j]) })
	return ids
}

func objectNumber(pid string) int {
	idx := strings.LastIndex(pid, ".")
	if idx < 0 {
		return 0
	}
	n, _ := strconv.Atoi(pid[idx+1:])
	return n
}

type harvestJob struct {
	harvester *Harvester
	pid       string
	container string
}

type harvestResult struct {
	Record model.Record
	Err    error
}

func (r *harvestResult) GetError() error { return r.Err }

func (j *harvestJob) Execute(ctx context.Context) worker.Result {
	rec, err := j.harvester.harvestObject(ctx, j.pid, j.container)
	return &harvestResult{Record: rec, Err: err}
}

// harvestObject downloads everything one object has: content model, source
// document, RDF (TEI objects only) and the first scan image.
func (h *Harvester) harvestObject(ctx context.Context, pid, container string) (model.Record, error) {
	rec := model.Record{
		Container:  container,
		PID:        pid,
		Identifier: pid,
	}

	relsURL := fmt.Sprintf("%s/archive/objects/%s/datastreams/RELS-EXT/content", h.baseURL, pid)
	rels, err := h.client.Fetch(ctx, relsURL)
	if err != nil {
		return rec, fmt.Errorf("RELS-EXT: %w", err)
	}
	rec.Model = hasModelAttr(rels.Body)

	switch {
	case rec.IsTEI():
		if err := h.harvestTEI(ctx, &rec); err != nil {
			return rec, err
		}
	case rec.IsLIDO():
		if err := h.harvestLIDO(ctx, &rec); err != nil {
			return rec, err
		}
	default:
		h.log.WithFields(logrus.Fields{"pid": pid, "model": rec.Model}).Debug("unknown content model")
	}

	h.harvestImage(ctx, &rec)
	return rec, nil
}

func (h *Harvester) harvestTEI(ctx context.Context, rec *model.Record) error {
	resp, err := h.client.Fetch(ctx, fmt.Sprintf("%s/%s/TEI_SOURCE", h.baseURL, rec.PID))
	if err != nil {
		return fmt.Errorf("TEI_SOURCE: %w", err)
	}
	if err := h.save(rec.Container, "tei", rec.PID+".xml", resp.Body); err != nil {
		return err
	}
	rec.TEIDownloaded = true

	fields := ParseTEI(resp.Body)
	rec.Title = fields.Title
	rec.Description = fields.Description
	rec.CreatedDate = fields.CreatedDate
	rec.Fulltext = ExtractFulltext(resp.Body)

	if rdf, err := h.client.Fetch(ctx, fmt.Sprintf("%s/%s/RDF", h.baseURL, rec.PID)); err == nil {
		if err := h.save(rec.Container, "rdf", rec.PID+".xml", rdf.Body); err == nil {
			rec.RDFDownloaded = true
		}
	} else {
		h.log.WithError(err).WithField("pid", rec.PID).Debug("no RDF datastream")
	}
	return nil
}

func (h *Harvester) harvestLIDO(ctx context.Context, rec *model.Record) error {
	resp, err := h.client.Fetch(ctx, fmt.Sprintf("%s/%s/LIDO_SOURCE", h.baseURL, rec.PID))
	if err != nil {
		return fmt.Errorf("LIDO_SOURCE: %w", err)
	}
	if err := h.save(rec.Container, "lido", rec.PID+".xml", resp.Body); err != nil {
		return err
	}
	rec.LIDODownloaded = true

	fields := ParseLIDO(resp.Body)
	rec.Title = fields.Title
	rec.Description = fields.Description
	rec.CreatedDate = fields.CreatedDate
	return nil
}

// harvestImage tries the known extension variants of IMAGE.1 and keeps the
// first response that actually is an image. Missing images are normal.
func (h *Harvester) harvestImage(ctx context.Context, rec *model.Record) {
	for _, ext := range imageExtensions {
		resp, err := h.client.Fetch(ctx, fmt.Sprintf("%s/%s/IMAGE.1%s", h.baseURL, rec.PID, ext))
		if err != nil {
			continue
		}
		if resp.ContentType != "" && !strings.HasPrefix(resp.ContentType, "image/") {
			continue
		}
		name := rec.PID + ext
		if ext == "" {
			name = rec.PID + ".jpg"
		}
		if err := h.save(rec.Container, "images", name, resp.Body); err != nil {
			h.log.WithError(err).WithField("pid", rec.PID).Warn("image write failed")
			return
		}
		rec.ImageDownloaded = true
		return
	}
}

func (h *Harvester) save(container, kind, name string, data []byte) error {
	path := filepath.Join(h.outDir, container, kind, sanitize(name))
	return os.WriteFile(path, data, 0o644)
}

// sanitize makes a PID-derived filename safe; GAMS pids contain a colon.
func sanitize(name string) string {
	return strings.ReplaceAll(name, ":", "_")
}

func (h *Harvester) writeSummary(s *Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Harvest run %s\n", s.Started.Format(time.RFC3339))
	fmt.Fprintf(&b, "Duration: %s\n\n", s.Finished.Sub(s.Started).Round(time.Second))
	fmt.Fprintf(&b, "Objects:       %d\n", s.Total)
	fmt.Fprintf(&b, "TEI sources:   %d\n", s.TEI)
	fmt.Fprintf(&b, "LIDO sources:  %d\n", s.LIDO)
	fmt.Fprintf(&b, "RDF streams:   %d\n", s.RDF)
	fmt.Fprintf(&b, "Images:        %d\n", s.Images)
	fmt.Fprintf(&b, "Failed:        %d\n", s.Failed)
	path := filepath.Join(h.outDir, "logs", "download_summary.txt")
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
