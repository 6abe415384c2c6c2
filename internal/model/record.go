package model

import "strings"

// Record is one raw archive object as delivered by the harvester (or any
// other loader). All text fields are optional; the enrichment engine treats
// missing fields as empty strings.
type Record struct {
	Container   string `json:"container,omitempty"`
	PID         string `json:"pid,omitempty"`
	Model       string `json:"model,omitempty"`
	Title       string `json:"title,omitempty"`
	Identifier  string `json:"identifier,omitempty"`
	CreatedDate string `json:"createdDate,omitempty"`
	Description string `json:"description,omitempty"`
	Fulltext    string `json:"fulltext,omitempty"`

	// Download bookkeeping, filled in by the harvester.
	RDFDownloaded   bool `json:"rdf_downloaded"`
	TEIDownloaded   bool `json:"tei_downloaded"`
	LIDODownloaded  bool `json:"lido_downloaded"`
	ImageDownloaded bool `json:"image_downloaded"`
}

// IsTEI reports whether the record carries a TEI content model (Karteikarte).
func (r Record) IsTEI() bool {
	return strings.Contains(r.Model, "cm:TEI")
}

// IsLIDO reports whether the record carries a LIDO content model (Objekt).
func (r Record) IsLIDO() bool {
	return strings.Contains(r.Model, "cm:LIDO")
}

// DateSource tags the provenance of an extracted historical year.
type DateSource string

const (
	DateSourceBirth      DateSource = "birth"      // near "geboren"/"geb."/leading "*"
	DateSourceCrime      DateSource = "crime"      // bare year or month-name + year
	DateSourceCourt      DateSource = "court"      // near "Urteil vom"/"verurteilt"
	DateSourceDeath      DateSource = "death"      // near "gestorben"/"†"
	DateSourceDate       DateSource = "date"       // generic day.month.year
	DateSourceText       DateSource = "text"       // bare 4-digit fallback scan
	DateSourceIdentifier DateSource = "identifier" // trailing year in the identifier
	DateSourceEstimated  DateSource = "estimated"  // catalogue-number bucket estimate
	DateSourceNone       DateSource = "none"
)

// Person is one individual recognized in a record's fulltext. Optional
// attributes are omitted entirely when the secondary searches find nothing.
type Person struct {
	Name       string `json:"name"`
	Age        int    `json:"age,omitempty"`
	Profession string `json:"profession,omitempty"`
	BirthYear  int    `json:"birth_year,omitempty"`
}

// EnrichedRecord is a Record plus the metadata mined from its text fields.
type EnrichedRecord struct {
	Record

	// HistoricalYear is 0 when no year could be extracted; when set it is
	// always within the configured historical window.
	HistoricalYear int        `json:"historicalYear,omitempty"`
	DateSource     DateSource `json:"dateSource,omitempty"`

	// DateRange is [minYear, maxYear]; nil when no year was extracted.
	DateRange []int `json:"dateRange,omitempty"`

	// ObjectClass is the single dot-delimited taxonomy label. Never empty.
	ObjectClass string `json:"objectClass"`

	CrimeTypes []string `json:"crimeType,omitempty"`
	Locations  []string `json:"locations,omitempty"`
	Persons    []Person `json:"persons,omitempty"`

	ExtractionQuality float64 `json:"extractionQuality"`
}

// HasYear reports whether a historical year was extracted.
func (r EnrichedRecord) HasYear() bool {
	return r.HistoricalYear != 0
}

// IsEstimated reports whether the year came from the catalogue-number bucket
// heuristic rather than from a textual match.
func (r EnrichedRecord) IsEstimated() bool {
	return r.DateSource == DateSourceEstimated
}

// IsClassified reports whether the object classifier found a real category
// (anything but the unclassified fallback leaves).
func (r EnrichedRecord) IsClassified() bool {
	return r.ObjectClass != "" &&
		!strings.HasSuffix(r.ObjectClass, "Unklassifiziert") &&
		!strings.HasSuffix(r.ObjectClass, "Sonstiges")
}
