// Package classify assigns each archive object a single dot-delimited
// taxonomy label (Waffe.Feuerwaffe.Pistole, Dokument.Brief, ...) from keyword
// matches over its text fields.
package classify

import (
	"regexp"
	"strings"

	"github.com/chpollin/km/internal/model"
)

const (
	// ClassKarteikarte is assigned to every card-catalogue record regardless
	// of text content.
	ClassKarteikarte = "Dokument.Karteikarte"

	// ClassObjekt is the fallback for museum objects without a keyword match.
	ClassObjekt = "Beweisstück.Objekt"

	// ClassUnclassified is the terminal fallback.
	ClassUnclassified = "Beweisstück.Unklassifiziert"
)

// Entry maps a lowercase keyword to its taxonomy label. Entries are evaluated
// in order; the first match wins, so more specific keywords go first.
type Entry struct {
	Keyword string
	Class   string
}

// Taxonomy is the full keyword catalogue. Immutable after construction and
// safe for concurrent use.
type Taxonomy struct {
	Weapons   []Entry
	Documents []Entry
	Tools     []Entry
	Misc      []Entry
	Caliber   *regexp.Regexp
}

// DefaultTaxonomy returns the museum's keyword catalogue.
func DefaultTaxonomy() *Taxonomy {
	return &Taxonomy{
		Weapons: []Entry{
			{"flobertpistole", "Waffe.Feuerwaffe.Kleinkaliberwaffe"},
			{"schreckpistole", "Waffe.Feuerwaffe.Schreckschusswaffe"},
			{"repetierpistole", "Waffe.Feuerwaffe.Pistole"},
			{"pistole", "Waffe.Feuerwaffe.Pistole"},
			{"revolver", "Waffe.Feuerwaffe.Revolver"},
			{"kugelstutzen", "Waffe.Feuerwaffe.Gewehr"},
			{"stutzen", "Waffe.Feuerwaffe.Gewehr"},
			{"gewehr", "Waffe.Feuerwaffe.Gewehr"},
			{"flobert", "Waffe.Feuerwaffe.Kleinkaliberwaffe"},
			{"schalldämpfer", "Waffe.Zubehör.Schalldämpfer"},
			{"messer", "Waffe.Stichwaffe.Messer"},
			{"dolch", "Waffe.Stichwaffe.Dolch"},
			{"bajonett", "Waffe.Stichwaffe.Bajonett"},
			{"säbel", "Waffe.Hiebwaffe.Säbel"},
			{"munition", "Waffe.Zubehör.Munition"},
			{"patrone", "Waffe.Zubehör.Munition"},
			{"kugel", "Waffe.Zubehör.Munition"},
		},
		Documents: []Entry{
			{"foto", "Dokument.Fotografie"},
			{"photo", "Dokument.Fotografie"},
			{"brief", "Dokument.Brief"},
			{"schreiben", "Dokument.Brief"},
			{"urkunde", "Dokument.Urkunde"},
			{"protokoll", "Dokument.Protokoll"},
			{"akte", "Dokument.Akte"},
			{"zeugnis", "Dokument.Zeugnis"},
			{"ausweis", "Dokument.Ausweis"},
			{"pass", "Dokument.Pass"},
		},
		Tools: []Entry{
			{"schlüssel", "Werkzeug.Schlüssel"},
			{"dietrich", "Werkzeug.Einbruchwerkzeug"},
			{"brecheisen", "Werkzeug.Einbruchwerkzeug"},
			{"feile", "Werkzeug.Feile"},
			{"säge", "Werkzeug.Säge"},
			{"hammer", "Werkzeug.Hammer"},
			{"zange", "Werkzeug.Zange"},
			{"bohrer", "Werkzeug.Bohrer"},
		},
		Misc: []Entry{
			{"kleidung", "Textilie.Kleidungsstück"},
			{"textil", "Textilie.Kleidungsstück"},
			{"schmuck", "Schmuck.Objekt"},
			{"ring", "Schmuck.Objekt"},
			{"kette", "Schmuck.Objekt"},
			{"münze", "Geld.Münze"},
			{"geld", "Geld.Münze"},
		},
		Caliber: regexp.MustCompile(`(?:cal\.?|kaliber)\s*([\d,.\-]+)`),
	}
}

// Classifier assigns taxonomy labels to records.
type Classifier struct {
	tax *Taxonomy
}

func New(tax *Taxonomy) *Classifier {
	return &Classifier{tax: tax}
}

// Classify returns the record's taxonomy label. Never returns an empty
// string.
func (c *Classifier) Classify(rec model.Record) string {
	if rec.Container == "karteikarten" {
		return ClassKarteikarte
	}

	text := strings.ToLower(rec.Title + " " + rec.Description + " " + rec.Fulltext)

	for _, entry := range c.tax.Weapons {
		if strings.Contains(text, entry.Keyword) {
			return c.withCaliber(entry.Class, text)
		}
	}
	for _, group := range [][]Entry{c.tax.Documents, c.tax.Tools, c.tax.Misc} {
		for _, entry := range group {
			if strings.Contains(text, entry.Keyword) {
				return entry.Class
			}
		}
	}

	if rec.Container == "objekte" {
		return ClassObjekt
	}
	return ClassUnclassified
}

// withCaliber refines a firearm label with the caliber when the text names
// one, e.g. "Pistole Cal. 7,65" becomes Waffe.Feuerwaffe.Pistole.Cal7.65.
func (c *Classifier) withCaliber(class, text string) string {
	m := c.tax.Caliber.FindStringSubmatch(text)
	if m == nil {
		return class
	}
	caliber := strings.Trim(m[1], ".,-")
	if caliber == "" {
		return class
	}
	return class + ".Cal" + strings.ReplaceAll(caliber, ",", ".")
}
