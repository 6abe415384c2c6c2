package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/chpollin/km/internal/model"
)

// PersonExtractor recognizes individuals from role-anchored name patterns
// (Täter:, Angeklagter:, gegen ...) and then mines each name's surroundings
// for age, profession and birth year.
type PersonExtractor struct {
	rules *Rules
}

func NewPersonExtractor(rules *Rules) *PersonExtractor {
	return &PersonExtractor{rules: rules}
}

// Extract returns the persons in first-occurrence order, deduplicated by
// exact name. Only operates on fulltext; card descriptions are too noisy for
// the name patterns.
func (e *PersonExtractor) Extract(fulltext string) []model.Person {
	if strings.TrimSpace(fulltext) == "" {
		return nil
	}

	type hit struct {
		name string
		pos  int
	}
	var hits []hit
	seen := make(map[string]bool)
	for _, pattern := range e.rules.NamePatterns {
		for _, idx := range pattern.FindAllStringSubmatchIndex(fulltext, -1) {
			if len(idx) < 4 || idx[2] < 0 {
				continue
			}
			name := strings.TrimSpace(fulltext[idx[2]:idx[3]])
			if utf8.RuneCountInString(name) < e.rules.MinNameLength || seen[name] {
				continue
			}
			seen[name] = true
			hits = append(hits, hit{name: name, pos: idx[2]})
		}
	}
	if len(hits) == 0 {
		return nil
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	persons := make([]model.Person, 0, len(hits))
	for _, h := range hits {
		persons = append(persons, e.attributes(fulltext, h.name))
	}
	return persons
}

// attributes anchors secondary searches on the quoted name. Each attribute is
// independent; a miss leaves the field at its zero value.
func (e *PersonExtractor) attributes(text, name string) model.Person {
	person := model.Person{Name: name}
	anchor := regexp.QuoteMeta(name)

	if m := findAnchored(anchor, `(?:Alter:|,)\s*(\d+)\s*(?:J(?:ahre?)?)?`, text); m != "" {
		if age, err := strconv.Atoi(m); err == nil {
			person.Age = age
		}
	}
	if person.Age == 0 {
		if m := findAnchored(anchor, `(\d+)\s*Jahre?\s*alt`, text); m != "" {
			if age, err := strconv.Atoi(m); err == nil {
				person.Age = age
			}
		}
	}

	if m := findAnchored(anchor, `Beruf:\s*([A-Za-zäöüß]+(?:\s+[A-Za-zäöüß]+)?)`, text); m != "" {
		m = trimAttributeTail(m)
		if utf8.RuneCountInString(m) > 2 {
			person.Profession = m
		}
	}

	if m := findAnchored(anchor, `geb\.?\s*(?:\d{1,2}[./-]\d{1,2}[./-])?(\d{4})`, text); m != "" {
		if year, err := strconv.Atoi(m); err == nil &&
			year >= e.rules.BirthYearMin && year <= e.rules.BirthYearMax {
			person.BirthYear = year
		}
	}

	return person
}

// attributeKeywords open the next attribute on a card. The two-word
// profession capture can swallow one since RE2 has no lookahead.
var attributeKeywords = map[string]bool{"geb": true, "alter": true}

// trimAttributeTail drops a trailing attribute keyword from a profession
// capture ("Holzknecht geb" -> "Holzknecht").
func trimAttributeTail(s string) string {
	fields := strings.Fields(s)
	if len(fields) > 1 && attributeKeywords[strings.ToLower(fields[len(fields)-1])] {
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}

// findAnchored compiles "<name>.*?<tail>" lazily; the anchor is QuoteMeta'd
// caller-side, so compilation cannot fail on hostile text.
func findAnchored(anchor, tail, text string) string {
	re, err := regexp.Compile(`(?is)` + anchor + `.*?` + tail)
	if err != nil {
		return ""
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
