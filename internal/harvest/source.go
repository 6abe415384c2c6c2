package harvest

import (
	"bytes"
	"encoding/xml"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// SourceFields are the descriptive fields lifted from a TEI or LIDO source
// document.
type SourceFields struct {
	Title       string
	Description string
	CreatedDate string
}

// ParseTEI reads title, abstract (or first paragraph) and date from a TEI
// document. Namespace prefixes vary between GAMS exports, so matching is by
// local element name.
func ParseTEI(data []byte) SourceFields {
	var fields SourceFields
	var firstParagraph string

	walkXML(data, func(local string, text string) {
		switch local {
		case "title":
			if fields.Title == "" {
				fields.Title = text
			}
		case "abstract":
			if fields.Description == "" {
				fields.Description = text
			}
		case "p":
			if firstParagraph == "" {
				firstParagraph = text
			}
		case "date":
			if fields.CreatedDate == "" {
				fields.CreatedDate = text
			}
		}
	})
	if fields.Description == "" {
		fields.Description = firstParagraph
	}
	return fields
}

// ParseLIDO reads title, descriptive note and display creation date from a
// LIDO document.
func ParseLIDO(data []byte) SourceFields {
	var fields SourceFields
	walkXML(data, func(local string, text string) {
		switch local {
		case "title":
			if fields.Title == "" {
				fields.Title = text
			}
		case "descriptiveNoteValue":
			if fields.Description == "" {
				fields.Description = text
			}
		case "displayCreationDate":
			if fields.CreatedDate == "" {
				fields.CreatedDate = text
			}
		}
	})
	return fields
}

// walkXML streams the document and calls visit with each element's local name
// and trimmed character data. Parse errors end the walk; whatever was seen
// before still counts, the archive's exports are not uniformly well-formed.
func walkXML(data []byte, visit func(local, text string)) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	var current string
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err != nil {
			return
		}
		switch t := tok.(type) {
		case xml.StartElement:
			current = t.Name.Local
			buf.Reset()
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if t.Name.Local == current && current != "" {
				visit(current, strings.TrimSpace(buf.String()))
			}
			current = ""
			buf.Reset()
		}
	}
}

// hasModelAttr pulls the content model URI out of a RELS-EXT datastream.
func hasModelAttr(data []byte) string {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := decoder.Token()
		if err != nil {
			return ""
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "hasModel" {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Local == "resource" {
				return strings.TrimPrefix(attr.Value, "info:fedora/")
			}
		}
	}
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// ExtractFulltext pulls the running text out of a TEI body. The html
// tokenizer is deliberately lenient; TEI exports with stray entities or
// unclosed elements still yield their text. Header metadata is skipped.
func ExtractFulltext(data []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(data))
	var parts []string
	skipDepth := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(whitespaceRun.ReplaceAllString(strings.Join(parts, " "), " "))
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if strings.ToLower(string(name)) == "teiheader" || skipDepth > 0 {
				skipDepth++
			}
		case html.EndTagToken:
			if skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			if text := strings.TrimSpace(string(tokenizer.Text())); text != "" {
				parts = append(parts, text)
			}
		}
	}
}
