package harvest

import (
	"strings"
	"testing"
)

const teiSample = `<?xml version="1.0" encoding="UTF-8"?>
<TEI xmlns="http://www.tei-c.org/ns/1.0">
  <teiHeader>
    <fileDesc>
      <titleStmt><title>Karteikarte Wilderei</title></titleStmt>
    </fileDesc>
    <profileDesc>
      <abstract>Strafkarte wegen Wilderei, Bezirk Leoben</abstract>
    </profileDesc>
    <date>1905</date>
  </teiHeader>
  <text>
    <body>
      <p>Täter: Franz M. Alter: 34 Jahre</p>
      <p>verurteilt nach § 171</p>
    </body>
  </text>
</TEI>`

const lidoSample = `<?xml version="1.0"?>
<lido:lido xmlns:lido="http://www.lido-schema.org">
  <lido:titleSet><lido:title>Revolver</lido:title></lido:titleSet>
  <lido:objectDescriptionSet>
    <lido:descriptiveNoteValue>Tatwaffe aus einem Mordfall, Inventar KM-O.750</lido:descriptiveNoteValue>
  </lido:objectDescriptionSet>
  <lido:displayCreationDate>um 1904</lido:displayCreationDate>
</lido:lido>`

func TestParseTEI(t *testing.T) {
	fields := ParseTEI([]byte(teiSample))

	if fields.Title != "Karteikarte Wilderei" {
		t.Errorf("Expected title, got %q", fields.Title)
	}
	if fields.Description != "Strafkarte wegen Wilderei, Bezirk Leoben" {
		t.Errorf("Expected abstract as description, got %q", fields.Description)
	}
	if fields.CreatedDate != "1905" {
		t.Errorf("Expected date 1905, got %q", fields.CreatedDate)
	}
}

func TestParseTEI_ParagraphFallback(t *testing.T) {
	tei := `<TEI><text><body><p>nur ein Absatz</p></body></text></TEI>`

	fields := ParseTEI([]byte(tei))

	if fields.Description != "nur ein Absatz" {
		t.Errorf("Expected first paragraph as description, got %q", fields.Description)
	}
}

func TestParseLIDO(t *testing.T) {
	fields := ParseLIDO([]byte(lidoSample))

	if fields.Title != "Revolver" {
		t.Errorf("Expected title Revolver, got %q", fields.Title)
	}
	if !strings.Contains(fields.Description, "Mordfall") {
		t.Errorf("Expected descriptive note, got %q", fields.Description)
	}
	if fields.CreatedDate != "um 1904" {
		t.Errorf("Expected creation date, got %q", fields.CreatedDate)
	}
}

func TestExtractFulltext_SkipsHeader(t *testing.T) {
	text := ExtractFulltext([]byte(teiSample))

	if !strings.Contains(text, "Franz M.") {
		t.Errorf("Expected body text, got %q", text)
	}
	if strings.Contains(text, "Karteikarte Wilderei") {
		t.Errorf("Expected header content skipped, got %q", text)
	}
}

func TestExtractFulltext_MalformedStillYieldsText(t *testing.T) {
	text := ExtractFulltext([]byte(`<TEI><text><p>offenes Element`))

	if !strings.Contains(text, "offenes Element") {
		t.Errorf("Expected text from malformed document, got %q", text)
	}
}

func TestHasModelAttr(t *testing.T) {
	rels := `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	  xmlns:fedora-model="info:fedora/fedora-system:def/model#">
	  <rdf:Description rdf:about="info:fedora/o:km.7">
	    <fedora-model:hasModel rdf:resource="info:fedora/cm:TEI"/>
	  </rdf:Description>
	</rdf:RDF>`

	if got := hasModelAttr([]byte(rels)); got != "cm:TEI" {
		t.Errorf("Expected cm:TEI, got %q", got)
	}
	if got := hasModelAttr([]byte("<rdf/>")); got != "" {
		t.Errorf("Expected empty model for missing hasModel, got %q", got)
	}
}

func TestExtractObjectIDs(t *testing.T) {
	metadata := `<list>
	  <item>o:km.10</item>
	  <item>o:km.2</item>
	  <item>o:km.10</item>
	  <item>o:km.1000</item>
	</list>`

	ids := ExtractObjectIDs([]byte(metadata))

	want := []string{"o:km.2", "o:km.10", "o:km.1000"}
	if len(ids) != len(want) {
		t.Fatalf("Expected %d ids, got %v", len(want), ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, ids)
		}
	}
}
