package extract

import (
	"testing"

	"github.com/chpollin/km/internal/model"
)

func testRules() *Rules {
	return DefaultRules(model.DefaultConfig().Extraction)
}

func TestYearExtractor_BirthDateBeatsOtherYears(t *testing.T) {
	extractor := NewYearExtractor(testRules())

	text := "Wilderer, geb. 1887, verurteilt 1908 wegen Wilderei"
	year, source := extractor.Extract(text, "", "")

	if year != 1887 {
		t.Errorf("Expected year 1887, got %d", year)
	}
	if source != model.DateSourceBirth {
		t.Errorf("Expected source birth, got %q", source)
	}
}

func TestYearExtractor_CourtDateFromJudgment(t *testing.T) {
	extractor := NewYearExtractor(testRules())

	year, source := extractor.Extract("Gericht Graz, Urteil v. 12.03.1905", "", "")

	if year != 1905 {
		t.Errorf("Expected year 1905, got %d", year)
	}
	if source != model.DateSourceCourt {
		t.Errorf("Expected source court, got %q", source)
	}
}

func TestYearExtractor_BareYearTaggedAsCrime(t *testing.T) {
	extractor := NewYearExtractor(testRules())

	year, source := extractor.Extract("Tatort Leoben, 1923, Diebstahl", "", "")

	if year != 1923 {
		t.Errorf("Expected year 1923, got %d", year)
	}
	if source != model.DateSourceCrime {
		t.Errorf("Expected source crime, got %q", source)
	}
}

func TestYearExtractor_MonthNameYear(t *testing.T) {
	extractor := NewYearExtractor(testRules())

	year, source := extractor.Extract("Tat im August 1911 begangen", "", "")

	if year != 1911 {
		t.Errorf("Expected year 1911, got %d", year)
	}
	if source != model.DateSourceCrime {
		t.Errorf("Expected source crime, got %q", source)
	}
}

func TestYearExtractor_FreeStandingYearOutranksDeathContext(t *testing.T) {
	extractor := NewYearExtractor(testRules())

	// " 1921" is also a free-standing year, and crime outranks death.
	year, source := extractor.Extract("gest. 1921 im Zuchthaus", "", "")

	if year != 1921 {
		t.Errorf("Expected year 1921, got %d", year)
	}
	if source != model.DateSourceCrime {
		t.Errorf("Expected source crime, got %q", source)
	}
}

func TestYearExtractor_DeathDate(t *testing.T) {
	extractor := NewYearExtractor(testRules())

	// No space after "gest.": the year is not free-standing, so the death
	// rule is the only match.
	year, source := extractor.Extract("gest.1921 im Zuchthaus", "", "")

	if year != 1921 {
		t.Errorf("Expected year 1921, got %d", year)
	}
	if source != model.DateSourceDeath {
		t.Errorf("Expected source death, got %q", source)
	}
}

func TestYearExtractor_IdentifierFallback(t *testing.T) {
	extractor := NewYearExtractor(testRules())

	year, source := extractor.Extract("Objekt ohne Datumsangabe", "", "o:km.1920")

	if year != 1920 {
		t.Errorf("Expected year 1920, got %d", year)
	}
	if source != model.DateSourceIdentifier {
		t.Errorf("Expected source identifier, got %q", source)
	}
}

func TestYearExtractor_CatalogueNumberEstimate(t *testing.T) {
	extractor := NewYearExtractor(testRules())

	tests := []struct {
		description string
		want        int
	}{
		{"Inventar KM-KK.42", 1900},
		{"Inventar KM-KK.250", 1910},
		{"Inventar KM-O.750", 1920},
		{"Inventar KM-O.2500", 1930},
	}
	for _, tt := range tests {
		year, source := extractor.Extract("", tt.description, "o:km.15")
		if year != tt.want {
			t.Errorf("%s: expected year %d, got %d", tt.description, tt.want, year)
		}
		if source != model.DateSourceEstimated {
			t.Errorf("%s: expected source estimated, got %q", tt.description, source)
		}
	}
}

func TestYearExtractor_NoSignal(t *testing.T) {
	extractor := NewYearExtractor(testRules())

	year, source := extractor.Extract("keine Jahresangabe", "", "o:km.15")

	if year != 0 {
		t.Errorf("Expected no year, got %d", year)
	}
	if source != model.DateSourceNone {
		t.Errorf("Expected source none, got %q", source)
	}
}

func TestYearExtractor_ImplausibleYearsIgnored(t *testing.T) {
	extractor := NewYearExtractor(testRules())

	year, source := extractor.Extract("geb. 1790, Akte von 2003", "", "")

	if year != 0 {
		t.Errorf("Expected no year for out-of-window dates, got %d", year)
	}
	if source != model.DateSourceNone {
		t.Errorf("Expected source none, got %q", source)
	}
}

func TestYearExtractor_DateRange(t *testing.T) {
	extractor := NewYearExtractor(testRules())

	r := extractor.DateRange("geb. 1887, verurteilt 1908, gest. 1921", "", 1887)
	if len(r) != 2 || r[0] != 1887 || r[1] != 1921 {
		t.Errorf("Expected range [1887 1921], got %v", r)
	}

	r = extractor.DateRange("", "", 1920)
	if len(r) != 2 || r[0] != 1920 || r[1] != 1920 {
		t.Errorf("Expected degenerate range [1920 1920], got %v", r)
	}

	if r = extractor.DateRange("kein Jahr", "", 0); r != nil {
		t.Errorf("Expected nil range without a year, got %v", r)
	}
}

func TestYearExtractor_RangeOrdered(t *testing.T) {
	extractor := NewYearExtractor(testRules())

	r := extractor.DateRange("1930 und früher 1902", "", 1902)
	if len(r) != 2 || r[0] > r[1] {
		t.Errorf("Expected ordered range, got %v", r)
	}
}
