package extract

import (
	"sort"
	"testing"
)

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestCrimeExtractor_ParagraphNumber(t *testing.T) {
	extractor := NewCrimeExtractor(testRules())

	crimes := extractor.Extract("angeklagt nach § 460", "")

	if !containsString(crimes, "Diebstahl") {
		t.Errorf("Expected Diebstahl for § 460, got %v", crimes)
	}
}

func TestCrimeExtractor_ParagraphList(t *testing.T) {
	extractor := NewCrimeExtractor(testRules())

	crimes := extractor.Extract("verurteilt §§ 171, 174", "")

	if !containsString(crimes, "Wilderei") {
		t.Errorf("Expected Wilderei for §§ 171, 174, got %v", crimes)
	}
}

func TestCrimeExtractor_LawAbbreviation(t *testing.T) {
	extractor := NewCrimeExtractor(testRules())

	crimes := extractor.Extract("Übertretung des Wp", "")

	if !containsString(crimes, "Waffengesetz") {
		t.Errorf("Expected Waffengesetz for Wp, got %v", crimes)
	}
}

func TestCrimeExtractor_KeywordMatch(t *testing.T) {
	extractor := NewCrimeExtractor(testRules())

	crimes := extractor.Extract("Karteikarte zu einem Mordfall mit Einbruch", "")

	if !containsString(crimes, "Mord") {
		t.Errorf("Expected Mord, got %v", crimes)
	}
	if !containsString(crimes, "Einbruchsdiebstahl") {
		t.Errorf("Expected Einbruchsdiebstahl, got %v", crimes)
	}
}

func TestCrimeExtractor_SortedNoDuplicates(t *testing.T) {
	extractor := NewCrimeExtractor(testRules())

	crimes := extractor.Extract("Wilderei nach § 171, Wilddiebstahl, § 174", "")

	if !sort.StringsAreSorted(crimes) {
		t.Errorf("Expected sorted crimes, got %v", crimes)
	}
	seen := make(map[string]bool)
	for _, c := range crimes {
		if seen[c] {
			t.Errorf("Duplicate crime %q in %v", c, crimes)
		}
		seen[c] = true
	}
}

func TestCrimeExtractor_EmptyInput(t *testing.T) {
	extractor := NewCrimeExtractor(testRules())

	crimes := extractor.Extract("", "")

	if crimes == nil || len(crimes) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", crimes)
	}
}
