package extract

import (
	"regexp"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/chpollin/km/internal/model"
)

// Year rule ranks, ascending priority. Births outrank crime years outrank
// court dates outrank deaths outrank generic date formats.
const (
	rankBirth = 1
	rankCrime = 2
	rankCourt = 3
	rankDeath = 4
	rankDate  = 5
)

// YearRule binds one compiled pattern to the provenance tag of the year in
// its first capture group and the rank of that tag.
type YearRule struct {
	Pattern *regexp.Regexp
	Source  model.DateSource
	Rank    int
}

// LawAbbreviation maps a law-shorthand pattern (Wp, WG) to a crime label.
type LawAbbreviation struct {
	Pattern *regexp.Regexp
	Label   string
}

// Rules carries every lookup table and compiled pattern the extractors
// evaluate. A Rules value is immutable after construction and safe to share
// across workers. DefaultRules reflects the Hans Gross Kriminalmuseum
// calibration; swap in different tables for a different corpus.
type Rules struct {
	YearMin int
	YearMax int

	YearRules         []YearRule
	BareYear          *regexp.Regexp
	IdentifierYear    *regexp.Regexp
	CatalogueID       *regexp.Regexp
	EstimationBuckets []model.EstimationBucket

	CrimeCodes        map[string]string
	ParagraphPatterns []*regexp.Regexp
	LawAbbreviations  []LawAbbreviation
	CrimeKeywords     map[string]string

	CourtPatterns      []*regexp.Regexp
	LocationIndicators []*regexp.Regexp
	LocationStopWords  mapset.Set[string]
	Gazetteer          mapset.Set[string]
	ProperNoun         *regexp.Regexp

	NamePatterns  []*regexp.Regexp
	MinNameLength int
	BirthYearMin  int
	BirthYearMax  int
}

// DefaultRules builds the archive's rule set with the thresholds taken from
// the extraction configuration.
func DefaultRules(cfg model.ExtractionConfig) *Rules {
	return &Rules{
		YearMin: cfg.YearMin,
		YearMax: cfg.YearMax,

		YearRules: []YearRule{
			// Birth dates: "geb. 1887", "geboren am 12.3.1887", "* 1887".
			{regexp.MustCompile(`(?i)geb(?:oren)?\.?\s*(?:am\s+)?(?:\d{1,2}[./-]\d{1,2}[./-])?(\d{4})`), model.DateSourceBirth, rankBirth},
			{regexp.MustCompile(`(?i)geb(?:oren)?\.?\s*(?:\d{1,2}\.?\s*\w+\s+)?(\d{4})`), model.DateSourceBirth, rankBirth},
			{regexp.MustCompile(`\*\s*(\d{4})`), model.DateSourceBirth, rankBirth},

			// Death dates: "gest. 1921", "† 1921".
			{regexp.MustCompile(`(?i)(?:gest(?:orben)?|†)\s*(\d{4})`), model.DateSourceDeath, rankDeath},

			// Crime years: a free-standing year or a month name + year. The
			// leading guard keeps years inside d.m.Y tokens out of this rule
			// so judgment dates keep their court tag.
			{regexp.MustCompile(`(?:^|[^\d./-])((?:18[5-9]|19[0-4])\d)\b`), model.DateSourceCrime, rankCrime},
			{regexp.MustCompile(`(?i)(?:Januar|Februar|März|April|Mai|Juni|Juli|August|September|Oktober|November|Dezember)\s+(\d{4})`), model.DateSourceCrime, rankCrime},

			// Judgments: "Urteil vom 12.03.1905", "verurteilt 1905".
			{regexp.MustCompile(`(?i)Urteil\s+v(?:om)?\.?\s*\d{1,2}[./-]\d{1,2}[./-](\d{4})`), model.DateSourceCourt, rankCourt},
			{regexp.MustCompile(`(?i)verurteilt\s+(\d{4})`), model.DateSourceCourt, rankCourt},

			// Generic date formats.
			{regexp.MustCompile(`\d{1,2}[./-]\d{1,2}[./-](\d{4})`), model.DateSourceDate, rankDate},
			{regexp.MustCompile(`(\d{4})[./-]\d{1,2}[./-]\d{1,2}`), model.DateSourceDate, rankDate},
		},
		BareYear:          regexp.MustCompile(`\b(18[5-9]\d|19[0-4]\d)\b`),
		IdentifierYear:    regexp.MustCompile(`\.(\d{4})$`),
		CatalogueID:       regexp.MustCompile(`KM-(?:KK|O)\.(\d+)`),
		EstimationBuckets: cfg.EstimationBuckets,

		// Austrian StGB paragraph numbers and contemporary side laws.
		CrimeCodes: map[string]string{
			"140": "Mord",
			"142": "Mord",
			"171": "Wilderei",
			"174": "Wilderei",
			"176": "Wilderei",
			"431": "Betrug",
			"460": "Diebstahl",
			"467": "Unterschlagung",
			"468": "Veruntreuung",
			"2":   "Waffengesetz",
			"8":   "Waffengesetz",
			"32":  "Waffengesetz",
			"36":  "Waffengesetz",
			"81":  "Versuch",
			"82":  "Beihilfe",
			"267": "Urkundenfälschung",
			"389": "Kostentragung",
		},
		ParagraphPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)§+\s*(\d+[a-z]?)`),
			regexp.MustCompile(`§§\s*(\d+(?:\s*,\s*\d+)*)`),
			regexp.MustCompile(`(?i)nach\s+§+\s*(\d+)`),
			regexp.MustCompile(`(?i)gem(?:äß)?\.?\s*§+\s*(\d+)`),
		},
		LawAbbreviations: []LawAbbreviation{
			{regexp.MustCompile(`(?i)\bwp\b`), "Waffengesetz"},
			{regexp.MustCompile(`(?i)\bwg\b`), "Waffengesetz"},
		},
		CrimeKeywords: map[string]string{
			"mord":              "Mord",
			"totschlag":         "Totschlag",
			"wilderei":          "Wilderei",
			"wilddiebstahl":     "Wilderei",
			"wildern":           "Wilderei",
			"wilderer":          "Wilderei",
			"diebstahl":         "Diebstahl",
			"einbruch":          "Einbruchsdiebstahl",
			"raub":              "Raub",
			"betrug":            "Betrug",
			"urkundenfälschung": "Urkundenfälschung",
			"fälschung":         "Fälschung",
			"unterschlagung":    "Unterschlagung",
			"veruntreuung":      "Veruntreuung",
			"körperverletzung":  "Körperverletzung",
			"notzucht":          "Sexualdelikt",
			"unzucht":           "Sexualdelikt",
			"brandstiftung":     "Brandstiftung",
			"sachbeschädigung":  "Sachbeschädigung",
			"hehlerei":          "Hehlerei",
			"schmuggel":         "Schmuggel",
			"falschmünzerei":    "Falschmünzerei",
			"amtsmissbrauch":    "Amtsmissbrauch",
		},

		CourtPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?:Bezirks|Kreis|Land|Landes)?[gG]ericht\s+([A-ZÄÖÜ][a-zäöüß]+(?:(?:\s+(?:an|der|am|im|ob|und))+\s+[A-ZÄÖÜ][a-zäöüß]+)?)`),
			regexp.MustCompile(`(?:Amts|Bezirks)?[gG]ericht\s+([A-ZÄÖÜ][a-zäöüß]+)`),
			regexp.MustCompile(`[gG]erichtshof\s+([A-ZÄÖÜ][a-zäöüß]+)`),
			regexp.MustCompile(`LG\s+([A-ZÄÖÜ][a-zäöüß]+)`),
			regexp.MustCompile(`BG\s+([A-ZÄÖÜ][a-zäöüß]+)`),
		},
		LocationIndicators: []*regexp.Regexp{
			regexp.MustCompile(`(?:Tatort|in|bei|zu|aus)\s+([A-ZÄÖÜ][a-zäöüß]+(?:(?:[\s-](?:an|der|am|im|ob|und))+[\s-][A-ZÄÖÜ][a-zäöüß]+)?)`),
			regexp.MustCompile(`(?:wohnhaft\s+in|aus)\s+([A-ZÄÖÜ][a-zäöüß]+)`),
			regexp.MustCompile(`([A-ZÄÖÜ][a-zäöüß]+)[\s-]?(?:Graben|Bach|Tal|Berg|Alm)\b`),
		},
		LocationStopWords: mapset.NewSet("der", "des", "zu", "für", "in"),
		Gazetteer: mapset.NewSet(
			// Provincial capitals.
			"wien", "graz", "linz", "salzburg", "innsbruck",
			"klagenfurt", "bregenz", "eisenstadt", "st. pölten",
			// Larger towns.
			"villach", "wels", "steyr", "feldkirch", "leonding",
			"klosterneuburg", "baden", "wolfsberg", "krems",
			"traun", "amstetten", "lustenau", "kapfenberg",
			"mödling", "hallein", "kufstein", "traiskirchen",
			"schwechat", "braunau", "stockerau", "saalfelden",
			"tulln", "hohenems", "spittal", "bludenz", "gmunden",
			"ternitz", "perchtoldsdorf", "feldkirchen", "bad ischl",
			"schwaz", "hall in tirol", "wörgl",
			// Places specific to the archive's case files.
			"leoben", "rottenmann", "oberzeiring", "brettstein",
			"bretstein", "bleiburg", "murau", "judenburg",
			"knittelfeld", "voitsberg", "deutschlandsberg",
			"hartberg", "fürstenfeld", "radkersburg",
			"feldbach", "gleisdorf", "weiz", "bruck an der mur",
			"mürzzuschlag", "mariazell", "liezen",
		),
		// Multi-word place names join through connector words, possibly
		// repeated ("Bruck an der Mur", "Hall in Tirol").
		ProperNoun: regexp.MustCompile(`[A-ZÄÖÜ][a-zäöüß]+(?:(?:[\s-](?:an|der|am|im|in|ob|und))+[\s-][A-ZÄÖÜ][a-zäöüß]+)?`),

		NamePatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?:Name\s+des?\s+)?Täters?:\s*(?:\d+\.\s*)?([A-ZÄÖÜ][a-zäöüß]+\s+[A-ZÄÖÜ]\.?(?:\s+und\s+[A-ZÄÖÜ][a-zäöüß]+\s+[A-ZÄÖÜ]\.?)?)`),
			regexp.MustCompile(`(?:Angeklagter?|Beschuldigter?|Verdächtiger?):\s*([A-ZÄÖÜ][a-zäöüß]+\s+[A-ZÄÖÜ]\.?)`),
			regexp.MustCompile(`(?:gegen|wider)\s+([A-ZÄÖÜ][a-zäöüß]+\s+[A-ZÄÖÜ]\.?)`),
			regexp.MustCompile(`(?:\d+\.\s*)?([A-ZÄÖÜ][a-zäöüß]+\s+[A-ZÄÖÜ]\.?)\s*(?:Alter:|geb\.|Beruf:)`),
			regexp.MustCompile(`([A-ZÄÖÜ][a-zäöüß]+\s+[A-ZÄÖÜ][a-zäöüß]+)\s*,?\s*(?:\d+\s*Jahre?|geb\.)`),
		},
		MinNameLength: cfg.MinNameLength,
		BirthYearMin:  cfg.BirthYearMin,
		BirthYearMax:  cfg.BirthYearMax,
	}
}
