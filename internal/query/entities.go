package query

import (
	"regexp"
	"strings"

	prose "github.com/jdkato/prose/v2"
)

// Country is an ISO-style code for the destination markets the engine
// understands.
type Country string

const (
	CountryChina Country = "CN"
	CountryUSA   Country = "US"
)

// Korean returns the country name as stored in the backing tables.
func (c Country) Korean() string {
	switch c {
	case CountryChina:
		return "중국"
	case CountryUSA:
		return "미국"
	default:
		return string(c)
	}
}

// Entities holds whatever the extractor found in the question. Every
// field may be empty; absence of a match is a normal outcome.
type Entities struct {
	Countries []Country
	HSCode    string
	Product   string
}

func (e Entities) HasAny() bool {
	return len(e.Countries) > 0 || e.HSCode != "" || e.Product != ""
}

// productEntry pairs the canonical Korean product keyword with its
// English synonyms. Iteration order is the declared order, so the
// first listed product wins when several appear in one question.
type productEntry struct {
	canonical string
	english   []string
}

type Extractor struct {
	hsPattern *regexp.Regexp
	products  []productEntry
}

func NewExtractor() *Extractor {
	return &Extractor{
		hsPattern: regexp.MustCompile(`\d+(?:\.\d+)*`),
		products: []productEntry{
			{canonical: "라면", english: []string{"ramen", "noodle", "noodles"}},
			{canonical: "마스크", english: []string{"mask", "masks"}},
			{canonical: "전자제품", english: []string{"electronics"}},
			{canonical: "의류", english: []string{"apparel", "clothing"}},
			{canonical: "식품", english: []string{"food"}},
			{canonical: "화학제품", english: []string{"chemical", "chemicals"}},
		},
	}
}

// Extract pulls country, HS code, and product mentions from the raw
// question. It never fails; a question with nothing recognizable just
// yields an empty Entities value.
func (e *Extractor) Extract(text string) Entities {
	lower := strings.ToLower(text)
	tokens := tokenize(lower)

	var ents Entities
	ents.Countries = e.extractCountries(text, lower, tokens)
	ents.HSCode = e.extractHSCode(text)
	ents.Product = e.extractProduct(text, tokens)
	return ents
}

func (e *Extractor) extractCountries(text, lower string, tokens map[string]bool) []Country {
	var countries []Country

	// Korean names and long English names match as substrings. The
	// short abbreviations only count as standalone tokens, so "US"
	// inside another word does not trigger a match.
	if strings.Contains(text, "중국") || strings.Contains(lower, "china") || tokens["cn"] {
		countries = append(countries, CountryChina)
	}
	if strings.Contains(text, "미국") || strings.Contains(lower, "usa") || strings.Contains(lower, "america") || tokens["us"] {
		countries = append(countries, CountryUSA)
	}

	// "미중" names both markets at once.
	if strings.Contains(text, "미중") || strings.Contains(text, "중미") {
		countries = appendMissing(countries, CountryChina)
		countries = appendMissing(countries, CountryUSA)
	}

	return countries
}

func (e *Extractor) extractHSCode(text string) string {
	for _, match := range e.hsPattern.FindAllString(text, -1) {
		digits := strings.ReplaceAll(match, ".", "")
		if len(digits) >= 4 && len(digits) <= 10 {
			return digits
		}
	}
	return ""
}

func (e *Extractor) extractProduct(text string, tokens map[string]bool) string {
	for _, entry := range e.products {
		if strings.Contains(text, entry.canonical) {
			return entry.canonical
		}
		for _, synonym := range entry.english {
			if tokens[synonym] {
				return entry.canonical
			}
		}
	}
	return ""
}

// tokenize splits the lowercased question into a token set. The prose
// tokenizer handles punctuation attached to words; if it fails on odd
// input the plain field split is close enough.
func tokenize(lower string) map[string]bool {
	set := make(map[string]bool)

	doc, err := prose.NewDocument(lower,
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		for _, field := range strings.Fields(lower) {
			set[field] = true
		}
		return set
	}

	for _, tok := range doc.Tokens() {
		set[tok.Text] = true
	}
	return set
}

func appendMissing(countries []Country, c Country) []Country {
	for _, existing := range countries {
		if existing == c {
			return countries
		}
	}
	return append(countries, c)
}
