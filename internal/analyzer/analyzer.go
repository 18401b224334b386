// Package analyzer scores social-media style text with deterministic,
// lexicon-based heuristics. Every function is pure and safe for concurrent use.
package analyzer

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf16"

	"github.com/zombar/contentanalyzer/internal/models"
)

// spaceClass is the ECMAScript \s character class. Go's \s only matches
// ASCII whitespace, so NBSP and the Unicode spaces are listed explicitly.
const spaceClass = `\t\n\v\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}`

var (
	whitespaceRe     = regexp.MustCompile(`[` + spaceClass + `]+`)
	sentenceBreakRe  = regexp.MustCompile(`[.!?]+`)
	paragraphBreakRe = regexp.MustCompile(`\n[` + spaceClass + `]*\n`)
	hashtagRe        = regexp.MustCompile(`#\w+`)
)

// Analyze runs every component over text and assembles the report.
// It never fails; empty input yields zero counts and fallback labels.
func Analyze(text string) models.ContentAnalysis {
	metrics := CalculateMetrics(text)
	keywords := ExtractKeywords(text)

	return models.ContentAnalysis{
		Text:        text,
		Metrics:     metrics,
		Readability: CalculateReadability(text, metrics),
		Sentiment:   AnalyzeSentiment(text),
		Keywords:    keywords,
		Hashtags:    AnalyzeHashtags(text, keywords),
		Engagement:  AnalyzeEngagement(text),
		Structure:   AnalyzeStructure(text),
	}
}

// Round rounds x to the given number of decimal places, with halves
// rounded toward positive infinity.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(x*p+0.5) / p
}

// textLength counts UTF-16 code units, so astral-plane characters such as
// emoji count as two.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// splitWhitespace splits on whitespace runs without dropping empty edge
// tokens, so " a b " yields ["", "a", "b", ""].
func splitWhitespace(s string) []string {
	return whitespaceRe.Split(s, -1)
}

// splitWords returns the non-empty whitespace-separated tokens of s
func splitWords(s string) []string {
	var words []string
	for _, w := range splitWhitespace(trimSpace(s)) {
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// isSpace reports whether r is in spaceClass
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		0x00A0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return r >= 0x2000 && r <= 0x200A
}

func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}
