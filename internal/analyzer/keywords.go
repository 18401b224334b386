package analyzer

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/zombar/contentanalyzer/internal/models"
)

const (
	maxKeywords          = 10
	suggestedHashtagsMax = 5
)

var nonWordRe = regexp.MustCompile(`[^\w` + spaceClass + `]`)

// ExtractKeywords returns up to ten of the most frequent tokens longer than
// three characters that are not stop words. Ties keep first-appearance order.
func ExtractKeywords(text string) []models.Keyword {
	cleaned := nonWordRe.ReplaceAllString(strings.ToLower(text), " ")

	var filtered []string
	for _, word := range splitWhitespace(cleaned) {
		if len(word) > 3 && !stopWords[word] {
			filtered = append(filtered, word)
		}
	}

	counts := make(map[string]int)
	var order []string
	for _, word := range filtered {
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	keywords := make([]models.Keyword, 0, len(order))
	for _, word := range order {
		count := counts[word]
		keywords = append(keywords, models.Keyword{
			Word:      word,
			Count:     count,
			Relevance: math.Min(float64(count)/float64(len(filtered))*100, 100),
		})
	}

	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Count > keywords[j].Count
	})

	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}

// AnalyzeHashtags lists the distinct hashtags already present in text and
// proposes tags from the top keywords that are not already used.
func AnalyzeHashtags(text string, keywords []models.Keyword) models.Hashtags {
	existing := []string{}
	seen := make(map[string]bool)
	for _, tag := range hashtagRe.FindAllString(text, -1) {
		tag = strings.ToLower(tag)
		if !seen[tag] {
			seen[tag] = true
			existing = append(existing, tag)
		}
	}

	suggested := []string{}
	for i, kw := range keywords {
		if i == suggestedHashtagsMax {
			break
		}
		tag := "#" + kw.Word
		if !seen[strings.ToLower(tag)] {
			suggested = append(suggested, tag)
		}
	}

	return models.Hashtags{
		Existing:  existing,
		Suggested: suggested,
	}
}
