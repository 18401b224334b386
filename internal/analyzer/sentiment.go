package analyzer

import (
	"math"
	"regexp"
	"strings"

	"github.com/zombar/contentanalyzer/internal/models"
)

var (
	positivePatterns = wordPatterns(positiveWords)
	negativePatterns = wordPatterns(negativeWords)
)

func wordPatterns(words []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(words))
	for i, word := range words {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
	}
	return patterns
}

func countMatches(text string, patterns []*regexp.Regexp) int {
	count := 0
	for _, re := range patterns {
		count += len(re.FindAllStringIndex(text, -1))
	}
	return count
}

// AnalyzeSentiment scores tone from whole-word lexicon hits. The score is
// (positive - negative) / total; without any hits it is 0 with 0.5 confidence.
func AnalyzeSentiment(text string) models.Sentiment {
	lower := strings.ToLower(text)
	positive := countMatches(lower, positivePatterns)
	negative := countMatches(lower, negativePatterns)
	total := positive + negative

	score := 0.0
	confidence := 0.5
	if total > 0 {
		score = float64(positive-negative) / float64(total)
		confidence = math.Min(float64(total)/10, 1)
	}

	label := models.SentimentNeutral
	if score > 0.1 {
		label = models.SentimentPositive
	} else if score < -0.1 {
		label = models.SentimentNegative
	}

	return models.Sentiment{
		Score:      Round(score, 2),
		Label:      label,
		Confidence: Round(confidence, 2),
	}
}
