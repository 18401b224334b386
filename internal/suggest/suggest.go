// Package suggest turns a content analysis into prioritized advice.
package suggest

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/zombar/contentanalyzer/internal/analyzer"
	"github.com/zombar/contentanalyzer/internal/models"
)

const (
	maxRecommendedHashtags = 5
	maxCallToActions       = 3
	minKeywordsForStrength = 5
)

// Generate derives the overall score, improvements, strengths, hashtag
// advice, call-to-action templates and rewriting examples from analysis.
// It is a pure function of its input.
func Generate(analysis models.ContentAnalysis) models.ContentSuggestions {
	return models.ContentSuggestions{
		Overall:       overallScore(analysis),
		Improvements:  improvements(analysis),
		Strengths:     strengths(analysis),
		Hashtags:      hashtagAdvice(analysis),
		CallToAction:  callToActions(analysis),
		Optimizations: optimizations(analysis),
	}
}

// overallScore averages readability, engagement and sentiment mapped onto 0-100
func overallScore(a models.ContentAnalysis) models.OverallScore {
	sum := float64(a.Readability.Score) + float64(a.Engagement.Score) + (a.Sentiment.Score+1)*50
	score := int(analyzer.Round(sum/3, 0))

	rating := models.RatingPoor
	switch {
	case score >= 80:
		rating = models.RatingExcellent
	case score >= 65:
		rating = models.RatingGood
	case score >= 50:
		rating = models.RatingFair
	}

	return models.OverallScore{Score: score, Rating: rating}
}

func improvements(a models.ContentAnalysis) []models.Improvement {
	list := []models.Improvement{}
	add := func(cat models.ImprovementCategory, typ models.ImprovementType, impact models.Impact, msg string) {
		list = append(list, models.Improvement{Category: cat, Type: typ, Suggestion: msg, Impact: impact})
	}

	factors := a.Engagement.Factors
	words := a.Metrics.WordCount

	if a.Readability.Score < 60 {
		add(models.CategoryCritical, models.TypeReadability, models.ImpactHigh,
			fmt.Sprintf("Your content is difficult to read (score: %d/100). Use shorter sentences and simpler words to improve readability.", a.Readability.Score))
	}
	if a.Metrics.AverageSentenceLength > 25 {
		add(models.CategoryImportant, models.TypeReadability, models.ImpactMedium,
			fmt.Sprintf("Your sentences are too long (avg: %s words). Aim for 15-20 words per sentence for better engagement.",
				strconv.FormatFloat(a.Metrics.AverageSentenceLength, 'f', -1, 64)))
	}

	if !factors.HasCallToAction {
		add(models.CategoryCritical, models.TypeEngagement, models.ImpactHigh,
			`Add a clear call-to-action (e.g., "Click to learn more", "Share your thoughts", "Subscribe for updates").`)
	}
	if !factors.HasQuestion {
		add(models.CategoryImportant, models.TypeEngagement, models.ImpactMedium,
			"Ask a question to encourage audience interaction and comments.")
	}
	if !factors.HasEmoji {
		add(models.CategoryOptional, models.TypeEngagement, models.ImpactLow,
			"Consider adding relevant emojis to make your content more visually appealing and engaging.")
	}
	if !factors.HasHashtags {
		add(models.CategoryImportant, models.TypeSEO, models.ImpactHigh,
			"Add relevant hashtags to increase discoverability and reach.")
	}
	if !factors.HasNumbers {
		add(models.CategoryOptional, models.TypeEngagement, models.ImpactMedium,
			"Include specific numbers or statistics to add credibility and attract attention.")
	}

	if words < 50 {
		add(models.CategoryImportant, models.TypeStructure, models.ImpactHigh,
			fmt.Sprintf("Your content is too short (%d words). Aim for 50-300 words for optimal engagement.", words))
	} else if words > 300 {
		add(models.CategoryImportant, models.TypeStructure, models.ImpactMedium,
			fmt.Sprintf("Your content is quite long (%d words). Consider breaking it into smaller chunks or using bullet points.", words))
	}
	if !a.Structure.HasIntro && words > 100 {
		add(models.CategoryImportant, models.TypeStructure, models.ImpactMedium,
			"Add a strong opening paragraph to hook your readers immediately.")
	}
	if a.Structure.ParagraphLengthVariation == models.VariationLow && a.Metrics.ParagraphCount > 2 {
		add(models.CategoryOptional, models.TypeStructure, models.ImpactLow,
			"Vary your paragraph lengths to create better visual rhythm and maintain reader interest.")
	}

	if a.Sentiment.Label == models.SentimentNegative {
		add(models.CategoryImportant, models.TypeTone, models.ImpactHigh,
			"Your content has a negative tone. Consider using more positive language to increase engagement.")
	}

	sort.SliceStable(list, func(i, j int) bool {
		return categoryRank[list[i].Category] < categoryRank[list[j].Category]
	})
	return list
}

func strengths(a models.ContentAnalysis) []string {
	list := []string{}
	factors := a.Engagement.Factors

	if a.Readability.Score >= 70 {
		list = append(list, fmt.Sprintf("Excellent readability (%d/100) - easy for your audience to understand", a.Readability.Score))
	}
	if a.Engagement.Score >= 70 {
		list = append(list, fmt.Sprintf("Strong engagement factors (%d/100) - well-optimized for interaction", a.Engagement.Score))
	}
	if a.Sentiment.Label == models.SentimentPositive {
		list = append(list, "Positive tone that resonates well with audiences")
	}
	if factors.HasCallToAction {
		list = append(list, "Clear call-to-action encourages reader response")
	}
	if factors.HasQuestion {
		list = append(list, "Engaging questions promote audience interaction")
	}
	if factors.HasHashtags {
		list = append(list, "Good use of hashtags for discoverability")
	}
	if factors.OptimalLength {
		list = append(list, "Optimal content length for social media engagement")
	}
	if a.Structure.HasIntro && a.Structure.HasConclusion {
		list = append(list, "Well-structured with clear beginning and ending")
	}
	if len(a.Keywords) >= minKeywordsForStrength {
		list = append(list, "Rich keyword variety enhances SEO value")
	}
	return list
}

func hashtagAdvice(a models.ContentAnalysis) models.HashtagAdvice {
	recommended := a.Hashtags.Suggested
	if len(recommended) > maxRecommendedHashtags {
		recommended = recommended[:maxRecommendedHashtags]
	}
	return models.HashtagAdvice{
		Recommended: append([]string{}, recommended...),
		Trendy:      append([]string{}, TrendyHashtags...),
	}
}

func callToActions(a models.ContentAnalysis) models.CallToAction {
	detected := a.Engagement.Factors.HasCallToAction
	suggestions := []string{}
	if !detected {
		suggestions = append(suggestions, callToActionTemplates[:maxCallToActions]...)
	}
	return models.CallToAction{Detected: detected, Suggestions: suggestions}
}

func optimizations(a models.ContentAnalysis) []models.Optimization {
	list := []models.Optimization{}
	if a.Metrics.AverageSentenceLength > 25 {
		list = append(list, longSentenceExample)
	}
	if a.Sentiment.Label == models.SentimentNeutral {
		list = append(list, powerWordsExample)
	}
	if !a.Engagement.Factors.HasNumbers {
		list = append(list, numbersExample)
	}
	return list
}
