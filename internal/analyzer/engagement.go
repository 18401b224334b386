package analyzer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/zombar/contentanalyzer/internal/models"
)

var (
	callToActionRe = regexp.MustCompile(`(?i)\b(click|subscribe|follow|share|comment|like|buy|download|join|register|sign up|learn more|get started|try now|shop now)\b`)
	digitRe        = regexp.MustCompile(`\d`)
	urlRe          = regexp.MustCompile(`https?://\S+`)
)

// emojiRanges covers emoticons, pictographs, transport symbols and
// regional indicators.
var emojiRanges = &unicode.RangeTable{
	R32: []unicode.Range32{
		{Lo: 0x1F1E0, Hi: 0x1F1FF, Stride: 1},
		{Lo: 0x1F300, Hi: 0x1F5FF, Stride: 1},
		{Lo: 0x1F600, Hi: 0x1F64F, Stride: 1},
		{Lo: 0x1F680, Hi: 0x1F6FF, Stride: 1},
	},
}

const (
	optimalMinTokens = 50
	optimalMaxTokens = 300
)

// AnalyzeEngagement checks seven engagement signals and scores the share
// that are present on a 0-100 scale.
func AnalyzeEngagement(text string) models.Engagement {
	tokens := len(splitWhitespace(text))

	factors := models.EngagementFactors{
		HasCallToAction: callToActionRe.MatchString(text),
		HasQuestion:     strings.Contains(text, "?"),
		HasEmoji:        strings.IndexFunc(text, isEmoji) >= 0,
		HasHashtags:     hashtagRe.MatchString(text),
		HasNumbers:      digitRe.MatchString(text),
		HasURL:          urlRe.MatchString(text),
		OptimalLength:   tokens >= optimalMinTokens && tokens <= optimalMaxTokens,
	}

	signals := []bool{
		factors.HasCallToAction,
		factors.HasQuestion,
		factors.HasEmoji,
		factors.HasHashtags,
		factors.HasNumbers,
		factors.HasURL,
		factors.OptimalLength,
	}
	present := 0
	for _, ok := range signals {
		if ok {
			present++
		}
	}

	return models.Engagement{
		Score:   int(Round(float64(present)/float64(len(signals))*100, 0)),
		Factors: factors,
	}
}

func isEmoji(r rune) bool {
	return unicode.Is(emojiRanges, r)
}
