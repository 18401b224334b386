package analyzer

import (
	"strings"
	"testing"

	"github.com/zombar/contentanalyzer/internal/models"
)

func repeatWords(word string, n int) string {
	return strings.TrimSpace(strings.Repeat(word+" ", n))
}

func TestCalculateMetrics(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected models.Metrics
	}{
		{
			name:     "empty text",
			text:     "",
			expected: models.Metrics{},
		},
		{
			name: "two sentences",
			text: "Hello world. This is a test!",
			expected: models.Metrics{
				CharacterCount:        28,
				WordCount:             6,
				SentenceCount:         2,
				ParagraphCount:        1,
				AverageWordLength:     3.8,
				AverageSentenceLength: 3,
				ReadingTimeMinutes:    1,
			},
		},
		{
			name: "paragraphs separated by whitespace-only lines",
			text: "First para.\n\nSecond para.\n   \nThird",
			expected: models.Metrics{
				CharacterCount:        35,
				WordCount:             5,
				SentenceCount:         3,
				ParagraphCount:        3,
				AverageWordLength:     5.2,
				AverageSentenceLength: 1.7,
				ReadingTimeMinutes:    1,
			},
		},
		{
			name: "emoji counts as two characters",
			text: "Hi 😀",
			expected: models.Metrics{
				CharacterCount:        5,
				WordCount:             2,
				SentenceCount:         1,
				ParagraphCount:        1,
				AverageWordLength:     2,
				AverageSentenceLength: 2,
				ReadingTimeMinutes:    1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateMetrics(tt.text)
			if got != tt.expected {
				t.Errorf("CalculateMetrics(%q) = %+v, want %+v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestReadingTimeRoundsUp(t *testing.T) {
	if got := CalculateMetrics(repeatWords("word", 200)).ReadingTimeMinutes; got != 1 {
		t.Errorf("200 words: expected 1 minute, got %d", got)
	}
	if got := CalculateMetrics(repeatWords("word", 201)).ReadingTimeMinutes; got != 2 {
		t.Errorf("201 words: expected 2 minutes, got %d", got)
	}
}

func TestCalculateReadability(t *testing.T) {
	t.Run("no sentences", func(t *testing.T) {
		got := CalculateReadability("", CalculateMetrics(""))
		want := models.Readability{Score: 0, Level: models.ReadabilityVeryDifficult, GradeLevel: 16}
		if got != want {
			t.Errorf("expected %+v, got %+v", want, got)
		}
	})

	t.Run("short simple sentences clamp to 100", func(t *testing.T) {
		text := "Hello world. This is a test!"
		got := CalculateReadability(text, CalculateMetrics(text))
		want := models.Readability{Score: 100, Level: models.ReadabilityVeryEasy, GradeLevel: 5}
		if got != want {
			t.Errorf("expected %+v, got %+v", want, got)
		}
	})

	t.Run("long polysyllabic sentence clamps to 0", func(t *testing.T) {
		text := repeatWords("internationalization", 40) + "."
		got := CalculateReadability(text, CalculateMetrics(text))
		if got.Score != 0 || got.Level != models.ReadabilityVeryDifficult || got.GradeLevel != 16 {
			t.Errorf("expected clamped Very Difficult result, got %+v", got)
		}
	})
}

func TestReadabilityBand(t *testing.T) {
	tests := []struct {
		score float64
		level models.ReadabilityLevel
		grade int
	}{
		{100, models.ReadabilityVeryEasy, 5},
		{90, models.ReadabilityVeryEasy, 5},
		{89.6, models.ReadabilityEasy, 6},
		{80, models.ReadabilityEasy, 6},
		{75, models.ReadabilityModerate, 8},
		{65, models.ReadabilityModerate, 10},
		{59.99, models.ReadabilityDifficult, 12},
		{50, models.ReadabilityDifficult, 12},
		{49.9, models.ReadabilityVeryDifficult, 16},
		{0, models.ReadabilityVeryDifficult, 16},
	}

	for _, tt := range tests {
		level, grade := readabilityBand(tt.score)
		if level != tt.level || grade != tt.grade {
			t.Errorf("readabilityBand(%v) = (%s, %d), want (%s, %d)", tt.score, level, grade, tt.level, tt.grade)
		}
	}
}

func TestEstimateSyllables(t *testing.T) {
	tests := []struct {
		text     string
		expected int
	}{
		{"beautiful", 3},
		{"day", 1},
		{"rhythm", 1},
		{"bcdfg", 1},
		{" beautiful day ", 6},
		{"", 1},
	}

	for _, tt := range tests {
		if got := estimateSyllables(tt.text); got != tt.expected {
			t.Errorf("estimateSyllables(%q) = %d, want %d", tt.text, got, tt.expected)
		}
	}
}

func TestAnalyzeSentiment(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected models.Sentiment
	}{
		{
			name:     "positive",
			text:     "I love this, it is great and AMAZING",
			expected: models.Sentiment{Score: 1, Label: models.SentimentPositive, Confidence: 0.3},
		},
		{
			name:     "negative",
			text:     "This is bad. Terrible service, a real problem.",
			expected: models.Sentiment{Score: -1, Label: models.SentimentNegative, Confidence: 0.3},
		},
		{
			name:     "balanced",
			text:     "good bad",
			expected: models.Sentiment{Score: 0, Label: models.SentimentNeutral, Confidence: 0.2},
		},
		{
			name:     "rounded to two decimals",
			text:     "good good bad",
			expected: models.Sentiment{Score: 0.33, Label: models.SentimentPositive, Confidence: 0.3},
		},
		{
			name:     "no lexicon words",
			text:     "The weather today",
			expected: models.Sentiment{Score: 0, Label: models.SentimentNeutral, Confidence: 0.5},
		},
		{
			name:     "whole words only",
			text:     "goodness gracious",
			expected: models.Sentiment{Score: 0, Label: models.SentimentNeutral, Confidence: 0.5},
		},
		{
			name:     "related words counted separately",
			text:     "fail failure",
			expected: models.Sentiment{Score: -1, Label: models.SentimentNegative, Confidence: 0.2},
		},
		{
			name:     "confidence capped at one",
			text:     repeatWords("great", 12),
			expected: models.Sentiment{Score: 1, Label: models.SentimentPositive, Confidence: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeSentiment(tt.text)
			if got != tt.expected {
				t.Errorf("AnalyzeSentiment(%q) = %+v, want %+v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		x        float64
		places   int
		expected float64
	}{
		{0.125, 2, 0.13},
		{-0.125, 2, -0.12},
		{2.5, 0, 3},
		{-2.5, 0, -2},
		{3.8333, 1, 3.8},
		{1.6667, 1, 1.7},
	}

	for _, tt := range tests {
		if got := Round(tt.x, tt.places); got != tt.expected {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.x, tt.places, got, tt.expected)
		}
	}
}

func TestExtractKeywords(t *testing.T) {
	text := "Marketing tips: marketing strategy and content marketing for content creators."
	got := ExtractKeywords(text)

	expected := []models.Keyword{
		{Word: "marketing", Count: 3, Relevance: 37.5},
		{Word: "content", Count: 2, Relevance: 25},
		{Word: "tips", Count: 1, Relevance: 12.5},
		{Word: "strategy", Count: 1, Relevance: 12.5},
		{Word: "creators", Count: 1, Relevance: 12.5},
	}

	if len(got) != len(expected) {
		t.Fatalf("expected %d keywords, got %d: %+v", len(expected), len(got), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("keyword %d: expected %+v, got %+v", i, expected[i], got[i])
		}
	}
}

func TestExtractKeywordsLimit(t *testing.T) {
	text := "alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima"
	got := ExtractKeywords(text)

	if len(got) != 10 {
		t.Fatalf("expected 10 keywords, got %d", len(got))
	}
	if got[0].Word != "alpha" || got[9].Word != "juliet" {
		t.Errorf("expected first-seen order to break ties, got %q..%q", got[0].Word, got[9].Word)
	}
}

func TestExtractKeywordsEmpty(t *testing.T) {
	got := ExtractKeywords("a an the of")
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestAnalyzeHashtags(t *testing.T) {
	text := "Loving the #Summer vibes! #summer #Beach. Summer summer summer beach"
	got := AnalyzeHashtags(text, ExtractKeywords(text))

	wantExisting := []string{"#summer", "#beach"}
	wantSuggested := []string{"#loving", "#vibes"}

	if strings.Join(got.Existing, ",") != strings.Join(wantExisting, ",") {
		t.Errorf("existing: expected %v, got %v", wantExisting, got.Existing)
	}
	if strings.Join(got.Suggested, ",") != strings.Join(wantSuggested, ",") {
		t.Errorf("suggested: expected %v, got %v", wantSuggested, got.Suggested)
	}
}

func TestAnalyzeEngagement(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		score   int
		factors models.EngagementFactors
	}{
		{
			name:    "empty",
			text:    "",
			score:   0,
			factors: models.EngagementFactors{},
		},
		{
			name:  "most signals",
			text:  "Click the link to learn more? 😀 #launch 2024 https://example.com",
			score: 86,
			factors: models.EngagementFactors{
				HasCallToAction: true,
				HasQuestion:     true,
				HasEmoji:        true,
				HasHashtags:     true,
				HasNumbers:      true,
				HasURL:          true,
			},
		},
		{
			name:    "call to action needs a whole word",
			text:    "Unlikely outcome",
			score:   0,
			factors: models.EngagementFactors{},
		},
		{
			name:    "multi-word call to action",
			text:    "Sign up today",
			score:   14,
			factors: models.EngagementFactors{HasCallToAction: true},
		},
		{
			name:    "optimal length",
			text:    repeatWords("word", 50),
			score:   14,
			factors: models.EngagementFactors{OptimalLength: true},
		},
		{
			name:    "regional indicator flag is an emoji",
			text:    "Made in 🇺🇸",
			score:   14,
			factors: models.EngagementFactors{HasEmoji: true},
		},
		{
			name:    "heart symbol is outside the emoji ranges",
			text:    "With ❤",
			score:   0,
			factors: models.EngagementFactors{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeEngagement(tt.text)
			if got.Score != tt.score {
				t.Errorf("expected score %d, got %d", tt.score, got.Score)
			}
			if got.Factors != tt.factors {
				t.Errorf("expected factors %+v, got %+v", tt.factors, got.Factors)
			}
		})
	}
}

func TestAnalyzeStructure(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected models.Structure
	}{
		{
			name:     "empty",
			text:     "",
			expected: models.Structure{ParagraphLengthVariation: models.VariationLow},
		},
		{
			name: "three even paragraphs",
			text: repeatWords("word", 12) + "\n\n" + repeatWords("word", 12) + "\n\n" + repeatWords("word", 12),
			expected: models.Structure{
				HasIntro:                 true,
				HasBody:                  true,
				HasConclusion:            true,
				ParagraphLengthVariation: models.VariationLow,
			},
		},
		{
			name: "short intro then long body",
			text: "short intro\n\n" + repeatWords("word", 50),
			expected: models.Structure{
				HasBody:                  true,
				ParagraphLengthVariation: models.VariationMedium,
			},
		},
		{
			name: "very uneven paragraphs",
			text: "a\n\n" + repeatWords("word", 80),
			expected: models.Structure{
				HasBody:                  true,
				ParagraphLengthVariation: models.VariationHigh,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeStructure(tt.text)
			if got != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	text := "Great news! Our new product launches today. Click to learn more about #innovation."
	result := Analyze(text)

	if result.Text != text {
		t.Errorf("expected text to be echoed back")
	}
	if result.Metrics.WordCount != 13 {
		t.Errorf("expected 13 words, got %d", result.Metrics.WordCount)
	}
	if result.Sentiment.Label != models.SentimentPositive {
		t.Errorf("expected positive sentiment, got %s", result.Sentiment.Label)
	}
	if !result.Engagement.Factors.HasCallToAction {
		t.Error("expected call to action to be detected")
	}
	if len(result.Hashtags.Existing) != 1 || result.Hashtags.Existing[0] != "#innovation" {
		t.Errorf("unexpected existing hashtags: %v", result.Hashtags.Existing)
	}
	for _, tag := range result.Hashtags.Suggested {
		if tag == "#innovation" {
			t.Error("existing hashtag should not be suggested again")
		}
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	text := "Why does this matter? Because 87% of readers skim.\n\nShare your thoughts below!"
	first := Analyze(text)
	for i := 0; i < 5; i++ {
		again := Analyze(text)
		if again.Metrics != first.Metrics || again.Readability != first.Readability ||
			again.Sentiment != first.Sentiment || again.Engagement != first.Engagement ||
			again.Structure != first.Structure {
			t.Fatalf("analysis changed between runs: %+v vs %+v", first, again)
		}
	}
}

func TestUnicodeWhitespace(t *testing.T) {
	intro := "one two three four five six seven eight nine ten eleven."

	tests := []struct {
		name      string
		text      string
		words     int
		optimal   bool
		paragraph int
		hasBody   bool
	}{
		{"nbsp separated words", strings.Repeat("word\u00a0", 60), 60, true, 1, false},
		{"vertical tab", "alpha\vbeta", 2, false, 1, false},
		{"em space and ideographic space", "alpha\u2003beta\u3000gamma", 3, false, 1, false},
		{"nbsp-only blank line", intro + "\n\u00a0\nalpha beta.", 13, false, 2, true},
		{"byte order mark", "\ufeffalpha beta\ufeff", 2, false, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.text)
			if got.Metrics.WordCount != tt.words {
				t.Errorf("WordCount = %d, want %d", got.Metrics.WordCount, tt.words)
			}
			if got.Engagement.Factors.OptimalLength != tt.optimal {
				t.Errorf("OptimalLength = %v, want %v", got.Engagement.Factors.OptimalLength, tt.optimal)
			}
			if got.Metrics.ParagraphCount != tt.paragraph {
				t.Errorf("ParagraphCount = %d, want %d", got.Metrics.ParagraphCount, tt.paragraph)
			}
			if got.Structure.HasBody != tt.hasBody {
				t.Errorf("HasBody = %v, want %v", got.Structure.HasBody, tt.hasBody)
			}
		})
	}
}

func TestUnicodeWhitespaceTokens(t *testing.T) {
	if got := estimateSyllables("a\u00a0b\u00a0c"); got != 3 {
		t.Errorf("estimateSyllables with nbsp = %d, want 3", got)
	}

	keywords := ExtractKeywords("launch\u00a0launch\u2009product")
	if len(keywords) != 2 || keywords[0].Word != "launch" || keywords[0].Count != 2 {
		t.Errorf("ExtractKeywords with unicode spaces = %+v", keywords)
	}

	if got := AnalyzeStructure("alpha beta\n\u3000\t\ngamma"); !got.HasBody {
		t.Error("a line of unicode spaces should separate paragraphs")
	}
}

func TestAnalyzeBoundsHold(t *testing.T) {
	grades := map[int]bool{5: true, 6: true, 8: true, 10: true, 12: true, 16: true}

	tests := []struct {
		name string
		text string
	}{
		{"symbols only", "!!! ??? ... ### $$$ %%%"},
		{"whitespace only", "   \n\t\v\u00a0\u3000  \n\n "},
		{"emoji only", "😀😀😀 🚀🚀"},
		{"invalid utf-8", "caf\xe9 \xff\xfe good bad ?"},
		{"very long", strings.Repeat("Great post! Check it out at https://example.com #news 42\n\n", 2000)},
		{"only negative", "terrible awful bad horrible worst hate"},
		{"single word", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Analyze(tt.text)

			if tokens := len(strings.FieldsFunc(tt.text, isSpace)); got.Metrics.WordCount != tokens {
				t.Errorf("WordCount = %d, whitespace tokens = %d", got.Metrics.WordCount, tokens)
			}
			if got.Readability.Score < 0 || got.Readability.Score > 100 {
				t.Errorf("readability score %d out of range", got.Readability.Score)
			}
			if !grades[got.Readability.GradeLevel] {
				t.Errorf("unexpected grade level %d", got.Readability.GradeLevel)
			}
			if got.Sentiment.Score < -1 || got.Sentiment.Score > 1 {
				t.Errorf("sentiment score %v out of range", got.Sentiment.Score)
			}
			if got.Sentiment.Confidence < 0 || got.Sentiment.Confidence > 1 {
				t.Errorf("sentiment confidence %v out of range", got.Sentiment.Confidence)
			}
			if got.Engagement.Score < 0 || got.Engagement.Score > 100 {
				t.Errorf("engagement score %d out of range", got.Engagement.Score)
			}
			if len(got.Keywords) > 10 {
				t.Errorf("got %d keywords, want at most 10", len(got.Keywords))
			}
			for _, kw := range got.Keywords {
				if kw.Relevance < 0 || kw.Relevance > 100 {
					t.Errorf("keyword %q relevance %v out of range", kw.Word, kw.Relevance)
				}
			}
			if len(got.Hashtags.Suggested) > 5 {
				t.Errorf("got %d suggested hashtags, want at most 5", len(got.Hashtags.Suggested))
			}
			if got.Metrics.ReadingTimeMinutes < 0 || got.Metrics.CharacterCount < 0 {
				t.Errorf("negative metrics: %+v", got.Metrics)
			}
		})
	}
}
