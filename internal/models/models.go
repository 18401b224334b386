package models

import "time"

// ContentAnalysis is the full heuristic report produced for a piece of text
type ContentAnalysis struct {
	Text        string      `json:"text"`
	Metrics     Metrics     `json:"metrics"`
	Readability Readability `json:"readability"`
	Sentiment   Sentiment   `json:"sentiment"`
	Keywords    []Keyword   `json:"keywords"`
	Hashtags    Hashtags    `json:"hashtags"`
	Engagement  Engagement  `json:"engagement"`
	Structure   Structure   `json:"structure"`
}

// Metrics contains basic text statistics
type Metrics struct {
	CharacterCount        int     `json:"character_count"`
	WordCount             int     `json:"word_count"`
	SentenceCount         int     `json:"sentence_count"`
	ParagraphCount        int     `json:"paragraph_count"`
	AverageWordLength     float64 `json:"average_word_length"`     // 1 decimal
	AverageSentenceLength float64 `json:"average_sentence_length"` // 1 decimal
	ReadingTimeMinutes    int     `json:"reading_time_minutes"`
}

// ReadabilityLevel is a Flesch reading-ease band
type ReadabilityLevel string

const (
	ReadabilityVeryEasy      ReadabilityLevel = "Very Easy"
	ReadabilityEasy          ReadabilityLevel = "Easy"
	ReadabilityModerate      ReadabilityLevel = "Moderate"
	ReadabilityDifficult     ReadabilityLevel = "Difficult"
	ReadabilityVeryDifficult ReadabilityLevel = "Very Difficult"
)

// Readability holds the Flesch reading-ease result
type Readability struct {
	Score      int              `json:"score"` // 0-100
	Level      ReadabilityLevel `json:"level"`
	GradeLevel int              `json:"grade_level"`
}

// SentimentLabel classifies overall tone
type SentimentLabel string

const (
	SentimentNegative SentimentLabel = "Negative"
	SentimentNeutral  SentimentLabel = "Neutral"
	SentimentPositive SentimentLabel = "Positive"
)

// Sentiment holds the lexicon-based sentiment result
type Sentiment struct {
	Score      float64        `json:"score"`      // -1.0 to 1.0, 2 decimals
	Label      SentimentLabel `json:"label"`
	Confidence float64        `json:"confidence"` // 0.0 to 1.0, 2 decimals
}

// Keyword is a frequent non-stop-word token
type Keyword struct {
	Word      string  `json:"word"`
	Count     int     `json:"count"`
	Relevance float64 `json:"relevance"` // 0-100, unrounded
}

// Hashtags lists tags found in the text and tags derived from keywords
type Hashtags struct {
	Existing  []string `json:"existing"`
	Suggested []string `json:"suggested"`
}

// EngagementFactors are the boolean signals behind the engagement score
type EngagementFactors struct {
	HasCallToAction bool `json:"has_call_to_action"`
	HasQuestion     bool `json:"has_question"`
	HasEmoji        bool `json:"has_emoji"`
	HasHashtags     bool `json:"has_hashtags"`
	HasNumbers      bool `json:"has_numbers"`
	HasURL          bool `json:"has_url"`
	OptimalLength   bool `json:"optimal_length"`
}

// Engagement holds the engagement score and its factors
type Engagement struct {
	Score   int               `json:"score"` // 0-100
	Factors EngagementFactors `json:"factors"`
}

// Variation buckets the spread of paragraph lengths
type Variation string

const (
	VariationLow    Variation = "Low"
	VariationMedium Variation = "Medium"
	VariationHigh   Variation = "High"
)

// Structure describes the paragraph layout of the text
type Structure struct {
	HasIntro                 bool      `json:"has_intro"`
	HasBody                  bool      `json:"has_body"`
	HasConclusion            bool      `json:"has_conclusion"`
	ParagraphLengthVariation Variation `json:"paragraph_length_variation"`
}

// Rating is the overall quality bucket
type Rating string

const (
	RatingPoor      Rating = "Poor"
	RatingFair      Rating = "Fair"
	RatingGood      Rating = "Good"
	RatingExcellent Rating = "Excellent"
)

// ImprovementCategory orders improvements by urgency
type ImprovementCategory string

const (
	CategoryCritical  ImprovementCategory = "Critical"
	CategoryImportant ImprovementCategory = "Important"
	CategoryOptional  ImprovementCategory = "Optional"
)

// ImprovementType names the aspect an improvement addresses
type ImprovementType string

const (
	TypeReadability ImprovementType = "Readability"
	TypeEngagement  ImprovementType = "Engagement"
	TypeSEO         ImprovementType = "SEO"
	TypeStructure   ImprovementType = "Structure"
	TypeTone        ImprovementType = "Tone"
)

// Impact is the expected effect of applying an improvement
type Impact string

const (
	ImpactLow    Impact = "Low"
	ImpactMedium Impact = "Medium"
	ImpactHigh   Impact = "High"
)

// ContentSuggestions is the advice derived from a ContentAnalysis
type ContentSuggestions struct {
	Overall       OverallScore   `json:"overall"`
	Improvements  []Improvement  `json:"improvements"`
	Strengths     []string       `json:"strengths"`
	Hashtags      HashtagAdvice  `json:"hashtags"`
	CallToAction  CallToAction   `json:"call_to_action"`
	Optimizations []Optimization `json:"optimizations"`
}

// OverallScore combines readability, engagement and sentiment
type OverallScore struct {
	Score  int    `json:"score"`
	Rating Rating `json:"rating"`
}

// Improvement is a single actionable recommendation
type Improvement struct {
	Category   ImprovementCategory `json:"category"`
	Type       ImprovementType     `json:"type"`
	Suggestion string              `json:"suggestion"`
	Impact     Impact              `json:"impact"`
}

// HashtagAdvice lists hashtags to add
type HashtagAdvice struct {
	Recommended []string `json:"recommended"`
	Trendy      []string `json:"trendy"`
}

// CallToAction reports whether a call to action was found and offers
// templates when it was not
type CallToAction struct {
	Detected    bool     `json:"detected"`
	Suggestions []string `json:"suggestions"`
}

// Optimization is a before/after rewriting example
type Optimization struct {
	Title  string `json:"title"`
	Before string `json:"before"`
	After  string `json:"after"`
	Reason string `json:"reason"`
}

// FileType is the coarse kind of an uploaded file
type FileType string

const (
	FileTypePDF     FileType = "pdf"
	FileTypeImage   FileType = "image"
	FileTypeUnknown FileType = "unknown"
)

// UploadedFile describes a file staged on disk for extraction
type UploadedFile struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	Filename     string    `json:"filename"`
	Path         string    `json:"-"`
	Size         int64     `json:"size"`
	MIMEType     string    `json:"mime_type"`
	FileType     FileType  `json:"file_type"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// JobStatus is the lifecycle state of a processing job
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Terminal reports whether no further transitions are expected
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// JobType is the extraction strategy used by a job
type JobType string

const (
	JobTypePDF JobType = "pdf"
	JobTypeOCR JobType = "ocr"
)

// JobTypeFor maps a file type to the extraction strategy that handles it
func JobTypeFor(ft FileType) JobType {
	if ft == FileTypePDF {
		return JobTypePDF
	}
	return JobTypeOCR
}

// Job tracks the asynchronous extraction and analysis of one uploaded file
type Job struct {
	ID        string     `json:"id"`
	FileID    string     `json:"file_id"`
	FilePath  string     `json:"-"`
	Status    JobStatus  `json:"status"`
	Type      JobType    `json:"type"`
	Result    *JobResult `json:"result,omitempty"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// JobResult is attached to a job once it completes
type JobResult struct {
	Text        string              `json:"text"`
	Metadata    ExtractionMetadata  `json:"metadata"`
	Analysis    *ContentAnalysis    `json:"analysis,omitempty"`
	Suggestions *ContentSuggestions `json:"suggestions,omitempty"`
}

// ExtractionMetadata carries extractor-specific details. Confidence is the
// OCR engine's 0-100 score and stays nil when the engine reports none.
type ExtractionMetadata struct {
	Pages      int      `json:"pages,omitempty"`
	Title      string   `json:"title,omitempty"`
	Author     string   `json:"author,omitempty"`
	Language   string   `json:"language,omitempty"`
	Blocks     int      `json:"blocks,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}
