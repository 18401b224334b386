package suggest

import "github.com/zombar/contentanalyzer/internal/models"

// TrendyHashtags are general-purpose tags offered with every report
var TrendyHashtags = []string{
	"#SocialMedia",
	"#ContentMarketing",
	"#DigitalMarketing",
	"#Engagement",
	"#Marketing",
}

// callToActionTemplates are offered, first three only, when the text has
// no call to action of its own.
var callToActionTemplates = []string{
	"What do you think? Share your thoughts in the comments!",
	"Click the link to learn more about this topic.",
	"Follow us for more insights like this!",
	"Tag someone who needs to see this!",
	"Double tap if you agree! ❤️",
	"Save this post for later reference.",
	"Share this with your network!",
	"Join the conversation - comment below!",
}

var (
	longSentenceExample = models.Optimization{
		Title:  "Break down long sentences",
		Before: "Long sentences with multiple clauses",
		After:  "Short, punchy sentences. One idea per sentence.",
		Reason: "Improves readability and keeps readers engaged",
	}
	powerWordsExample = models.Optimization{
		Title:  "Use power words",
		Before: "Good information about the product",
		After:  "Amazing insights that transform your strategy",
		Reason: "Power words create emotional connection and drive action",
	}
	numbersExample = models.Optimization{
		Title:  "Include specific numbers",
		Before: "Many people use this method",
		After:  "87% of successful marketers use this proven method",
		Reason: "Numbers add credibility and attract attention",
	}
)

var categoryRank = map[models.ImprovementCategory]int{
	models.CategoryCritical:  0,
	models.CategoryImportant: 1,
	models.CategoryOptional:  2,
}
