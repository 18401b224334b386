package analyzer

// Word lists are matched against lowercased text.

var positiveWords = []string{
	"good", "great", "excellent", "amazing", "wonderful", "fantastic",
	"love", "best", "awesome", "perfect", "happy", "success", "win",
	"beautiful", "brilliant", "exciting", "enjoy", "delighted",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "horrible", "worst", "hate", "poor",
	"fail", "failure", "disappointed", "wrong", "problem", "issue",
	"difficult", "hard", "sad", "angry", "frustrating",
}

var stopWords = getStopWords()

// getStopWords returns the function words ignored by keyword extraction
func getStopWords() map[string]bool {
	words := []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
		"of", "with", "by", "from", "as", "is", "was", "are", "be", "been",
		"have", "has", "had", "do", "does", "did", "will", "would", "should",
		"can", "could", "may", "might", "must", "this", "that", "these", "those",
	}

	set := make(map[string]bool, len(words))
	for _, word := range words {
		set[word] = true
	}
	return set
}
