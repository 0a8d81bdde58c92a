package essay

import "sort"

// Fallback scoring bounds.
const (
	FallbackMinScore = 50
	FallbackMaxScore = 90

	fallbackWordsPerPoint = 25
)

// FallbackComment is the comment given to every category in fallback mode.
const FallbackComment = "Provisional score from automated length analysis; detailed examiner review was unavailable."

var fallbackSuggestions = []string{
	"Ensure the essay has a clear introduction, body and conclusion.",
	"State your thesis explicitly in the opening paragraph.",
	"Support each argument with evidence, examples or data.",
	"Proofread for grammar, spelling and punctuation before submitting.",
}

// FallbackAnalyze grades an essay without a model. The total depends on word count
// alone and is shared across the categories in proportion to their maxima, so no
// category is judged on its own. It is deterministic and cannot fail.
func FallbackAnalyze(essayText string) EvaluationResult {
	text := Normalize(essayText)
	total := fallbackTotal(CountWords(text))

	return EvaluationResult{
		CorrectedText: text,
		Mistakes:      []Mistake{},
		Suggestions:   append([]string(nil), fallbackSuggestions...),
		Categories:    proportionalScorecard(total, FallbackComment),
		TotalScore:    total,
		IsOutlineOnly: false,
		ExaminerRemarks: ExaminerRemarks{
			Strengths: []string{
				"The essay was submitted within the accepted length.",
			},
			Weaknesses: []string{
				"A detailed examiner review could not be completed for this submission.",
			},
			Suggestions: []string{
				"Ensure a clear introduction, body and conclusion.",
				"Prepare a structured outline before writing.",
				"Resubmit later for a full rubric-based evaluation.",
			},
		},
		Source: SourceFallback,
	}
}

func fallbackTotal(words int) int {
	total := FallbackMinScore + words/fallbackWordsPerPoint
	if total > FallbackMaxScore {
		return FallbackMaxScore
	}
	return total
}

// proportionalScorecard splits total across the categories by their maxima using the
// largest remainder method, so the category scores sum exactly to total.
func proportionalScorecard(total int, comment string) Scorecard {
	type share struct {
		category  Category
		remainder int
	}

	var card Scorecard
	shares := make([]share, 0, categoryCount)
	assigned := 0
	for _, c := range Categories() {
		exact := c.MaxScore() * total
		card[c] = CategoryScore{Score: exact / MaxTotalScore, Comment: comment}
		assigned += card[c].Score
		shares = append(shares, share{category: c, remainder: exact % MaxTotalScore})
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].remainder > shares[j].remainder
	})
	for i := 0; assigned < total && i < len(shares); i++ {
		c := shares[i].category
		if card[c].Score < c.MaxScore() {
			card[c].Score++
			assigned++
		}
	}
	return card
}
