// Package essay grades CSS-exam essays against a fixed eight-category rubric using a
// generative model, degrading to a deterministic heuristic when the model cannot be
// used.
package essay

// RubricVersion identifies the scoring schema shared by the prompt and the parser.
const RubricVersion = "css-essay-2024.1"

// MaxTotalScore is the sum of every category maximum.
const MaxTotalScore = 100

// Category is one of the fixed rubric dimensions.
type Category int

// Rubric categories, in prompt and display order.
const (
	ThesisStatement Category = iota
	Outline
	Structure
	Content
	Language
	CriticalThinking
	Conclusion
	WordCount

	categoryCount
)

type categoryDef struct {
	key   string
	label string
	max   int
	focus string
}

var rubric = [categoryCount]categoryDef{
	ThesisStatement:  {key: "thesisStatement", label: "Thesis Statement", max: 10, focus: "clear, arguable and relevant to the topic"},
	Outline:          {key: "outline", label: "Outline", max: 10, focus: "logical, comprehensive and aligned with the thesis"},
	Structure:        {key: "structure", label: "Structure & Organization", max: 15, focus: "introduction, body and conclusion with coherent transitions"},
	Content:          {key: "content", label: "Content & Arguments", max: 20, focus: "depth, evidence, examples and relevance"},
	Language:         {key: "language", label: "Language & Expression", max: 15, focus: "grammar, vocabulary, clarity and style"},
	CriticalThinking: {key: "criticalThinking", label: "Critical Thinking", max: 5, focus: "analysis, counter-arguments and original insight"},
	Conclusion:       {key: "conclusion", label: "Conclusion", max: 10, focus: "summarizes the argument and closes convincingly"},
	WordCount:        {key: "wordCount", label: "Word Count & Length", max: 15, focus: "meets the expected length of a CSS essay"},
}

// Categories lists every rubric category in order.
func Categories() []Category {
	out := make([]Category, 0, categoryCount)
	for c := Category(0); c < categoryCount; c++ {
		out = append(out, c)
	}
	return out
}

// Key returns the JSON key used for the category in prompts and responses.
func (c Category) Key() string {
	if !c.valid() {
		return ""
	}
	return rubric[c].key
}

// Label returns a human readable category name.
func (c Category) Label() string {
	if !c.valid() {
		return ""
	}
	return rubric[c].label
}

// MaxScore returns the maximum points the category can award.
func (c Category) MaxScore() int {
	if !c.valid() {
		return 0
	}
	return rubric[c].max
}

func (c Category) String() string {
	return c.Key()
}

func (c Category) valid() bool {
	return c >= 0 && c < categoryCount
}

// CategoryScore is the awarded score and examiner comment for one category.
type CategoryScore struct {
	Score   int
	Comment string
}

// Scorecard holds exactly one score per rubric category.
type Scorecard [categoryCount]CategoryScore

// Get returns the score for the category.
func (s Scorecard) Get(c Category) CategoryScore {
	if !c.valid() {
		return CategoryScore{}
	}
	return s[c]
}

// Total sums every category score.
func (s Scorecard) Total() int {
	total := 0
	for _, entry := range s {
		total += entry.Score
	}
	return total
}

// clampScore bounds score to [0, max] for the category.
func clampScore(c Category, score int) int {
	if score < 0 {
		return 0
	}
	if limit := c.MaxScore(); score > limit {
		return limit
	}
	return score
}
