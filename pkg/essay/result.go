package essay

import "errors"

var (
	// ErrInputOutOfRange indicates the essay is shorter or longer than the accepted bounds.
	ErrInputOutOfRange = errors.New("essay length out of range")

	// ErrMalformedResponse indicates the model answered with text that cannot be
	// coerced into an evaluation.
	ErrMalformedResponse = errors.New("malformed ai response")
)

// Source records which path produced an evaluation.
type Source string

// Evaluation sources.
const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// Mistake is a single correction found in the essay.
type Mistake struct {
	Original    string
	Correction  string
	Explanation string
}

// ExaminerRemarks groups the examiner's narrative feedback.
type ExaminerRemarks struct {
	Strengths   []string
	Weaknesses  []string
	Suggestions []string
}

// EvaluationResult is the graded outcome of one essay. Values are built fresh per
// evaluation and treated as immutable afterwards.
type EvaluationResult struct {
	CorrectedText   string
	Mistakes        []Mistake
	Suggestions     []string
	Categories      Scorecard
	TotalScore      int
	IsOutlineOnly   bool
	ExaminerRemarks ExaminerRemarks
	Source          Source
}

func (r EvaluationResult) clone() EvaluationResult {
	out := r
	out.Mistakes = append([]Mistake(nil), r.Mistakes...)
	out.Suggestions = append([]string(nil), r.Suggestions...)
	out.ExaminerRemarks = ExaminerRemarks{
		Strengths:   append([]string(nil), r.ExaminerRemarks.Strengths...),
		Weaknesses:  append([]string(nil), r.ExaminerRemarks.Weaknesses...),
		Suggestions: append([]string(nil), r.ExaminerRemarks.Suggestions...),
	}
	return out
}
