package dto

import (
	"time"

	"github.com/noah-isme/cssprep-api/internal/models"
	"github.com/noah-isme/cssprep-api/pkg/essay"
)

// EssayEvaluationRequest is the payload submitted for grading. Length bounds are
// enforced in characters by the evaluator, not by byte-counting tags.
type EssayEvaluationRequest struct {
	Essay string `json:"essay" form:"essay" validate:"required"`
	IsPDF bool   `json:"is_pdf" form:"is_pdf"`
}

// MistakeResponse describes one correction found in the essay.
type MistakeResponse struct {
	Original    string `json:"original"`
	Correction  string `json:"correction"`
	Explanation string `json:"explanation"`
}

// CategoryScoreResponse is the score and comment for a rubric category.
type CategoryScoreResponse struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// EvaluationBreakdown holds the eight rubric categories.
type EvaluationBreakdown struct {
	ThesisStatement  CategoryScoreResponse `json:"thesisStatement"`
	Outline          CategoryScoreResponse `json:"outline"`
	Structure        CategoryScoreResponse `json:"structure"`
	Content          CategoryScoreResponse `json:"content"`
	Language         CategoryScoreResponse `json:"language"`
	CriticalThinking CategoryScoreResponse `json:"criticalThinking"`
	Conclusion       CategoryScoreResponse `json:"conclusion"`
	WordCount        CategoryScoreResponse `json:"wordCount"`
}

// ExaminerRemarksResponse groups the narrative feedback.
type ExaminerRemarksResponse struct {
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
}

// EssayEvaluationResponse is the evaluation shape consumed by the web client. Score and
// TotalMarks always carry the same value.
type EssayEvaluationResponse struct {
	CorrectedText   string                  `json:"corrected_text"`
	Mistakes        []MistakeResponse       `json:"mistakes"`
	Suggestions     []string                `json:"suggestions"`
	Score           int                     `json:"score"`
	Evaluation      EvaluationBreakdown     `json:"evaluation"`
	TotalMarks      int                     `json:"totalMarks"`
	IsOutlineOnly   bool                    `json:"isOutlineOnly"`
	ExaminerRemarks ExaminerRemarksResponse `json:"examinerRemarks"`
}

// EssayResponse represents a stored essay and its evaluation.
type EssayResponse struct {
	ID            uint                    `json:"id"`
	UserID        uint                    `json:"user_id"`
	Kind          string                  `json:"kind"`
	WordCount     int                     `json:"word_count"`
	Source        string                  `json:"source"`
	RubricVersion string                  `json:"rubric_version"`
	CreatedAt     time.Time               `json:"created_at"`
	Result        EssayEvaluationResponse `json:"result"`
}

// EssaySummaryResponse is the compact listing form of an essay.
type EssaySummaryResponse struct {
	ID            uint      `json:"id"`
	UserID        uint      `json:"user_id"`
	Kind          string    `json:"kind"`
	WordCount     int       `json:"word_count"`
	TotalMarks    int       `json:"totalMarks"`
	IsOutlineOnly bool      `json:"isOutlineOnly"`
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"created_at"`
}

// EssayListResponse wraps a page of essay summaries.
type EssayListResponse struct {
	Items      []EssaySummaryResponse `json:"items"`
	Pagination PaginationMeta         `json:"pagination"`
}

// PaginationMeta describes the current page of a listing.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginationMeta computes paging metadata.
func NewPaginationMeta(page, pageSize int, total int64) PaginationMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return PaginationMeta{Page: page, PageSize: pageSize, TotalItems: total, TotalPages: totalPages}
}

// NewEssayEvaluationResponse converts a pipeline result into the client shape.
func NewEssayEvaluationResponse(result essay.EvaluationResult) EssayEvaluationResponse {
	mistakes := make([]MistakeResponse, 0, len(result.Mistakes))
	for _, m := range result.Mistakes {
		mistakes = append(mistakes, MistakeResponse{
			Original:    m.Original,
			Correction:  m.Correction,
			Explanation: m.Explanation,
		})
	}

	category := func(c essay.Category) CategoryScoreResponse {
		entry := result.Categories.Get(c)
		return CategoryScoreResponse{Score: entry.Score, Comment: entry.Comment}
	}

	return EssayEvaluationResponse{
		CorrectedText: result.CorrectedText,
		Mistakes:      mistakes,
		Suggestions:   nonNil(result.Suggestions),
		Score:         result.TotalScore,
		Evaluation: EvaluationBreakdown{
			ThesisStatement:  category(essay.ThesisStatement),
			Outline:          category(essay.Outline),
			Structure:        category(essay.Structure),
			Content:          category(essay.Content),
			Language:         category(essay.Language),
			CriticalThinking: category(essay.CriticalThinking),
			Conclusion:       category(essay.Conclusion),
			WordCount:        category(essay.WordCount),
		},
		TotalMarks:    result.TotalScore,
		IsOutlineOnly: result.IsOutlineOnly,
		ExaminerRemarks: ExaminerRemarksResponse{
			Strengths:   nonNil(result.ExaminerRemarks.Strengths),
			Weaknesses:  nonNil(result.ExaminerRemarks.Weaknesses),
			Suggestions: nonNil(result.ExaminerRemarks.Suggestions),
		},
	}
}

// NewEssaySummaryResponse builds the listing form of a stored essay.
func NewEssaySummaryResponse(e models.Essay) EssaySummaryResponse {
	return EssaySummaryResponse{
		ID:            e.ID,
		UserID:        e.UserID,
		Kind:          e.Kind,
		WordCount:     e.WordCount,
		TotalMarks:    e.TotalMarks,
		IsOutlineOnly: e.IsOutlineOnly,
		Source:        e.Source,
		CreatedAt:     e.CreatedAt,
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
