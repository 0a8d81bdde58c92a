package essay

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleParagraph = "Climate change is the defining challenge of our era, and Pakistan stands on its front line. "

// sampleEssay returns an essay of at least n characters.
func sampleEssay(n int) string {
	builder := strings.Builder{}
	for builder.Len() < n {
		builder.WriteString(sampleParagraph)
	}
	return strings.TrimSpace(builder.String())
}

func typicalScores() map[string]int {
	return map[string]int{
		"thesisStatement":  8,
		"outline":          9,
		"structure":        13,
		"content":          17,
		"language":         13,
		"criticalThinking": 4,
		"conclusion":       8,
		"wordCount":        13,
	}
}

// aiResponse renders a model answer using the documented output shape.
func aiResponse(t *testing.T, scores map[string]int, mutate func(map[string]interface{})) string {
	t.Helper()

	evaluation := map[string]interface{}{}
	total := 0
	for key, score := range scores {
		evaluation[key] = map[string]interface{}{"score": score, "comment": key + " comment"}
		total += score
	}
	payload := map[string]interface{}{
		"corrected_text": "Corrected essay.",
		"mistakes": []map[string]string{
			{"original": "it's impact", "correction": "its impact", "explanation": "possessive"},
			{"original": "effect the economy", "correction": "affect the economy", "explanation": "verb"},
		},
		"suggestions":   []string{"Add data from the Economic Survey."},
		"score":         total,
		"evaluation":    evaluation,
		"totalMarks":    total,
		"isOutlineOnly": false,
		"examinerRemarks": map[string][]string{
			"strengths":   {"Clear thesis"},
			"weaknesses":  {"Thin evidence"},
			"suggestions": {"Cite sources"},
		},
	}
	if mutate != nil {
		mutate(payload)
	}

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return string(data)
}

type stubClient struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	reply   string
	err     error
	block   bool
}

func (s *stubClient) Invoke(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()

	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubClient) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func requireWithinBounds(t *testing.T, result EvaluationResult) {
	t.Helper()

	for _, c := range Categories() {
		score := result.Categories.Get(c).Score
		require.GreaterOrEqual(t, score, 0, c.Key())
		require.LessOrEqual(t, score, c.MaxScore(), c.Key())
	}
	require.GreaterOrEqual(t, result.TotalScore, 0)
	require.LessOrEqual(t, result.TotalScore, MaxTotalScore)
}

// exactEssay returns an essay of exactly n characters with no surrounding whitespace.
func exactEssay(n int) string {
	text := []byte(sampleEssay(n + len(sampleParagraph))[:n])
	if n > 0 && text[n-1] == ' ' {
		text[n-1] = '.'
	}
	return string(text)
}
