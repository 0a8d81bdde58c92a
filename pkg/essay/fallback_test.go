package essay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFallbackTotalScalesWithWordCount(t *testing.T) {
	require.Equal(t, 50, fallbackTotal(0))
	require.Equal(t, 50, fallbackTotal(24))
	require.Equal(t, 54, fallbackTotal(100))
	require.Equal(t, 90, fallbackTotal(1000))
	require.Equal(t, 90, fallbackTotal(50000))
}

func TestFallbackAnalyzeIsBoundedAndConsistent(t *testing.T) {
	for _, length := range []int{MinEssayLength, 600, 2500, 8000, MaxEssayLength} {
		essay := sampleEssay(length)
		result := FallbackAnalyze(essay)

		require.Equal(t, SourceFallback, result.Source)
		require.False(t, result.IsOutlineOnly)
		require.GreaterOrEqual(t, result.TotalScore, FallbackMinScore)
		require.LessOrEqual(t, result.TotalScore, FallbackMaxScore)
		require.Equal(t, result.TotalScore, result.Categories.Total())
		require.NotEmpty(t, result.ExaminerRemarks.Suggestions)
		require.NotNil(t, result.Mistakes)
		requireWithinBounds(t, result)

		for _, c := range Categories() {
			require.Equal(t, FallbackComment, result.Categories.Get(c).Comment)
		}
	}
}

func TestFallbackAnalyzeIsDeterministic(t *testing.T) {
	essay := sampleEssay(3000)
	require.Equal(t, FallbackAnalyze(essay), FallbackAnalyze(essay))
}

func TestFallbackLongerEssaysScoreHigher(t *testing.T) {
	short := FallbackAnalyze(sampleEssay(200))
	long := FallbackAnalyze(sampleEssay(5000))
	require.Greater(t, long.TotalScore, short.TotalScore)
}

func TestFallbackRemarksAreTopicIndependent(t *testing.T) {
	first := FallbackAnalyze(sampleEssay(500))
	second := FallbackAnalyze(strings.Repeat("Democracy and accountability in South Asia. ", 20))
	require.Equal(t, first.ExaminerRemarks, second.ExaminerRemarks)
	require.Equal(t, first.Suggestions, second.Suggestions)
}

func TestProportionalScorecardSumsExactly(t *testing.T) {
	for total := 0; total <= MaxTotalScore; total++ {
		card := proportionalScorecard(total, "x")
		require.Equal(t, total, card.Total(), "total %d", total)
		for _, c := range Categories() {
			require.LessOrEqual(t, card.Get(c).Score, c.MaxScore())
		}
	}
}
