package essay

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRubricKeysAndMaxima(t *testing.T) {
	expected := []struct {
		key string
		max int
	}{
		{"thesisStatement", 10},
		{"outline", 10},
		{"structure", 15},
		{"content", 20},
		{"language", 15},
		{"criticalThinking", 5},
		{"conclusion", 10},
		{"wordCount", 15},
	}

	cats := Categories()
	require.Len(t, cats, len(expected))

	sum := 0
	for i, c := range cats {
		require.Equal(t, expected[i].key, c.Key())
		require.Equal(t, expected[i].max, c.MaxScore())
		require.NotEmpty(t, c.Label())
		sum += c.MaxScore()
	}
	require.Equal(t, MaxTotalScore, sum)
}

func TestCategoryOutOfRangeIsInert(t *testing.T) {
	invalid := Category(42)
	require.Empty(t, invalid.Key())
	require.Zero(t, invalid.MaxScore())

	var card Scorecard
	require.Equal(t, CategoryScore{}, card.Get(invalid))
}

func TestClampScore(t *testing.T) {
	require.Equal(t, 0, clampScore(Content, -3))
	require.Equal(t, 12, clampScore(Content, 12))
	require.Equal(t, 20, clampScore(Content, 999))
	require.Equal(t, 5, clampScore(CriticalThinking, 6))
}
