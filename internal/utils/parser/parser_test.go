package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirectJSONArray(t *testing.T) {
	qs, err := ParseQuestionList(`["What is Go?", "Explain channels."]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"What is Go?", "Explain channels."}, qs)
}

func TestParseFencedJSONArray(t *testing.T) {
	raw := "```json\n[\"Q1?\", \"Q2?\"]\n```"
	qs, err := ParseQuestionList(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1?", "Q2?"}, qs)
}

func TestParseArrayWrappedInCommentary(t *testing.T) {
	raw := `Here are your questions: ["Q1?", "Q2?"] hope they help!`
	qs, err := ParseQuestionList(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1?", "Q2?"}, qs)
}

func TestParseFallsBackToLineHeuristic(t *testing.T) {
	raw := `Sure, here you go:
1. What is a goroutine and when would you use one?
2) "How does the garbage collector work?"
short
- this line has no question mark and no numbering
3. Describe a race condition you have debugged.`

	qs, err := ParseQuestionList(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"What is a goroutine and when would you use one?",
		"How does the garbage collector work?",
		"Describe a race condition you have debugged.",
	}, qs)
}

func TestParseNothingUsable(t *testing.T) {
	_, err := ParseQuestionList("I cannot help with that.")
	assert.Error(t, err)
}

func TestSplitQuestionLinesFiltersShortLines(t *testing.T) {
	assert.Empty(t, SplitQuestionLines("hi?\nok"))
}

func TestDefaultQuestions(t *testing.T) {
	qs := DefaultQuestions("Backend Engineer", "junior", []string{"Go", "Postgres"}, 3)
	require.Len(t, qs, 3)
	assert.Contains(t, qs[0], "Go")
	assert.Contains(t, qs[1], "Backend Engineer")
	for _, q := range qs {
		assert.NotEmpty(t, q)
	}
}

func TestDefaultQuestionsEmptyStack(t *testing.T) {
	qs := DefaultQuestions("Developer", "junior", nil, 5)
	require.Len(t, qs, 5)
	assert.Contains(t, qs[0], "programming")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, []string{"a"}, Truncate([]string{"a", "b"}, 1))
	assert.Equal(t, []string{"a", "b"}, Truncate([]string{"a", "b"}, 5))
	assert.Equal(t, []string{"a", "b"}, Truncate([]string{"a", "b"}, 0))
}
