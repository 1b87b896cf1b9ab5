package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validQuizJSON = `{
	"questions": [
		{
			"question_number": 1,
			"question_text": "What is the index of the first element of an array?",
			"options": {"A": "0", "B": "1", "C": "-1", "D": "depends"},
			"correct_answer": "A",
			"difficulty": "easy",
			"concept": "indexing",
			"explanation": "Arrays are zero-indexed."
		},
		{
			"question_number": 2,
			"question_text": "What is the cost of accessing an element by index?",
			"options": {"A": "O(n)", "B": "O(1)", "C": "O(log n)", "D": "O(n^2)"},
			"correct_answer": "B",
			"difficulty": "medium",
			"concept": "complexity",
			"explanation": "Index access is constant time."
		}
	]
}`

func TestParseQuizResponsePlainJSON(t *testing.T) {
	drafts, err := ParseQuizResponse(validQuizJSON, "arrays")
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, 1, drafts[0].QuestionNumber)
	assert.Equal(t, "A", drafts[0].CorrectAnswer)
	assert.Equal(t, "easy", drafts[0].Difficulty)
	assert.Equal(t, "indexing", drafts[0].Concept)
	assert.Equal(t, "O(1)", drafts[1].Options["B"])
}

func TestParseQuizResponseStripsCodeFence(t *testing.T) {
	fenced := "```json\n" + validQuizJSON + "\n```"
	drafts, err := ParseQuizResponse(fenced, "arrays")
	require.NoError(t, err)
	assert.Len(t, drafts, 2)

	bare := "```\n" + validQuizJSON + "\n```"
	drafts, err = ParseQuizResponse(bare, "arrays")
	require.NoError(t, err)
	assert.Len(t, drafts, 2)
}

func TestParseQuizResponseFenceWithoutNewline(t *testing.T) {
	// Some models glue the payload straight onto the fence marker.
	inline := "```json" + validQuizJSON + "```"
	drafts, err := ParseQuizResponse(inline, "arrays")
	require.NoError(t, err)
	assert.Len(t, drafts, 2)

	bareInline := "```" + validQuizJSON + "```"
	drafts, err = ParseQuizResponse(bareInline, "arrays")
	require.NoError(t, err)
	assert.Len(t, drafts, 2)
}

func TestParseQuizResponseMalformedJSON(t *testing.T) {
	_, err := ParseQuizResponse("this is not json", "arrays")
	assert.ErrorIs(t, err, ErrInvalidQuizResponse)
}

func TestParseQuizResponseMissingQuestionsKey(t *testing.T) {
	_, err := ParseQuizResponse(`{"items": []}`, "arrays")
	assert.ErrorIs(t, err, ErrInvalidQuizResponse)

	_, err = ParseQuizResponse(`{"questions": []}`, "arrays")
	assert.ErrorIs(t, err, ErrInvalidQuizResponse)
}

func TestParseQuizResponseAppliesDefaults(t *testing.T) {
	raw := `{
		"questions": [
			{
				"question_text": "Which structure is LIFO?",
				"options": {"A": "Queue", "B": "Stack"},
				"correct_answer": "B"
			}
		]
	}`

	drafts, err := ParseQuizResponse(raw, "stacks")
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	assert.Equal(t, 1, drafts[0].QuestionNumber)
	assert.Equal(t, "medium", drafts[0].Difficulty)
	assert.Equal(t, "stacks", drafts[0].Concept)
	assert.Equal(t, "", drafts[0].Explanation)
}

func TestParseQuizResponseSortsAndRenumbers(t *testing.T) {
	raw := `{
		"questions": [
			{"question_number": 7, "question_text": "q-last", "options": {"A": "x", "B": "y"}, "correct_answer": "A"},
			{"question_number": 2, "question_text": "q-mid", "options": {"A": "x", "B": "y"}, "correct_answer": "A"},
			{"question_number": 1, "question_text": "q-first", "options": {"A": "x", "B": "y"}, "correct_answer": "A"}
		]
	}`

	drafts, err := ParseQuizResponse(raw, "arrays")
	require.NoError(t, err)
	require.Len(t, drafts, 3)

	assert.Equal(t, "q-first", drafts[0].QuestionText)
	assert.Equal(t, "q-mid", drafts[1].QuestionText)
	assert.Equal(t, "q-last", drafts[2].QuestionText)
	for i, d := range drafts {
		assert.Equal(t, i+1, d.QuestionNumber)
	}
}

func TestParseQuizResponseRequiredFields(t *testing.T) {
	missingText := `{"questions": [{"options": {"A": "x", "B": "y"}, "correct_answer": "A"}]}`
	_, err := ParseQuizResponse(missingText, "arrays")
	assert.ErrorIs(t, err, ErrInvalidQuizResponse)

	missingOptions := `{"questions": [{"question_text": "q", "correct_answer": "A"}]}`
	_, err = ParseQuizResponse(missingOptions, "arrays")
	assert.ErrorIs(t, err, ErrInvalidQuizResponse)

	oneOption := `{"questions": [{"question_text": "q", "options": {"A": "x"}, "correct_answer": "A"}]}`
	_, err = ParseQuizResponse(oneOption, "arrays")
	assert.ErrorIs(t, err, ErrInvalidQuizResponse)

	missingAnswer := `{"questions": [{"question_text": "q", "options": {"A": "x", "B": "y"}}]}`
	_, err = ParseQuizResponse(missingAnswer, "arrays")
	assert.ErrorIs(t, err, ErrInvalidQuizResponse)

	answerNotAnOption := `{"questions": [{"question_text": "q", "options": {"A": "x", "B": "y"}, "correct_answer": "E"}]}`
	_, err = ParseQuizResponse(answerNotAnOption, "arrays")
	assert.ErrorIs(t, err, ErrInvalidQuizResponse)
}
