package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidQuizResponse is returned when the model's output cannot be
// turned into a usable question set.
var ErrInvalidQuizResponse = errors.New("invalid quiz response from model")

// QuestionDraft is one normalized question parsed from the model's output,
// before it is persisted.
type QuestionDraft struct {
	QuestionNumber int               `json:"question_number"`
	QuestionText   string            `json:"question_text"`
	Options        map[string]string `json:"options"`
	CorrectAnswer  string            `json:"correct_answer"`
	Difficulty     string            `json:"difficulty"`
	Concept        string            `json:"concept"`
	Explanation    string            `json:"explanation"`
}

// stripCodeFence removes a surrounding markdown code fence, with or
// without a language tag, whether or not the payload starts on the fence
// line. Models frequently wrap JSON this way.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseQuizResponse parses the model's free-text reply into an ordered,
// validated question set.
//
// question_number, difficulty, concept and explanation are optional per
// question and default to the position index, "medium", the topic and ""
// respectively. question_text, options and correct_answer are required.
// The result is sorted by the supplied question_number and then renumbered
// densely from 1, so the stored sequence is always 1..N.
func ParseQuizResponse(raw, topic string) ([]QuestionDraft, error) {
	var payload struct {
		Questions []QuestionDraft `json:"questions"`
	}

	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuizResponse, err)
	}
	if len(payload.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions in response", ErrInvalidQuizResponse)
	}

	drafts := payload.Questions
	for i := range drafts {
		q := &drafts[i]

		if q.QuestionText == "" {
			return nil, fmt.Errorf("%w: question %d has no question_text", ErrInvalidQuizResponse, i+1)
		}
		if len(q.Options) < 2 {
			return nil, fmt.Errorf("%w: question %d needs at least two options", ErrInvalidQuizResponse, i+1)
		}
		if q.CorrectAnswer == "" {
			return nil, fmt.Errorf("%w: question %d has no correct_answer", ErrInvalidQuizResponse, i+1)
		}
		if _, ok := q.Options[q.CorrectAnswer]; !ok {
			return nil, fmt.Errorf("%w: question %d correct_answer %q is not an option", ErrInvalidQuizResponse, i+1, q.CorrectAnswer)
		}

		if q.QuestionNumber == 0 {
			q.QuestionNumber = i + 1
		}
		if q.Difficulty == "" {
			q.Difficulty = "medium"
		}
		if q.Concept == "" {
			q.Concept = topic
		}
	}

	sort.SliceStable(drafts, func(i, j int) bool {
		return drafts[i].QuestionNumber < drafts[j].QuestionNumber
	})

	// Renumber so duplicates or gaps from the model can never leak into
	// the stored 1..N sequence.
	for i := range drafts {
		drafts[i].QuestionNumber = i + 1
	}

	return drafts, nil
}
