package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genai-tutor/backend/handlers"
	"github.com/genai-tutor/backend/routes"
	"github.com/genai-tutor/backend/services"
)

type fakeChat struct {
	content string
}

func (f *fakeChat) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func newTestApp(modelReply string) *fiber.App {
	handlers.SetAITutor(services.NewAITutorWithClient(&fakeChat{content: modelReply}, "test-model"))

	app := fiber.New()
	routes.LearningRoutes(app)
	routes.ProfileRoutes(app)
	routes.QuizRoutes(app)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (int, map[string]any) {
	t.Helper()
	return sendJSON(t, app, "POST", path, body)
}

func putJSON(t *testing.T, app *fiber.App, path string, body any) (int, map[string]any) {
	t.Helper()
	return sendJSON(t, app, "PUT", path, body)
}

func sendJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func TestGetGreeting(t *testing.T) {
	app := newTestApp("Hi Alex, great to see you!")

	status, body := postJSON(t, app, "/api/learning/greeting", map[string]any{
		"student_name": "Alex",
		"level":        "beginner",
	})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Hi Alex, great to see you!", body["greeting"])
	assert.Equal(t, "Alex", body["student_name"])
}

func TestGetGreetingRejectsUnknownLevel(t *testing.T) {
	app := newTestApp("unused")

	status, body := postJSON(t, app, "/api/learning/greeting", map[string]any{
		"student_name": "Alex",
		"level":        "wizard",
	})

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.NotEmpty(t, body["error"])
}

func TestExplainTopicAnonymous(t *testing.T) {
	app := newTestApp("Arrays are contiguous blocks of memory.")

	status, body := postJSON(t, app, "/api/learning/explain", map[string]any{
		"topic": "arrays",
		"level": "beginner",
	})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "arrays", body["topic"])
	assert.Equal(t, "Arrays are contiguous blocks of memory.", body["explanation"])
	assert.Equal(t, float64(1), body["estimated_reading_time"])
}

func TestGetPracticeQuestionsDefaultsCount(t *testing.T) {
	app := newTestApp("1. What is an array? Hint: think of boxes in a row.")

	status, body := postJSON(t, app, "/api/learning/practice", map[string]any{
		"topic": "arrays",
		"level": "beginner",
	})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(3), body["count"])
	assert.NotEmpty(t, body["questions"])
}

func TestGetPracticeQuestionsRejectsTooMany(t *testing.T) {
	app := newTestApp("unused")

	status, _ := postJSON(t, app, "/api/learning/practice", map[string]any{
		"topic":         "arrays",
		"level":         "beginner",
		"num_questions": 9,
	})

	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestGenerateQuizRequestValidation(t *testing.T) {
	app := newTestApp("unused")

	// Count outside [3,10] fails before anything else runs.
	status, _ := postJSON(t, app, "/api/quiz/generate", map[string]any{
		"username":      "anshita",
		"topic":         "arrays",
		"level":         "beginner",
		"num_questions": 2,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = postJSON(t, app, "/api/quiz/generate", map[string]any{
		"username": "anshita",
		"topic":    "arrays",
		"level":    "expert",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestSubmitQuizRequestValidation(t *testing.T) {
	app := newTestApp("unused")

	status, _ := postJSON(t, app, "/api/quiz/submit", map[string]any{
		"answers":    map[string]string{"0": "A"},
		"time_taken": 30,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = postJSON(t, app, "/api/quiz/submit", map[string]any{
		"quiz_session_id": "not-a-uuid",
		"answers":         map[string]string{"0": "A"},
		"time_taken":      30,
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}
