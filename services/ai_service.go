package services

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"
	defaultModel   = "llama-3.3-70b-versatile"
)

// ChatCompleter is the one capability the tutor needs from the upstream
// text-generation service. *openai.Client satisfies it; tests substitute
// a fake.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// AITutor talks to an OpenAI-compatible completion API (Groq) and turns
// tutoring prompts into text or structured quiz drafts.
type AITutor struct {
	client ChatCompleter
	model  string
}

func NewAITutor(apiKey, baseURL, model string) *AITutor {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	cfg.BaseURL = baseURL

	if model == "" {
		model = defaultModel
	}

	return &AITutor{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// NewAITutorWithClient wires an explicit client, used by tests.
func NewAITutorWithClient(client ChatCompleter, model string) *AITutor {
	if model == "" {
		model = defaultModel
	}
	return &AITutor{client: client, model: model}
}

func (t *AITutor) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       t.model,
		Temperature: 0.7,
		MaxTokens:   1000,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateGreeting produces a short personalized welcome for a student,
// with the tone adapted to their proficiency level.
func (t *AITutor) GenerateGreeting(ctx context.Context, studentName, level string) (string, error) {
	system := fmt.Sprintf(`You are a friendly and encouraging AI tutor named "TutorBot".

Your role:
- Welcome students warmly
- Be enthusiastic about learning
- Adapt your tone to their level
- Keep it brief (2-3 sentences)

Student Level: %s
- Beginner: Be extra encouraging, use simple language
- Intermediate: Be supportive, acknowledge their progress
- Advanced: Be respectful, challenge them appropriately`, level)

	return t.complete(ctx, system, fmt.Sprintf("Generate a greeting for %s", studentName))
}

// Explanation is the result of an ExplainTopic call.
type Explanation struct {
	Topic                string `json:"topic"`
	Level                string `json:"level"`
	Explanation          string `json:"explanation"`
	WordCount            int    `json:"word_count"`
	EstimatedReadingTime int    `json:"estimated_reading_time"`
	ModelUsed            string `json:"model_used"`
}

// ExplainTopic generates a level-appropriate explanation of a topic and
// computes reading stats (200 words per minute, minimum 1 minute).
func (t *AITutor) ExplainTopic(ctx context.Context, topic, level, learningStyle string) (*Explanation, error) {
	var complexity string
	switch level {
	case "beginner":
		complexity = "Use very simple language. Start with a real-world analogy. Avoid jargon."
	case "intermediate":
		complexity = "Use some technical terms but explain them. Assume basic programming knowledge."
	default:
		complexity = "Use technical language. Discuss edge cases and optimizations."
	}

	system := fmt.Sprintf(`You are an expert computer science tutor.

Topic: %s
Student Level: %s
Learning Style: %s

Instructions:
%s

Structure your explanation:
1. **Real-World Analogy** - Simple comparison
2. **What It Is** - Clear definition
3. **How It Works** - Step-by-step explanation
4. **Practical Example** - Code or scenario
5. **Key Points** - 3 important takeaways

Keep it concise but comprehensive (400-600 words).
Use markdown formatting for better readability.`, topic, level, learningStyle, complexity)

	explanation, err := t.complete(ctx, system, fmt.Sprintf("Explain %s to me.", topic))
	if err != nil {
		return nil, err
	}

	wordCount := len(strings.Fields(explanation))
	readingTime := wordCount / 200
	if readingTime < 1 {
		readingTime = 1
	}

	return &Explanation{
		Topic:                topic,
		Level:                level,
		Explanation:          explanation,
		WordCount:            wordCount,
		EstimatedReadingTime: readingTime,
		ModelUsed:            t.model,
	}, nil
}

// GeneratePracticeQuestions returns free-text practice questions with
// hints, formatted as a numbered list.
func (t *AITutor) GeneratePracticeQuestions(ctx context.Context, topic, level string, numQuestions int) (string, error) {
	system := fmt.Sprintf(`Generate %d practice questions about %s.

Level: %s

For each question:
- Make it relevant and practical
- Adjust difficulty to level
- Include a helpful hint

Format as a numbered list with hints below each question.`, numQuestions, topic, level)

	return t.complete(ctx, system, "Generate practice questions")
}

// difficultyMix is the advisory easy/medium/hard split hinted to the model
// for each proficiency level. The model is not required to honor it.
func difficultyMix(level string) string {
	switch level {
	case "beginner":
		return "60% easy, 30% medium, 10% hard"
	case "advanced":
		return "10% easy, 30% medium, 60% hard"
	default:
		return "20% easy, 60% medium, 20% hard"
	}
}

// GenerateQuiz asks the model for numQuestions multiple-choice questions
// on a topic and parses the response into ordered drafts. Any upstream or
// parse failure surfaces as an error; nothing is persisted here.
func (t *AITutor) GenerateQuiz(ctx context.Context, topic, level string, numQuestions int) ([]QuestionDraft, error) {
	system := fmt.Sprintf(`You are a quiz generator for a computer science tutoring platform.

Create exactly %d multiple-choice questions about "%s" for a %s student.
Target difficulty mix: %s.

Respond with ONLY a JSON object of this shape, no other text:
{
  "questions": [
    {
      "question_number": 1,
      "question_text": "...",
      "options": {"A": "...", "B": "...", "C": "...", "D": "..."},
      "correct_answer": "A",
      "difficulty": "easy",
      "concept": "...",
      "explanation": "..."
    }
  ]
}

Rules:
- "correct_answer" must be one of the option letters
- "difficulty" must be "easy", "medium" or "hard"
- Each question must have exactly 4 options`, numQuestions, topic, level, difficultyMix(level))

	raw, err := t.complete(ctx, system, "Generate the quiz")
	if err != nil {
		return nil, err
	}

	return ParseQuizResponse(raw, topic)
}
