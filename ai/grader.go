package ai

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const apiTimeout = 30 * time.Second

// The grader is told to open its reply with a single verdict word so
// the response can be split into verdict and explanation downstream.
const systemPrompt = `Ты — строгий, но доброжелательный интервьюер, проверяющий ответы на вопросы собеседования по Python.
Оцени ответ пользователя. Начни свой ответ ровно одним словом: «Правильно» или «Неправильно», затем поставь точку и дай короткое объяснение.`

// Grader asks an OpenAI chat model whether an answer is correct
type Grader struct {
	client *openai.Client
}

// NewGrader creates a grader client. baseURL may be empty to use the
// default OpenAI endpoint (the deployment behind a proxy sets it).
func NewGrader(apiKey, baseURL string) *Grader {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: apiTimeout}

	return &Grader{client: openai.NewClientWithConfig(cfg)}
}

// Evaluate submits the question and the user's answer for grading and
// returns the model's raw reply. Interpretation of the reply is the
// caller's concern.
func (g *Grader) Evaluate(ctx context.Context, questionText, answerText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT3Dot5Turbo,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Вопрос: %s", questionText),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Ответ: %s. Это ответ правильный?", answerText),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}

	content := resp.Choices[0].Message.Content
	log.Printf("Grader response (%d chars): %.100s", len(content), content)
	return content, nil
}
