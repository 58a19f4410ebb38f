package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all the configuration for the application
type Config struct {
	BotToken          string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	UsersDBPath       string
	QuestionsDBPath   string
	AnswerTimeout     time.Duration
	RetryProbability  float64
	RecordUnparseable bool
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		return nil, errors.New("BOT_TOKEN environment variable is required")
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable is required")
	}

	// Set database paths with defaults
	usersDBPath := os.Getenv("DB_PATH")
	if usersDBPath == "" {
		usersDBPath = "./data/users.db"
	}

	questionsDBPath := os.Getenv("QUESTIONS_DB_PATH")
	if questionsDBPath == "" {
		questionsDBPath = "./data/questions.db"
	}

	timeout := 120 * time.Second
	if v := os.Getenv("ANSWER_TIMEOUT_SEC"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil || sec <= 0 {
			return nil, fmt.Errorf("invalid ANSWER_TIMEOUT_SEC value %q", v)
		}
		timeout = time.Duration(sec) * time.Second
	}

	retryProb := 0.3
	if v := os.Getenv("RETRY_PROBABILITY"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 || p > 1 {
			return nil, fmt.Errorf("invalid RETRY_PROBABILITY value %q", v)
		}
		retryProb = p
	}

	// Whether an attempt is still logged when the grader's reply could
	// not be interpreted. Defaults to dropping such attempts.
	recordUnparseable := os.Getenv("RECORD_UNPARSEABLE") == "true"

	return &Config{
		BotToken:          botToken,
		OpenAIAPIKey:      apiKey,
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),
		UsersDBPath:       usersDBPath,
		QuestionsDBPath:   questionsDBPath,
		AnswerTimeout:     timeout,
		RetryProbability:  retryProb,
		RecordUnparseable: recordUnparseable,
	}, nil
}
