package quiz

import (
	"context"
	"errors"

	"github.com/pkarpov/interviewbot/models"
)

// ErrNoQuestions is reported when the question pool has nothing to
// offer. The user is told to try again later.
var ErrNoQuestions = errors.New("no questions available")

// ErrNoActiveQuestion is reported when an answer arrives with no open
// session. The user is prompted to request a question first.
var ErrNoActiveQuestion = errors.New("no active question for user")

// QuestionPool is the read-only corpus accessor the engine selects
// questions from.
type QuestionPool interface {
	RandomQuestion() (models.Question, error)
	RandomQuestionFrom(ids map[int64]bool) (models.Question, bool, error)
	RandomQuestionExcluding(ids map[int64]bool) (models.Question, bool, error)
}

// History is the append-only attempt log plus per-user counters.
type History interface {
	EnsureUser(telegramID int64) error
	RecordAttempt(telegramID, questionID int64, correct bool) error
	WronglyAnsweredIDs(telegramID int64) (map[int64]bool, error)
	CorrectlyAnsweredIDs(telegramID int64) (map[int64]bool, error)
	GetUser(telegramID int64) (models.User, error)
}

// Grader evaluates an answer against a question and returns the raw
// grading text.
type Grader interface {
	Evaluate(ctx context.Context, questionText, answerText string) (string, error)
}

// Notifier delivers the answer-window-expired notice to the user.
type Notifier interface {
	NotifyExpired(telegramID int64, question models.Question)
}
