package quiz

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pkarpov/interviewbot/models"
)

// Engine ties the selector, the session machine, the grader and the
// attempt history into the question/answer loop the transport drives.
type Engine struct {
	selector *Selector
	sessions *SessionManager
	history  History
	grader   Grader

	// recordUnparseable controls whether attempts whose grading failed
	// or came back unreadable are still logged (as incorrect). Off by
	// default: a grading hiccup should not count against the user.
	recordUnparseable bool
}

// Options configures an Engine.
type Options struct {
	AnswerTimeout     time.Duration
	RetryProbability  float64
	RecordUnparseable bool
}

// NewEngine wires the engine from its collaborators.
func NewEngine(pool QuestionPool, history History, grader Grader, notifier Notifier, opts Options) *Engine {
	return &Engine{
		selector:          NewSelector(pool, history, opts.RetryProbability),
		sessions:          NewSessionManager(opts.AnswerTimeout, notifier),
		history:           history,
		grader:            grader,
		recordUnparseable: opts.RecordUnparseable,
	}
}

// EnsureUser registers the user if needed. Safe to call repeatedly.
func (e *Engine) EnsureUser(telegramID int64) error {
	return e.history.EnsureUser(telegramID)
}

// SelectNextQuestion picks the user's next question. Returns
// ErrNoQuestions when the pool is empty.
func (e *Engine) SelectNextQuestion(telegramID int64) (models.Question, error) {
	return e.selector.Next(telegramID)
}

// OpenSession starts the answer window for a dispatched question,
// superseding any question still open for the user.
func (e *Engine) OpenSession(telegramID int64, question models.Question) {
	e.sessions.Open(telegramID, question)
}

// SubmitAnswer judges the user's answer to their open question,
// records the attempt and closes the session. Returns
// ErrNoActiveQuestion when no question is open; a grading failure is
// not an error but an unparseable judgment.
func (e *Engine) SubmitAnswer(ctx context.Context, telegramID int64, rawAnswer string) (models.Judgment, error) {
	question, ok := e.sessions.Take(telegramID)
	if !ok {
		return models.Judgment{}, ErrNoActiveQuestion
	}

	var judgment models.Judgment
	reply, err := e.grader.Evaluate(ctx, question.Text, rawAnswer)
	if err != nil {
		log.Printf("Grading failed for user %d, question %d: %v", telegramID, question.ID, err)
		judgment = models.Judgment{
			Verdict:     models.VerdictUnparseable,
			Explanation: evalFailedExplanation,
		}
	} else {
		judgment = ParseJudgment(reply)
	}

	if judgment.Verdict != models.VerdictUnparseable || e.recordUnparseable {
		correct := judgment.Verdict == models.VerdictCorrect
		if err := e.history.RecordAttempt(telegramID, question.ID, correct); err != nil {
			return judgment, fmt.Errorf("failed to record attempt: %w", err)
		}
	}

	return judgment, nil
}

// HasOpenQuestion reports whether the user is mid-question.
func (e *Engine) HasOpenQuestion(telegramID int64) bool {
	return e.sessions.Active(telegramID)
}

// Stats returns the user's total answer count and the percentage of
// correct answers (0 when nothing was answered yet).
func (e *Engine) Stats(telegramID int64) (total int, percentCorrect float64, err error) {
	user, err := e.history.GetUser(telegramID)
	if err != nil {
		return 0, 0, err
	}
	if user.TotalCount > 0 {
		percentCorrect = 100 * float64(user.CorrectCount) / float64(user.TotalCount)
	}
	return user.TotalCount, percentCorrect, nil
}
