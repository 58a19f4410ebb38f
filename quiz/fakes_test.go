package quiz

import (
	"context"
	"errors"

	"github.com/pkarpov/interviewbot/database"
	"github.com/pkarpov/interviewbot/models"
)

// fakePool serves questions from a slice, first match wins.
type fakePool struct {
	questions []models.Question
}

func (p *fakePool) RandomQuestion() (models.Question, error) {
	if len(p.questions) == 0 {
		return models.Question{}, database.ErrPoolUnavailable
	}
	return p.questions[0], nil
}

func (p *fakePool) RandomQuestionFrom(ids map[int64]bool) (models.Question, bool, error) {
	for _, q := range p.questions {
		if ids[q.ID] {
			return q, true, nil
		}
	}
	return models.Question{}, false, nil
}

func (p *fakePool) RandomQuestionExcluding(ids map[int64]bool) (models.Question, bool, error) {
	for _, q := range p.questions {
		if !ids[q.ID] {
			return q, true, nil
		}
	}
	return models.Question{}, false, nil
}

// fakeHistory is an in-memory History with the store's semantics.
type fakeHistory struct {
	users    map[int64]*models.User
	attempts []models.AnswerAttempt
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{users: make(map[int64]*models.User)}
}

func (h *fakeHistory) EnsureUser(telegramID int64) error {
	if _, ok := h.users[telegramID]; !ok {
		h.users[telegramID] = &models.User{TelegramID: telegramID}
	}
	return nil
}

func (h *fakeHistory) RecordAttempt(telegramID, questionID int64, correct bool) error {
	h.EnsureUser(telegramID)
	h.attempts = append(h.attempts, models.AnswerAttempt{
		ID:         int64(len(h.attempts) + 1),
		TelegramID: telegramID,
		QuestionID: questionID,
		Correct:    correct,
	})
	u := h.users[telegramID]
	u.TotalCount++
	if correct {
		u.CorrectCount++
	}
	return nil
}

func (h *fakeHistory) WronglyAnsweredIDs(telegramID int64) (map[int64]bool, error) {
	hasWrong := make(map[int64]bool)
	last := make(map[int64]bool)
	for _, a := range h.attempts {
		if a.TelegramID != telegramID {
			continue
		}
		if !a.Correct {
			hasWrong[a.QuestionID] = true
		}
		last[a.QuestionID] = a.Correct
	}
	result := make(map[int64]bool)
	for id := range hasWrong {
		if !last[id] {
			result[id] = true
		}
	}
	return result, nil
}

func (h *fakeHistory) CorrectlyAnsweredIDs(telegramID int64) (map[int64]bool, error) {
	result := make(map[int64]bool)
	for _, a := range h.attempts {
		if a.TelegramID == telegramID && a.Correct {
			result[a.QuestionID] = true
		}
	}
	return result, nil
}

func (h *fakeHistory) GetUser(telegramID int64) (models.User, error) {
	if u, ok := h.users[telegramID]; ok {
		return *u, nil
	}
	return models.User{TelegramID: telegramID}, nil
}

// fakeGrader replies with a scripted response or error.
type fakeGrader struct {
	reply string
	err   error
	calls int
}

func (g *fakeGrader) Evaluate(ctx context.Context, questionText, answerText string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

var errGraderDown = errors.New("grader unreachable")
