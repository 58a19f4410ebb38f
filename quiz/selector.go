package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/pkarpov/interviewbot/database"
	"github.com/pkarpov/interviewbot/models"
)

// Selector picks the next question for a user, balancing forced retry
// of previously missed questions against unseen material.
type Selector struct {
	pool             QuestionPool
	history          History
	retryProbability float64
	rng              *rand.Rand
}

// NewSelector creates a selector. retryProbability is the chance of a
// forced retry of a missed question when any exist.
func NewSelector(pool QuestionPool, history History, retryProbability float64) *Selector {
	return &Selector{
		pool:             pool,
		history:          history,
		retryProbability: retryProbability,
		rng:              rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next picks the next question for the user:
//  1. with retryProbability, a random still-missed question;
//  2. otherwise a random question not yet answered correctly;
//  3. if everything has been answered correctly, any question at all —
//     the review cycle restarts.
//
// Returns ErrNoQuestions only when the pool itself is empty.
func (s *Selector) Next(telegramID int64) (models.Question, error) {
	wrong, err := s.history.WronglyAnsweredIDs(telegramID)
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to load missed questions: %w", err)
	}
	correct, err := s.history.CorrectlyAnsweredIDs(telegramID)
	if err != nil {
		return models.Question{}, fmt.Errorf("failed to load passed questions: %w", err)
	}

	if len(wrong) > 0 && s.rng.Float64() < s.retryProbability {
		q, ok, err := s.pool.RandomQuestionFrom(wrong)
		if err != nil {
			return models.Question{}, err
		}
		if ok {
			return q, nil
		}
	}

	q, ok, err := s.pool.RandomQuestionExcluding(correct)
	if err != nil {
		return models.Question{}, err
	}
	if ok {
		return q, nil
	}

	// Everything answered correctly at least once: recycle the pool.
	q, err = s.pool.RandomQuestion()
	if errors.Is(err, database.ErrPoolUnavailable) {
		return models.Question{}, ErrNoQuestions
	}
	if err != nil {
		return models.Question{}, err
	}
	return q, nil
}
