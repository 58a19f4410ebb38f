package quiz

import (
	"log"
	"sync"
	"time"

	"github.com/pkarpov/interviewbot/models"
)

// session is one open question awaiting an answer from one user.
type session struct {
	question models.Question
	openedAt time.Time
	seq      uint64
	timer    *time.Timer
}

// SessionManager tracks at most one open question per user and closes
// it when an answer arrives or the answer window elapses.
//
// Every Open tags the session with a fresh sequence number; the expiry
// callback re-checks that number under the lock, so a timer belonging
// to an already-answered or superseded session can never fire late.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[int64]*session
	timeout  time.Duration
	notifier Notifier
	seq      uint64
}

// NewSessionManager creates a session manager. notifier receives the
// expiry notices; a nil notifier silently discards them.
func NewSessionManager(timeout time.Duration, notifier Notifier) *SessionManager {
	return &SessionManager{
		sessions: make(map[int64]*session),
		timeout:  timeout,
		notifier: notifier,
	}
}

// Open starts the answer window for a question. An already-open
// session for the same user is superseded: its timer is cancelled and
// the new question replaces the old one.
func (m *SessionManager) Open(telegramID int64, question models.Question) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.sessions[telegramID]; ok {
		prev.timer.Stop()
	}

	m.seq++
	s := &session{
		question: question,
		openedAt: time.Now(),
		seq:      m.seq,
	}
	seq := s.seq
	s.timer = time.AfterFunc(m.timeout, func() {
		m.expire(telegramID, seq)
	})
	m.sessions[telegramID] = s
}

// Take closes the user's open session and returns its question.
// ok is false when no session is open.
func (m *SessionManager) Take(telegramID int64) (models.Question, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[telegramID]
	if !ok {
		return models.Question{}, false
	}
	s.timer.Stop()
	delete(m.sessions, telegramID)
	return s.question, true
}

// Active reports whether the user currently has an open question.
func (m *SessionManager) Active(telegramID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[telegramID]
	return ok
}

func (m *SessionManager) expire(telegramID int64, seq uint64) {
	m.mu.Lock()
	s, ok := m.sessions[telegramID]
	if !ok || s.seq != seq {
		// The session was answered or superseded before the timer won
		// the race; this expiry is stale.
		m.mu.Unlock()
		return
	}
	delete(m.sessions, telegramID)
	m.mu.Unlock()

	log.Printf("Answer window for user %d closed after %v (question %d)",
		telegramID, time.Since(s.openedAt).Round(time.Millisecond), s.question.ID)

	// The state transition is decided under the lock; the notice itself
	// goes out after it. A racing Open may therefore be observed before
	// this message is delivered, but no notice is ever produced for a
	// session that was answered or superseded.
	if m.notifier != nil {
		m.notifier.NotifyExpired(telegramID, s.question)
	}
}
