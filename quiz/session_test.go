package quiz

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkarpov/interviewbot/models"
)

// notifyRecorder captures expiry notices.
type notifyRecorder struct {
	mu      sync.Mutex
	expired []models.Question
}

func (r *notifyRecorder) NotifyExpired(telegramID int64, question models.Question) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expired = append(r.expired, question)
}

func (r *notifyRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.expired)
}

func TestSessionAnswerBeforeDeadline(t *testing.T) {
	rec := &notifyRecorder{}
	m := NewSessionManager(50*time.Millisecond, rec)

	m.Open(7, models.Question{ID: 1, Text: "q1"})

	q, ok := m.Take(7)
	require.True(t, ok)
	assert.EqualValues(t, 1, q.ID)

	// The cancelled timer must never produce an expiry notice.
	time.Sleep(120 * time.Millisecond)
	assert.Zero(t, rec.count())
	assert.False(t, m.Active(7))
}

func TestSessionExpires(t *testing.T) {
	rec := &notifyRecorder{}
	m := NewSessionManager(30*time.Millisecond, rec)

	m.Open(7, models.Question{ID: 1, Text: "q1"})
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 1, rec.count())
	_, ok := m.Take(7)
	assert.False(t, ok, "an expired session is gone")
}

func TestSessionSuperseded(t *testing.T) {
	rec := &notifyRecorder{}
	m := NewSessionManager(40*time.Millisecond, rec)

	m.Open(7, models.Question{ID: 1, Text: "q1"})
	m.Open(7, models.Question{ID: 2, Text: "q2"})

	q, ok := m.Take(7)
	require.True(t, ok)
	assert.EqualValues(t, 2, q.ID, "the newer question supersedes the older one")

	// Neither the superseded nor the answered session may expire.
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, rec.count())
}

func TestSessionSupersededThenExpires(t *testing.T) {
	rec := &notifyRecorder{}
	m := NewSessionManager(40*time.Millisecond, rec)

	m.Open(7, models.Question{ID: 1, Text: "q1"})
	m.Open(7, models.Question{ID: 2, Text: "q2"})
	time.Sleep(120 * time.Millisecond)

	// Only the live session expires; the stale timer stays silent.
	require.Equal(t, 1, rec.count())
	assert.EqualValues(t, 2, rec.expired[0].ID)
}

func TestSessionsIndependentPerUser(t *testing.T) {
	rec := &notifyRecorder{}
	m := NewSessionManager(50*time.Millisecond, rec)

	m.Open(1, models.Question{ID: 10})
	m.Open(2, models.Question{ID: 20})

	q, ok := m.Take(1)
	require.True(t, ok)
	assert.EqualValues(t, 10, q.ID)

	assert.True(t, m.Active(2))
	assert.False(t, m.Active(1))
}

func TestTakeWithoutSession(t *testing.T) {
	m := NewSessionManager(time.Second, nil)
	_, ok := m.Take(7)
	assert.False(t, ok)
}
