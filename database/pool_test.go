package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool(t *testing.T, questions ...string) *Pool {
	t.Helper()
	pool, err := OpenPool(filepath.Join(t.TempDir(), "questions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	for i, text := range questions {
		_, err := pool.conn.Exec(
			"INSERT INTO questions (id, question, category) VALUES (?, ?, ?)",
			i+1, text, "Python",
		)
		require.NoError(t, err)
	}
	return pool
}

func TestRandomQuestionEmptyPool(t *testing.T) {
	pool := newTestPool(t)

	_, err := pool.RandomQuestion()
	assert.ErrorIs(t, err, ErrPoolUnavailable)
}

func TestRandomQuestion(t *testing.T) {
	pool := newTestPool(t, "Что такое GIL?", "Что такое декоратор?")

	q, err := pool.RandomQuestion()
	require.NoError(t, err)
	assert.Contains(t, []int64{1, 2}, q.ID)
	assert.Equal(t, "Python", q.Category)
	assert.NotEmpty(t, q.Text)
}

func TestRandomQuestionFrom(t *testing.T) {
	pool := newTestPool(t, "q1", "q2", "q3")

	q, ok, err := pool.RandomQuestionFrom(map[int64]bool{2: true})
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 2, q.ID)
}

func TestRandomQuestionFromEmptySet(t *testing.T) {
	pool := newTestPool(t, "q1")

	_, ok, err := pool.RandomQuestionFrom(nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRandomQuestionFromUnknownIDs(t *testing.T) {
	pool := newTestPool(t, "q1")

	_, ok, err := pool.RandomQuestionFrom(map[int64]bool{99: true})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRandomQuestionExcluding(t *testing.T) {
	pool := newTestPool(t, "q1", "q2")

	q, ok, err := pool.RandomQuestionExcluding(map[int64]bool{1: true})
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 2, q.ID)
}

func TestRandomQuestionExcludingEverything(t *testing.T) {
	pool := newTestPool(t, "q1", "q2")

	_, ok, err := pool.RandomQuestionExcluding(map[int64]bool{1: true, 2: true})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRandomQuestionExcludingNothing(t *testing.T) {
	pool := newTestPool(t, "q1")

	q, ok, err := pool.RandomQuestionExcluding(nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 1, q.ID)
}
