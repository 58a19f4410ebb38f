package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkarpov/interviewbot/models"
)

// ErrPoolUnavailable is reported when the question corpus is missing or
// empty. Callers treat it as "no questions available", not as fatal.
var ErrPoolUnavailable = errors.New("question pool is unavailable")

// Pool is a read-only accessor over the questions database produced by
// the corpus scraper. The bot never writes to it.
type Pool struct {
	conn *sql.DB
}

// OpenPool opens the questions database
func OpenPool(dbPath string) (*Pool, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	// Matches the schema the corpus scraper produces. An empty table is
	// reported as ErrPoolUnavailable by the selection queries.
	if _, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY,
			question TEXT NOT NULL,
			category TEXT NOT NULL,
			correct_answer TEXT
		)
	`); err != nil {
		return nil, err
	}

	return &Pool{conn: db}, nil
}

// Close closes the questions database connection
func (p *Pool) Close() error {
	return p.conn.Close()
}

// RandomQuestion picks one question uniformly at random from the whole
// corpus.
func (p *Pool) RandomQuestion() (models.Question, error) {
	var q models.Question
	err := p.conn.QueryRow(
		"SELECT id, question, category FROM questions ORDER BY RANDOM() LIMIT 1",
	).Scan(&q.ID, &q.Text, &q.Category)
	if err == sql.ErrNoRows {
		return q, ErrPoolUnavailable
	}
	if err != nil {
		return q, fmt.Errorf("failed to pick random question: %w", err)
	}
	return q, nil
}

// RandomQuestionFrom picks uniformly among the given ids. Returns
// ok=false when none of the ids matches a question.
func (p *Pool) RandomQuestionFrom(ids map[int64]bool) (models.Question, bool, error) {
	if len(ids) == 0 {
		return models.Question{}, false, nil
	}
	placeholders, args := idList(ids)
	query := fmt.Sprintf(
		"SELECT id, question, category FROM questions WHERE id IN (%s) ORDER BY RANDOM() LIMIT 1",
		placeholders,
	)
	return p.pickOne(query, args)
}

// RandomQuestionExcluding picks uniformly among questions whose id is
// not in the given set. Returns ok=false when the set covers the whole
// corpus.
func (p *Pool) RandomQuestionExcluding(ids map[int64]bool) (models.Question, bool, error) {
	if len(ids) == 0 {
		q, err := p.RandomQuestion()
		if err == ErrPoolUnavailable {
			return q, false, nil
		}
		return q, err == nil, err
	}
	placeholders, args := idList(ids)
	query := fmt.Sprintf(
		"SELECT id, question, category FROM questions WHERE id NOT IN (%s) ORDER BY RANDOM() LIMIT 1",
		placeholders,
	)
	return p.pickOne(query, args)
}

func (p *Pool) pickOne(query string, args []interface{}) (models.Question, bool, error) {
	var q models.Question
	err := p.conn.QueryRow(query, args...).Scan(&q.ID, &q.Text, &q.Category)
	if err == sql.ErrNoRows {
		return q, false, nil
	}
	if err != nil {
		return q, false, fmt.Errorf("failed to pick question: %w", err)
	}
	return q, true, nil
}

func idList(ids map[int64]bool) (string, []interface{}) {
	args := make([]interface{}, 0, len(ids))
	for id := range ids {
		args = append(args, id)
	}
	return strings.TrimSuffix(strings.Repeat("?,", len(args)), ","), args
}
