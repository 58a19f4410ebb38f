package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkarpov/interviewbot/models"
)

// DB handles all user and answer-history operations
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes tables
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err = createTables(db); err != nil {
		return nil, err
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			telegram_id INTEGER NOT NULL UNIQUE,
			correct_answers INTEGER NOT NULL DEFAULT 0,
			total_answers INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return err
	}

	// Append-only attempt log. The autoincrement id doubles as the
	// attempt sequence within a user's history.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS answered_questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			telegram_id INTEGER NOT NULL,
			question_id INTEGER NOT NULL,
			correct BOOLEAN NOT NULL
		)
	`)
	return err
}

// EnsureUser registers a user if not already known. Re-registering an
// existing user is a no-op.
func (db *DB) EnsureUser(telegramID int64) error {
	_, err := db.conn.Exec(
		"INSERT OR IGNORE INTO users (telegram_id, correct_answers, total_answers) VALUES (?, 0, 0)",
		telegramID,
	)
	if err != nil {
		return fmt.Errorf("failed to register user %d: %w", telegramID, err)
	}
	return nil
}

// RecordAttempt appends one attempt to the log and bumps the user's
// counters. The append and the counter update are a single transaction
// so the two can never drift apart. A user the registration hook never
// saw is initialized here, in the same transaction.
func (db *DB) RecordAttempt(telegramID, questionID int64, correct bool) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT OR IGNORE INTO users (telegram_id, correct_answers, total_answers) VALUES (?, 0, 0)",
		telegramID,
	); err != nil {
		return fmt.Errorf("failed to register user %d: %w", telegramID, err)
	}

	if _, err := tx.Exec(
		"INSERT INTO answered_questions (telegram_id, question_id, correct) VALUES (?, ?, ?)",
		telegramID, questionID, correct,
	); err != nil {
		return fmt.Errorf("failed to log attempt: %w", err)
	}

	inc := 0
	if correct {
		inc = 1
	}
	if _, err := tx.Exec(
		"UPDATE users SET total_answers = total_answers + 1, correct_answers = correct_answers + ? WHERE telegram_id = ?",
		inc, telegramID,
	); err != nil {
		return fmt.Errorf("failed to update user counters: %w", err)
	}

	return tx.Commit()
}

// GetUser retrieves the counters for a user. A user that was never
// registered is reported with zero counters.
func (db *DB) GetUser(telegramID int64) (models.User, error) {
	user := models.User{TelegramID: telegramID}
	err := db.conn.QueryRow(
		"SELECT correct_answers, total_answers FROM users WHERE telegram_id = ?",
		telegramID,
	).Scan(&user.CorrectCount, &user.TotalCount)
	if err == sql.ErrNoRows {
		return user, nil
	}
	if err != nil {
		return user, fmt.Errorf("failed to get user %d: %w", telegramID, err)
	}
	return user, nil
}

// WronglyAnsweredIDs returns the question ids the user has missed and
// not yet recovered: at least one incorrect attempt, and the most
// recent attempt for that question was not correct.
func (db *DB) WronglyAnsweredIDs(telegramID int64) (map[int64]bool, error) {
	hasWrong, last, err := db.attemptSummary(telegramID)
	if err != nil {
		return nil, err
	}

	result := make(map[int64]bool)
	for questionID := range hasWrong {
		if !last[questionID] {
			result[questionID] = true
		}
	}
	return result, nil
}

// CorrectlyAnsweredIDs returns the question ids the user has answered
// correctly at least once.
func (db *DB) CorrectlyAnsweredIDs(telegramID int64) (map[int64]bool, error) {
	rows, err := db.conn.Query(
		"SELECT DISTINCT question_id FROM answered_questions WHERE telegram_id = ? AND correct = 1",
		telegramID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query correct answers: %w", err)
	}
	defer rows.Close()

	result := make(map[int64]bool)
	for rows.Next() {
		var questionID int64
		if err := rows.Scan(&questionID); err != nil {
			return nil, err
		}
		result[questionID] = true
	}
	return result, rows.Err()
}

// attemptSummary walks the user's attempt log in order and reports,
// per question, whether any attempt was wrong and the outcome of the
// latest attempt.
func (db *DB) attemptSummary(telegramID int64) (hasWrong, last map[int64]bool, err error) {
	rows, err := db.conn.Query(
		"SELECT question_id, correct FROM answered_questions WHERE telegram_id = ? ORDER BY id",
		telegramID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	hasWrong = make(map[int64]bool)
	last = make(map[int64]bool)
	for rows.Next() {
		var questionID int64
		var correct bool
		if err := rows.Scan(&questionID, &correct); err != nil {
			return nil, nil, err
		}
		if !correct {
			hasWrong[questionID] = true
		}
		last[questionID] = correct
	}
	return hasWrong, last, rows.Err()
}
