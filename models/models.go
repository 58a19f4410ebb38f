package models

// Question is a single interview question from the questions database.
// Questions are read-only: the bot never modifies the corpus.
type Question struct {
	ID       int64
	Text     string
	Category string
}

// User holds the aggregate answer counters for one Telegram user.
type User struct {
	TelegramID   int64
	CorrectCount int
	TotalCount   int
}

// AnswerAttempt is one judged submission. The attempts table is
// append-only; repeated attempts at the same question are new rows.
type AnswerAttempt struct {
	ID         int64
	TelegramID int64
	QuestionID int64
	Correct    bool
}

// Verdict is the structured outcome of judging an answer.
type Verdict int

const (
	VerdictUnparseable Verdict = iota
	VerdictCorrect
	VerdictIncorrect
)

func (v Verdict) String() string {
	switch v {
	case VerdictCorrect:
		return "correct"
	case VerdictIncorrect:
		return "incorrect"
	default:
		return "unparseable"
	}
}

// Judgment pairs a verdict with the grader's explanation, if any.
type Judgment struct {
	Verdict     Verdict
	Explanation string
}
