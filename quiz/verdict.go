package quiz

import (
	"strings"

	"github.com/pkarpov/interviewbot/models"
)

// evalFailedExplanation is returned when the grading call itself
// failed, as opposed to the grader replying in an unexpected shape.
const evalFailedExplanation = "Ошибка при обращении к сервису проверки, попробуйте ещё раз."

// ParseJudgment interprets the grader's free-text reply. The first
// segment, up to a period or line break, carries the verdict word; the
// remainder is the explanation. Grader replies historically used both
// separators, so either is accepted.
func ParseJudgment(raw string) models.Judgment {
	head := raw
	explanation := ""
	if idx := strings.IndexAny(raw, ".\n"); idx >= 0 {
		head = raw[:idx]
		explanation = strings.TrimSpace(raw[idx+1:])
	}

	verdict := models.VerdictUnparseable
	switch strings.ToLower(strings.TrimSpace(head)) {
	case "правильно":
		verdict = models.VerdictCorrect
	case "неправильно":
		verdict = models.VerdictIncorrect
	default:
		// Unrecognized head: the whole reply is noise, keep nothing.
		explanation = ""
	}

	return models.Judgment{Verdict: verdict, Explanation: explanation}
}
