package session

import (
	"github.com/hairui08/exambank-service/internal/models"
)

// CheckResult is the outcome of grading one answer. Partial is only ever true
// for multiple and uncertain choice questions.
type CheckResult struct {
	IsCorrect bool
	IsPartial bool
}

// CheckAnswer grades a user answer against a question. Pure and
// deterministic:
//
//   - no answer is always incorrect, never partial
//   - judgment compares truth values, so true and "true" are interchangeable
//   - multiple and uncertain compare sorted label sets; a non-empty proper
//     subset with no wrong picks earns partial credit
//   - everything else is direct equality
func CheckAnswer(question *models.Question, answer models.AnswerValue) CheckResult {
	if answer.IsNone() {
		return CheckResult{}
	}

	switch question.Type {
	case models.QuestionJudgment:
		return CheckResult{IsCorrect: answer.Truth() == question.Answer.Truth()}

	case models.QuestionMultiple, models.QuestionUncertain:
		return checkChoiceSet(question.Answer.SortedChoices(), answer.SortedChoices())

	default:
		return CheckResult{IsCorrect: answer.Equal(question.Answer)}
	}
}

func checkChoiceSet(correct, given []string) CheckResult {
	if len(given) == 0 {
		return CheckResult{}
	}
	if equalStrings(correct, given) {
		return CheckResult{IsCorrect: true}
	}
	// Partial credit: strictly fewer picks, all of them correct.
	if len(given) < len(correct) && isSubset(given, correct) {
		return CheckResult{IsPartial: true}
	}
	return CheckResult{}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// isSubset assumes both slices are sorted.
func isSubset(sub, super []string) bool {
	i := 0
	for _, v := range sub {
		for i < len(super) && super[i] < v {
			i++
		}
		if i >= len(super) || super[i] != v {
			return false
		}
		i++
	}
	return true
}
