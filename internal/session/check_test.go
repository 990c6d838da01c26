package session

import (
	"testing"

	"github.com/hairui08/exambank-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func singleQuestion() *models.Question {
	return &models.Question{
		ID:   "q-single",
		Type: models.QuestionSingle,
		Stem: "Pick one",
		Options: []models.QuestionOption{
			{Label: "A", Content: "first"},
			{Label: "B", Content: "second"},
		},
		Answer: models.TextAnswer("A"),
	}
}

func multipleQuestion() *models.Question {
	return &models.Question{
		ID:   "q-multiple",
		Type: models.QuestionMultiple,
		Stem: "Pick several",
		Options: []models.QuestionOption{
			{Label: "A", Content: "first"},
			{Label: "B", Content: "second"},
			{Label: "C", Content: "third"},
			{Label: "D", Content: "fourth"},
		},
		Answer: models.ChoicesAnswer("A", "B", "C"),
	}
}

func judgmentQuestion() *models.Question {
	return &models.Question{
		ID:     "q-judgment",
		Type:   models.QuestionJudgment,
		Stem:   "True or false",
		Answer: models.BoolAnswer(true),
	}
}

func TestCheckAnswer_NoAnswer(t *testing.T) {
	result := CheckAnswer(singleQuestion(), models.NoAnswer())
	assert.False(t, result.IsCorrect)
	assert.False(t, result.IsPartial)
}

func TestCheckAnswer_SingleChoice(t *testing.T) {
	question := singleQuestion()

	assert.True(t, CheckAnswer(question, models.TextAnswer("A")).IsCorrect)
	assert.False(t, CheckAnswer(question, models.TextAnswer("B")).IsCorrect)
	assert.False(t, CheckAnswer(question, models.TextAnswer("B")).IsPartial)
}

func TestCheckAnswer_JudgmentTruthEquivalence(t *testing.T) {
	question := judgmentQuestion()

	// The boolean true and the string "true" are interchangeable.
	assert.True(t, CheckAnswer(question, models.BoolAnswer(true)).IsCorrect)
	assert.True(t, CheckAnswer(question, models.TextAnswer("true")).IsCorrect)
	assert.False(t, CheckAnswer(question, models.BoolAnswer(false)).IsCorrect)
	assert.False(t, CheckAnswer(question, models.TextAnswer("false")).IsCorrect)

	stringTruth := judgmentQuestion()
	stringTruth.Answer = models.TextAnswer("true")
	assert.True(t, CheckAnswer(stringTruth, models.BoolAnswer(true)).IsCorrect)
}

func TestCheckAnswer_MultipleExactMatch(t *testing.T) {
	question := multipleQuestion()

	result := CheckAnswer(question, models.ChoicesAnswer("C", "A", "B"))
	assert.True(t, result.IsCorrect, "order must not matter")
	assert.False(t, result.IsPartial)
}

func TestCheckAnswer_MultiplePartialCredit(t *testing.T) {
	question := multipleQuestion()

	result := CheckAnswer(question, models.ChoicesAnswer("A", "B"))
	assert.False(t, result.IsCorrect)
	assert.True(t, result.IsPartial, "proper subset of correct picks earns partial credit")
}

func TestCheckAnswer_MultipleWrongPickBlocksPartial(t *testing.T) {
	question := multipleQuestion()

	result := CheckAnswer(question, models.ChoicesAnswer("A", "D"))
	assert.False(t, result.IsCorrect)
	assert.False(t, result.IsPartial, "any wrong pick forfeits partial credit")
}

func TestCheckAnswer_MultipleTooManyPicks(t *testing.T) {
	question := multipleQuestion()

	result := CheckAnswer(question, models.ChoicesAnswer("A", "B", "C", "D"))
	assert.False(t, result.IsCorrect)
	assert.False(t, result.IsPartial)
}

func TestCheckAnswer_MultipleEmptySelection(t *testing.T) {
	question := multipleQuestion()

	result := CheckAnswer(question, models.ChoicesAnswer())
	assert.False(t, result.IsCorrect)
	assert.False(t, result.IsPartial)
}

func TestCheckAnswer_UncertainUsesChoiceRules(t *testing.T) {
	question := multipleQuestion()
	question.Type = models.QuestionUncertain

	assert.True(t, CheckAnswer(question, models.ChoicesAnswer("A", "B", "C")).IsCorrect)
	assert.True(t, CheckAnswer(question, models.ChoicesAnswer("B")).IsPartial)
}

func TestCheckAnswer_EssayDirectEquality(t *testing.T) {
	question := &models.Question{
		ID:     "q-essay",
		Type:   models.QuestionEssay,
		Stem:   "Explain",
		Answer: models.TextAnswer("model answer"),
	}

	assert.True(t, CheckAnswer(question, models.TextAnswer("model answer")).IsCorrect)
	assert.False(t, CheckAnswer(question, models.TextAnswer("something else")).IsCorrect)
}
