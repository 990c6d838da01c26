package validator

import (
	"fmt"

	"github.com/hairui08/exambank-service/internal/models"
)

// QuestionValidator checks that a question's content matches its declared
// type: option count, answer shape, and that answer labels exist among the
// options.
type QuestionValidator struct{}

func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

func (qv *QuestionValidator) Validate(q *models.Question) ValidationErrors {
	var errs ValidationErrors

	switch q.Type {
	case models.QuestionSingle:
		errs = append(errs, qv.validateOptions(q.Options, 2)...)
		errs = append(errs, qv.validateScalarAnswer(q.Answer, q.Options)...)

	case models.QuestionMultiple, models.QuestionUncertain:
		errs = append(errs, qv.validateOptions(q.Options, 2)...)
		errs = append(errs, qv.validateChoicesAnswer(q.Answer, q.Options)...)

	case models.QuestionJudgment:
		if q.Answer.Kind != models.AnswerBool && q.Answer.Kind != models.AnswerText {
			errs = append(errs, ValidationError{
				Field:   "answer",
				Message: "judgment answer must be a boolean or the strings true/false",
				Rule:    "answer_shape",
			})
		}

	case models.QuestionEssay:
		// Essay answers are reference text; any shape except choices works.
		if q.Answer.Kind == models.AnswerChoices {
			errs = append(errs, ValidationError{
				Field:   "answer",
				Message: "essay answer cannot be a label set",
				Rule:    "answer_shape",
			})
		}

	case models.QuestionCombination:
		if q.MainStem == "" {
			errs = append(errs, ValidationError{
				Field:   "mainStem",
				Message: "is required for combination questions",
				Rule:    "required",
			})
		}
		if len(q.SubQuestions) == 0 {
			errs = append(errs, ValidationError{
				Field:   "subQuestions",
				Message: "combination questions need at least one sub-question",
				Rule:    "min",
			})
		}
		for i, sub := range q.SubQuestions {
			for _, e := range qv.validateSub(&sub) {
				e.Field = fmt.Sprintf("subQuestions[%d].%s", i, e.Field)
				errs = append(errs, e)
			}
		}
	}

	return errs
}

func (qv *QuestionValidator) validateSub(sub *models.SubQuestion) ValidationErrors {
	var errs ValidationErrors
	if sub.Stem == "" {
		errs = append(errs, ValidationError{Field: "stem", Message: "is required", Rule: "required"})
	}
	switch sub.Type {
	case models.QuestionSingle:
		errs = append(errs, qv.validateOptions(sub.Options, 2)...)
		errs = append(errs, qv.validateScalarAnswer(sub.Answer, sub.Options)...)
	case models.QuestionMultiple, models.QuestionUncertain:
		errs = append(errs, qv.validateOptions(sub.Options, 2)...)
		errs = append(errs, qv.validateChoicesAnswer(sub.Answer, sub.Options)...)
	case models.QuestionJudgment:
		if sub.Answer.Kind != models.AnswerBool && sub.Answer.Kind != models.AnswerText {
			errs = append(errs, ValidationError{
				Field:   "answer",
				Message: "judgment answer must be a boolean or the strings true/false",
				Rule:    "answer_shape",
			})
		}
	}
	return errs
}

func (qv *QuestionValidator) validateOptions(options []models.QuestionOption, min int) ValidationErrors {
	var errs ValidationErrors
	if len(options) < min {
		errs = append(errs, ValidationError{
			Field:   "options",
			Message: fmt.Sprintf("must have at least %d options", min),
			Rule:    "min",
		})
	}
	seen := make(map[string]bool, len(options))
	for _, opt := range options {
		if opt.Label == "" {
			errs = append(errs, ValidationError{Field: "options", Message: "option label is required", Rule: "required"})
			continue
		}
		if seen[opt.Label] {
			errs = append(errs, ValidationError{
				Field:   "options",
				Message: fmt.Sprintf("duplicate option label %q", opt.Label),
				Rule:    "unique",
			})
		}
		seen[opt.Label] = true
	}
	return errs
}

func (qv *QuestionValidator) validateScalarAnswer(answer models.AnswerValue, options []models.QuestionOption) ValidationErrors {
	if answer.Kind != models.AnswerText {
		return ValidationErrors{{
			Field:   "answer",
			Message: "single choice answer must be one option label",
			Rule:    "answer_shape",
		}}
	}
	if !hasOptionLabel(options, answer.Text) {
		return ValidationErrors{{
			Field:   "answer",
			Message: fmt.Sprintf("answer label %q is not among the options", answer.Text),
			Value:   answer.Text,
			Rule:    "answer_label",
		}}
	}
	return nil
}

func (qv *QuestionValidator) validateChoicesAnswer(answer models.AnswerValue, options []models.QuestionOption) ValidationErrors {
	if answer.Kind != models.AnswerChoices || len(answer.Choices) == 0 {
		return ValidationErrors{{
			Field:   "answer",
			Message: "answer must be a non-empty set of option labels",
			Rule:    "answer_shape",
		}}
	}
	var errs ValidationErrors
	for _, label := range answer.Choices {
		if !hasOptionLabel(options, label) {
			errs = append(errs, ValidationError{
				Field:   "answer",
				Message: fmt.Sprintf("answer label %q is not among the options", label),
				Value:   label,
				Rule:    "answer_label",
			})
		}
	}
	return errs
}

func hasOptionLabel(options []models.QuestionOption, label string) bool {
	for _, opt := range options {
		if opt.Label == label {
			return true
		}
	}
	return false
}
