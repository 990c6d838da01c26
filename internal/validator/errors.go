package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError is one failed field check.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// ToValidationErrors converts validator.ValidationErrors into the local type.
func ToValidationErrors(err error) ValidationErrors {
	var out ValidationErrors

	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrs {
			out = append(out, ValidationError{
				Field:   fe.Field(),
				Message: fieldMessage(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
	}

	return out
}

func fieldMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())

	case "question_type":
		return "must be a valid question type (single, multiple, uncertain, judgment, essay, combination)"
	case "question_source":
		return "must be official, simulation or custom"
	case "question_difficulty":
		return "must be easy, medium or hard"
	case "exam_kind":
		return "must be a valid exam kind (chapter, realExam, sprint, entrance, wrongQuestions)"
	case "session_mode":
		return "must be practice or exam"
	case "font_size":
		return "must be small, medium, large or xlarge"
	case "entity_status":
		return "must be active or disabled"

	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}
