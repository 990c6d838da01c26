package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hairui08/exambank-service/internal/models"
)

// Validator bundles struct-tag validation with the question content checks
// that tags cannot express.
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct runs struct tag validation only.
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate runs struct tags first, then content rules for types that have
// them registered.
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	if q, ok := s.(*models.Question); ok {
		if errs := v.questionValidator.Validate(q); len(errs) > 0 {
			return errs
		}
	}
	return nil
}

func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("question_source", validateQuestionSource)
	validate.RegisterValidation("question_difficulty", validateQuestionDifficulty)
	validate.RegisterValidation("exam_kind", validateExamKind)
	validate.RegisterValidation("session_mode", validateSessionMode)
	validate.RegisterValidation("font_size", validateFontSize)
	validate.RegisterValidation("entity_status", validateEntityStatus)

	// Report json field names in error messages.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	switch models.QuestionType(fl.Field().String()) {
	case models.QuestionSingle, models.QuestionMultiple, models.QuestionUncertain,
		models.QuestionJudgment, models.QuestionEssay, models.QuestionCombination:
		return true
	}
	return false
}

func validateQuestionSource(fl validator.FieldLevel) bool {
	switch models.QuestionSource(fl.Field().String()) {
	case models.SourceOfficial, models.SourceSimulation, models.SourceCustom:
		return true
	}
	return false
}

func validateQuestionDifficulty(fl validator.FieldLevel) bool {
	switch models.QuestionDifficulty(fl.Field().String()) {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
		return true
	}
	return false
}

func validateExamKind(fl validator.FieldLevel) bool {
	switch models.ExamKind(fl.Field().String()) {
	case models.KindChapter, models.KindRealExam, models.KindSprint,
		models.KindEntrance, models.KindWrongQuestions:
		return true
	}
	return false
}

func validateSessionMode(fl validator.FieldLevel) bool {
	switch models.SessionMode(fl.Field().String()) {
	case models.ModePractice, models.ModeExam:
		return true
	}
	return false
}

func validateFontSize(fl validator.FieldLevel) bool {
	switch models.FontSize(fl.Field().String()) {
	case models.FontSmall, models.FontMedium, models.FontLarge, models.FontXLarge:
		return true
	}
	return false
}

func validateEntityStatus(fl validator.FieldLevel) bool {
	switch models.EntityStatus(fl.Field().String()) {
	case models.StatusActive, models.StatusDisabled:
		return true
	}
	return false
}
