package services

import (
	"errors"
	"fmt"

	"github.com/hairui08/exambank-service/internal/session"
	"github.com/hairui08/exambank-service/internal/validator"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Catalog specific errors
	ErrProjectNotFound       = errors.New("project not found")
	ErrProjectDuplicateName  = errors.New("an active project with this name already exists")
	ErrSubjectNotFound       = errors.New("subject not found")
	ErrSubjectDuplicateName  = errors.New("an active subject with this name already exists in this project")
	ErrChapterNotFound       = errors.New("chapter not found")
	ErrChapterDuplicateName  = errors.New("a chapter with this name already exists in this subject")
	ErrChapterNotDeletable   = errors.New("chapter cannot be deleted - has sections or questions")
	ErrSectionNotFound       = errors.New("section not found")
	ErrSectionDuplicateName  = errors.New("a section with this name already exists in this chapter")
	ErrEnableBlocked         = errors.New("cannot enable - an active entry with the same name exists")
	ErrReorderSameEntity     = errors.New("cannot reorder an entry onto itself")
	ErrKnowledgePointExists  = errors.New("a knowledge point with this name already exists in this subject")
	ErrKnowledgePointMissing = errors.New("knowledge point not found")

	// Question type configuration errors
	ErrTypeConfigNotFound      = errors.New("question type configuration not found")
	ErrTypeConfigDuplicateCode = errors.New("this question type is already configured for this subject")
	ErrTypeConfigDuplicateName = errors.New("a question type with this display name already exists")
	ErrTypeConfigOrderTaken    = errors.New("this sort position is already taken")

	// Payment rule and learning stage errors
	ErrPaymentRuleNotFound   = errors.New("payment rule not found")
	ErrLearningStageNotFound = errors.New("learning stage not found")

	// Question specific errors
	ErrQuestionNotFound    = errors.New("question not found")
	ErrQuestionDuplicate   = errors.New("an identical question already exists in this chapter")
	ErrQuestionInvalidType = errors.New("invalid question type")

	// Exam specific errors
	ErrExamNotFound      = errors.New("exam not found")
	ErrExamDuplicateName = errors.New("an exam with this name already exists in this subject")
	ErrExamNoQuestions   = errors.New("exam has no questions")

	// Test specific errors
	ErrTestNotFound        = errors.New("test not found")
	ErrTestDuplicateName   = errors.New("a test with this name already exists in this subject")
	ErrTestNotPending      = errors.New("test is not awaiting review")
	ErrTestRejectNoReason  = errors.New("rejecting a test requires a reason")
	ErrTestAlreadyApproved = errors.New("test has already been approved")

	// Marking specific errors
	ErrMarkingNotFound   = errors.New("marking record not found")
	ErrMarkingNoTeachers = errors.New("at least one teacher must be assigned")
	ErrMarkingNotStarted = errors.New("marking has not started for this record")

	// Session specific errors, shared with the engine package so errors.Is
	// works across the service boundary
	ErrNoActiveSession    = session.ErrNoActiveSession
	ErrSessionNoQuestions = session.ErrNoQuestions
	ErrSessionCorrupted   = session.ErrCorruptedState
	ErrNoWrongQuestions   = session.ErrNoWrongQuestions

	// Import specific errors
	ErrImportEmptyFile   = errors.New("import file contains no data rows")
	ErrImportBadTemplate = errors.New("import file does not match the expected template")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from the validator package
type ValidationError = validator.ValidationError
type ValidationErrors = validator.ValidationErrors

// DomainRuleError carries a named rule violation with context, for rules
// richer than a bare sentinel.
type DomainRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (dre *DomainRuleError) Error() string {
	return fmt.Sprintf("domain rule violation (%s): %s", dre.Rule, dre.Message)
}

func NewDomainRuleError(rule, message string, context map[string]interface{}) *DomainRuleError {
	return &DomainRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrProjectNotFound) ||
		errors.Is(err, ErrSubjectNotFound) ||
		errors.Is(err, ErrChapterNotFound) ||
		errors.Is(err, ErrSectionNotFound) ||
		errors.Is(err, ErrKnowledgePointMissing) ||
		errors.Is(err, ErrTypeConfigNotFound) ||
		errors.Is(err, ErrPaymentRuleNotFound) ||
		errors.Is(err, ErrLearningStageNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrExamNotFound) ||
		errors.Is(err, ErrTestNotFound) ||
		errors.Is(err, ErrMarkingNotFound) ||
		errors.Is(err, ErrNoActiveSession)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrBadRequest) {
		return true
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *validator.ValidationError
	return errors.As(err, &single)
}

// IsDomainRule checks if error represents a domain rule violation
func IsDomainRule(err error) bool {
	var dre *DomainRuleError
	return errors.As(err, &dre)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrProjectDuplicateName) ||
		errors.Is(err, ErrSubjectDuplicateName) ||
		errors.Is(err, ErrChapterDuplicateName) ||
		errors.Is(err, ErrChapterNotDeletable) ||
		errors.Is(err, ErrSectionDuplicateName) ||
		errors.Is(err, ErrEnableBlocked) ||
		errors.Is(err, ErrKnowledgePointExists) ||
		errors.Is(err, ErrTypeConfigDuplicateCode) ||
		errors.Is(err, ErrTypeConfigDuplicateName) ||
		errors.Is(err, ErrTypeConfigOrderTaken) ||
		errors.Is(err, ErrQuestionDuplicate) ||
		errors.Is(err, ErrExamDuplicateName) ||
		errors.Is(err, ErrTestDuplicateName) ||
		errors.Is(err, ErrTestAlreadyApproved)
}
