package repositories

import "github.com/hairui08/exambank-service/internal/models"

// QuestionFilters narrows the bank along every optional dimension. Zero
// values mean "no constraint". Status "all" disables the status filter
// entirely, while an empty Status defaults to excluding nothing.
type QuestionFilters struct {
	ProjectID        string
	SubjectID        string
	ChapterID        string
	SectionID        string
	Type             models.QuestionType
	Source           models.QuestionSource
	Difficulty       models.QuestionDifficulty
	Frequency        string
	Year             string
	Status           string
	KnowledgePointID string
	PaymentRuleID    string
	Keyword          string // substring match on the stem

	Page     int
	PageSize int
}

type ExamFilters struct {
	SubjectID       string
	Status          models.ExamStatus
	Name            string // substring match
	Year            int
	PaymentRuleID   string
	LearningStageID string

	Page     int
	PageSize int
}

type TestFilters struct {
	SubjectID string
	Approval  models.TestApproval
	Name      string

	Page     int
	PageSize int
}

type MarkingFilters struct {
	ProjectID string
	SubjectID string
	Status    models.MarkingStatus
	ExamName  string

	Page     int
	PageSize int
}

// Paginate applies the offset paging shared by the list implementations.
// Page numbers are 1-based; a non-positive page size disables paging.
func Paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
