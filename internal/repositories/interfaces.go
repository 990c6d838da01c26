package repositories

import (
	"context"
	"errors"

	"github.com/hairui08/exambank-service/internal/models"
)

// ErrNotFound is returned by every repository when a lookup misses.
var ErrNotFound = errors.New("record not found")

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ProjectRepository stores the top level of the catalog. Collections are
// keyed maps with an ordered index; List returns entities sorted by their
// Order field ascending.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Project, error)
	MaxOrder(ctx context.Context) (int, error)
	// ExistsActiveName reports whether an active project other than excludeID
	// already carries the name.
	ExistsActiveName(ctx context.Context, name, excludeID string) (bool, error)
	// SwapOrder exchanges the Order values of exactly two projects.
	SwapOrder(ctx context.Context, draggedID, targetID string) error
}

type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id string) (*models.Subject, error)
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
	ListByProject(ctx context.Context, projectID string) ([]*models.Subject, error)
	DeleteByProject(ctx context.Context, projectID string) error
	MaxOrder(ctx context.Context, projectID string) (int, error)
	ExistsActiveName(ctx context.Context, projectID, name, excludeID string) (bool, error)
	SwapOrder(ctx context.Context, draggedID, targetID string) error
}

type ChapterRepository interface {
	Create(ctx context.Context, chapter *models.Chapter) error
	GetByID(ctx context.Context, id string) (*models.Chapter, error)
	Update(ctx context.Context, chapter *models.Chapter) error
	Delete(ctx context.Context, id string) error
	ListBySubject(ctx context.Context, subjectID string) ([]*models.Chapter, error)
	// ExistsName is case-sensitive and scoped to one subject.
	ExistsName(ctx context.Context, subjectID, name, excludeID string) (bool, error)
	ExistsActiveName(ctx context.Context, subjectID, name, excludeID string) (bool, error)
}

type SectionRepository interface {
	Create(ctx context.Context, section *models.Section) error
	GetByID(ctx context.Context, id string) (*models.Section, error)
	Update(ctx context.Context, section *models.Section) error
	Delete(ctx context.Context, id string) error
	ListByChapter(ctx context.Context, chapterID string) ([]*models.Section, error)
	CountByChapter(ctx context.Context, chapterID string) (int, error)
	ExistsName(ctx context.Context, chapterID, name, excludeID string) (bool, error)
	ExistsActiveName(ctx context.Context, chapterID, name, excludeID string) (bool, error)
}

type KnowledgePointRepository interface {
	Create(ctx context.Context, point *models.KnowledgePoint) error
	GetByID(ctx context.Context, id string) (*models.KnowledgePoint, error)
	Update(ctx context.Context, point *models.KnowledgePoint) error
	Delete(ctx context.Context, id string) error
	ListBySubject(ctx context.Context, subjectID string) ([]*models.KnowledgePoint, error)
	// ExistsNameFold matches names trimmed and case-insensitively.
	ExistsNameFold(ctx context.Context, subjectID, name, excludeID string) (bool, error)
}

type QuestionTypeConfigRepository interface {
	Create(ctx context.Context, cfg *models.QuestionTypeConfig) error
	GetByID(ctx context.Context, id string) (*models.QuestionTypeConfig, error)
	Update(ctx context.Context, cfg *models.QuestionTypeConfig) error
	Delete(ctx context.Context, id string) error
	ListBySubject(ctx context.Context, subjectID string) ([]*models.QuestionTypeConfig, error)
	ExistsCode(ctx context.Context, subjectID string, code models.QuestionType, excludeID string) (bool, error)
	ExistsDisplayName(ctx context.Context, subjectID, displayName, excludeID string) (bool, error)
	ExistsOrder(ctx context.Context, subjectID string, order int, excludeID string) (bool, error)
	SwapOrder(ctx context.Context, firstID, secondID string) error
}

type PaymentRuleRepository interface {
	Create(ctx context.Context, rule *models.PaymentRule) error
	GetByID(ctx context.Context, id string) (*models.PaymentRule, error)
	Update(ctx context.Context, rule *models.PaymentRule) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.PaymentRule, error)
}

type LearningStageRepository interface {
	Create(ctx context.Context, stage *models.LearningStage) error
	GetByID(ctx context.Context, id string) (*models.LearningStage, error)
	Update(ctx context.Context, stage *models.LearningStage) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, subjectID string) ([]*models.LearningStage, error)
}

type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id string) (*models.Question, error)
	// GetByIDs returns the questions that exist, in the order requested.
	// Missing ids are skipped silently.
	GetByIDs(ctx context.Context, ids []string) ([]*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id string) error
	DeleteBatch(ctx context.Context, ids []string) error
	// List applies the filters, sorts by creation time descending and applies
	// offset pagination. The returned total counts all matches before paging.
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, int, error)
	// ExistsDuplicate matches stem + subject + chapter, excluding excludeID.
	ExistsDuplicate(ctx context.Context, stem, subjectID, chapterID, excludeID string) (bool, error)
	// ExistsStemInChapter is the import dedup rule: identical stem and chapter.
	ExistsStemInChapter(ctx context.Context, stem, chapterID string) (bool, error)
	CountByChapter(ctx context.Context, chapterID string) (int, error)
}

type ExamRepository interface {
	Create(ctx context.Context, exam *models.Exam) error
	GetByID(ctx context.Context, id string) (*models.Exam, error)
	Update(ctx context.Context, exam *models.Exam) error
	Delete(ctx context.Context, id string) error
	DeleteBatch(ctx context.Context, ids []string) error
	List(ctx context.Context, filters ExamFilters) ([]*models.Exam, int, error)
	ExistsName(ctx context.Context, name, subjectID, excludeID string) (bool, error)
}

type TestRepository interface {
	Create(ctx context.Context, test *models.Test) error
	GetByID(ctx context.Context, id string) (*models.Test, error)
	Update(ctx context.Context, test *models.Test) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters TestFilters) ([]*models.Test, int, error)
	ExistsName(ctx context.Context, name, subjectID, excludeID string) (bool, error)
}

type MarkingRepository interface {
	CreateRecord(ctx context.Context, record *models.MarkingRecord) error
	GetRecord(ctx context.Context, id string) (*models.MarkingRecord, error)
	UpdateRecord(ctx context.Context, record *models.MarkingRecord) error
	ListRecords(ctx context.Context, filters MarkingFilters) ([]*models.MarkingRecord, int, error)
	CountRecords(ctx context.Context, projectID, subjectID string) (int, error)
	ListTeachers(ctx context.Context) ([]*models.Teacher, error)
	CreateTeacher(ctx context.Context, teacher *models.Teacher) error
}

// Repository aggregates all stores behind one injection point.
type Repository interface {
	Project() ProjectRepository
	Subject() SubjectRepository
	Chapter() ChapterRepository
	Section() SectionRepository
	KnowledgePoint() KnowledgePointRepository
	QuestionTypeConfig() QuestionTypeConfigRepository
	PaymentRule() PaymentRuleRepository
	LearningStage() LearningStageRepository
	Question() QuestionRepository
	Exam() ExamRepository
	Test() TestRepository
	Marking() MarkingRepository
}
