package services

import (
	"log/slog"

	"github.com/hairui08/exambank-service/internal/repositories"
	"github.com/hairui08/exambank-service/internal/validator"
)

// Services bundles every domain service behind one injection point for the
// handler layer.
type Services struct {
	Catalog      CatalogService
	Chapter      ChapterService
	Taxonomy     TaxonomyService
	Question     QuestionService
	Exam         ExamService
	Test         TestService
	Marking      MarkingService
	ImportExport ImportExportService
}

func NewServices(repo repositories.Repository, logger *slog.Logger, validate *validator.Validator) *Services {
	return &Services{
		Catalog:      NewCatalogService(repo, logger, validate),
		Chapter:      NewChapterService(repo, logger, validate),
		Taxonomy:     NewTaxonomyService(repo, logger, validate),
		Question:     NewQuestionService(repo, logger, validate),
		Exam:         NewExamService(repo, logger, validate),
		Test:         NewTestService(repo, logger, validate),
		Marking:      NewMarkingService(repo, logger, validate),
		ImportExport: NewImportExportService(repo, logger, validate),
	}
}
