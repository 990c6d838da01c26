package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hairui08/exambank-service/internal/models"
	"github.com/hairui08/exambank-service/internal/repositories"
	"github.com/hairui08/exambank-service/internal/validator"
)

// QuestionService owns the question bank: CRUD with duplicate detection,
// lifecycle transitions and syncing questions out of exam papers.
type QuestionService interface {
	Create(ctx context.Context, req *CreateQuestionRequest) (*models.Question, error)
	Update(ctx context.Context, id string, req *UpdateQuestionRequest) (*models.Question, error)
	GetByID(ctx context.Context, id string) (*models.Question, error)
	List(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error)
	Delete(ctx context.Context, id string) error
	DeleteBatch(ctx context.Context, ids []string) error
	ToggleStatus(ctx context.Context, id string) (*models.Question, error)
	Deprecate(ctx context.Context, id, reason string) (*models.Question, error)
	ImportFromExam(ctx context.Context, examID string) (*ImportFromExamResult, error)
}

type CreateQuestionRequest struct {
	ProjectID string `json:"projectId"`
	SubjectID string `json:"subjectId" validate:"required"`
	ChapterID string `json:"chapterId" validate:"required"`
	SectionID string `json:"sectionId"`

	Type       models.QuestionType       `json:"type" validate:"required,question_type"`
	Source     models.QuestionSource     `json:"source" validate:"omitempty,question_source"`
	Year       string                    `json:"year"`
	Difficulty models.QuestionDifficulty `json:"difficulty" validate:"omitempty,question_difficulty"`
	Frequency  string                    `json:"frequency"`

	KnowledgePointIDs []string `json:"knowledgePointIds"`

	Stem        string                  `json:"stem" validate:"required"`
	Options     []models.QuestionOption `json:"options"`
	Answer      models.AnswerValue      `json:"answer"`
	Explanation string                  `json:"explanation"`

	MainStem     string               `json:"mainStem"`
	SubQuestions []models.SubQuestion `json:"subQuestions"`

	PaymentRuleID      string `json:"paymentRuleId"`
	InheritChapterRule bool   `json:"inheritChapterRule"`
	CreatorID          string `json:"creatorId"`
}

type UpdateQuestionRequest struct {
	Type       models.QuestionType       `json:"type" validate:"required,question_type"`
	Source     models.QuestionSource     `json:"source" validate:"omitempty,question_source"`
	Year       string                    `json:"year"`
	Difficulty models.QuestionDifficulty `json:"difficulty" validate:"omitempty,question_difficulty"`
	Frequency  string                    `json:"frequency"`

	KnowledgePointIDs []string `json:"knowledgePointIds"`

	Stem        string                  `json:"stem" validate:"required"`
	Options     []models.QuestionOption `json:"options"`
	Answer      models.AnswerValue      `json:"answer"`
	Explanation string                  `json:"explanation"`

	MainStem     string               `json:"mainStem"`
	SubQuestions []models.SubQuestion `json:"subQuestions"`

	PaymentRuleID      string `json:"paymentRuleId"`
	InheritChapterRule bool   `json:"inheritChapterRule"`
}

type QuestionListResponse struct {
	Items    []*models.Question `json:"items"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
}

// ImportFromExamResult reports how an exam-to-bank sync went.
type ImportFromExamResult struct {
	ExamID        string `json:"examId"`
	ImportedCount int    `json:"importedCount"`
	SkippedCount  int    `json:"skippedCount"`
}

type questionService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuestionService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) QuestionService {
	return &questionService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *questionService) Create(ctx context.Context, req *CreateQuestionRequest) (*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	question := questionFromCreate(req)
	if errs := s.validator.Question().Validate(question); len(errs) > 0 {
		return nil, errs
	}

	exists, err := s.repo.Question().ExistsDuplicate(ctx, req.Stem, req.SubjectID, req.ChapterID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate question: %w", err)
	}
	if exists {
		return nil, ErrQuestionDuplicate
	}

	if err := s.repo.Question().Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.logger.Info("Question created",
		"question_id", question.ID,
		"type", question.Type,
		"chapter_id", question.ChapterID)
	return question, nil
}

func questionFromCreate(req *CreateQuestionRequest) *models.Question {
	now := time.Now()
	return &models.Question{
		ID:                 uuid.NewString(),
		ProjectID:          req.ProjectID,
		SubjectID:          req.SubjectID,
		ChapterID:          req.ChapterID,
		SectionID:          req.SectionID,
		Type:               req.Type,
		Source:             req.Source,
		Year:               req.Year,
		Difficulty:         req.Difficulty,
		Frequency:          req.Frequency,
		KnowledgePointIDs:  req.KnowledgePointIDs,
		Stem:               req.Stem,
		Options:            req.Options,
		Answer:             req.Answer,
		Explanation:        req.Explanation,
		MainStem:           req.MainStem,
		SubQuestions:       req.SubQuestions,
		PaymentRuleID:      req.PaymentRuleID,
		InheritChapterRule: req.InheritChapterRule,
		CreateTime:         now,
		UpdateTime:         now,
		CreatorID:          req.CreatorID,
		Status:             models.QuestionActive,
	}
}

func (s *questionService) Update(ctx context.Context, id string, req *UpdateQuestionRequest) (*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	exists, err := s.repo.Question().ExistsDuplicate(ctx, req.Stem, question.SubjectID, question.ChapterID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate question: %w", err)
	}
	if exists {
		return nil, ErrQuestionDuplicate
	}

	question.Type = req.Type
	question.Source = req.Source
	question.Year = req.Year
	question.Difficulty = req.Difficulty
	question.Frequency = req.Frequency
	question.KnowledgePointIDs = req.KnowledgePointIDs
	question.Stem = req.Stem
	question.Options = req.Options
	question.Answer = req.Answer
	question.Explanation = req.Explanation
	question.MainStem = req.MainStem
	question.SubQuestions = req.SubQuestions
	question.PaymentRuleID = req.PaymentRuleID
	question.InheritChapterRule = req.InheritChapterRule
	question.UpdateTime = time.Now()

	if errs := s.validator.Question().Validate(question); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Question().Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	return question, nil
}

func (s *questionService) GetByID(ctx context.Context, id string) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}

func (s *questionService) List(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error) {
	items, total, err := s.repo.Question().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return &QuestionListResponse{
		Items:    items,
		Total:    total,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	}, nil
}

// Delete is a soft delete: the question stays in the bank with status deleted
// so running sessions that snapshot it keep working.
func (s *questionService) Delete(ctx context.Context, id string) error {
	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to get question: %w", err)
	}

	question.Status = models.QuestionDeleted
	question.UpdateTime = time.Now()
	if err := s.repo.Question().Update(ctx, question); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	s.logger.Info("Question soft deleted", "question_id", id)
	return nil
}

func (s *questionService) DeleteBatch(ctx context.Context, ids []string) error {
	now := time.Now()
	for _, id := range ids {
		question, err := s.repo.Question().GetByID(ctx, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				continue
			}
			return fmt.Errorf("failed to get question %s: %w", id, err)
		}
		question.Status = models.QuestionDeleted
		question.UpdateTime = now
		if err := s.repo.Question().Update(ctx, question); err != nil {
			return fmt.Errorf("failed to delete question %s: %w", id, err)
		}
	}
	return nil
}

func (s *questionService) ToggleStatus(ctx context.Context, id string) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	switch question.Status {
	case models.QuestionActive:
		question.Status = models.QuestionDisabled
	case models.QuestionDisabled:
		question.Status = models.QuestionActive
	default:
		return nil, NewDomainRuleError("question_status_toggle",
			"only active and disabled questions can be toggled",
			map[string]interface{}{"status": question.Status})
	}

	question.UpdateTime = time.Now()
	if err := s.repo.Question().Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	return question, nil
}

func (s *questionService) Deprecate(ctx context.Context, id, reason string) (*models.Question, error) {
	if reason == "" {
		return nil, validator.ValidationErrors{{
			Field: "reason", Message: "is required", Rule: "required",
		}}
	}

	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	now := time.Now()
	question.Status = models.QuestionDeprecated
	question.DeprecatedReason = reason
	question.DeprecatedDate = &now
	question.UpdateTime = now

	if err := s.repo.Question().Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to deprecate question: %w", err)
	}

	s.logger.Info("Question deprecated", "question_id", id, "reason", reason)
	return question, nil
}

// ImportFromExam copies every bank-less question of a paper into the bank.
// A row is skipped when a question with the same stem already exists in the
// target chapter.
func (s *questionService) ImportFromExam(ctx context.Context, examID string) (*ImportFromExamResult, error) {
	exam, err := s.repo.Exam().GetByID(ctx, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	result := &ImportFromExamResult{ExamID: examID}
	now := time.Now()

	for _, eq := range exam.Questions {
		if eq.Embedded == nil {
			continue
		}
		emb := eq.Embedded

		exists, err := s.repo.Question().ExistsStemInChapter(ctx, emb.Stem, emb.ChapterID)
		if err != nil {
			return nil, fmt.Errorf("failed to check for existing stem: %w", err)
		}
		if exists {
			result.SkippedCount++
			continue
		}

		question := &models.Question{
			ID:                uuid.NewString(),
			ProjectID:         exam.ProjectID,
			SubjectID:         exam.SubjectID,
			ChapterID:         emb.ChapterID,
			Type:              eq.Type,
			Source:            models.QuestionSource(emb.Source),
			Year:              emb.Year,
			Difficulty:        models.QuestionDifficulty(emb.Difficulty),
			KnowledgePointIDs: emb.KnowledgePointIDs,
			Stem:              emb.Stem,
			Options:           emb.Options,
			Answer:            emb.Answer,
			Explanation:       emb.Explanation,
			MainStem:          emb.MainStem,
			SubQuestions:      emb.SubQuestions,
			FromExamID:        examID,
			CreateTime:        now,
			UpdateTime:        now,
			CreatorID:         exam.CreatorID,
			Status:            models.QuestionActive,
		}

		if err := s.repo.Question().Create(ctx, question); err != nil {
			return nil, fmt.Errorf("failed to import question: %w", err)
		}
		result.ImportedCount++
	}

	s.logger.Info("Questions imported from exam",
		"exam_id", examID,
		"imported", result.ImportedCount,
		"skipped", result.SkippedCount)
	return result, nil
}
