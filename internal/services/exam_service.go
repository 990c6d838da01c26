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

// ExamService assembles and manages exam papers. TotalScore is derived from
// the mandatory questions on every write, never taken from the caller.
type ExamService interface {
	Create(ctx context.Context, req *CreateExamRequest) (*models.Exam, error)
	Update(ctx context.Context, id string, req *UpdateExamRequest) (*models.Exam, error)
	GetByID(ctx context.Context, id string) (*models.Exam, error)
	List(ctx context.Context, filters repositories.ExamFilters) (*ExamListResponse, error)
	Delete(ctx context.Context, id string) error
	DeleteBatch(ctx context.Context, ids []string) error
	ToggleStatus(ctx context.Context, id string) (*models.Exam, error)
	CheckNameAvailable(ctx context.Context, name, subjectID, excludeID string) (bool, error)
}

type CreateExamRequest struct {
	Name            string                `json:"name" validate:"required,min=1,max=200"`
	ProjectID       string                `json:"projectId"`
	SubjectID       string                `json:"subjectId" validate:"required"`
	LearningStageID string                `json:"learningStageId"`
	PassingScore    float64               `json:"passingScore" validate:"min=0"`
	Questions       []models.ExamQuestion `json:"questions" validate:"required,min=1,dive"`
	ValidFrom       string                `json:"validFrom"`
	ValidTo         string                `json:"validTo"`
	Year            int                   `json:"year"`
	PaymentRuleID   string                `json:"paymentRuleId"`
	CreatorID       string                `json:"creatorId"`
	CreatorName     string                `json:"creatorName"`
}

type UpdateExamRequest struct {
	Name            string                `json:"name" validate:"required,min=1,max=200"`
	LearningStageID string                `json:"learningStageId"`
	PassingScore    float64               `json:"passingScore" validate:"min=0"`
	Questions       []models.ExamQuestion `json:"questions" validate:"required,min=1,dive"`
	ValidFrom       string                `json:"validFrom"`
	ValidTo         string                `json:"validTo"`
	Year            int                   `json:"year"`
	PaymentRuleID   string                `json:"paymentRuleId"`
}

type ExamListResponse struct {
	Items    []*models.Exam `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

type examService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewExamService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ExamService {
	return &examService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *examService) Create(ctx context.Context, req *CreateExamRequest) (*models.Exam, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.Exam().ExistsName(ctx, req.Name, req.SubjectID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check exam name: %w", err)
	}
	if exists {
		return nil, ErrExamDuplicateName
	}

	now := time.Now()
	exam := &models.Exam{
		ID:              uuid.NewString(),
		Name:            req.Name,
		ProjectID:       req.ProjectID,
		SubjectID:       req.SubjectID,
		LearningStageID: req.LearningStageID,
		PassingScore:    req.PassingScore,
		Questions:       req.Questions,
		ValidFrom:       req.ValidFrom,
		ValidTo:         req.ValidTo,
		Year:            req.Year,
		PaymentRuleID:   req.PaymentRuleID,
		CreateTime:      now,
		UpdateTime:      now,
		CreatorID:       req.CreatorID,
		CreatorName:     req.CreatorName,
		Status:          models.ExamActive,
	}
	exam.TotalScore = exam.MandatoryTotal()

	if err := s.repo.Exam().Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}

	s.logger.Info("Exam created",
		"exam_id", exam.ID,
		"subject_id", exam.SubjectID,
		"total_score", exam.TotalScore)
	return exam, nil
}

func (s *examService) Update(ctx context.Context, id string, req *UpdateExamRequest) (*models.Exam, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exam, err := s.repo.Exam().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	exists, err := s.repo.Exam().ExistsName(ctx, req.Name, exam.SubjectID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check exam name: %w", err)
	}
	if exists {
		return nil, ErrExamDuplicateName
	}

	exam.Name = req.Name
	exam.LearningStageID = req.LearningStageID
	exam.PassingScore = req.PassingScore
	exam.Questions = req.Questions
	exam.ValidFrom = req.ValidFrom
	exam.ValidTo = req.ValidTo
	exam.Year = req.Year
	exam.PaymentRuleID = req.PaymentRuleID
	exam.TotalScore = exam.MandatoryTotal()
	exam.UpdateTime = time.Now()

	if err := s.repo.Exam().Update(ctx, exam); err != nil {
		return nil, fmt.Errorf("failed to update exam: %w", err)
	}

	return exam, nil
}

func (s *examService) GetByID(ctx context.Context, id string) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	return exam, nil
}

func (s *examService) List(ctx context.Context, filters repositories.ExamFilters) (*ExamListResponse, error) {
	items, total, err := s.repo.Exam().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}
	return &ExamListResponse{
		Items:    items,
		Total:    total,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	}, nil
}

func (s *examService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Exam().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrExamNotFound
		}
		return fmt.Errorf("failed to delete exam: %w", err)
	}
	return nil
}

func (s *examService) DeleteBatch(ctx context.Context, ids []string) error {
	if err := s.repo.Exam().DeleteBatch(ctx, ids); err != nil {
		return fmt.Errorf("failed to batch delete exams: %w", err)
	}
	s.logger.Info("Exams batch deleted", "count", len(ids))
	return nil
}

func (s *examService) ToggleStatus(ctx context.Context, id string) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	if exam.Status == models.ExamActive {
		exam.Status = models.ExamDisabled
	} else {
		exam.Status = models.ExamActive
	}
	exam.UpdateTime = time.Now()

	if err := s.repo.Exam().Update(ctx, exam); err != nil {
		return nil, fmt.Errorf("failed to update exam: %w", err)
	}
	return exam, nil
}

// CheckNameAvailable reports whether the name is free within the subject.
func (s *examService) CheckNameAvailable(ctx context.Context, name, subjectID, excludeID string) (bool, error) {
	exists, err := s.repo.Exam().ExistsName(ctx, name, subjectID, excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check exam name: %w", err)
	}
	return !exists, nil
}
