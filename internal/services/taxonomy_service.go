package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hairui08/exambank-service/internal/models"
	"github.com/hairui08/exambank-service/internal/repositories"
	"github.com/hairui08/exambank-service/internal/validator"
)

// TaxonomyService covers the per-subject classification data: knowledge
// points, question type configurations, payment rules and learning stages.
type TaxonomyService interface {
	CreateKnowledgePoint(ctx context.Context, req *CreateKnowledgePointRequest) (*models.KnowledgePoint, error)
	UpdateKnowledgePoint(ctx context.Context, id string, req *UpdateKnowledgePointRequest) (*models.KnowledgePoint, error)
	DeleteKnowledgePoint(ctx context.Context, id string) error
	ListKnowledgePoints(ctx context.Context, subjectID string) ([]*models.KnowledgePoint, error)

	CreateTypeConfig(ctx context.Context, req *CreateTypeConfigRequest) (*models.QuestionTypeConfig, error)
	UpdateTypeConfig(ctx context.Context, id string, req *UpdateTypeConfigRequest) (*models.QuestionTypeConfig, error)
	DeleteTypeConfig(ctx context.Context, id string) error
	ListTypeConfigs(ctx context.Context, subjectID string) ([]*models.QuestionTypeConfig, error)
	ReorderTypeConfigs(ctx context.Context, firstID, secondID string) error

	CreatePaymentRule(ctx context.Context, req *CreatePaymentRuleRequest) (*models.PaymentRule, error)
	UpdatePaymentRule(ctx context.Context, id string, req *UpdatePaymentRuleRequest) (*models.PaymentRule, error)
	DeletePaymentRule(ctx context.Context, id string) error
	ListPaymentRules(ctx context.Context) ([]*models.PaymentRule, error)

	CreateLearningStage(ctx context.Context, req *CreateLearningStageRequest) (*models.LearningStage, error)
	UpdateLearningStage(ctx context.Context, id string, req *UpdateLearningStageRequest) (*models.LearningStage, error)
	DeleteLearningStage(ctx context.Context, id string) error
	ListLearningStages(ctx context.Context, subjectID string) ([]*models.LearningStage, error)
}

type CreateKnowledgePointRequest struct {
	SubjectID   string `json:"subjectId" validate:"required"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=1000"`
}

type UpdateKnowledgePointRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=1000"`
}

type CreateTypeConfigRequest struct {
	SubjectID   string              `json:"subjectId" validate:"required"`
	Code        models.QuestionType `json:"code" validate:"required,question_type"`
	DisplayName string              `json:"displayName" validate:"required,min=1,max=100"`
	Order       int                 `json:"order" validate:"min=0"`
}

type UpdateTypeConfigRequest struct {
	DisplayName string `json:"displayName" validate:"required,min=1,max=100"`
	Order       *int   `json:"order,omitempty"`
}

type CreatePaymentRuleRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Kind        string  `json:"kind" validate:"required,oneof=free member purchase"`
	Price       float64 `json:"price" validate:"min=0"`
	Description string  `json:"description" validate:"max=1000"`
}

type UpdatePaymentRuleRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Kind        string  `json:"kind" validate:"required,oneof=free member purchase"`
	Price       float64 `json:"price" validate:"min=0"`
	Description string  `json:"description" validate:"max=1000"`
}

type CreateLearningStageRequest struct {
	SubjectID   string `json:"subjectId"`
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Order       int    `json:"order" validate:"min=0"`
}

type UpdateLearningStageRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Order       *int   `json:"order,omitempty"`
}

type taxonomyService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewTaxonomyService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) TaxonomyService {
	return &taxonomyService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ===== KNOWLEDGE POINT OPERATIONS =====

func (s *taxonomyService) CreateKnowledgePoint(ctx context.Context, req *CreateKnowledgePointRequest) (*models.KnowledgePoint, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Subject().GetByID(ctx, req.SubjectID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	exists, err := s.repo.KnowledgePoint().ExistsNameFold(ctx, req.SubjectID, name, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check knowledge point name: %w", err)
	}
	if exists {
		return nil, ErrKnowledgePointExists
	}

	now := time.Now()
	point := &models.KnowledgePoint{
		ID:          uuid.NewString(),
		SubjectID:   req.SubjectID,
		Name:        name,
		Description: req.Description,
		Status:      models.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.KnowledgePoint().Create(ctx, point); err != nil {
		return nil, fmt.Errorf("failed to create knowledge point: %w", err)
	}

	s.logger.Info("Knowledge point created", "point_id", point.ID, "subject_id", req.SubjectID)
	return point, nil
}

func (s *taxonomyService) UpdateKnowledgePoint(ctx context.Context, id string, req *UpdateKnowledgePointRequest) (*models.KnowledgePoint, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	point, err := s.repo.KnowledgePoint().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrKnowledgePointMissing
		}
		return nil, fmt.Errorf("failed to get knowledge point: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	exists, err := s.repo.KnowledgePoint().ExistsNameFold(ctx, point.SubjectID, name, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check knowledge point name: %w", err)
	}
	if exists {
		return nil, ErrKnowledgePointExists
	}

	point.Name = name
	point.Description = req.Description
	point.UpdatedAt = time.Now()

	if err := s.repo.KnowledgePoint().Update(ctx, point); err != nil {
		return nil, fmt.Errorf("failed to update knowledge point: %w", err)
	}

	return point, nil
}

func (s *taxonomyService) DeleteKnowledgePoint(ctx context.Context, id string) error {
	if err := s.repo.KnowledgePoint().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrKnowledgePointMissing
		}
		return fmt.Errorf("failed to delete knowledge point: %w", err)
	}
	return nil
}

func (s *taxonomyService) ListKnowledgePoints(ctx context.Context, subjectID string) ([]*models.KnowledgePoint, error) {
	return s.repo.KnowledgePoint().ListBySubject(ctx, subjectID)
}

// ===== QUESTION TYPE CONFIGURATION OPERATIONS =====

func (s *taxonomyService) CreateTypeConfig(ctx context.Context, req *CreateTypeConfigRequest) (*models.QuestionTypeConfig, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Subject().GetByID(ctx, req.SubjectID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	if exists, err := s.repo.QuestionTypeConfig().ExistsCode(ctx, req.SubjectID, req.Code, ""); err != nil {
		return nil, fmt.Errorf("failed to check type code: %w", err)
	} else if exists {
		return nil, ErrTypeConfigDuplicateCode
	}

	if exists, err := s.repo.QuestionTypeConfig().ExistsDisplayName(ctx, req.SubjectID, req.DisplayName, ""); err != nil {
		return nil, fmt.Errorf("failed to check display name: %w", err)
	} else if exists {
		return nil, ErrTypeConfigDuplicateName
	}

	if exists, err := s.repo.QuestionTypeConfig().ExistsOrder(ctx, req.SubjectID, req.Order, ""); err != nil {
		return nil, fmt.Errorf("failed to check sort position: %w", err)
	} else if exists {
		return nil, ErrTypeConfigOrderTaken
	}

	now := time.Now()
	cfg := &models.QuestionTypeConfig{
		ID:          uuid.NewString(),
		SubjectID:   req.SubjectID,
		Code:        req.Code,
		DisplayName: req.DisplayName,
		Order:       req.Order,
		Status:      models.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.QuestionTypeConfig().Create(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to create type configuration: %w", err)
	}

	return cfg, nil
}

func (s *taxonomyService) UpdateTypeConfig(ctx context.Context, id string, req *UpdateTypeConfigRequest) (*models.QuestionTypeConfig, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	cfg, err := s.repo.QuestionTypeConfig().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTypeConfigNotFound
		}
		return nil, fmt.Errorf("failed to get type configuration: %w", err)
	}

	if exists, err := s.repo.QuestionTypeConfig().ExistsDisplayName(ctx, cfg.SubjectID, req.DisplayName, id); err != nil {
		return nil, fmt.Errorf("failed to check display name: %w", err)
	} else if exists {
		return nil, ErrTypeConfigDuplicateName
	}

	if req.Order != nil {
		if exists, err := s.repo.QuestionTypeConfig().ExistsOrder(ctx, cfg.SubjectID, *req.Order, id); err != nil {
			return nil, fmt.Errorf("failed to check sort position: %w", err)
		} else if exists {
			return nil, ErrTypeConfigOrderTaken
		}
		cfg.Order = *req.Order
	}

	cfg.DisplayName = req.DisplayName
	cfg.UpdatedAt = time.Now()

	if err := s.repo.QuestionTypeConfig().Update(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to update type configuration: %w", err)
	}

	return cfg, nil
}

func (s *taxonomyService) DeleteTypeConfig(ctx context.Context, id string) error {
	if err := s.repo.QuestionTypeConfig().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTypeConfigNotFound
		}
		return fmt.Errorf("failed to delete type configuration: %w", err)
	}
	return nil
}

func (s *taxonomyService) ListTypeConfigs(ctx context.Context, subjectID string) ([]*models.QuestionTypeConfig, error) {
	return s.repo.QuestionTypeConfig().ListBySubject(ctx, subjectID)
}

func (s *taxonomyService) ReorderTypeConfigs(ctx context.Context, firstID, secondID string) error {
	if firstID == secondID {
		return ErrReorderSameEntity
	}
	if err := s.repo.QuestionTypeConfig().SwapOrder(ctx, firstID, secondID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTypeConfigNotFound
		}
		return fmt.Errorf("failed to reorder type configurations: %w", err)
	}
	return nil
}

// ===== PAYMENT RULE OPERATIONS =====

func (s *taxonomyService) CreatePaymentRule(ctx context.Context, req *CreatePaymentRuleRequest) (*models.PaymentRule, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	rule := &models.PaymentRule{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Kind:        req.Kind,
		Price:       req.Price,
		Description: req.Description,
		Status:      models.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.PaymentRule().Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create payment rule: %w", err)
	}

	return rule, nil
}

func (s *taxonomyService) UpdatePaymentRule(ctx context.Context, id string, req *UpdatePaymentRuleRequest) (*models.PaymentRule, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	rule, err := s.repo.PaymentRule().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPaymentRuleNotFound
		}
		return nil, fmt.Errorf("failed to get payment rule: %w", err)
	}

	rule.Name = req.Name
	rule.Kind = req.Kind
	rule.Price = req.Price
	rule.Description = req.Description
	rule.UpdatedAt = time.Now()

	if err := s.repo.PaymentRule().Update(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to update payment rule: %w", err)
	}

	return rule, nil
}

func (s *taxonomyService) DeletePaymentRule(ctx context.Context, id string) error {
	if err := s.repo.PaymentRule().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrPaymentRuleNotFound
		}
		return fmt.Errorf("failed to delete payment rule: %w", err)
	}
	return nil
}

func (s *taxonomyService) ListPaymentRules(ctx context.Context) ([]*models.PaymentRule, error) {
	return s.repo.PaymentRule().List(ctx)
}

// ===== LEARNING STAGE OPERATIONS =====

func (s *taxonomyService) CreateLearningStage(ctx context.Context, req *CreateLearningStageRequest) (*models.LearningStage, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	stage := &models.LearningStage{
		ID:          uuid.NewString(),
		SubjectID:   req.SubjectID,
		Name:        req.Name,
		Description: req.Description,
		Order:       req.Order,
		Status:      models.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.LearningStage().Create(ctx, stage); err != nil {
		return nil, fmt.Errorf("failed to create learning stage: %w", err)
	}

	return stage, nil
}

func (s *taxonomyService) UpdateLearningStage(ctx context.Context, id string, req *UpdateLearningStageRequest) (*models.LearningStage, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	stage, err := s.repo.LearningStage().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLearningStageNotFound
		}
		return nil, fmt.Errorf("failed to get learning stage: %w", err)
	}

	stage.Name = req.Name
	stage.Description = req.Description
	if req.Order != nil {
		stage.Order = *req.Order
	}
	stage.UpdatedAt = time.Now()

	if err := s.repo.LearningStage().Update(ctx, stage); err != nil {
		return nil, fmt.Errorf("failed to update learning stage: %w", err)
	}

	return stage, nil
}

func (s *taxonomyService) DeleteLearningStage(ctx context.Context, id string) error {
	if err := s.repo.LearningStage().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrLearningStageNotFound
		}
		return fmt.Errorf("failed to delete learning stage: %w", err)
	}
	return nil
}

func (s *taxonomyService) ListLearningStages(ctx context.Context, subjectID string) ([]*models.LearningStage, error) {
	return s.repo.LearningStage().List(ctx, subjectID)
}
