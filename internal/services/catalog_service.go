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

// CatalogService manages the project and subject levels of the catalog tree.
type CatalogService interface {
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error)
	UpdateProject(ctx context.Context, id string, req *UpdateProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error
	GetProject(ctx context.Context, id string) (*models.Project, error)
	ListProjects(ctx context.Context) ([]*models.Project, error)
	ToggleProjectStatus(ctx context.Context, id string) (*models.Project, error)
	ReorderProjects(ctx context.Context, draggedID, targetID string) error

	CreateSubject(ctx context.Context, req *CreateSubjectRequest) (*models.Subject, error)
	UpdateSubject(ctx context.Context, id string, req *UpdateSubjectRequest) (*models.Subject, error)
	DeleteSubject(ctx context.Context, id string) error
	ListSubjects(ctx context.Context, projectID string) ([]*models.Subject, error)
	ToggleSubjectStatus(ctx context.Context, id string) (*models.Subject, error)
	ReorderSubjects(ctx context.Context, draggedID, targetID string) error
}

type CreateProjectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type UpdateProjectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type CreateSubjectRequest struct {
	ProjectID string `json:"projectId" validate:"required"`
	Name      string `json:"name" validate:"required,min=1,max=100"`
}

type UpdateSubjectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type catalogService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewCatalogService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) CatalogService {
	return &catalogService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ===== PROJECT OPERATIONS =====

func (s *catalogService) CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.Project().ExistsActiveName(ctx, req.Name, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check project name: %w", err)
	}
	if exists {
		return nil, ErrProjectDuplicateName
	}

	maxOrder, err := s.repo.Project().MaxOrder(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get max order: %w", err)
	}

	now := time.Now()
	project := &models.Project{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Status:    models.StatusActive,
		Order:     maxOrder + 1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Project().Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("Project created", "project_id", project.ID, "name", project.Name)
	return project, nil
}

func (s *catalogService) UpdateProject(ctx context.Context, id string, req *UpdateProjectRequest) (*models.Project, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	project, err := s.repo.Project().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	exists, err := s.repo.Project().ExistsActiveName(ctx, req.Name, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check project name: %w", err)
	}
	if exists {
		return nil, ErrProjectDuplicateName
	}

	project.Name = req.Name
	project.UpdatedAt = time.Now()

	if err := s.repo.Project().Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes the project and every subject under it.
func (s *catalogService) DeleteProject(ctx context.Context, id string) error {
	if _, err := s.repo.Project().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to get project: %w", err)
	}

	if err := s.repo.Subject().DeleteByProject(ctx, id); err != nil {
		return fmt.Errorf("failed to delete subjects: %w", err)
	}
	if err := s.repo.Project().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.logger.Info("Project deleted with its subjects", "project_id", id)
	return nil
}

func (s *catalogService) GetProject(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.repo.Project().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

func (s *catalogService) ListProjects(ctx context.Context) ([]*models.Project, error) {
	return s.repo.Project().List(ctx)
}

// ToggleProjectStatus flips active/disabled. Re-enabling is refused while an
// active project with the same name exists.
func (s *catalogService) ToggleProjectStatus(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.repo.Project().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	next := project.Status.Toggled()
	if next == models.StatusActive {
		exists, err := s.repo.Project().ExistsActiveName(ctx, project.Name, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check project name: %w", err)
		}
		if exists {
			return nil, ErrEnableBlocked
		}
	}

	project.Status = next
	project.UpdatedAt = time.Now()
	if err := s.repo.Project().Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.logger.Info("Project status toggled", "project_id", id, "status", project.Status)
	return project, nil
}

func (s *catalogService) ReorderProjects(ctx context.Context, draggedID, targetID string) error {
	if draggedID == targetID {
		return ErrReorderSameEntity
	}
	if err := s.repo.Project().SwapOrder(ctx, draggedID, targetID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to reorder projects: %w", err)
	}
	return nil
}

// ===== SUBJECT OPERATIONS =====

func (s *catalogService) CreateSubject(ctx context.Context, req *CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	project, err := s.repo.Project().GetByID(ctx, req.ProjectID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	exists, err := s.repo.Subject().ExistsActiveName(ctx, req.ProjectID, req.Name, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check subject name: %w", err)
	}
	if exists {
		return nil, ErrSubjectDuplicateName
	}

	maxOrder, err := s.repo.Subject().MaxOrder(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get max order: %w", err)
	}

	now := time.Now()
	subject := &models.Subject{
		ID:          uuid.NewString(),
		ProjectID:   req.ProjectID,
		ProjectName: project.Name,
		Name:        req.Name,
		Status:      models.StatusActive,
		Order:       maxOrder + 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Subject().Create(ctx, subject); err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	s.logger.Info("Subject created", "subject_id", subject.ID, "project_id", req.ProjectID)
	return subject, nil
}

func (s *catalogService) UpdateSubject(ctx context.Context, id string, req *UpdateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	subject, err := s.repo.Subject().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	exists, err := s.repo.Subject().ExistsActiveName(ctx, subject.ProjectID, req.Name, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check subject name: %w", err)
	}
	if exists {
		return nil, ErrSubjectDuplicateName
	}

	subject.Name = req.Name
	subject.UpdatedAt = time.Now()

	if err := s.repo.Subject().Update(ctx, subject); err != nil {
		return nil, fmt.Errorf("failed to update subject: %w", err)
	}

	return subject, nil
}

func (s *catalogService) DeleteSubject(ctx context.Context, id string) error {
	if _, err := s.repo.Subject().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSubjectNotFound
		}
		return fmt.Errorf("failed to get subject: %w", err)
	}
	if err := s.repo.Subject().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete subject: %w", err)
	}
	return nil
}

func (s *catalogService) ListSubjects(ctx context.Context, projectID string) ([]*models.Subject, error) {
	return s.repo.Subject().ListByProject(ctx, projectID)
}

func (s *catalogService) ToggleSubjectStatus(ctx context.Context, id string) (*models.Subject, error) {
	subject, err := s.repo.Subject().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	next := subject.Status.Toggled()
	if next == models.StatusActive {
		exists, err := s.repo.Subject().ExistsActiveName(ctx, subject.ProjectID, subject.Name, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check subject name: %w", err)
		}
		if exists {
			return nil, ErrEnableBlocked
		}
	}

	subject.Status = next
	subject.UpdatedAt = time.Now()
	if err := s.repo.Subject().Update(ctx, subject); err != nil {
		return nil, fmt.Errorf("failed to update subject: %w", err)
	}

	return subject, nil
}

func (s *catalogService) ReorderSubjects(ctx context.Context, draggedID, targetID string) error {
	if draggedID == targetID {
		return ErrReorderSameEntity
	}
	if err := s.repo.Subject().SwapOrder(ctx, draggedID, targetID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSubjectNotFound
		}
		return fmt.Errorf("failed to reorder subjects: %w", err)
	}
	return nil
}
