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

// ChapterService manages chapters and their sections. Chapter deletion is
// refused while sections or bank questions still hang off the chapter.
type ChapterService interface {
	CreateChapter(ctx context.Context, req *CreateChapterRequest) (*models.Chapter, error)
	UpdateChapter(ctx context.Context, id string, req *UpdateChapterRequest) (*models.Chapter, error)
	DeleteChapter(ctx context.Context, id string) error
	GetChapter(ctx context.Context, id string) (*models.Chapter, error)
	ListChapters(ctx context.Context, subjectID string) ([]*models.Chapter, error)
	ToggleChapterStatus(ctx context.Context, id string) (*models.Chapter, error)

	CreateSection(ctx context.Context, req *CreateSectionRequest) (*models.Section, error)
	UpdateSection(ctx context.Context, id string, req *UpdateSectionRequest) (*models.Section, error)
	DeleteSection(ctx context.Context, id string) error
	ListSections(ctx context.Context, chapterID string) ([]*models.Section, error)
	ToggleSectionStatus(ctx context.Context, id string) (*models.Section, error)
}

type CreateChapterRequest struct {
	SubjectID  string `json:"subjectId" validate:"required"`
	Name       string `json:"name" validate:"required,min=1,max=200"`
	IsPractice bool   `json:"isPractice"`
}

type UpdateChapterRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=200"`
	IsPractice *bool  `json:"isPractice,omitempty"`
}

type CreateSectionRequest struct {
	ChapterID string `json:"chapterId" validate:"required"`
	Name      string `json:"name" validate:"required,min=1,max=200"`
}

type UpdateSectionRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

type chapterService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewChapterService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ChapterService {
	return &chapterService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ===== CHAPTER OPERATIONS =====

func (s *chapterService) CreateChapter(ctx context.Context, req *CreateChapterRequest) (*models.Chapter, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	subject, err := s.repo.Subject().GetByID(ctx, req.SubjectID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	exists, err := s.repo.Chapter().ExistsName(ctx, req.SubjectID, req.Name, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check chapter name: %w", err)
	}
	if exists {
		return nil, ErrChapterDuplicateName
	}

	chapters, err := s.repo.Chapter().ListBySubject(ctx, req.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	maxOrder := 0
	for _, c := range chapters {
		if c.Order > maxOrder {
			maxOrder = c.Order
		}
	}

	now := time.Now()
	chapter := &models.Chapter{
		ID:          uuid.NewString(),
		SubjectID:   req.SubjectID,
		SubjectName: subject.Name,
		Name:        req.Name,
		Status:      models.StatusActive,
		Order:       maxOrder + 1,
		IsPractice:  req.IsPractice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Chapter().Create(ctx, chapter); err != nil {
		return nil, fmt.Errorf("failed to create chapter: %w", err)
	}

	s.logger.Info("Chapter created", "chapter_id", chapter.ID, "subject_id", req.SubjectID)
	return chapter, nil
}

func (s *chapterService) UpdateChapter(ctx context.Context, id string, req *UpdateChapterRequest) (*models.Chapter, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	chapter, err := s.repo.Chapter().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}

	exists, err := s.repo.Chapter().ExistsName(ctx, chapter.SubjectID, req.Name, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check chapter name: %w", err)
	}
	if exists {
		return nil, ErrChapterDuplicateName
	}

	chapter.Name = req.Name
	if req.IsPractice != nil {
		chapter.IsPractice = *req.IsPractice
	}
	chapter.UpdatedAt = time.Now()

	if err := s.repo.Chapter().Update(ctx, chapter); err != nil {
		return nil, fmt.Errorf("failed to update chapter: %w", err)
	}

	return chapter, nil
}

// DeleteChapter refuses to remove a chapter that still has sections or
// questions pointing at it.
func (s *chapterService) DeleteChapter(ctx context.Context, id string) error {
	if _, err := s.repo.Chapter().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrChapterNotFound
		}
		return fmt.Errorf("failed to get chapter: %w", err)
	}

	sectionCount, err := s.repo.Section().CountByChapter(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count sections: %w", err)
	}
	if sectionCount > 0 {
		return ErrChapterNotDeletable
	}

	questionCount, err := s.repo.Question().CountByChapter(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count questions: %w", err)
	}
	if questionCount > 0 {
		return ErrChapterNotDeletable
	}

	if err := s.repo.Chapter().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete chapter: %w", err)
	}

	s.logger.Info("Chapter deleted", "chapter_id", id)
	return nil
}

func (s *chapterService) GetChapter(ctx context.Context, id string) (*models.Chapter, error) {
	chapter, err := s.repo.Chapter().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	return chapter, nil
}

func (s *chapterService) ListChapters(ctx context.Context, subjectID string) ([]*models.Chapter, error) {
	return s.repo.Chapter().ListBySubject(ctx, subjectID)
}

func (s *chapterService) ToggleChapterStatus(ctx context.Context, id string) (*models.Chapter, error) {
	chapter, err := s.repo.Chapter().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}

	next := chapter.Status.Toggled()
	if next == models.StatusActive {
		exists, err := s.repo.Chapter().ExistsActiveName(ctx, chapter.SubjectID, chapter.Name, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check chapter name: %w", err)
		}
		if exists {
			return nil, ErrEnableBlocked
		}
	}

	chapter.Status = next
	chapter.UpdatedAt = time.Now()
	if err := s.repo.Chapter().Update(ctx, chapter); err != nil {
		return nil, fmt.Errorf("failed to update chapter: %w", err)
	}

	return chapter, nil
}

// ===== SECTION OPERATIONS =====

func (s *chapterService) CreateSection(ctx context.Context, req *CreateSectionRequest) (*models.Section, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	chapter, err := s.repo.Chapter().GetByID(ctx, req.ChapterID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}

	exists, err := s.repo.Section().ExistsName(ctx, req.ChapterID, req.Name, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check section name: %w", err)
	}
	if exists {
		return nil, ErrSectionDuplicateName
	}

	sections, err := s.repo.Section().ListByChapter(ctx, req.ChapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	maxOrder := 0
	for _, sec := range sections {
		if sec.Order > maxOrder {
			maxOrder = sec.Order
		}
	}

	now := time.Now()
	section := &models.Section{
		ID:          uuid.NewString(),
		ChapterID:   req.ChapterID,
		ChapterName: chapter.Name,
		Name:        req.Name,
		Status:      models.StatusActive,
		Order:       maxOrder + 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Section().Create(ctx, section); err != nil {
		return nil, fmt.Errorf("failed to create section: %w", err)
	}

	return section, nil
}

func (s *chapterService) UpdateSection(ctx context.Context, id string, req *UpdateSectionRequest) (*models.Section, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	section, err := s.repo.Section().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}

	exists, err := s.repo.Section().ExistsName(ctx, section.ChapterID, req.Name, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check section name: %w", err)
	}
	if exists {
		return nil, ErrSectionDuplicateName
	}

	section.Name = req.Name
	section.UpdatedAt = time.Now()

	if err := s.repo.Section().Update(ctx, section); err != nil {
		return nil, fmt.Errorf("failed to update section: %w", err)
	}

	return section, nil
}

func (s *chapterService) DeleteSection(ctx context.Context, id string) error {
	if _, err := s.repo.Section().GetByID(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrSectionNotFound
		}
		return fmt.Errorf("failed to get section: %w", err)
	}
	if err := s.repo.Section().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete section: %w", err)
	}
	return nil
}

func (s *chapterService) ListSections(ctx context.Context, chapterID string) ([]*models.Section, error) {
	return s.repo.Section().ListByChapter(ctx, chapterID)
}

func (s *chapterService) ToggleSectionStatus(ctx context.Context, id string) (*models.Section, error) {
	section, err := s.repo.Section().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}

	next := section.Status.Toggled()
	if next == models.StatusActive {
		exists, err := s.repo.Section().ExistsActiveName(ctx, section.ChapterID, section.Name, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check section name: %w", err)
		}
		if exists {
			return nil, ErrEnableBlocked
		}
	}

	section.Status = next
	section.UpdatedAt = time.Now()
	if err := s.repo.Section().Update(ctx, section); err != nil {
		return nil, fmt.Errorf("failed to update section: %w", err)
	}

	return section, nil
}
