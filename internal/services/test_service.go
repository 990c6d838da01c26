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

// TestService schedules tests on top of exam papers and runs their review
// workflow: created pending, then approved or rejected with a reason. A
// rejected test goes back to pending on resubmit.
type TestService interface {
	Create(ctx context.Context, req *CreateTestRequest) (*models.Test, error)
	Update(ctx context.Context, id string, req *UpdateTestRequest) (*models.Test, error)
	GetByID(ctx context.Context, id string) (*models.Test, error)
	List(ctx context.Context, filters repositories.TestFilters) (*TestListResponse, error)
	Delete(ctx context.Context, id string) error
	Approve(ctx context.Context, id string) (*models.Test, error)
	Reject(ctx context.Context, id, reason string) (*models.Test, error)
	Resubmit(ctx context.Context, id string) (*models.Test, error)
}

type CreateTestRequest struct {
	Name      string          `json:"name" validate:"required,min=1,max=200"`
	SubjectID string          `json:"subjectId" validate:"required"`
	ExamID    string          `json:"examId" validate:"required"`
	Kind      models.TestKind `json:"kind" validate:"omitempty,oneof=formal practice"`
	StartAt   *time.Time      `json:"startAt"`
	EndAt     *time.Time      `json:"endAt"`
	Duration  int             `json:"duration" validate:"min=0"`
	CreatorID string          `json:"creatorId"`
}

type UpdateTestRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	Kind     models.TestKind `json:"kind" validate:"omitempty,oneof=formal practice"`
	StartAt  *time.Time      `json:"startAt"`
	EndAt    *time.Time      `json:"endAt"`
	Duration int             `json:"duration" validate:"min=0"`
}

type TestListResponse struct {
	Items    []*models.Test `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

type testService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewTestService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) TestService {
	return &testService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *testService) Create(ctx context.Context, req *CreateTestRequest) (*models.Test, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Exam().GetByID(ctx, req.ExamID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	exists, err := s.repo.Test().ExistsName(ctx, req.Name, req.SubjectID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check test name: %w", err)
	}
	if exists {
		return nil, ErrTestDuplicateName
	}

	kind := req.Kind
	if kind == "" {
		kind = models.TestFormal
	}

	now := time.Now()
	test := &models.Test{
		ID:         uuid.NewString(),
		Name:       req.Name,
		SubjectID:  req.SubjectID,
		ExamID:     req.ExamID,
		Kind:       kind,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
		Duration:   req.Duration,
		Approval:   models.TestPending,
		CreateTime: now,
		UpdateTime: now,
		CreatorID:  req.CreatorID,
	}

	if err := s.repo.Test().Create(ctx, test); err != nil {
		return nil, fmt.Errorf("failed to create test: %w", err)
	}

	s.logger.Info("Test created", "test_id", test.ID, "exam_id", test.ExamID)
	return test, nil
}

func (s *testService) Update(ctx context.Context, id string, req *UpdateTestRequest) (*models.Test, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	test, err := s.repo.Test().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	exists, err := s.repo.Test().ExistsName(ctx, req.Name, test.SubjectID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check test name: %w", err)
	}
	if exists {
		return nil, ErrTestDuplicateName
	}

	test.Name = req.Name
	if req.Kind != "" {
		test.Kind = req.Kind
	}
	test.StartAt = req.StartAt
	test.EndAt = req.EndAt
	test.Duration = req.Duration
	test.UpdateTime = time.Now()

	if err := s.repo.Test().Update(ctx, test); err != nil {
		return nil, fmt.Errorf("failed to update test: %w", err)
	}

	return test, nil
}

func (s *testService) GetByID(ctx context.Context, id string) (*models.Test, error) {
	test, err := s.repo.Test().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}
	return test, nil
}

func (s *testService) List(ctx context.Context, filters repositories.TestFilters) (*TestListResponse, error) {
	items, total, err := s.repo.Test().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list tests: %w", err)
	}
	return &TestListResponse{
		Items:    items,
		Total:    total,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	}, nil
}

// Delete refuses approved tests; they are already visible to students.
func (s *testService) Delete(ctx context.Context, id string) error {
	test, err := s.repo.Test().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTestNotFound
		}
		return fmt.Errorf("failed to get test: %w", err)
	}

	if test.Approval == models.TestApproved {
		return ErrTestAlreadyApproved
	}

	if err := s.repo.Test().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete test: %w", err)
	}
	return nil
}

func (s *testService) Approve(ctx context.Context, id string) (*models.Test, error) {
	test, err := s.repo.Test().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	if test.Approval != models.TestPending {
		return nil, ErrTestNotPending
	}

	test.Approval = models.TestApproved
	test.RejectReason = ""
	test.UpdateTime = time.Now()

	if err := s.repo.Test().Update(ctx, test); err != nil {
		return nil, fmt.Errorf("failed to approve test: %w", err)
	}

	s.logger.Info("Test approved", "test_id", id)
	return test, nil
}

func (s *testService) Reject(ctx context.Context, id, reason string) (*models.Test, error) {
	if reason == "" {
		return nil, ErrTestRejectNoReason
	}

	test, err := s.repo.Test().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	if test.Approval != models.TestPending {
		return nil, ErrTestNotPending
	}

	test.Approval = models.TestRejected
	test.RejectReason = reason
	test.UpdateTime = time.Now()

	if err := s.repo.Test().Update(ctx, test); err != nil {
		return nil, fmt.Errorf("failed to reject test: %w", err)
	}

	s.logger.Info("Test rejected", "test_id", id, "reason", reason)
	return test, nil
}

// Resubmit sends a rejected test back into review.
func (s *testService) Resubmit(ctx context.Context, id string) (*models.Test, error) {
	test, err := s.repo.Test().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	if test.Approval != models.TestRejected {
		return nil, NewDomainRuleError("test_resubmit",
			"only rejected tests can be resubmitted",
			map[string]interface{}{"approval": test.Approval})
	}

	test.Approval = models.TestPending
	test.RejectReason = ""
	test.UpdateTime = time.Now()

	if err := s.repo.Test().Update(ctx, test); err != nil {
		return nil, fmt.Errorf("failed to resubmit test: %w", err)
	}

	return test, nil
}
