package services

import (
	"context"
	"testing"

	"github.com/hairui08/exambank-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedExam(t *testing.T, exams ExamService) *models.Exam {
	t.Helper()
	exam, err := exams.Create(context.Background(), examRequest("Backing paper"))
	require.NoError(t, err)
	return exam
}

func TestTestService_Create_StartsPending(t *testing.T) {
	repo, logger, validate := testDeps()
	exams := NewExamService(repo, logger, validate)
	service := NewTestService(repo, logger, validate)
	ctx := context.Background()

	exam := seedExam(t, exams)

	test, err := service.Create(ctx, &CreateTestRequest{
		Name:      "Week 1 quiz",
		SubjectID: "subject-1",
		ExamID:    exam.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TestPending, test.Approval)
	assert.Equal(t, models.TestFormal, test.Kind, "kind defaults to formal")
}

func TestTestService_Create_RequiresExam(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewTestService(repo, logger, validate)

	_, err := service.Create(context.Background(), &CreateTestRequest{
		Name:      "Week 1 quiz",
		SubjectID: "subject-1",
		ExamID:    "ghost",
	})
	assert.ErrorIs(t, err, ErrExamNotFound)
}

func TestTestService_ApproveOnlyFromPending(t *testing.T) {
	repo, logger, validate := testDeps()
	exams := NewExamService(repo, logger, validate)
	service := NewTestService(repo, logger, validate)
	ctx := context.Background()

	exam := seedExam(t, exams)
	test, err := service.Create(ctx, &CreateTestRequest{
		Name: "Week 1 quiz", SubjectID: "subject-1", ExamID: exam.ID,
	})
	require.NoError(t, err)

	approved, err := service.Approve(ctx, test.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TestApproved, approved.Approval)

	_, err = service.Approve(ctx, test.ID)
	assert.ErrorIs(t, err, ErrTestNotPending)
}

func TestTestService_RejectNeedsReason(t *testing.T) {
	repo, logger, validate := testDeps()
	exams := NewExamService(repo, logger, validate)
	service := NewTestService(repo, logger, validate)
	ctx := context.Background()

	exam := seedExam(t, exams)
	test, err := service.Create(ctx, &CreateTestRequest{
		Name: "Week 1 quiz", SubjectID: "subject-1", ExamID: exam.ID,
	})
	require.NoError(t, err)

	_, err = service.Reject(ctx, test.ID, "")
	assert.ErrorIs(t, err, ErrTestRejectNoReason)

	rejected, err := service.Reject(ctx, test.ID, "duration missing")
	require.NoError(t, err)
	assert.Equal(t, models.TestRejected, rejected.Approval)
	assert.Equal(t, "duration missing", rejected.RejectReason)
}

func TestTestService_ResubmitOnlyFromRejected(t *testing.T) {
	repo, logger, validate := testDeps()
	exams := NewExamService(repo, logger, validate)
	service := NewTestService(repo, logger, validate)
	ctx := context.Background()

	exam := seedExam(t, exams)
	test, err := service.Create(ctx, &CreateTestRequest{
		Name: "Week 1 quiz", SubjectID: "subject-1", ExamID: exam.ID,
	})
	require.NoError(t, err)

	_, err = service.Resubmit(ctx, test.ID)
	assert.True(t, IsDomainRule(err), "pending tests cannot be resubmitted")

	_, err = service.Reject(ctx, test.ID, "duration missing")
	require.NoError(t, err)

	resubmitted, err := service.Resubmit(ctx, test.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TestPending, resubmitted.Approval)
	assert.Empty(t, resubmitted.RejectReason)
}

func TestTestService_DeleteRefusesApproved(t *testing.T) {
	repo, logger, validate := testDeps()
	exams := NewExamService(repo, logger, validate)
	service := NewTestService(repo, logger, validate)
	ctx := context.Background()

	exam := seedExam(t, exams)
	test, err := service.Create(ctx, &CreateTestRequest{
		Name: "Week 1 quiz", SubjectID: "subject-1", ExamID: exam.ID,
	})
	require.NoError(t, err)
	_, err = service.Approve(ctx, test.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, service.Delete(ctx, test.ID), ErrTestAlreadyApproved)
}

func TestTestService_DuplicateNameWithinSubject(t *testing.T) {
	repo, logger, validate := testDeps()
	exams := NewExamService(repo, logger, validate)
	service := NewTestService(repo, logger, validate)
	ctx := context.Background()

	exam := seedExam(t, exams)
	_, err := service.Create(ctx, &CreateTestRequest{
		Name: "Week 1 quiz", SubjectID: "subject-1", ExamID: exam.ID,
	})
	require.NoError(t, err)

	_, err = service.Create(ctx, &CreateTestRequest{
		Name: "Week 1 quiz", SubjectID: "subject-1", ExamID: exam.ID,
	})
	assert.ErrorIs(t, err, ErrTestDuplicateName)
}
