package services

import (
	"context"
	"testing"

	"github.com/hairui08/exambank-service/internal/models"
	"github.com/hairui08/exambank-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func examRequest(name string) *CreateExamRequest {
	return &CreateExamRequest{
		Name:         name,
		SubjectID:    "subject-1",
		PassingScore: 60,
		Questions: []models.ExamQuestion{
			{QuestionID: "q1", Type: models.QuestionSingle, Score: 40, Order: 1},
			{QuestionID: "q2", Type: models.QuestionMultiple, Score: 60, Order: 2},
			{QuestionID: "q3", Type: models.QuestionEssay, Score: 20, Order: 3, IsOptional: true},
		},
	}
}

func TestExamService_Create_TotalScoreIgnoresOptional(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewExamService(repo, logger, validate)

	exam, err := service.Create(context.Background(), examRequest("Midterm"))
	require.NoError(t, err)
	assert.Equal(t, float64(100), exam.TotalScore, "optional questions do not count")
	assert.Equal(t, models.ExamActive, exam.Status)
}

func TestExamService_Create_DuplicateName(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewExamService(repo, logger, validate)
	ctx := context.Background()

	_, err := service.Create(ctx, examRequest("Midterm"))
	require.NoError(t, err)

	_, err = service.Create(ctx, examRequest("Midterm"))
	assert.ErrorIs(t, err, ErrExamDuplicateName)

	// Same name under another subject is fine.
	other := examRequest("Midterm")
	other.SubjectID = "subject-2"
	_, err = service.Create(ctx, other)
	assert.NoError(t, err)
}

func TestExamService_Create_RequiresQuestions(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewExamService(repo, logger, validate)

	req := examRequest("Midterm")
	req.Questions = nil
	_, err := service.Create(context.Background(), req)
	assert.True(t, IsValidation(err))
}

func TestExamService_Update_RecomputesTotalScore(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewExamService(repo, logger, validate)
	ctx := context.Background()

	exam, err := service.Create(ctx, examRequest("Midterm"))
	require.NoError(t, err)

	updated, err := service.Update(ctx, exam.ID, &UpdateExamRequest{
		Name:         "Midterm",
		PassingScore: 30,
		Questions: []models.ExamQuestion{
			{QuestionID: "q1", Type: models.QuestionSingle, Score: 50, Order: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, float64(50), updated.TotalScore)
}

func TestExamService_ToggleStatus(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewExamService(repo, logger, validate)
	ctx := context.Background()

	exam, err := service.Create(ctx, examRequest("Midterm"))
	require.NoError(t, err)

	toggled, err := service.ToggleStatus(ctx, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExamDisabled, toggled.Status)
}

func TestExamService_CheckNameAvailable(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewExamService(repo, logger, validate)
	ctx := context.Background()

	exam, err := service.Create(ctx, examRequest("Midterm"))
	require.NoError(t, err)

	available, err := service.CheckNameAvailable(ctx, "Midterm", "subject-1", "")
	require.NoError(t, err)
	assert.False(t, available)

	// The exam itself is excluded when renaming.
	available, err = service.CheckNameAvailable(ctx, "Midterm", "subject-1", exam.ID)
	require.NoError(t, err)
	assert.True(t, available)

	available, err = service.CheckNameAvailable(ctx, "Final", "subject-1", "")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestExamService_DeleteBatch(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewExamService(repo, logger, validate)
	ctx := context.Background()

	first, err := service.Create(ctx, examRequest("Midterm"))
	require.NoError(t, err)
	second, err := service.Create(ctx, examRequest("Final"))
	require.NoError(t, err)

	require.NoError(t, service.DeleteBatch(ctx, []string{first.ID, second.ID}))

	list, err := service.List(ctx, repositories.ExamFilters{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}
