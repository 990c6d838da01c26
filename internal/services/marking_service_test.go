package services

import (
	"context"
	"testing"

	"github.com/hairui08/exambank-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMarkingRecord(t *testing.T, service MarkingService) *models.MarkingRecord {
	t.Helper()
	record, err := service.CreateRecord(context.Background(), &CreateMarkingRecordRequest{
		ExamName:         "Midterm",
		Duration:         90,
		TotalScore:       100,
		PassingScore:     60,
		ParticipantCount: 20,
		SubjectID:        "subject-1",
	})
	require.NoError(t, err)
	return record
}

func TestMarkingService_Lifecycle(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewMarkingService(repo, logger, validate)
	ctx := context.Background()

	record := seedMarkingRecord(t, service)
	assert.Equal(t, models.MarkingPending, record.Status)

	// Completing before any teacher is assigned is refused.
	_, err := service.CompleteMarking(ctx, record.ID)
	assert.ErrorIs(t, err, ErrMarkingNotStarted)

	_, err = service.AssignTeachers(ctx, record.ID, nil)
	assert.ErrorIs(t, err, ErrMarkingNoTeachers)

	assigned, err := service.AssignTeachers(ctx, record.ID, []string{"t1", "t2"})
	require.NoError(t, err)
	assert.Equal(t, models.MarkingActive, assigned.Status)
	assert.Equal(t, []string{"t1", "t2"}, assigned.AssignedTeachers)

	completed, err := service.CompleteMarking(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MarkingCompleted, completed.Status)
}

func TestMarkingService_ProgressFollowsStatus(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewMarkingService(repo, logger, validate)
	ctx := context.Background()

	record := seedMarkingRecord(t, service)

	progress, err := service.Progress(ctx, record.ID)
	require.NoError(t, err)
	assert.Zero(t, progress.Progress)
	assert.Equal(t, 20, progress.UnmarkedCount)

	_, err = service.AssignTeachers(ctx, record.ID, []string{"t1"})
	require.NoError(t, err)
	progress, err = service.Progress(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, progress.Progress)
	assert.Equal(t, 12, progress.MarkedCount)

	_, err = service.CompleteMarking(ctx, record.ID)
	require.NoError(t, err)
	progress, err = service.Progress(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, progress.Progress)
	assert.Zero(t, progress.UnmarkedCount)
}

func TestMarkingService_StatisticsAreStable(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewMarkingService(repo, logger, validate)
	ctx := context.Background()

	record := seedMarkingRecord(t, service)

	first, err := service.Statistics(ctx, record.ID)
	require.NoError(t, err)
	second, err := service.Statistics(ctx, record.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second, "the generator is seeded by record id")
	require.Len(t, first.Scores, 20)
	assert.Equal(t, first.Scores[0].TotalScore, first.HighestScore)
	assert.Equal(t, 1, first.Scores[0].Rank)
	assert.GreaterOrEqual(t, first.HighestScore, first.LowestScore)
	assert.LessOrEqual(t, first.LowestScore, first.AverageScore)
}

func TestMarkingService_StatisticsWithoutParticipants(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewMarkingService(repo, logger, validate)
	ctx := context.Background()

	record, err := service.CreateRecord(ctx, &CreateMarkingRecordRequest{ExamName: "Empty run"})
	require.NoError(t, err)

	stats, err := service.Statistics(ctx, record.ID)
	require.NoError(t, err)
	assert.Empty(t, stats.Scores)
	assert.Zero(t, stats.AverageScore)
}

func TestMarkingService_Teachers(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewMarkingService(repo, logger, validate)
	ctx := context.Background()

	_, err := service.CreateTeacher(ctx, &CreateTeacherRequest{Name: "", Email: "not-an-email"})
	assert.True(t, IsValidation(err))

	teacher, err := service.CreateTeacher(ctx, &CreateTeacherRequest{
		Name:       "Li Wei",
		Email:      "li.wei@example.com",
		Department: "Accounting",
	})
	require.NoError(t, err)

	teachers, err := service.ListTeachers(ctx)
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, teacher.ID, teachers[0].ID)
}
