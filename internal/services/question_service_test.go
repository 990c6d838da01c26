package services

import (
	"context"
	"testing"
	"time"

	"github.com/hairui08/exambank-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSingleRequest() *CreateQuestionRequest {
	return &CreateQuestionRequest{
		SubjectID: "subject-1",
		ChapterID: "chapter-1",
		Type:      models.QuestionSingle,
		Stem:      "Which account is an asset?",
		Options: []models.QuestionOption{
			{Label: "A", Content: "Cash"},
			{Label: "B", Content: "Revenue"},
		},
		Answer: models.TextAnswer("A"),
	}
}

func TestQuestionService_Create(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewQuestionService(repo, logger, validate)

	question, err := service.Create(context.Background(), validSingleRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, question.ID)
	assert.Equal(t, models.QuestionActive, question.Status)
}

func TestQuestionService_Create_ContentValidation(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewQuestionService(repo, logger, validate)

	req := validSingleRequest()
	req.Answer = models.TextAnswer("C") // no such option
	_, err := service.Create(context.Background(), req)
	assert.True(t, IsValidation(err))
}

func TestQuestionService_Create_DuplicateStem(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewQuestionService(repo, logger, validate)
	ctx := context.Background()

	_, err := service.Create(ctx, validSingleRequest())
	require.NoError(t, err)

	_, err = service.Create(ctx, validSingleRequest())
	assert.ErrorIs(t, err, ErrQuestionDuplicate)

	// Same stem in another chapter is allowed.
	other := validSingleRequest()
	other.ChapterID = "chapter-2"
	_, err = service.Create(ctx, other)
	assert.NoError(t, err)
}

func TestQuestionService_Delete_IsSoft(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewQuestionService(repo, logger, validate)
	ctx := context.Background()

	question, err := service.Create(ctx, validSingleRequest())
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, question.ID))

	// The record survives with a deleted status.
	kept, err := repo.Question().GetByID(ctx, question.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuestionDeleted, kept.Status)
}

func TestQuestionService_ToggleStatus(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewQuestionService(repo, logger, validate)
	ctx := context.Background()

	question, err := service.Create(ctx, validSingleRequest())
	require.NoError(t, err)

	toggled, err := service.ToggleStatus(ctx, question.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuestionDisabled, toggled.Status)

	toggled, err = service.ToggleStatus(ctx, question.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuestionActive, toggled.Status)
}

func TestQuestionService_ToggleStatus_RefusesDeleted(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewQuestionService(repo, logger, validate)
	ctx := context.Background()

	question, err := service.Create(ctx, validSingleRequest())
	require.NoError(t, err)
	require.NoError(t, service.Delete(ctx, question.ID))

	_, err = service.ToggleStatus(ctx, question.ID)
	assert.True(t, IsDomainRule(err))
}

func TestQuestionService_Deprecate(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewQuestionService(repo, logger, validate)
	ctx := context.Background()

	question, err := service.Create(ctx, validSingleRequest())
	require.NoError(t, err)

	_, err = service.Deprecate(ctx, question.ID, "")
	assert.True(t, IsValidation(err), "a deprecation needs a reason")

	deprecated, err := service.Deprecate(ctx, question.ID, "superseded by 2026 syllabus")
	require.NoError(t, err)
	assert.Equal(t, models.QuestionDeprecated, deprecated.Status)
	assert.Equal(t, "superseded by 2026 syllabus", deprecated.DeprecatedReason)
	require.NotNil(t, deprecated.DeprecatedDate)
	assert.WithinDuration(t, time.Now(), *deprecated.DeprecatedDate, time.Minute)
}

func TestQuestionService_DeleteBatch_SkipsMissing(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewQuestionService(repo, logger, validate)
	ctx := context.Background()

	question, err := service.Create(ctx, validSingleRequest())
	require.NoError(t, err)

	require.NoError(t, service.DeleteBatch(ctx, []string{question.ID, "ghost"}))

	kept, err := repo.Question().GetByID(ctx, question.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuestionDeleted, kept.Status)
}

func TestQuestionService_ImportFromExam(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewQuestionService(repo, logger, validate)
	ctx := context.Background()

	now := time.Now()
	exam := &models.Exam{
		ID:        "exam-1",
		Name:      "Midterm",
		SubjectID: "subject-1",
		Questions: []models.ExamQuestion{
			{
				QuestionID: "paper-1",
				Type:       models.QuestionJudgment,
				Score:      2,
				Embedded: &models.EmbeddedQuestion{
					Stem:      "Inventory is a liability",
					Answer:    models.BoolAnswer(false),
					ChapterID: "chapter-1",
				},
			},
			// Already in the bank, only referenced by id.
			{QuestionID: "bank-1", Type: models.QuestionSingle, Score: 2},
		},
		CreateTime: now,
		UpdateTime: now,
		Status:     models.ExamActive,
	}
	require.NoError(t, repo.Exam().Create(ctx, exam))

	result, err := service.ImportFromExam(ctx, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ImportedCount)
	assert.Equal(t, 0, result.SkippedCount)

	// Importing again finds the stem already present and skips it.
	result, err = service.ImportFromExam(ctx, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ImportedCount)
	assert.Equal(t, 1, result.SkippedCount)
}

func TestQuestionService_ImportFromExam_MissingExam(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewQuestionService(repo, logger, validate)

	_, err := service.ImportFromExam(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrExamNotFound)
}
