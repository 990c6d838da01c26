package services

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/hairui08/exambank-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importTarget() ImportTarget {
	return ImportTarget{
		SubjectID: "subject-1",
		ChapterID: "chapter-1",
		CreatorID: "teacher-1",
	}
}

const importCSV = `Type,Stem,Option A,Option B,Option C,Answer,Difficulty
single,Which account is an asset?,Cash,Revenue,,a,easy
multiple,Pick the current assets,Cash,Inventory,Goodwill,"a,b",medium
judgment,Cash is an asset,,,,true,
essay,Explain depreciation,,,,Straight line spreads cost evenly,hard
`

func TestImportExport_ImportCSV(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewImportExportService(repo, logger, validate)

	result, err := service.ImportQuestionsFromCSV(context.Background(), strings.NewReader(importCSV), importTarget())
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalRows)
	assert.Equal(t, 4, result.SuccessCount)
	assert.Zero(t, result.ErrorCount)
	assert.Equal(t, models.ImportCompleted, result.Status)
	require.Len(t, result.Questions, 4)

	single := result.Questions[0]
	assert.Equal(t, models.QuestionSingle, single.Type)
	assert.True(t, single.Answer.Equal(models.TextAnswer("A")), "answer labels are uppercased")
	assert.Equal(t, models.DifficultyEasy, single.Difficulty)

	multiple := result.Questions[1]
	assert.True(t, multiple.Answer.Equal(models.ChoicesAnswer("A", "B")))

	judgment := result.Questions[2]
	assert.True(t, judgment.Answer.Equal(models.BoolAnswer(true)))
}

func TestImportExport_ImportCollectsRowErrors(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewImportExportService(repo, logger, validate)

	bad := `Type,Stem,Option A,Option B,Answer,Difficulty
riddle,What am I?,Cash,Revenue,A,easy
single,Which account is an asset?,Cash,Revenue,A,impossible
single,Which account is an asset?,Cash,Revenue,A,easy
`
	result, err := service.ImportQuestionsFromCSV(context.Background(), strings.NewReader(bad), importTarget())
	require.NoError(t, err)

	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 2, result.ErrorCount)
	assert.Equal(t, models.ImportCompleted, result.Status)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 2, result.Errors[0].Row, "row numbers count from the file, not the data")
	assert.Equal(t, "type", result.Errors[0].Column)
	assert.Equal(t, "difficulty", result.Errors[1].Column)
}

func TestImportExport_AllRowsBadMarksValidationFailed(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewImportExportService(repo, logger, validate)

	bad := `Type,Stem,Answer
riddle,What am I?,A
`
	result, err := service.ImportQuestionsFromCSV(context.Background(), strings.NewReader(bad), importTarget())
	require.NoError(t, err)
	assert.Equal(t, models.ImportValidationFailed, result.Status)
}

func TestImportExport_DuplicateStemsSkipped(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewImportExportService(repo, logger, validate)
	ctx := context.Background()

	_, err := service.ImportQuestionsFromCSV(ctx, strings.NewReader(importCSV), importTarget())
	require.NoError(t, err)

	result, err := service.ImportQuestionsFromCSV(ctx, strings.NewReader(importCSV), importTarget())
	require.NoError(t, err)
	assert.Zero(t, result.SuccessCount)
	assert.Equal(t, 4, result.SkippedCount)
}

func TestImportExport_EmptyAndHeaderlessFiles(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewImportExportService(repo, logger, validate)
	ctx := context.Background()

	_, err := service.ImportQuestionsFromCSV(ctx, strings.NewReader("Type,Stem,Answer\n"), importTarget())
	assert.ErrorIs(t, err, ErrImportEmptyFile)

	_, err = service.ImportQuestionsFromCSV(ctx, strings.NewReader("Stem,Answer\nfoo,A\n"), importTarget())
	assert.ErrorIs(t, err, ErrImportBadTemplate)
}

func TestImportExport_UnsupportedExtension(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewImportExportService(repo, logger, validate)

	_, err := service.ImportQuestionsFromFile(context.Background(), strings.NewReader(""), "questions.pdf", importTarget())
	assert.True(t, IsValidation(err))
}

func TestImportExport_ExportCSVRoundTrip(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewImportExportService(repo, logger, validate)
	ctx := context.Background()

	imported, err := service.ImportQuestionsFromCSV(ctx, strings.NewReader(importCSV), importTarget())
	require.NoError(t, err)

	ids := make([]string, 0, len(imported.Questions))
	for _, q := range imported.Questions {
		ids = append(ids, q.ID)
	}

	data, err := service.ExportQuestionsToCSV(ctx, ids)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5, "header plus one row per question")
	assert.Equal(t, exportHeaders, rows[0])

	assert.Equal(t, "single", rows[1][0])
	assert.Equal(t, "Which account is an asset?", rows[1][1])
	assert.Equal(t, "Cash", rows[1][2])
	assert.Equal(t, "A", rows[1][8])

	assert.Equal(t, "A,B", rows[2][8], "label sets export comma joined")
	assert.Equal(t, "true", rows[3][8])
}

func TestImportExport_ExportSkipsUnknownIDs(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewImportExportService(repo, logger, validate)

	data, err := service.ExportQuestionsToCSV(context.Background(), []string{"ghost"})
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1, "only the header remains")
}
