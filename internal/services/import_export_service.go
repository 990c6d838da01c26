package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/hairui08/exambank-service/internal/models"
	"github.com/hairui08/exambank-service/internal/repositories"
	"github.com/hairui08/exambank-service/internal/validator"
)

// ImportExportService moves questions in and out of the bank as spreadsheet
// files. Imports validate row by row and skip stems that already exist in the
// target chapter.
type ImportExportService interface {
	ImportQuestionsFromFile(ctx context.Context, reader io.Reader, filename string, target ImportTarget) (*models.ImportResult, error)
	ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, target ImportTarget) (*models.ImportResult, error)
	ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, target ImportTarget) (*models.ImportResult, error)

	ExportQuestionsToCSV(ctx context.Context, questionIDs []string) ([]byte, error)
	ExportQuestionsToExcel(ctx context.Context, questionIDs []string) ([]byte, error)
}

// ImportTarget pins imported rows to one place in the catalog.
type ImportTarget struct {
	ProjectID string `json:"projectId"`
	SubjectID string `json:"subjectId" validate:"required"`
	ChapterID string `json:"chapterId" validate:"required"`
	SectionID string `json:"sectionId"`
	CreatorID string `json:"creatorId"`
}

var exportHeaders = []string{
	"Type", "Stem", "Option A", "Option B", "Option C", "Option D", "Option E", "Option F",
	"Answer", "Difficulty", "Source", "Year", "Explanation",
}

type importExportService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	ops       *ServiceLogger
	validator *validator.Validator
}

func NewImportExportService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ImportExportService {
	return &importExportService{
		repo:      repo,
		logger:    logger,
		ops:       NewServiceLogger(logger, LogConfig{Service: "exambank", Component: "import_export"}),
		validator: validator,
	}
}

// ===== IMPORT OPERATIONS =====

func (s *importExportService) ImportQuestionsFromFile(ctx context.Context, reader io.Reader, filename string, target ImportTarget) (*models.ImportResult, error) {
	start := time.Now()
	result, err := s.importByExtension(ctx, reader, filename, target)
	s.ops.LogOperation(ctx, "import_questions", filename, "question", time.Since(start), err)
	return result, err
}

func (s *importExportService) importByExtension(ctx context.Context, reader io.Reader, filename string, target ImportTarget) (*models.ImportResult, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return s.ImportQuestionsFromCSV(ctx, reader, target)
	case ".xlsx", ".xls":
		return s.ImportQuestionsFromExcel(ctx, reader, target)
	default:
		return nil, validator.NewValidationError("file", "unsupported file format", ext)
	}
}

func (s *importExportService) ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, target ImportTarget) (*models.ImportResult, error) {
	if err := s.validator.Validate(&target); err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return s.importRows(ctx, records, target)
}

func (s *importExportService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, target ImportTarget) (*models.ImportResult, error) {
	if err := s.validator.Validate(&target); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrImportBadTemplate
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}

	return s.importRows(ctx, rows, target)
}

func (s *importExportService) importRows(ctx context.Context, rows [][]string, target ImportTarget) (*models.ImportResult, error) {
	if len(rows) < 2 {
		return nil, ErrImportEmptyFile
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[normalizeHeader(header)] = i
	}
	for _, col := range []string{"type", "stem", "answer"} {
		if _, ok := headerMap[col]; !ok {
			return nil, ErrImportBadTemplate
		}
	}

	result := &models.ImportResult{TotalRows: len(rows) - 1}

	for rowIndex, row := range rows[1:] {
		rowNum := rowIndex + 2

		question, rowErrors := s.parseRow(row, headerMap, rowNum, target)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorCount++
			continue
		}

		exists, err := s.repo.Question().ExistsStemInChapter(ctx, question.Stem, target.ChapterID)
		if err != nil {
			return nil, fmt.Errorf("failed to check for existing stem: %w", err)
		}
		if exists {
			result.SkippedCount++
			continue
		}

		if err := s.repo.Question().Create(ctx, question); err != nil {
			return nil, fmt.Errorf("failed to save imported question: %w", err)
		}
		result.Questions = append(result.Questions, question)
		result.SuccessCount++
	}

	result.Status = models.ImportCompleted
	if result.SuccessCount == 0 && result.ErrorCount > 0 {
		result.Status = models.ImportValidationFailed
	}

	s.logger.Info("Question import completed",
		"total_rows", result.TotalRows,
		"success_count", result.SuccessCount,
		"skipped_count", result.SkippedCount,
		"error_count", result.ErrorCount)

	return result, nil
}

func (s *importExportService) parseRow(row []string, headerMap map[string]int, rowNum int, target ImportTarget) (*models.Question, []models.ImportValidationError) {
	var errs []models.ImportValidationError

	getColumn := func(name string) string {
		if index, ok := headerMap[name]; ok && index < len(row) {
			return strings.TrimSpace(row[index])
		}
		return ""
	}

	typeStr := getColumn("type")
	questionType := questionTypeFromLabel(typeStr)
	if questionType == "" {
		errs = append(errs, models.ImportValidationError{
			Row: rowNum, Column: "type", Message: "unknown question type", Value: typeStr,
		})
		return nil, errs
	}

	stem := getColumn("stem")
	if stem == "" {
		errs = append(errs, models.ImportValidationError{
			Row: rowNum, Column: "stem", Message: "required field",
		})
		return nil, errs
	}

	var options []models.QuestionOption
	for _, label := range []string{"A", "B", "C", "D", "E", "F"} {
		content := getColumn("option " + strings.ToLower(label))
		if content != "" {
			options = append(options, models.QuestionOption{Label: label, Content: content})
		}
	}

	answer, answerErr := parseAnswerCell(questionType, getColumn("answer"), options)
	if answerErr != "" {
		errs = append(errs, models.ImportValidationError{
			Row: rowNum, Column: "answer", Message: answerErr, Value: getColumn("answer"),
		})
		return nil, errs
	}

	difficulty := models.QuestionDifficulty(strings.ToLower(getColumn("difficulty")))
	switch difficulty {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard, "":
	default:
		errs = append(errs, models.ImportValidationError{
			Row: rowNum, Column: "difficulty", Message: "must be easy, medium or hard", Value: string(difficulty),
		})
		return nil, errs
	}

	now := time.Now()
	question := &models.Question{
		ID:          uuid.NewString(),
		ProjectID:   target.ProjectID,
		SubjectID:   target.SubjectID,
		ChapterID:   target.ChapterID,
		SectionID:   target.SectionID,
		Type:        questionType,
		Source:      models.QuestionSource(strings.ToLower(getColumn("source"))),
		Year:        getColumn("year"),
		Difficulty:  difficulty,
		Stem:        stem,
		Options:     options,
		Answer:      answer,
		Explanation: getColumn("explanation"),
		CreateTime:  now,
		UpdateTime:  now,
		CreatorID:   target.CreatorID,
		Status:      models.QuestionActive,
	}

	if contentErrs := s.validator.Question().Validate(question); len(contentErrs) > 0 {
		for _, e := range contentErrs {
			errs = append(errs, models.ImportValidationError{
				Row: rowNum, Column: e.Field, Message: e.Message,
			})
		}
		return nil, errs
	}

	return question, nil
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

func questionTypeFromLabel(label string) models.QuestionType {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "single":
		return models.QuestionSingle
	case "multiple":
		return models.QuestionMultiple
	case "uncertain":
		return models.QuestionUncertain
	case "judgment":
		return models.QuestionJudgment
	case "essay":
		return models.QuestionEssay
	default:
		return ""
	}
}

func parseAnswerCell(questionType models.QuestionType, cell string, options []models.QuestionOption) (models.AnswerValue, string) {
	cell = strings.TrimSpace(cell)

	switch questionType {
	case models.QuestionSingle:
		if cell == "" {
			return models.NoAnswer(), "required field"
		}
		return models.TextAnswer(strings.ToUpper(cell)), ""

	case models.QuestionMultiple, models.QuestionUncertain:
		if cell == "" {
			return models.NoAnswer(), "required field"
		}
		var labels []string
		for _, part := range strings.FieldsFunc(cell, func(r rune) bool { return r == ',' || r == ';' }) {
			part = strings.ToUpper(strings.TrimSpace(part))
			if part != "" {
				labels = append(labels, part)
			}
		}
		if len(labels) == 0 {
			return models.NoAnswer(), "must list option labels separated by commas"
		}
		return models.ChoicesAnswer(labels...), ""

	case models.QuestionJudgment:
		switch strings.ToLower(cell) {
		case "true", "correct", "t":
			return models.BoolAnswer(true), ""
		case "false", "wrong", "f":
			return models.BoolAnswer(false), ""
		default:
			return models.NoAnswer(), "must be true or false"
		}

	default:
		// Essay reference answers are free text and may be empty.
		if cell == "" {
			return models.NoAnswer(), ""
		}
		return models.TextAnswer(cell), ""
	}
}

// ===== EXPORT OPERATIONS =====

func (s *importExportService) ExportQuestionsToCSV(ctx context.Context, questionIDs []string) ([]byte, error) {
	questions, err := s.repo.Question().GetByIDs(ctx, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, question := range questions {
		if err := writer.Write(questionToRow(question)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *importExportService) ExportQuestionsToExcel(ctx context.Context, questionIDs []string) ([]byte, error) {
	questions, err := s.repo.Question().GetByIDs(ctx, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Questions"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for i, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, question := range questions {
		for colIndex, value := range questionToRow(question) {
			cell, err := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			if err != nil {
				return nil, fmt.Errorf("failed to compute cell name: %w", err)
			}
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buf.Bytes(), nil
}

func questionToRow(question *models.Question) []string {
	row := make([]string, len(exportHeaders))

	row[0] = string(question.Type)
	row[1] = question.Stem

	for i, option := range question.Options {
		if i < 6 {
			row[2+i] = option.Content
		}
	}

	switch question.Answer.Kind {
	case models.AnswerChoices:
		row[8] = strings.Join(question.Answer.Choices, ",")
	default:
		row[8] = question.Answer.String()
	}

	row[9] = string(question.Difficulty)
	row[10] = string(question.Source)
	row[11] = question.Year
	row[12] = question.Explanation

	return row
}
