package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hairui08/exambank-service/internal/models"
	"github.com/hairui08/exambank-service/internal/repositories"
	"github.com/hairui08/exambank-service/internal/services"
	"github.com/hairui08/exambank-service/internal/utils"
)

// QuestionHandler exposes the question bank, including file import and
// export.
type QuestionHandler struct {
	BaseHandler
	questionService services.QuestionService
	importService   services.ImportExportService
}

func NewQuestionHandler(
	questionService services.QuestionService,
	importService services.ImportExportService,
	logger utils.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:     NewBaseHandler(logger),
		questionService: questionService,
		importService:   importService,
	}
}

func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	h.LogRequest(c, "Creating question")

	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	question, err := h.questionService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	question, err := h.questionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// ListQuestions filters the bank along every dimension the query string
// names. Absent parameters do not constrain.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	page, pageSize := paging(c)
	filters := repositories.QuestionFilters{
		ProjectID:        c.Query("projectId"),
		SubjectID:        c.Query("subjectId"),
		ChapterID:        c.Query("chapterId"),
		SectionID:        c.Query("sectionId"),
		Type:             models.QuestionType(c.Query("type")),
		Source:           models.QuestionSource(c.Query("source")),
		Difficulty:       models.QuestionDifficulty(c.Query("difficulty")),
		Frequency:        c.Query("frequency"),
		Year:             c.Query("year"),
		Status:           c.Query("status"),
		KnowledgePointID: c.Query("knowledgePointId"),
		PaymentRuleID:    c.Query("paymentRuleId"),
		Keyword:          c.Query("keyword"),
		Page:             page,
		PageSize:         pageSize,
	}

	response, err := h.questionService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Updating question", "question_id", id)

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Deleting question", "question_id", id)

	if err := h.questionService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Question deleted"})
}

// BatchDeleteRequest names the questions to delete in one call.
type BatchDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

func (h *QuestionHandler) DeleteQuestionsBatch(c *gin.Context) {
	var req BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Deleting questions", "count", len(req.IDs))

	if err := h.questionService.DeleteBatch(c.Request.Context(), req.IDs); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Questions deleted"})
}

func (h *QuestionHandler) ToggleQuestionStatus(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	question, err := h.questionService.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeprecateRequest carries the mandatory reason for retiring a question.
type DeprecateRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *QuestionHandler) DeprecateQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req DeprecateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Deprecating question", "question_id", id)

	question, err := h.questionService.Deprecate(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// ImportFromExam copies an exam's embedded questions into the bank.
func (h *QuestionHandler) ImportFromExam(c *gin.Context) {
	examID := ParseStringIDParam(c, "exam_id")
	if examID == "" {
		return
	}

	h.LogRequest(c, "Importing questions from exam", "exam_id", examID)

	result, err := h.questionService.ImportFromExam(c.Request.Context(), examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ImportQuestions accepts a CSV or Excel upload and imports its rows into
// the chapter named by the form fields.
func (h *QuestionHandler) ImportQuestions(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing upload file",
			Details: err.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Cannot read upload file",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	target := services.ImportTarget{
		ProjectID: c.PostForm("projectId"),
		SubjectID: c.PostForm("subjectId"),
		ChapterID: c.PostForm("chapterId"),
		SectionID: c.PostForm("sectionId"),
		CreatorID: c.PostForm("creatorId"),
	}

	h.LogRequest(c, "Importing questions from file",
		"filename", fileHeader.Filename,
		"size", fileHeader.Size)

	result, err := h.importService.ImportQuestionsFromFile(c.Request.Context(), file, fileHeader.Filename, target)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportRequest names the questions to export.
type ExportRequest struct {
	QuestionIDs []string `json:"questionIds" validate:"required,min=1"`
}

func (h *QuestionHandler) ExportQuestionsCSV(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	data, err := h.importService.ExportQuestionsToCSV(c.Request.Context(), req.QuestionIDs)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="questions.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

func (h *QuestionHandler) ExportQuestionsExcel(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	data, err := h.importService.ExportQuestionsToExcel(c.Request.Context(), req.QuestionIDs)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="questions.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
