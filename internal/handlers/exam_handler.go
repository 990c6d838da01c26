package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hairui08/exambank-service/internal/models"
	"github.com/hairui08/exambank-service/internal/repositories"
	"github.com/hairui08/exambank-service/internal/services"
	"github.com/hairui08/exambank-service/internal/utils"
)

// ExamHandler exposes exam papers.
type ExamHandler struct {
	BaseHandler
	examService services.ExamService
}

func NewExamHandler(examService services.ExamService, logger utils.Logger) *ExamHandler {
	return &ExamHandler{
		BaseHandler: NewBaseHandler(logger),
		examService: examService,
	}
}

func (h *ExamHandler) CreateExam(c *gin.Context) {
	h.LogRequest(c, "Creating exam")

	var req services.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	exam, err := h.examService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, exam)
}

func (h *ExamHandler) GetExam(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	exam, err := h.examService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

func (h *ExamHandler) ListExams(c *gin.Context) {
	page, pageSize := paging(c)
	filters := repositories.ExamFilters{
		SubjectID:       c.Query("subjectId"),
		Status:          models.ExamStatus(c.Query("status")),
		Name:            c.Query("name"),
		Year:            queryInt(c, "year", 0),
		PaymentRuleID:   c.Query("paymentRuleId"),
		LearningStageID: c.Query("learningStageId"),
		Page:            page,
		PageSize:        pageSize,
	}

	response, err := h.examService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *ExamHandler) UpdateExam(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Updating exam", "exam_id", id)

	var req services.UpdateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	exam, err := h.examService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

func (h *ExamHandler) DeleteExam(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Deleting exam", "exam_id", id)

	if err := h.examService.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Exam deleted"})
}

func (h *ExamHandler) DeleteExamsBatch(c *gin.Context) {
	var req BatchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Deleting exams", "count", len(req.IDs))

	if err := h.examService.DeleteBatch(c.Request.Context(), req.IDs); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Exams deleted"})
}

func (h *ExamHandler) ToggleExamStatus(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Toggling exam status", "exam_id", id)

	exam, err := h.examService.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// CheckExamName reports whether an exam name is still free within a subject.
func (h *ExamHandler) CheckExamName(c *gin.Context) {
	name := c.Query("name")
	subjectID := c.Query("subjectId")
	if name == "" || subjectID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "name and subjectId are required",
		})
		return
	}

	available, err := h.examService.CheckNameAvailable(c.Request.Context(), name, subjectID, c.Query("excludeId"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": available})
}
