package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hairui08/exambank-service/internal/models"
	"github.com/hairui08/exambank-service/internal/repositories"
	"github.com/hairui08/exambank-service/internal/services"
	"github.com/hairui08/exambank-service/internal/utils"
)

// MarkingHandler exposes marking records, teacher assignment and score
// statistics.
type MarkingHandler struct {
	BaseHandler
	markingService services.MarkingService
}

func NewMarkingHandler(markingService services.MarkingService, logger utils.Logger) *MarkingHandler {
	return &MarkingHandler{
		BaseHandler:    NewBaseHandler(logger),
		markingService: markingService,
	}
}

func (h *MarkingHandler) CreateRecord(c *gin.Context) {
	h.LogRequest(c, "Creating marking record")

	var req services.CreateMarkingRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	record, err := h.markingService.CreateRecord(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *MarkingHandler) GetRecord(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	record, err := h.markingService.GetRecord(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *MarkingHandler) ListRecords(c *gin.Context) {
	page, pageSize := paging(c)
	filters := repositories.MarkingFilters{
		ProjectID: c.Query("projectId"),
		SubjectID: c.Query("subjectId"),
		Status:    models.MarkingStatus(c.Query("status")),
		ExamName:  c.Query("examName"),
		Page:      page,
		PageSize:  pageSize,
	}

	response, err := h.markingService.ListRecords(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// AssignTeachersRequest names the teachers who will mark a record.
type AssignTeachersRequest struct {
	TeacherIDs []string `json:"teacherIds" validate:"required,min=1"`
}

func (h *MarkingHandler) AssignTeachers(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req AssignTeachersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Assigning marking teachers",
		"record_id", id,
		"teacher_count", len(req.TeacherIDs))

	record, err := h.markingService.AssignTeachers(c.Request.Context(), id, req.TeacherIDs)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *MarkingHandler) CompleteMarking(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Completing marking", "record_id", id)

	record, err := h.markingService.CompleteMarking(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *MarkingHandler) GetProgress(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	progress, err := h.markingService.Progress(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

func (h *MarkingHandler) GetStatistics(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	statistics, err := h.markingService.Statistics(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, statistics)
}

func (h *MarkingHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.markingService.ListTeachers(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, teachers)
}

func (h *MarkingHandler) CreateTeacher(c *gin.Context) {
	h.LogRequest(c, "Creating teacher")

	var req services.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	teacher, err := h.markingService.CreateTeacher(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, teacher)
}
