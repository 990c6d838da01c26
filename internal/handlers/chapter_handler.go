package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hairui08/exambank-service/internal/services"
	"github.com/hairui08/exambank-service/internal/utils"
)

// ChapterHandler exposes chapters and their sections.
type ChapterHandler struct {
	BaseHandler
	chapterService services.ChapterService
}

func NewChapterHandler(chapterService services.ChapterService, logger utils.Logger) *ChapterHandler {
	return &ChapterHandler{
		BaseHandler:    NewBaseHandler(logger),
		chapterService: chapterService,
	}
}

func (h *ChapterHandler) CreateChapter(c *gin.Context) {
	h.LogRequest(c, "Creating chapter")

	var req services.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	chapter, err := h.chapterService.CreateChapter(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, chapter)
}

func (h *ChapterHandler) ListChapters(c *gin.Context) {
	chapters, err := h.chapterService.ListChapters(c.Request.Context(), c.Query("subjectId"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapters)
}

func (h *ChapterHandler) GetChapter(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	chapter, err := h.chapterService.GetChapter(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapter)
}

func (h *ChapterHandler) UpdateChapter(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Updating chapter", "chapter_id", id)

	var req services.UpdateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	chapter, err := h.chapterService.UpdateChapter(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapter)
}

func (h *ChapterHandler) DeleteChapter(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Deleting chapter", "chapter_id", id)

	if err := h.chapterService.DeleteChapter(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Chapter deleted"})
}

func (h *ChapterHandler) ToggleChapterStatus(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Toggling chapter status", "chapter_id", id)

	chapter, err := h.chapterService.ToggleChapterStatus(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapter)
}

// ===== SECTIONS =====

func (h *ChapterHandler) CreateSection(c *gin.Context) {
	h.LogRequest(c, "Creating section")

	var req services.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	section, err := h.chapterService.CreateSection(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, section)
}

func (h *ChapterHandler) ListSections(c *gin.Context) {
	sections, err := h.chapterService.ListSections(c.Request.Context(), c.Query("chapterId"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sections)
}

func (h *ChapterHandler) UpdateSection(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Updating section", "section_id", id)

	var req services.UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	section, err := h.chapterService.UpdateSection(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, section)
}

func (h *ChapterHandler) DeleteSection(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Deleting section", "section_id", id)

	if err := h.chapterService.DeleteSection(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Section deleted"})
}

func (h *ChapterHandler) ToggleSectionStatus(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	h.LogRequest(c, "Toggling section status", "section_id", id)

	section, err := h.chapterService.ToggleSectionStatus(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, section)
}
