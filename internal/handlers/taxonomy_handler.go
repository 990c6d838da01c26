package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hairui08/exambank-service/internal/services"
	"github.com/hairui08/exambank-service/internal/utils"
)

// TaxonomyHandler exposes knowledge points, question type configurations,
// payment rules and learning stages.
type TaxonomyHandler struct {
	BaseHandler
	taxonomyService services.TaxonomyService
}

func NewTaxonomyHandler(taxonomyService services.TaxonomyService, logger utils.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{
		BaseHandler:     NewBaseHandler(logger),
		taxonomyService: taxonomyService,
	}
}

// ===== KNOWLEDGE POINTS =====

func (h *TaxonomyHandler) CreateKnowledgePoint(c *gin.Context) {
	h.LogRequest(c, "Creating knowledge point")

	var req services.CreateKnowledgePointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	point, err := h.taxonomyService.CreateKnowledgePoint(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, point)
}

func (h *TaxonomyHandler) ListKnowledgePoints(c *gin.Context) {
	points, err := h.taxonomyService.ListKnowledgePoints(c.Request.Context(), c.Query("subjectId"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, points)
}

func (h *TaxonomyHandler) UpdateKnowledgePoint(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.UpdateKnowledgePointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	point, err := h.taxonomyService.UpdateKnowledgePoint(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, point)
}

func (h *TaxonomyHandler) DeleteKnowledgePoint(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	if err := h.taxonomyService.DeleteKnowledgePoint(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Knowledge point deleted"})
}

// ===== QUESTION TYPE CONFIGURATIONS =====

func (h *TaxonomyHandler) CreateTypeConfig(c *gin.Context) {
	h.LogRequest(c, "Creating question type configuration")

	var req services.CreateTypeConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	config, err := h.taxonomyService.CreateTypeConfig(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, config)
}

func (h *TaxonomyHandler) ListTypeConfigs(c *gin.Context) {
	configs, err := h.taxonomyService.ListTypeConfigs(c.Request.Context(), c.Query("subjectId"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, configs)
}

func (h *TaxonomyHandler) UpdateTypeConfig(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.UpdateTypeConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	config, err := h.taxonomyService.UpdateTypeConfig(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, config)
}

func (h *TaxonomyHandler) DeleteTypeConfig(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	if err := h.taxonomyService.DeleteTypeConfig(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Question type configuration deleted"})
}

func (h *TaxonomyHandler) ReorderTypeConfigs(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.taxonomyService.ReorderTypeConfigs(c.Request.Context(), req.DraggedID, req.TargetID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Question type configurations reordered"})
}

// ===== PAYMENT RULES =====

func (h *TaxonomyHandler) CreatePaymentRule(c *gin.Context) {
	h.LogRequest(c, "Creating payment rule")

	var req services.CreatePaymentRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	rule, err := h.taxonomyService.CreatePaymentRule(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rule)
}

func (h *TaxonomyHandler) ListPaymentRules(c *gin.Context) {
	rules, err := h.taxonomyService.ListPaymentRules(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rules)
}

func (h *TaxonomyHandler) UpdatePaymentRule(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.UpdatePaymentRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	rule, err := h.taxonomyService.UpdatePaymentRule(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rule)
}

func (h *TaxonomyHandler) DeletePaymentRule(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	if err := h.taxonomyService.DeletePaymentRule(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Payment rule deleted"})
}

// ===== LEARNING STAGES =====

func (h *TaxonomyHandler) CreateLearningStage(c *gin.Context) {
	h.LogRequest(c, "Creating learning stage")

	var req services.CreateLearningStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	stage, err := h.taxonomyService.CreateLearningStage(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, stage)
}

func (h *TaxonomyHandler) ListLearningStages(c *gin.Context) {
	stages, err := h.taxonomyService.ListLearningStages(c.Request.Context(), c.Query("subjectId"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stages)
}

func (h *TaxonomyHandler) UpdateLearningStage(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req services.UpdateLearningStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	stage, err := h.taxonomyService.UpdateLearningStage(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stage)
}

func (h *TaxonomyHandler) DeleteLearningStage(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	if err := h.taxonomyService.DeleteLearningStage(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Learning stage deleted"})
}
