package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hairui08/exambank-service/internal/models"
	"github.com/hairui08/exambank-service/internal/session"
	"github.com/hairui08/exambank-service/internal/utils"
	"github.com/hairui08/exambank-service/internal/validator"
)

// SessionHandler exposes the exam session engine: starting attempts,
// answering, navigation, scoring and recovery. The engine takes its input
// as-is, so requests are validated here before they reach it.
type SessionHandler struct {
	BaseHandler
	engine    *session.Engine
	validator *validator.Validator
}

func NewSessionHandler(engine *session.Engine, validate *validator.Validator, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler: NewBaseHandler(logger),
		engine:      engine,
		validator:   validate,
	}
}

// StartSessionRequest starts a session over an inline question snapshot.
type StartSessionRequest struct {
	ExamID      string            `json:"examId" validate:"required"`
	ExamType    models.ExamKind   `json:"examType" validate:"required,exam_kind"`
	ExamTitle   string            `json:"examTitle" validate:"required"`
	SubjectID   string            `json:"subjectId"`
	SubjectName string            `json:"subjectName"`
	Questions   []models.Question `json:"questions" validate:"required,min=1"`
	StartIndex  int               `json:"startIndex"`
}

func (h *SessionHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Starting exam session",
		"exam_id", req.ExamID,
		"question_count", len(req.Questions))

	err := h.engine.StartExam(c.Request.Context(), session.StartExamInput{
		ExamID:      req.ExamID,
		ExamType:    req.ExamType,
		ExamTitle:   req.ExamTitle,
		SubjectID:   req.SubjectID,
		SubjectName: req.SubjectName,
		Questions:   req.Questions,
		StartIndex:  req.StartIndex,
	})
	if err != nil {
		h.handleEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.engine.Session())
}

// StartWrongPracticeRequest starts a practice run over wrong-question ids.
type StartWrongPracticeRequest struct {
	QuestionIDs []string `json:"questionIds" validate:"required,min=1"`
	SubjectID   string   `json:"subjectId"`
	SubjectName string   `json:"subjectName"`
	Title       string   `json:"title"`
	StartIndex  int      `json:"startIndex"`
}

func (h *SessionHandler) StartWrongPractice(c *gin.Context) {
	var req StartWrongPracticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Starting wrong question practice",
		"question_count", len(req.QuestionIDs))

	err := h.engine.StartWrongQuestionsPractice(c.Request.Context(), session.WrongPracticeInput{
		QuestionIDs: req.QuestionIDs,
		SubjectID:   req.SubjectID,
		SubjectName: req.SubjectName,
		Title:       req.Title,
		StartIndex:  req.StartIndex,
	})
	if err != nil {
		h.handleEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.engine.Session())
}

// SaveAnswerRequest records one answer. The answer keeps its wire shape:
// string, string array, boolean or null.
type SaveAnswerRequest struct {
	QuestionID string             `json:"questionId" validate:"required"`
	Answer     models.AnswerValue `json:"answer"`
}

func (h *SessionHandler) SaveAnswer(c *gin.Context) {
	var req SaveAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		h.handleServiceError(c, err)
		return
	}

	if err := h.engine.SaveAnswer(c.Request.Context(), req.QuestionID, req.Answer); err != nil {
		h.handleEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.engine.Statistics())
}

// GoToQuestionRequest jumps the session cursor.
type GoToQuestionRequest struct {
	Index int `json:"index"`
}

func (h *SessionHandler) GoToQuestion(c *gin.Context) {
	var req GoToQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.engine.GoToQuestion(c.Request.Context(), req.Index); err != nil {
		h.handleEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.engine.Session())
}

func (h *SessionHandler) PreviousQuestion(c *gin.Context) {
	if err := h.engine.PreviousQuestion(c.Request.Context()); err != nil {
		h.handleEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.engine.Session())
}

func (h *SessionHandler) NextQuestion(c *gin.Context) {
	if err := h.engine.NextQuestion(c.Request.Context()); err != nil {
		h.handleEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.engine.Session())
}

func (h *SessionHandler) SubmitSession(c *gin.Context) {
	h.LogRequest(c, "Submitting exam session")

	report, err := h.engine.SubmitExam(c.Request.Context())
	if err != nil {
		h.handleEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *SessionHandler) GetScore(c *gin.Context) {
	report, err := h.engine.CalculateScore()
	if err != nil {
		h.handleEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *SessionHandler) ResetSession(c *gin.Context) {
	h.LogRequest(c, "Resetting exam session")

	if err := h.engine.ResetExam(c.Request.Context()); err != nil {
		h.handleEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.engine.Session())
}

func (h *SessionHandler) ClearSession(c *gin.Context) {
	h.LogRequest(c, "Clearing exam session")

	if err := h.engine.ClearSession(c.Request.Context()); err != nil {
		h.handleEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Session cleared"})
}

func (h *SessionHandler) UpdateSettings(c *gin.Context) {
	var patch session.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(&patch); err != nil {
		h.handleServiceError(c, err)
		return
	}

	if err := h.engine.UpdateSettings(c.Request.Context(), patch); err != nil {
		h.handleEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.engine.Session())
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	current := h.engine.Session()
	if current == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "No active exam session",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": current,
		"answers": h.engine.Answers(),
	})
}

func (h *SessionHandler) GetStatistics(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Statistics())
}

func (h *SessionHandler) GetCurrentQuestion(c *gin.Context) {
	question := h.engine.CurrentQuestion()
	if question == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "No active exam session",
		})
		return
	}

	c.JSON(http.StatusOK, question)
}

// handleEngineError maps engine sentinels before falling back to the shared
// service error mapping.
func (h *SessionHandler) handleEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNoQuestions):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, session.ErrNoWrongQuestions):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, session.ErrNoActiveSession):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})
	case errors.Is(err, session.ErrCorruptedState):
		h.LogError(c, err, "Session state corrupted")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: err.Error(),
		})
	default:
		h.handleServiceError(c, err)
	}
}
