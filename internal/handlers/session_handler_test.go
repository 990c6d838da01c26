package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hairui08/exambank-service/internal/events"
	"github.com/hairui08/exambank-service/internal/repositories/memory"
	"github.com/hairui08/exambank-service/internal/session"
	"github.com/hairui08/exambank-service/internal/utils"
	"github.com/hairui08/exambank-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionRouter(t *testing.T) (*gin.Engine, *session.Engine, *session.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := session.NewMemoryStore()
	engine := session.NewEngine(store, events.NewMockEventPublisher(), memory.NewRepository().Question(), logger)

	handler := NewSessionHandler(engine, validator.New(), utils.NewSlogLogger(logger))

	router := gin.New()
	router.POST("/session/start", handler.StartSession)
	router.POST("/session/start-wrong-practice", handler.StartWrongPractice)
	router.POST("/session/answer", handler.SaveAnswer)
	router.PUT("/session/settings", handler.UpdateSettings)
	return router, engine, store
}

func postJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, req)
	return recorder
}

const validStartBody = `{
	"examId": "exam-1",
	"examType": "chapter",
	"examTitle": "Chapter drill",
	"questions": [
		{"id": "q1", "type": "judgment", "stem": "Cash is an asset", "answer": true}
	]
}`

func TestStartSession_AcceptsValidRequest(t *testing.T) {
	router, engine, _ := newSessionRouter(t)

	recorder := postJSON(router, http.MethodPost, "/session/start", validStartBody)
	assert.Equal(t, http.StatusCreated, recorder.Code)
	require.NotNil(t, engine.Session())
	assert.Equal(t, "exam-1", engine.Session().ExamID)
}

func TestStartSession_RejectsUnknownExamKind(t *testing.T) {
	router, engine, store := newSessionRouter(t)

	body := strings.Replace(validStartBody, `"chapter"`, `"banana"`, 1)
	recorder := postJSON(router, http.MethodPost, "/session/start", body)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "examType")

	// Nothing was started or persisted.
	assert.Nil(t, engine.Session())
	_, err := store.Get(context.Background(), session.KeySession)
	assert.ErrorIs(t, err, session.ErrKeyNotFound)
}

func TestStartSession_RejectsMissingFields(t *testing.T) {
	router, _, _ := newSessionRouter(t)

	recorder := postJSON(router, http.MethodPost, "/session/start",
		`{"examType": "chapter", "questions": []}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "examId")
}

func TestStartWrongPractice_RejectsEmptyIDList(t *testing.T) {
	router, _, _ := newSessionRouter(t)

	recorder := postJSON(router, http.MethodPost, "/session/start-wrong-practice",
		`{"questionIds": []}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "questionIds")
}

func TestSaveAnswer_RejectsMissingQuestionID(t *testing.T) {
	router, _, _ := newSessionRouter(t)

	recorder := postJSON(router, http.MethodPost, "/session/answer", `{"answer": "A"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "questionId")
}

func TestUpdateSettings_RejectsUnknownFontSize(t *testing.T) {
	router, engine, _ := newSessionRouter(t)

	recorder := postJSON(router, http.MethodPost, "/session/start", validStartBody)
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = postJSON(router, http.MethodPut, "/session/settings", `{"fontSize": "gigantic"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "fontSize")

	// The session keeps its defaults.
	assert.Equal(t, "medium", string(engine.Session().Settings.FontSize))
}
