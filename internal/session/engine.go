package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/hairui08/exambank-service/internal/events"
	"github.com/hairui08/exambank-service/internal/models"
	"github.com/hairui08/exambank-service/internal/repositories"
)

var (
	// ErrNoActiveSession is returned by operations that need a running session.
	ErrNoActiveSession = errors.New("no active exam session")

	// ErrNoQuestions rejects starting a session with an empty question list.
	ErrNoQuestions = errors.New("cannot start a session without questions")

	// ErrNoWrongQuestions is returned when none of the requested wrong
	// questions exist in the bank anymore.
	ErrNoWrongQuestions = errors.New("none of the requested wrong questions exist")

	// ErrCorruptedState marks persisted session data that no longer parses.
	ErrCorruptedState = errors.New("persisted session data is corrupted")
)

// StartExamInput carries everything a new session needs. Questions are
// snapshotted, so the caller's slice can be reused afterwards.
type StartExamInput struct {
	ExamID      string
	ExamType    models.ExamKind
	ExamTitle   string
	SubjectID   string
	SubjectName string
	Questions   []models.Question
	StartIndex  int
}

// WrongPracticeInput starts a practice session over a wrong-question list.
// Title is optional; StartIndex lets the student resume from a specific
// question.
type WrongPracticeInput struct {
	QuestionIDs []string
	SubjectID   string
	SubjectName string
	Title       string
	StartIndex  int
}

// SettingsPatch is a partial settings update; nil fields keep their current
// value.
type SettingsPatch struct {
	FontSize     *models.FontSize    `json:"fontSize,omitempty" validate:"omitempty,font_size"`
	ShowAnalysis *bool               `json:"showAnalysis,omitempty"`
	Mode         *models.SessionMode `json:"mode,omitempty" validate:"omitempty,session_mode"`
}

// Engine drives the single active exam session: starting, answering with
// immediate grading, navigation, scoring, and recovery from the backing
// store. All methods are safe for concurrent use.
//
// Every state mutation is persisted before it returns, so a crashed process
// can Recover the session from the store on the next start.
type Engine struct {
	mu        sync.Mutex
	store     Store
	publisher events.EventPublisher
	questions repositories.QuestionRepository
	logger    *slog.Logger
	now       func() time.Time

	session *models.ExamSession
	answers map[string]*models.UserAnswer
}

func NewEngine(store Store, publisher events.EventPublisher, questions repositories.QuestionRepository, logger *slog.Logger) *Engine {
	return &Engine{
		store:     store,
		publisher: publisher,
		questions: questions,
		logger:    logger,
		now:       time.Now,
		answers:   make(map[string]*models.UserAnswer),
	}
}

func (e *Engine) nowMillis() int64 {
	return e.now().UnixMilli()
}

// StartExam replaces any existing session with a fresh one and clears all
// answer records.
func (e *Engine) StartExam(ctx context.Context, in StartExamInput) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked(ctx, in)
}

func (e *Engine) startLocked(ctx context.Context, in StartExamInput) error {
	if len(in.Questions) == 0 {
		return ErrNoQuestions
	}

	startIndex := in.StartIndex
	if startIndex < 0 || startIndex >= len(in.Questions) {
		startIndex = 0
	}

	questions := make([]models.Question, len(in.Questions))
	copy(questions, in.Questions)

	e.session = &models.ExamSession{
		ExamID:       in.ExamID,
		ExamType:     in.ExamType,
		ExamTitle:    in.ExamTitle,
		SubjectID:    in.SubjectID,
		SubjectName:  in.SubjectName,
		Questions:    questions,
		CurrentIndex: startIndex,
		StartTime:    e.nowMillis(),
		IsCompleted:  false,
		Settings:     models.DefaultSettings(),
	}
	e.answers = make(map[string]*models.UserAnswer)

	if err := e.persist(ctx); err != nil {
		return err
	}

	e.logger.Info("Exam session started",
		"exam_id", in.ExamID,
		"exam_type", string(in.ExamType),
		"question_count", len(questions),
		"start_index", startIndex)
	return nil
}

// StartWrongQuestionsPractice resolves the given question ids against the
// bank and starts a wrong-question practice session over them, preserving
// the requested order and skipping ids that no longer exist.
func (e *Engine) StartWrongQuestionsPractice(ctx context.Context, in WrongPracticeInput) error {
	found, err := e.questions.GetByIDs(ctx, in.QuestionIDs)
	if err != nil {
		return fmt.Errorf("failed to load wrong questions: %w", err)
	}
	if len(found) == 0 {
		return ErrNoWrongQuestions
	}

	questions := make([]models.Question, 0, len(found))
	for _, q := range found {
		questions = append(questions, *q)
	}

	timestamp := e.nowMillis()
	examID := fmt.Sprintf("wrong-all-%d", timestamp)
	if in.StartIndex > 0 && in.StartIndex < len(in.QuestionIDs) {
		examID = fmt.Sprintf("wrong-from-%s-%d", in.QuestionIDs[in.StartIndex], timestamp)
	}

	title := in.Title
	if title == "" {
		title = fmt.Sprintf("Wrong question practice (%d questions)", len(questions))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked(ctx, StartExamInput{
		ExamID:      examID,
		ExamType:    models.KindWrongQuestions,
		ExamTitle:   title,
		SubjectID:   in.SubjectID,
		SubjectName: in.SubjectName,
		Questions:   questions,
		StartIndex:  in.StartIndex,
	})
}

// SaveAnswer grades and records an answer for a question in the current
// session. Calls for an unknown question or without a session are silently
// ignored so stale clients cannot corrupt state.
func (e *Engine) SaveAnswer(ctx context.Context, questionID string, answer models.AnswerValue) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return nil
	}
	question := e.findQuestionLocked(questionID)
	if question == nil {
		return nil
	}

	result := CheckAnswer(question, answer)
	e.answers[questionID] = &models.UserAnswer{
		QuestionID: questionID,
		Answer:     answer,
		IsCorrect:  result.IsCorrect,
		IsPartial:  result.IsPartial,
		AnsweredAt: e.nowMillis(),
	}

	if err := e.persist(ctx); err != nil {
		return err
	}

	e.advanceRemovalCounter(ctx, questionID, result.IsCorrect)
	return nil
}

// advanceRemovalCounter applies the wrong-question auto-removal policy after
// an answer was stored. Failures are logged and never surface to the caller;
// answering must not break because the policy store hiccuped.
func (e *Engine) advanceRemovalCounter(ctx context.Context, questionID string, isCorrect bool) {
	raw, err := e.store.Get(ctx, KeyAutoRemove)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			e.logger.Warn("Auto-removal policy unavailable", "error", err)
		}
		return
	}

	var policy AutoRemovePolicy
	if err := json.Unmarshal([]byte(raw), &policy); err != nil {
		e.logger.Warn("Auto-removal policy malformed", "error", err)
		return
	}
	if !policy.Enabled {
		return
	}

	required := policy.RemoveAfter
	if required <= 0 {
		required = 1
	}

	counterKey := CounterKey(questionID)
	current := 0
	if value, err := e.store.Get(ctx, counterKey); err == nil {
		if parsed, convErr := strconv.Atoi(value); convErr == nil {
			current = parsed
		}
	}

	if !isCorrect {
		// A wrong answer resets the streak.
		if current > 0 {
			if err := e.store.Delete(ctx, counterKey); err != nil {
				e.logger.Warn("Failed to reset correct streak",
					"question_id", questionID,
					"error", err)
			}
		}
		return
	}

	newCount := current + 1
	if newCount < required {
		if err := e.store.Set(ctx, counterKey, strconv.Itoa(newCount)); err != nil {
			e.logger.Warn("Failed to update correct streak",
				"question_id", questionID,
				"error", err)
		}
		return
	}

	if err := e.store.Delete(ctx, counterKey); err != nil {
		e.logger.Warn("Failed to clear correct streak",
			"question_id", questionID,
			"error", err)
	}
	if err := e.publisher.PublishWrongQuestionRemoved(ctx, questionID); err != nil {
		e.logger.Warn("Failed to publish wrong question removal",
			"question_id", questionID,
			"error", err)
		return
	}
	e.logger.Info("Wrong question reached removal threshold",
		"question_id", questionID,
		"correct_count", newCount)
}

// GoToQuestion jumps to the question at index. Out-of-range indexes are
// ignored.
func (e *Engine) GoToQuestion(ctx context.Context, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil || index < 0 || index >= len(e.session.Questions) {
		return nil
	}
	e.session.CurrentIndex = index
	return e.persist(ctx)
}

func (e *Engine) PreviousQuestion(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil || e.session.CurrentIndex <= 0 {
		return nil
	}
	e.session.CurrentIndex--
	return e.persist(ctx)
}

func (e *Engine) NextQuestion(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil || e.session.CurrentIndex >= len(e.session.Questions)-1 {
		return nil
	}
	e.session.CurrentIndex++
	return e.persist(ctx)
}

// SubmitExam completes the session and returns the score report.
// Resubmitting overwrites the end time.
func (e *Engine) SubmitExam(ctx context.Context) (*models.ScoreReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return nil, ErrNoActiveSession
	}

	endTime := e.nowMillis()
	e.session.EndTime = &endTime
	e.session.IsCompleted = true

	if err := e.persist(ctx); err != nil {
		return nil, err
	}

	report := e.scoreLocked()
	e.logger.Info("Exam session submitted",
		"exam_id", e.session.ExamID,
		"score", report.Score,
		"answered", report.TotalQuestions-report.UnansweredCount,
		"total", report.TotalQuestions)
	return report, nil
}

// CalculateScore scores the session as it stands, without completing it. For
// a running session time spent is measured up to now.
func (e *Engine) CalculateScore() (*models.ScoreReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return nil, ErrNoActiveSession
	}
	return e.scoreLocked(), nil
}

// Full credit per correct question, half per partially correct, nothing
// otherwise, out of 100.
func (e *Engine) scoreLocked() *models.ScoreReport {
	stats := e.statsLocked()
	report := &models.ScoreReport{
		TotalQuestions:  stats.Total,
		CorrectCount:    stats.Correct,
		IncorrectCount:  stats.Incorrect,
		PartialCount:    stats.Partial,
		UnansweredCount: stats.Unanswered,
	}
	if stats.Total > 0 {
		perQuestion := 100.0 / float64(stats.Total)
		raw := float64(stats.Correct)*perQuestion + float64(stats.Partial)*perQuestion*0.5
		report.Score = math.Round(raw*100) / 100
	}

	end := e.nowMillis()
	if e.session.EndTime != nil {
		end = *e.session.EndTime
	}
	report.TimeSpent = end - e.session.StartTime
	return report
}

// ResetExam restarts the current session from the first question with a
// fresh clock and no answers. Without a session it does nothing.
func (e *Engine) ResetExam(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return nil
	}

	e.answers = make(map[string]*models.UserAnswer)
	e.session.CurrentIndex = 0
	e.session.StartTime = e.nowMillis()
	e.session.EndTime = nil
	e.session.IsCompleted = false

	if err := e.persist(ctx); err != nil {
		return err
	}
	e.logger.Info("Exam session reset", "exam_id", e.session.ExamID)
	return nil
}

// ClearSession drops the session and its answers from memory and the store.
func (e *Engine) ClearSession(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.session = nil
	e.answers = make(map[string]*models.UserAnswer)

	if err := e.store.Delete(ctx, KeySession); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if err := e.store.Delete(ctx, KeyAnswers); err != nil {
		return fmt.Errorf("failed to clear answers: %w", err)
	}
	return nil
}

// UpdateSettings merges a partial settings update into the current session.
func (e *Engine) UpdateSettings(ctx context.Context, patch SettingsPatch) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return nil
	}
	if patch.FontSize != nil {
		e.session.Settings.FontSize = *patch.FontSize
	}
	if patch.ShowAnalysis != nil {
		e.session.Settings.ShowAnalysis = *patch.ShowAnalysis
	}
	if patch.Mode != nil {
		e.session.Settings.Mode = *patch.Mode
	}
	return e.persist(ctx)
}

// Statistics returns the live answering tally. Without a session every count
// is zero.
func (e *Engine) Statistics() models.SessionStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return models.SessionStats{}
	}
	return e.statsLocked()
}

func (e *Engine) statsLocked() models.SessionStats {
	stats := models.SessionStats{Total: len(e.session.Questions)}
	for i := range e.session.Questions {
		answer, ok := e.answers[e.session.Questions[i].ID]
		if !ok || answer.Answer.IsNone() {
			continue
		}
		stats.Answered++
		switch {
		case answer.IsCorrect:
			stats.Correct++
		case answer.IsPartial:
			stats.Partial++
		default:
			stats.Incorrect++
		}
	}
	stats.Unanswered = stats.Total - stats.Answered
	return stats
}

// CurrentQuestion returns a copy of the question at the session cursor, or
// nil without a session.
func (e *Engine) CurrentQuestion() *models.Question {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil || e.session.CurrentIndex >= len(e.session.Questions) {
		return nil
	}
	question := e.session.Questions[e.session.CurrentIndex]
	return &question
}

// Session returns a copy of the current session, or nil when there is none.
func (e *Engine) Session() *models.ExamSession {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return nil
	}
	session := *e.session
	session.Questions = make([]models.Question, len(e.session.Questions))
	copy(session.Questions, e.session.Questions)
	if e.session.EndTime != nil {
		endTime := *e.session.EndTime
		session.EndTime = &endTime
	}
	return &session
}

// Answers returns a copy of the answer records keyed by question id.
func (e *Engine) Answers() map[string]models.UserAnswer {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]models.UserAnswer, len(e.answers))
	for id, answer := range e.answers {
		out[id] = *answer
	}
	return out
}

// HasUnfinishedSession reports whether a session exists that has not been
// submitted yet.
func (e *Engine) HasUnfinishedSession() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session != nil && !e.session.IsCompleted
}

// Recover loads the session and answers persisted by a previous process. A
// missing session is not an error; unparseable data is, so operators notice
// instead of silently losing an attempt.
func (e *Engine) Recover(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	raw, err := e.store.Get(ctx, KeySession)
	if errors.Is(err, ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load persisted session: %w", err)
	}

	var session models.ExamSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return fmt.Errorf("%w: session: %v", ErrCorruptedState, err)
	}

	answers := make(map[string]*models.UserAnswer)
	rawAnswers, err := e.store.Get(ctx, KeyAnswers)
	switch {
	case err == nil:
		if err := json.Unmarshal([]byte(rawAnswers), &answers); err != nil {
			return fmt.Errorf("%w: answers: %v", ErrCorruptedState, err)
		}
	case errors.Is(err, ErrKeyNotFound):
		// A session without answers is fine; nothing was answered yet.
	default:
		return fmt.Errorf("failed to load persisted answers: %w", err)
	}

	e.session = &session
	e.answers = answers

	e.logger.Info("Exam session recovered",
		"exam_id", session.ExamID,
		"answered", len(answers),
		"completed", session.IsCompleted)
	return nil
}

func (e *Engine) findQuestionLocked(questionID string) *models.Question {
	for i := range e.session.Questions {
		if e.session.Questions[i].ID == questionID {
			return &e.session.Questions[i]
		}
	}
	return nil
}

func (e *Engine) persist(ctx context.Context) error {
	sessionJSON, err := json.Marshal(e.session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	answersJSON, err := json.Marshal(e.answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}
	if err := e.store.Set(ctx, KeySession, string(sessionJSON)); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	if err := e.store.Set(ctx, KeyAnswers, string(answersJSON)); err != nil {
		return fmt.Errorf("failed to persist answers: %w", err)
	}
	return nil
}
