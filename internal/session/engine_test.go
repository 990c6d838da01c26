package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/hairui08/exambank-service/internal/events"
	"github.com/hairui08/exambank-service/internal/models"
	"github.com/hairui08/exambank-service/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T) (*Engine, *MemoryStore, *events.MockEventPublisher) {
	t.Helper()
	store := NewMemoryStore()
	publisher := events.NewMockEventPublisher()
	repo := memory.NewRepository()
	engine := NewEngine(store, publisher, repo.Question(), testLogger())
	return engine, store, publisher
}

func fourQuestionInput() StartExamInput {
	essay := models.Question{
		ID:     "q-essay",
		Type:   models.QuestionEssay,
		Stem:   "Explain",
		Answer: models.TextAnswer("model answer"),
	}
	return StartExamInput{
		ExamID:      "exam-1",
		ExamType:    models.KindChapter,
		ExamTitle:   "Chapter drill",
		SubjectID:   "subject-1",
		SubjectName: "Accounting",
		Questions:   []models.Question{*singleQuestion(), *multipleQuestion(), *judgmentQuestion(), essay},
	}
}

func TestStartExam_RequiresQuestions(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	err := engine.StartExam(context.Background(), StartExamInput{ExamID: "empty"})
	assert.ErrorIs(t, err, ErrNoQuestions)
	assert.Nil(t, engine.Session())
}

func TestStartExam_InitializesSession(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	start := time.UnixMilli(1_700_000_000_000)
	engine.now = func() time.Time { return start }

	require.NoError(t, engine.StartExam(context.Background(), fourQuestionInput()))

	current := engine.Session()
	require.NotNil(t, current)
	assert.Equal(t, "exam-1", current.ExamID)
	assert.Equal(t, models.KindChapter, current.ExamType)
	assert.Equal(t, 0, current.CurrentIndex)
	assert.Equal(t, start.UnixMilli(), current.StartTime)
	assert.False(t, current.IsCompleted)
	assert.Equal(t, models.DefaultSettings(), current.Settings)
	assert.Len(t, current.Questions, 4)

	// State reached the store immediately.
	_, err := store.Get(context.Background(), KeySession)
	assert.NoError(t, err)
	_, err = store.Get(context.Background(), KeyAnswers)
	assert.NoError(t, err)
}

func TestStartExam_ReplacesPreviousSessionAndAnswers(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.StartExam(ctx, fourQuestionInput()))
	require.NoError(t, engine.SaveAnswer(ctx, "q-single", models.TextAnswer("A")))
	require.Len(t, engine.Answers(), 1)

	input := fourQuestionInput()
	input.ExamID = "exam-2"
	require.NoError(t, engine.StartExam(ctx, input))

	assert.Equal(t, "exam-2", engine.Session().ExamID)
	assert.Empty(t, engine.Answers())
}

func TestStartExam_OutOfRangeStartIndexFallsBackToZero(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	input := fourQuestionInput()
	input.StartIndex = 99
	require.NoError(t, engine.StartExam(context.Background(), input))

	assert.Equal(t, 0, engine.Session().CurrentIndex)
}

func TestNavigation_Bounds(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, engine.StartExam(ctx, fourQuestionInput()))

	// Previous at the first question is a no-op.
	require.NoError(t, engine.PreviousQuestion(ctx))
	assert.Equal(t, 0, engine.Session().CurrentIndex)

	require.NoError(t, engine.NextQuestion(ctx))
	assert.Equal(t, 1, engine.Session().CurrentIndex)

	// Out-of-range jumps are ignored.
	require.NoError(t, engine.GoToQuestion(ctx, 17))
	assert.Equal(t, 1, engine.Session().CurrentIndex)
	require.NoError(t, engine.GoToQuestion(ctx, -1))
	assert.Equal(t, 1, engine.Session().CurrentIndex)

	require.NoError(t, engine.GoToQuestion(ctx, 3))
	assert.Equal(t, 3, engine.Session().CurrentIndex)

	// Next at the last question is a no-op.
	require.NoError(t, engine.NextQuestion(ctx))
	assert.Equal(t, 3, engine.Session().CurrentIndex)
}

func TestSaveAnswer_IgnoresUnknownQuestionAndMissingSession(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	// No session yet.
	require.NoError(t, engine.SaveAnswer(ctx, "q-single", models.TextAnswer("A")))

	require.NoError(t, engine.StartExam(ctx, fourQuestionInput()))
	require.NoError(t, engine.SaveAnswer(ctx, "not-in-session", models.TextAnswer("A")))
	assert.Empty(t, engine.Answers())
}

func TestSaveAnswer_RecordsGradedAnswer(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()
	answeredAt := time.UnixMilli(1_700_000_123_000)
	engine.now = func() time.Time { return answeredAt }

	require.NoError(t, engine.StartExam(ctx, fourQuestionInput()))
	require.NoError(t, engine.SaveAnswer(ctx, "q-multiple", models.ChoicesAnswer("A", "B")))

	answers := engine.Answers()
	require.Contains(t, answers, "q-multiple")
	record := answers["q-multiple"]
	assert.False(t, record.IsCorrect)
	assert.True(t, record.IsPartial)
	assert.Equal(t, answeredAt.UnixMilli(), record.AnsweredAt)

	// Re-answering overwrites the record.
	require.NoError(t, engine.SaveAnswer(ctx, "q-multiple", models.ChoicesAnswer("A", "B", "C")))
	assert.True(t, engine.Answers()["q-multiple"].IsCorrect)
}

func TestStatistics_LiveTally(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, engine.StartExam(ctx, fourQuestionInput()))

	assert.Equal(t, models.SessionStats{Total: 4, Unanswered: 4}, engine.Statistics())

	require.NoError(t, engine.SaveAnswer(ctx, "q-single", models.TextAnswer("A")))
	require.NoError(t, engine.SaveAnswer(ctx, "q-multiple", models.ChoicesAnswer("A", "B")))
	require.NoError(t, engine.SaveAnswer(ctx, "q-judgment", models.BoolAnswer(false)))

	assert.Equal(t, models.SessionStats{
		Total:      4,
		Answered:   3,
		Correct:    1,
		Incorrect:  1,
		Partial:    1,
		Unanswered: 1,
	}, engine.Statistics())
}

func TestSubmitExam_ScoreAndTimeSpent(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()
	start := time.UnixMilli(1_700_000_000_000)
	now := start
	engine.now = func() time.Time { return now }

	require.NoError(t, engine.StartExam(ctx, fourQuestionInput()))
	require.NoError(t, engine.SaveAnswer(ctx, "q-single", models.TextAnswer("A")))
	require.NoError(t, engine.SaveAnswer(ctx, "q-judgment", models.TextAnswer("true")))
	require.NoError(t, engine.SaveAnswer(ctx, "q-multiple", models.ChoicesAnswer("A", "B")))
	require.NoError(t, engine.SaveAnswer(ctx, "q-essay", models.TextAnswer("wrong")))

	now = start.Add(5 * time.Minute)
	report, err := engine.SubmitExam(ctx)
	require.NoError(t, err)

	// 2 correct at 25 points each plus one partial at half credit.
	assert.Equal(t, 62.5, report.Score)
	assert.Equal(t, 4, report.TotalQuestions)
	assert.Equal(t, 2, report.CorrectCount)
	assert.Equal(t, 1, report.PartialCount)
	assert.Equal(t, 1, report.IncorrectCount)
	assert.Equal(t, 0, report.UnansweredCount)
	assert.Equal(t, (5 * time.Minute).Milliseconds(), report.TimeSpent)

	assert.True(t, engine.Session().IsCompleted)
	assert.False(t, engine.HasUnfinishedSession())
}

func TestSubmitExam_ResubmitOverwritesEndTime(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()
	start := time.UnixMilli(1_700_000_000_000)
	now := start
	engine.now = func() time.Time { return now }

	require.NoError(t, engine.StartExam(ctx, fourQuestionInput()))

	now = start.Add(time.Minute)
	first, err := engine.SubmitExam(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Minute.Milliseconds(), first.TimeSpent)

	now = start.Add(3 * time.Minute)
	second, err := engine.SubmitExam(ctx)
	require.NoError(t, err)
	assert.Equal(t, (3 * time.Minute).Milliseconds(), second.TimeSpent)
}

func TestSubmitExam_WithoutSession(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	_, err := engine.SubmitExam(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestResetExam_ClearsProgress(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()
	start := time.UnixMilli(1_700_000_000_000)
	now := start
	engine.now = func() time.Time { return now }

	// Reset without a session is a no-op.
	require.NoError(t, engine.ResetExam(ctx))

	require.NoError(t, engine.StartExam(ctx, fourQuestionInput()))
	require.NoError(t, engine.SaveAnswer(ctx, "q-single", models.TextAnswer("A")))
	require.NoError(t, engine.GoToQuestion(ctx, 2))
	now = start.Add(time.Minute)
	_, err := engine.SubmitExam(ctx)
	require.NoError(t, err)

	now = start.Add(2 * time.Minute)
	require.NoError(t, engine.ResetExam(ctx))

	current := engine.Session()
	assert.Equal(t, 0, current.CurrentIndex)
	assert.Equal(t, now.UnixMilli(), current.StartTime)
	assert.Nil(t, current.EndTime)
	assert.False(t, current.IsCompleted)
	assert.Empty(t, engine.Answers())
	assert.True(t, engine.HasUnfinishedSession())
}

func TestClearSession_RemovesStateAndKeys(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.StartExam(ctx, fourQuestionInput()))
	require.NoError(t, engine.ClearSession(ctx))

	assert.Nil(t, engine.Session())
	assert.Nil(t, engine.CurrentQuestion())
	assert.False(t, engine.HasUnfinishedSession())

	_, err := store.Get(ctx, KeySession)
	assert.ErrorIs(t, err, ErrKeyNotFound)
	_, err = store.Get(ctx, KeyAnswers)
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestUpdateSettings_MergesPartialPatch(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, engine.StartExam(ctx, fourQuestionInput()))

	fontSize := models.FontLarge
	require.NoError(t, engine.UpdateSettings(ctx, SettingsPatch{FontSize: &fontSize}))

	settings := engine.Session().Settings
	assert.Equal(t, models.FontLarge, settings.FontSize)
	assert.Equal(t, models.ModePractice, settings.Mode, "untouched fields keep their value")

	mode := models.ModeExam
	showAnalysis := true
	require.NoError(t, engine.UpdateSettings(ctx, SettingsPatch{Mode: &mode, ShowAnalysis: &showAnalysis}))

	settings = engine.Session().Settings
	assert.Equal(t, models.FontLarge, settings.FontSize)
	assert.Equal(t, models.ModeExam, settings.Mode)
	assert.True(t, settings.ShowAnalysis)
}

func TestRecover_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	publisher := events.NewMockEventPublisher()
	repo := memory.NewRepository()
	ctx := context.Background()

	first := NewEngine(store, publisher, repo.Question(), testLogger())
	require.NoError(t, first.StartExam(ctx, fourQuestionInput()))
	require.NoError(t, first.SaveAnswer(ctx, "q-single", models.TextAnswer("A")))
	require.NoError(t, first.GoToQuestion(ctx, 2))

	second := NewEngine(store, publisher, repo.Question(), testLogger())
	require.NoError(t, second.Recover(ctx))

	recovered := second.Session()
	require.NotNil(t, recovered)
	assert.Equal(t, "exam-1", recovered.ExamID)
	assert.Equal(t, 2, recovered.CurrentIndex)
	assert.Len(t, recovered.Questions, 4)

	answers := second.Answers()
	require.Contains(t, answers, "q-single")
	assert.True(t, answers["q-single"].IsCorrect)
	assert.True(t, second.HasUnfinishedSession())
}

func TestRecover_NoPersistedSession(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	require.NoError(t, engine.Recover(context.Background()))
	assert.Nil(t, engine.Session())
}

func TestRecover_CorruptedSession(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeySession, "{not json"))
	assert.ErrorIs(t, engine.Recover(ctx), ErrCorruptedState)
}

func TestRecover_CorruptedAnswers(t *testing.T) {
	engine, store, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.StartExam(ctx, fourQuestionInput()))
	require.NoError(t, store.Set(ctx, KeyAnswers, "[1,2,3]"))

	fresh := NewEngine(store, events.NewMockEventPublisher(), memory.NewRepository().Question(), testLogger())
	assert.ErrorIs(t, fresh.Recover(ctx), ErrCorruptedState)
}

func seedBankQuestions(t *testing.T, repo interface {
	Create(ctx context.Context, question *models.Question) error
}, ids ...string) {
	t.Helper()
	for _, id := range ids {
		question := *singleQuestion()
		question.ID = id
		require.NoError(t, repo.Create(context.Background(), &question))
	}
}

func TestStartWrongQuestionsPractice_PreservesRequestedOrder(t *testing.T) {
	store := NewMemoryStore()
	publisher := events.NewMockEventPublisher()
	repo := memory.NewRepository()
	seedBankQuestions(t, repo.Question(), "q1", "q2", "q3")

	engine := NewEngine(store, publisher, repo.Question(), testLogger())
	engine.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }

	err := engine.StartWrongQuestionsPractice(context.Background(), WrongPracticeInput{
		QuestionIDs: []string{"q3", "missing", "q1"},
		SubjectID:   "subject-1",
		SubjectName: "Accounting",
	})
	require.NoError(t, err)

	current := engine.Session()
	require.NotNil(t, current)
	assert.Equal(t, models.KindWrongQuestions, current.ExamType)
	require.Len(t, current.Questions, 2, "missing ids are skipped")
	assert.Equal(t, "q3", current.Questions[0].ID)
	assert.Equal(t, "q1", current.Questions[1].ID)
	assert.True(t, strings.HasPrefix(current.ExamID, "wrong-all-"), current.ExamID)
	assert.Contains(t, current.ExamTitle, "2")
}

func TestStartWrongQuestionsPractice_StartIndexNamesSession(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	repo := memory.NewRepository()
	seedBankQuestions(t, repo.Question(), "q1", "q2", "q3")
	engine.questions = repo.Question()

	err := engine.StartWrongQuestionsPractice(context.Background(), WrongPracticeInput{
		QuestionIDs: []string{"q1", "q2", "q3"},
		Title:       "Retry the hard ones",
		StartIndex:  1,
	})
	require.NoError(t, err)

	current := engine.Session()
	assert.True(t, strings.HasPrefix(current.ExamID, "wrong-from-q2-"), current.ExamID)
	assert.Equal(t, 1, current.CurrentIndex)
	assert.Equal(t, "Retry the hard ones", current.ExamTitle)
}

func TestStartWrongQuestionsPractice_NoQuestionsFound(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	err := engine.StartWrongQuestionsPractice(context.Background(), WrongPracticeInput{
		QuestionIDs: []string{"ghost-1", "ghost-2"},
	})
	assert.ErrorIs(t, err, ErrNoWrongQuestions)
	assert.Nil(t, engine.Session())
}

func enableAutoRemove(t *testing.T, store Store, removeAfter int) {
	t.Helper()
	policy := fmt.Sprintf(`{"enabled":true,"removeAfter":%d}`, removeAfter)
	require.NoError(t, store.Set(context.Background(), KeyAutoRemove, policy))
}

func TestAutoRemove_ThresholdPublishesEvent(t *testing.T) {
	engine, store, publisher := newTestEngine(t)
	ctx := context.Background()
	enableAutoRemove(t, store, 2)

	require.NoError(t, engine.StartExam(ctx, fourQuestionInput()))

	require.NoError(t, engine.SaveAnswer(ctx, "q-single", models.TextAnswer("A")))
	assert.Empty(t, publisher.Removed)
	counter, err := store.Get(ctx, CounterKey("q-single"))
	require.NoError(t, err)
	assert.Equal(t, "1", counter)

	require.NoError(t, engine.SaveAnswer(ctx, "q-single", models.TextAnswer("A")))
	assert.Equal(t, []string{"q-single"}, publisher.Removed)
	_, err = store.Get(ctx, CounterKey("q-single"))
	assert.ErrorIs(t, err, ErrKeyNotFound, "counter is cleared on removal")
}

func TestAutoRemove_WrongAnswerResetsStreak(t *testing.T) {
	engine, store, publisher := newTestEngine(t)
	ctx := context.Background()
	enableAutoRemove(t, store, 3)

	require.NoError(t, engine.StartExam(ctx, fourQuestionInput()))

	require.NoError(t, engine.SaveAnswer(ctx, "q-single", models.TextAnswer("A")))
	require.NoError(t, engine.SaveAnswer(ctx, "q-single", models.TextAnswer("B")))

	_, err := store.Get(ctx, CounterKey("q-single"))
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Empty(t, publisher.Removed)
}

func TestAutoRemove_MissingOrDisabledPolicy(t *testing.T) {
	engine, store, publisher := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, engine.StartExam(ctx, fourQuestionInput()))

	// No policy configured.
	require.NoError(t, engine.SaveAnswer(ctx, "q-single", models.TextAnswer("A")))
	_, err := store.Get(ctx, CounterKey("q-single"))
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Policy present but disabled.
	require.NoError(t, store.Set(ctx, KeyAutoRemove, `{"enabled":false,"removeAfter":1}`))
	require.NoError(t, engine.SaveAnswer(ctx, "q-single", models.TextAnswer("A")))
	_, err = store.Get(ctx, CounterKey("q-single"))
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Empty(t, publisher.Removed)
}

func TestAutoRemove_ZeroRemoveAfterDefaultsToOne(t *testing.T) {
	engine, store, publisher := newTestEngine(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, KeyAutoRemove, `{"enabled":true}`))

	require.NoError(t, engine.StartExam(ctx, fourQuestionInput()))
	require.NoError(t, engine.SaveAnswer(ctx, "q-single", models.TextAnswer("A")))

	assert.Equal(t, []string{"q-single"}, publisher.Removed)
}

func TestAutoRemove_RunsForEverySessionKind(t *testing.T) {
	// Removal tracking is not limited to wrong-question practice; a chapter
	// drill advances the streak too.
	engine, store, publisher := newTestEngine(t)
	ctx := context.Background()
	enableAutoRemove(t, store, 1)

	input := fourQuestionInput()
	input.ExamType = models.KindRealExam
	require.NoError(t, engine.StartExam(ctx, input))
	require.NoError(t, engine.SaveAnswer(ctx, "q-judgment", models.BoolAnswer(true)))

	assert.Equal(t, []string{"q-judgment"}, publisher.Removed)
}
