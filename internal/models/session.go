package models

// ExamKind classifies what produced the question list of a session.
type ExamKind string

const (
	KindChapter        ExamKind = "chapter"
	KindRealExam       ExamKind = "realExam"
	KindSprint         ExamKind = "sprint"
	KindEntrance       ExamKind = "entrance"
	KindWrongQuestions ExamKind = "wrongQuestions"
)

type SessionMode string

const (
	ModePractice SessionMode = "practice"
	ModeExam     SessionMode = "exam"
)

type FontSize string

const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
	FontXLarge FontSize = "xlarge"
)

type SessionSettings struct {
	FontSize     FontSize    `json:"fontSize"`
	ShowAnalysis bool        `json:"showAnalysis"`
	Mode         SessionMode `json:"mode"`
}

func DefaultSettings() SessionSettings {
	return SessionSettings{
		FontSize:     FontMedium,
		ShowAnalysis: false,
		Mode:         ModePractice,
	}
}

// ExamSession is one attempt at a question list. Questions are an immutable
// snapshot taken at start; later bank edits never reach a running session.
type ExamSession struct {
	ExamID       string          `json:"examId"`
	ExamType     ExamKind        `json:"examType"`
	ExamTitle    string          `json:"examTitle"`
	SubjectID    string          `json:"subjectId"`
	SubjectName  string          `json:"subjectName"`
	Questions    []Question      `json:"questions"`
	CurrentIndex int             `json:"currentIndex"`
	StartTime    int64           `json:"startTime"` // unix milliseconds
	EndTime      *int64          `json:"endTime,omitempty"`
	IsCompleted  bool            `json:"isCompleted"`
	Settings     SessionSettings `json:"settings"`
}

// ScoreReport is the result of submitting a session.
type ScoreReport struct {
	Score           float64 `json:"score"`
	TotalQuestions  int     `json:"totalQuestions"`
	CorrectCount    int     `json:"correctCount"`
	IncorrectCount  int     `json:"incorrectCount"`
	PartialCount    int     `json:"partialCount"`
	UnansweredCount int     `json:"unansweredCount"`
	TimeSpent       int64   `json:"timeSpent"` // milliseconds
}

// SessionStats is the live answering tally, recomputed on every access.
type SessionStats struct {
	Total      int `json:"total"`
	Answered   int `json:"answered"`
	Correct    int `json:"correct"`
	Incorrect  int `json:"incorrect"`
	Partial    int `json:"partial"`
	Unanswered int `json:"unanswered"`
}
