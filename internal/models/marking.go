package models

import "time"

// MarkingStatus tracks a paper through the review pipeline.
type MarkingStatus string

const (
	MarkingPending   MarkingStatus = "pending"
	MarkingActive    MarkingStatus = "marking"
	MarkingCompleted MarkingStatus = "completed"
)

type Teacher struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
}

// MarkingRecord is one exam sitting awaiting or undergoing review.
// Progress and score statistics for it are generated, not real data.
type MarkingRecord struct {
	ID               string        `json:"id"`
	ExamName         string        `json:"examName"`
	ExamType         TestKind      `json:"examType"`
	Duration         int           `json:"duration"` // minutes
	TotalScore       float64       `json:"totalScore"`
	PassingScore     float64       `json:"passingScore"`
	ParticipantCount int           `json:"participantCount"`
	Status           MarkingStatus `json:"status"`
	ProjectID        string        `json:"projectId"`
	SubjectID        string        `json:"subjectId"`
	AssignedTeachers []string      `json:"assignedTeachers,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

type MarkingProgress struct {
	ExamID        string `json:"examId"`
	TotalCount    int    `json:"totalCount"`
	MarkedCount   int    `json:"markedCount"`
	UnmarkedCount int    `json:"unmarkedCount"`
	Progress      int    `json:"progress"` // percent, rounded
}

type StudentScore struct {
	StudentID       string  `json:"studentId"`
	StudentName     string  `json:"studentName"`
	TotalScore      float64 `json:"totalScore"`
	ObjectiveScore  float64 `json:"objectiveScore"`
	SubjectiveScore float64 `json:"subjectiveScore"`
	Rank            int     `json:"rank"`
	IsPassed        bool    `json:"isPassed"`
}

type ScoreStatistics struct {
	ExamID       string         `json:"examId"`
	AverageScore float64        `json:"averageScore"`
	HighestScore float64        `json:"highestScore"`
	LowestScore  float64        `json:"lowestScore"`
	PassRate     float64        `json:"passRate"` // percent
	Scores       []StudentScore `json:"scores"`
}
