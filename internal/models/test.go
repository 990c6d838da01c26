package models

import "time"

// TestApproval is the review state of a scheduled test.
type TestApproval string

const (
	TestPending  TestApproval = "pending"
	TestApproved TestApproval = "approved"
	TestRejected TestApproval = "rejected"
)

type TestKind string

const (
	TestFormal   TestKind = "formal"
	TestPractice TestKind = "practice"
)

// Test is a scheduled, reviewable exam event built on a paper. Duration is
// descriptive metadata; nothing in the session engine enforces it.
type Test struct {
	ID           string       `json:"id"`
	Name         string       `json:"name" validate:"required"`
	SubjectID    string       `json:"subjectId" validate:"required"`
	ExamID       string       `json:"examId"`
	Kind         TestKind     `json:"kind"`
	StartAt      *time.Time   `json:"startAt,omitempty"`
	EndAt        *time.Time   `json:"endAt,omitempty"`
	Duration     int          `json:"duration"` // minutes
	Approval     TestApproval `json:"approval"`
	RejectReason string       `json:"rejectReason,omitempty"`
	CreateTime   time.Time    `json:"createTime"`
	UpdateTime   time.Time    `json:"updateTime"`
	CreatorID    string       `json:"creatorId"`
}
