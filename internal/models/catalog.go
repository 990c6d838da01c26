package models

import "time"

// EntityStatus is the shared enabled/disabled switch on catalog entities.
type EntityStatus string

const (
	StatusActive   EntityStatus = "active"
	StatusDisabled EntityStatus = "disabled"
)

func (s EntityStatus) Toggled() EntityStatus {
	if s == StatusActive {
		return StatusDisabled
	}
	return StatusActive
}

// Project is the top of the catalog hierarchy (an exam credential line).
type Project struct {
	ID        string       `json:"id"`
	Name      string       `json:"name" validate:"required"`
	Status    EntityStatus `json:"status"`
	Order     int          `json:"order"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type Subject struct {
	ID          string       `json:"id"`
	ProjectID   string       `json:"projectId" validate:"required"`
	ProjectName string       `json:"projectName,omitempty"`
	Name        string       `json:"name" validate:"required"`
	Status      EntityStatus `json:"status"`
	Order       int          `json:"order"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type Chapter struct {
	ID          string       `json:"id"`
	SubjectID   string       `json:"subjectId" validate:"required"`
	SubjectName string       `json:"subjectName,omitempty"`
	Name        string       `json:"name" validate:"required"`
	Status      EntityStatus `json:"status"`
	Order       int          `json:"order"`
	// Marks a chapter that hosts ad-hoc practice sets rather than being a
	// purely structural grouping.
	IsPractice bool      `json:"isPractice,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Section struct {
	ID          string       `json:"id"`
	ChapterID   string       `json:"chapterId" validate:"required"`
	ChapterName string       `json:"chapterName,omitempty"`
	Name        string       `json:"name" validate:"required"`
	Status      EntityStatus `json:"status"`
	Order       int          `json:"order"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// KnowledgePoint names a testable concept inside a subject. Name uniqueness
// is checked trimmed and case-insensitively, unlike the rest of the catalog.
type KnowledgePoint struct {
	ID          string       `json:"id"`
	SubjectID   string       `json:"subjectId" validate:"required"`
	Name        string       `json:"name" validate:"required"`
	Description string       `json:"description,omitempty"`
	Status      EntityStatus `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// QuestionTypeConfig is the per-subject display configuration of a question
// type: the internal code, the name shown to students, and its sort position.
type QuestionTypeConfig struct {
	ID          string       `json:"id"`
	SubjectID   string       `json:"subjectId" validate:"required"`
	Code        QuestionType `json:"code" validate:"required,question_type"`
	DisplayName string       `json:"displayName" validate:"required"`
	Order       int          `json:"order"`
	Status      EntityStatus `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// PaymentRule gates access to questions and papers.
type PaymentRule struct {
	ID          string       `json:"id"`
	Name        string       `json:"name" validate:"required"`
	Kind        string       `json:"kind"` // free, member, purchase
	Price       float64      `json:"price,omitempty"`
	Description string       `json:"description,omitempty"`
	Status      EntityStatus `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// LearningStage groups exam papers into a study plan phase.
type LearningStage struct {
	ID          string       `json:"id"`
	SubjectID   string       `json:"subjectId"`
	Name        string       `json:"name" validate:"required"`
	Description string       `json:"description,omitempty"`
	Order       int          `json:"order"`
	Status      EntityStatus `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
