package models

import "time"

type ExamStatus string

const (
	ExamActive   ExamStatus = "active"
	ExamDisabled ExamStatus = "disabled"
)

// EmbeddedQuestion holds the full content of a paper-only question that does
// not live in the bank. When present, the paper never consults the repository
// for this entry.
type EmbeddedQuestion struct {
	Stem              string           `json:"stem"`
	Options           []QuestionOption `json:"options,omitempty"`
	Answer            AnswerValue      `json:"answer"`
	Explanation       string           `json:"explanation,omitempty"`
	MainStem          string           `json:"mainStem,omitempty"`
	SubQuestions      []SubQuestion    `json:"subQuestions,omitempty"`
	ChapterID         string           `json:"chapterId,omitempty"`
	KnowledgePointIDs []string         `json:"knowledgePointIds,omitempty"`
	Difficulty        string           `json:"difficulty,omitempty"`
	Source            string           `json:"source,omitempty"`
	Year              string           `json:"year,omitempty"`
}

// ExamQuestion places a question on a paper with its score and position.
// Optional questions do not count toward the paper's total score.
type ExamQuestion struct {
	QuestionID string            `json:"questionId" validate:"required"`
	Type       QuestionType      `json:"type"`
	Score      float64           `json:"score" validate:"min=0"`
	Order      int               `json:"order"`
	IsOptional bool              `json:"isOptional"`
	Embedded   *EmbeddedQuestion `json:"embedded,omitempty"`
}

// Exam is an assembled paper.
type Exam struct {
	ID              string         `json:"id"`
	Name            string         `json:"name" validate:"required"`
	ProjectID       string         `json:"projectId"`
	SubjectID       string         `json:"subjectId" validate:"required"`
	LearningStageID string         `json:"learningStageId"`
	PassingScore    float64        `json:"passingScore"`
	TotalScore      float64        `json:"totalScore"` // mandatory questions only, recomputed on write
	Questions       []ExamQuestion `json:"questions"`
	ValidFrom       string         `json:"validFrom,omitempty"`
	ValidTo         string         `json:"validTo,omitempty"`
	Year            int            `json:"year,omitempty"`
	PaymentRuleID   string         `json:"paymentRuleId,omitempty"`
	CreateTime      time.Time      `json:"createTime"`
	UpdateTime      time.Time      `json:"updateTime"`
	CreatorID       string         `json:"creatorId"`
	CreatorName     string         `json:"creatorName,omitempty"`
	Status          ExamStatus     `json:"status"`
}

// MandatoryTotal sums the scores of the non-optional questions.
func (e *Exam) MandatoryTotal() float64 {
	var total float64
	for _, q := range e.Questions {
		if !q.IsOptional {
			total += q.Score
		}
	}
	return total
}
