package models

import "time"

type QuestionType string

const (
	QuestionSingle      QuestionType = "single"
	QuestionMultiple    QuestionType = "multiple"
	QuestionUncertain   QuestionType = "uncertain"
	QuestionJudgment    QuestionType = "judgment"
	QuestionEssay       QuestionType = "essay"
	QuestionCombination QuestionType = "combination"
)

type QuestionSource string

const (
	SourceOfficial   QuestionSource = "official"
	SourceSimulation QuestionSource = "simulation"
	SourceCustom     QuestionSource = "custom"
)

type QuestionDifficulty string

const (
	DifficultyEasy   QuestionDifficulty = "easy"
	DifficultyMedium QuestionDifficulty = "medium"
	DifficultyHard   QuestionDifficulty = "hard"
)

type QuestionStatus string

const (
	QuestionActive     QuestionStatus = "active"
	QuestionDisabled   QuestionStatus = "disabled"
	QuestionDeleted    QuestionStatus = "deleted"
	QuestionDeprecated QuestionStatus = "deprecated"
)

// QuestionOption is one labeled option of an objective question.
type QuestionOption struct {
	Label   string `json:"label"` // A, B, C, ...
	Content string `json:"content"`
}

// SubQuestion is an independent mini-question inside a combination question,
// with its own options and answer.
type SubQuestion struct {
	ID          string           `json:"id"`
	Type        QuestionType     `json:"type"`
	Stem        string           `json:"stem"`
	Options     []QuestionOption `json:"options,omitempty"`
	Answer      AnswerValue      `json:"answer"`
	Explanation string           `json:"explanation"`
}

// Question is a bank entry. The Answer shape must match Type: single and
// judgment carry a scalar, multiple and uncertain carry a label set.
type Question struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	SubjectID string `json:"subjectId"`
	ChapterID string `json:"chapterId"`
	SectionID string `json:"sectionId,omitempty"`

	Type       QuestionType       `json:"type" validate:"required,question_type"`
	Source     QuestionSource     `json:"source,omitempty"`
	Year       string             `json:"year,omitempty"`
	Difficulty QuestionDifficulty `json:"difficulty,omitempty"`
	Frequency  string             `json:"frequency,omitempty"`

	KnowledgePointIDs []string `json:"knowledgePointIds,omitempty"`

	Stem        string           `json:"stem" validate:"required"`
	Options     []QuestionOption `json:"options,omitempty"`
	Answer      AnswerValue      `json:"answer"`
	Explanation string           `json:"explanation,omitempty"`

	// Combination questions only.
	MainStem     string        `json:"mainStem,omitempty"`
	SubQuestions []SubQuestion `json:"subQuestions,omitempty"`

	// Access rules.
	PaymentRuleID      string `json:"paymentRuleId,omitempty"`
	InheritChapterRule bool   `json:"inheritChapterRule,omitempty"`

	// Set when the question was synced into the bank from an exam paper.
	FromExamID string `json:"fromExamId,omitempty"`

	CreateTime time.Time      `json:"createTime"`
	UpdateTime time.Time      `json:"updateTime"`
	CreatorID  string         `json:"creatorId"`
	Status     QuestionStatus `json:"status"`

	DeprecatedReason string     `json:"deprecatedReason,omitempty"`
	DeprecatedDate   *time.Time `json:"deprecatedDate,omitempty"`
}
