// Package memory implements the repository interfaces over keyed in-memory
// maps with explicit ordered indexes. It is the only persistence the catalog
// side of the service has; durable state is limited to the session store.
package memory

import (
	"github.com/hairui08/exambank-service/internal/repositories"
)

type repository struct {
	projects       *ProjectRepo
	subjects       *SubjectRepo
	chapters       *ChapterRepo
	sections       *SectionRepo
	points         *KnowledgePointRepo
	typeConfigs    *QuestionTypeConfigRepo
	paymentRules   *PaymentRuleRepo
	learningStages *LearningStageRepo
	questions      *QuestionRepo
	exams          *ExamRepo
	tests          *TestRepo
	marking        *MarkingRepo
}

// NewRepository builds a fully wired in-memory repository set.
func NewRepository() repositories.Repository {
	return &repository{
		projects:       NewProjectRepo(),
		subjects:       NewSubjectRepo(),
		chapters:       NewChapterRepo(),
		sections:       NewSectionRepo(),
		points:         NewKnowledgePointRepo(),
		typeConfigs:    NewQuestionTypeConfigRepo(),
		paymentRules:   NewPaymentRuleRepo(),
		learningStages: NewLearningStageRepo(),
		questions:      NewQuestionRepo(),
		exams:          NewExamRepo(),
		tests:          NewTestRepo(),
		marking:        NewMarkingRepo(),
	}
}

func (r *repository) Project() repositories.ProjectRepository        { return r.projects }
func (r *repository) Subject() repositories.SubjectRepository        { return r.subjects }
func (r *repository) Chapter() repositories.ChapterRepository        { return r.chapters }
func (r *repository) Section() repositories.SectionRepository        { return r.sections }
func (r *repository) KnowledgePoint() repositories.KnowledgePointRepository {
	return r.points
}
func (r *repository) QuestionTypeConfig() repositories.QuestionTypeConfigRepository {
	return r.typeConfigs
}
func (r *repository) PaymentRule() repositories.PaymentRuleRepository { return r.paymentRules }
func (r *repository) LearningStage() repositories.LearningStageRepository {
	return r.learningStages
}
func (r *repository) Question() repositories.QuestionRepository { return r.questions }
func (r *repository) Exam() repositories.ExamRepository         { return r.exams }
func (r *repository) Test() repositories.TestRepository         { return r.tests }
func (r *repository) Marking() repositories.MarkingRepository   { return r.marking }
