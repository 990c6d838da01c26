package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/hairui08/exambank-service/internal/services"
	"github.com/hairui08/exambank-service/internal/session"
	"github.com/hairui08/exambank-service/internal/utils"
	"github.com/hairui08/exambank-service/internal/validator"
)

type HandlerManager struct {
	catalogHandler  *CatalogHandler
	chapterHandler  *ChapterHandler
	taxonomyHandler *TaxonomyHandler
	questionHandler *QuestionHandler
	examHandler     *ExamHandler
	testHandler     *TestHandler
	markingHandler  *MarkingHandler
	sessionHandler  *SessionHandler
}

func NewHandlerManager(
	svcs *services.Services,
	engine *session.Engine,
	validate *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		catalogHandler:  NewCatalogHandler(svcs.Catalog, logger),
		chapterHandler:  NewChapterHandler(svcs.Chapter, logger),
		taxonomyHandler: NewTaxonomyHandler(svcs.Taxonomy, logger),
		questionHandler: NewQuestionHandler(svcs.Question, svcs.ImportExport, logger),
		examHandler:     NewExamHandler(svcs.Exam, logger),
		testHandler:     NewTestHandler(svcs.Test, logger),
		markingHandler:  NewMarkingHandler(svcs.Marking, logger),
		sessionHandler:  NewSessionHandler(engine, validate, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "exambank-service",
		})
	})

	v1 := router.Group("/api/v1")
	{
		// Catalog routes
		projects := v1.Group("/projects")
		{
			projects.POST("", hm.catalogHandler.CreateProject)
			projects.GET("", hm.catalogHandler.ListProjects)
			projects.PUT("/reorder", hm.catalogHandler.ReorderProjects)
			projects.GET("/:id", hm.catalogHandler.GetProject)
			projects.PUT("/:id", hm.catalogHandler.UpdateProject)
			projects.DELETE("/:id", hm.catalogHandler.DeleteProject)
			projects.PUT("/:id/status", hm.catalogHandler.ToggleProjectStatus)
		}

		subjects := v1.Group("/subjects")
		{
			subjects.POST("", hm.catalogHandler.CreateSubject)
			subjects.GET("", hm.catalogHandler.ListSubjects)
			subjects.PUT("/reorder", hm.catalogHandler.ReorderSubjects)
			subjects.PUT("/:id", hm.catalogHandler.UpdateSubject)
			subjects.DELETE("/:id", hm.catalogHandler.DeleteSubject)
			subjects.PUT("/:id/status", hm.catalogHandler.ToggleSubjectStatus)
		}

		chapters := v1.Group("/chapters")
		{
			chapters.POST("", hm.chapterHandler.CreateChapter)
			chapters.GET("", hm.chapterHandler.ListChapters)
			chapters.GET("/:id", hm.chapterHandler.GetChapter)
			chapters.PUT("/:id", hm.chapterHandler.UpdateChapter)
			chapters.DELETE("/:id", hm.chapterHandler.DeleteChapter)
			chapters.PUT("/:id/status", hm.chapterHandler.ToggleChapterStatus)
		}

		sections := v1.Group("/sections")
		{
			sections.POST("", hm.chapterHandler.CreateSection)
			sections.GET("", hm.chapterHandler.ListSections)
			sections.PUT("/:id", hm.chapterHandler.UpdateSection)
			sections.DELETE("/:id", hm.chapterHandler.DeleteSection)
			sections.PUT("/:id/status", hm.chapterHandler.ToggleSectionStatus)
		}

		// Taxonomy routes
		knowledgePoints := v1.Group("/knowledge-points")
		{
			knowledgePoints.POST("", hm.taxonomyHandler.CreateKnowledgePoint)
			knowledgePoints.GET("", hm.taxonomyHandler.ListKnowledgePoints)
			knowledgePoints.PUT("/:id", hm.taxonomyHandler.UpdateKnowledgePoint)
			knowledgePoints.DELETE("/:id", hm.taxonomyHandler.DeleteKnowledgePoint)
		}

		typeConfigs := v1.Group("/question-type-configs")
		{
			typeConfigs.POST("", hm.taxonomyHandler.CreateTypeConfig)
			typeConfigs.GET("", hm.taxonomyHandler.ListTypeConfigs)
			typeConfigs.PUT("/reorder", hm.taxonomyHandler.ReorderTypeConfigs)
			typeConfigs.PUT("/:id", hm.taxonomyHandler.UpdateTypeConfig)
			typeConfigs.DELETE("/:id", hm.taxonomyHandler.DeleteTypeConfig)
		}

		paymentRules := v1.Group("/payment-rules")
		{
			paymentRules.POST("", hm.taxonomyHandler.CreatePaymentRule)
			paymentRules.GET("", hm.taxonomyHandler.ListPaymentRules)
			paymentRules.PUT("/:id", hm.taxonomyHandler.UpdatePaymentRule)
			paymentRules.DELETE("/:id", hm.taxonomyHandler.DeletePaymentRule)
		}

		learningStages := v1.Group("/learning-stages")
		{
			learningStages.POST("", hm.taxonomyHandler.CreateLearningStage)
			learningStages.GET("", hm.taxonomyHandler.ListLearningStages)
			learningStages.PUT("/:id", hm.taxonomyHandler.UpdateLearningStage)
			learningStages.DELETE("/:id", hm.taxonomyHandler.DeleteLearningStage)
		}

		// Question routes
		questions := v1.Group("/questions")
		{
			questions.POST("", hm.questionHandler.CreateQuestion)
			questions.GET("", hm.questionHandler.ListQuestions)
			questions.DELETE("/batch", hm.questionHandler.DeleteQuestionsBatch)
			questions.POST("/import", hm.questionHandler.ImportQuestions)
			questions.POST("/import/exam/:exam_id", hm.questionHandler.ImportFromExam)
			questions.POST("/export/csv", hm.questionHandler.ExportQuestionsCSV)
			questions.POST("/export/excel", hm.questionHandler.ExportQuestionsExcel)
			questions.GET("/:id", hm.questionHandler.GetQuestion)
			questions.PUT("/:id", hm.questionHandler.UpdateQuestion)
			questions.DELETE("/:id", hm.questionHandler.DeleteQuestion)
			questions.PUT("/:id/status", hm.questionHandler.ToggleQuestionStatus)
			questions.PUT("/:id/deprecate", hm.questionHandler.DeprecateQuestion)
		}

		// Exam routes
		exams := v1.Group("/exams")
		{
			exams.POST("", hm.examHandler.CreateExam)
			exams.GET("", hm.examHandler.ListExams)
			exams.GET("/check-name", hm.examHandler.CheckExamName)
			exams.DELETE("/batch", hm.examHandler.DeleteExamsBatch)
			exams.GET("/:id", hm.examHandler.GetExam)
			exams.PUT("/:id", hm.examHandler.UpdateExam)
			exams.DELETE("/:id", hm.examHandler.DeleteExam)
			exams.PUT("/:id/status", hm.examHandler.ToggleExamStatus)
		}

		// Test routes
		tests := v1.Group("/tests")
		{
			tests.POST("", hm.testHandler.CreateTest)
			tests.GET("", hm.testHandler.ListTests)
			tests.GET("/:id", hm.testHandler.GetTest)
			tests.PUT("/:id", hm.testHandler.UpdateTest)
			tests.DELETE("/:id", hm.testHandler.DeleteTest)
			tests.POST("/:id/approve", hm.testHandler.ApproveTest)
			tests.POST("/:id/reject", hm.testHandler.RejectTest)
			tests.POST("/:id/resubmit", hm.testHandler.ResubmitTest)
		}

		// Marking routes
		marking := v1.Group("/marking")
		{
			marking.POST("/records", hm.markingHandler.CreateRecord)
			marking.GET("/records", hm.markingHandler.ListRecords)
			marking.GET("/records/:id", hm.markingHandler.GetRecord)
			marking.POST("/records/:id/assign", hm.markingHandler.AssignTeachers)
			marking.POST("/records/:id/complete", hm.markingHandler.CompleteMarking)
			marking.GET("/records/:id/progress", hm.markingHandler.GetProgress)
			marking.GET("/records/:id/statistics", hm.markingHandler.GetStatistics)
			marking.GET("/teachers", hm.markingHandler.ListTeachers)
			marking.POST("/teachers", hm.markingHandler.CreateTeacher)
		}

		// Session routes, one active session per deployment
		sessions := v1.Group("/session")
		{
			sessions.POST("/start", hm.sessionHandler.StartSession)
			sessions.POST("/start-wrong-practice", hm.sessionHandler.StartWrongPractice)
			sessions.GET("", hm.sessionHandler.GetSession)
			sessions.POST("/answer", hm.sessionHandler.SaveAnswer)
			sessions.POST("/goto", hm.sessionHandler.GoToQuestion)
			sessions.POST("/previous", hm.sessionHandler.PreviousQuestion)
			sessions.POST("/next", hm.sessionHandler.NextQuestion)
			sessions.POST("/submit", hm.sessionHandler.SubmitSession)
			sessions.GET("/score", hm.sessionHandler.GetScore)
			sessions.POST("/reset", hm.sessionHandler.ResetSession)
			sessions.DELETE("", hm.sessionHandler.ClearSession)
			sessions.PUT("/settings", hm.sessionHandler.UpdateSettings)
			sessions.GET("/statistics", hm.sessionHandler.GetStatistics)
			sessions.GET("/current-question", hm.sessionHandler.GetCurrentQuestion)
		}
	}
}
