package services

import (
	"context"
	"testing"

	"github.com/hairui08/exambank-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxonomyService_KnowledgePointNamesFoldCase(t *testing.T) {
	repo, logger, validate := testDeps()
	catalog := NewCatalogService(repo, logger, validate)
	service := NewTaxonomyService(repo, logger, validate)
	ctx := context.Background()

	subject := seedSubject(t, catalog)

	_, err := service.CreateKnowledgePoint(ctx, &CreateKnowledgePointRequest{
		SubjectID: subject.ID,
		Name:      "Revenue Recognition",
	})
	require.NoError(t, err)

	_, err = service.CreateKnowledgePoint(ctx, &CreateKnowledgePointRequest{
		SubjectID: subject.ID,
		Name:      "  revenue recognition ",
	})
	assert.ErrorIs(t, err, ErrKnowledgePointExists, "names compare case insensitively after trimming")
}

func TestTaxonomyService_KnowledgePointRequiresSubject(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewTaxonomyService(repo, logger, validate)

	_, err := service.CreateKnowledgePoint(context.Background(), &CreateKnowledgePointRequest{
		SubjectID: "ghost",
		Name:      "Revenue Recognition",
	})
	assert.ErrorIs(t, err, ErrSubjectNotFound)
}

func TestTaxonomyService_TypeConfigUniqueness(t *testing.T) {
	repo, logger, validate := testDeps()
	catalog := NewCatalogService(repo, logger, validate)
	service := NewTaxonomyService(repo, logger, validate)
	ctx := context.Background()

	subject := seedSubject(t, catalog)

	_, err := service.CreateTypeConfig(ctx, &CreateTypeConfigRequest{
		SubjectID:   subject.ID,
		Code:        models.QuestionSingle,
		DisplayName: "Single choice",
		Order:       1,
	})
	require.NoError(t, err)

	_, err = service.CreateTypeConfig(ctx, &CreateTypeConfigRequest{
		SubjectID:   subject.ID,
		Code:        models.QuestionSingle,
		DisplayName: "Another name",
		Order:       2,
	})
	assert.ErrorIs(t, err, ErrTypeConfigDuplicateCode)

	_, err = service.CreateTypeConfig(ctx, &CreateTypeConfigRequest{
		SubjectID:   subject.ID,
		Code:        models.QuestionMultiple,
		DisplayName: "Single choice",
		Order:       2,
	})
	assert.ErrorIs(t, err, ErrTypeConfigDuplicateName)

	_, err = service.CreateTypeConfig(ctx, &CreateTypeConfigRequest{
		SubjectID:   subject.ID,
		Code:        models.QuestionMultiple,
		DisplayName: "Multiple choice",
		Order:       1,
	})
	assert.ErrorIs(t, err, ErrTypeConfigOrderTaken)
}

func TestTaxonomyService_ReorderTypeConfigs(t *testing.T) {
	repo, logger, validate := testDeps()
	catalog := NewCatalogService(repo, logger, validate)
	service := NewTaxonomyService(repo, logger, validate)
	ctx := context.Background()

	subject := seedSubject(t, catalog)

	single, err := service.CreateTypeConfig(ctx, &CreateTypeConfigRequest{
		SubjectID: subject.ID, Code: models.QuestionSingle, DisplayName: "Single choice", Order: 1,
	})
	require.NoError(t, err)
	multiple, err := service.CreateTypeConfig(ctx, &CreateTypeConfigRequest{
		SubjectID: subject.ID, Code: models.QuestionMultiple, DisplayName: "Multiple choice", Order: 2,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, service.ReorderTypeConfigs(ctx, single.ID, single.ID), ErrReorderSameEntity)

	require.NoError(t, service.ReorderTypeConfigs(ctx, single.ID, multiple.ID))
	configs, err := service.ListTypeConfigs(ctx, subject.ID)
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "Multiple choice", configs[0].DisplayName)
}

func TestTaxonomyService_PaymentRules(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewTaxonomyService(repo, logger, validate)
	ctx := context.Background()

	_, err := service.CreatePaymentRule(ctx, &CreatePaymentRuleRequest{
		Name: "Premium", Kind: "subscription", Price: 99,
	})
	assert.True(t, IsValidation(err), "kind is limited to free, member and purchase")

	rule, err := service.CreatePaymentRule(ctx, &CreatePaymentRuleRequest{
		Name: "Premium", Kind: "purchase", Price: 99,
	})
	require.NoError(t, err)

	updated, err := service.UpdatePaymentRule(ctx, rule.ID, &UpdatePaymentRuleRequest{
		Name: "Premium", Kind: "free", Price: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, "free", updated.Kind)

	require.NoError(t, service.DeletePaymentRule(ctx, rule.ID))
	assert.ErrorIs(t, service.DeletePaymentRule(ctx, rule.ID), ErrPaymentRuleNotFound)
}

func TestTaxonomyService_LearningStages(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewTaxonomyService(repo, logger, validate)
	ctx := context.Background()

	stage, err := service.CreateLearningStage(ctx, &CreateLearningStageRequest{
		SubjectID: "subject-1",
		Name:      "Foundation",
		Order:     1,
	})
	require.NoError(t, err)

	newOrder := 3
	updated, err := service.UpdateLearningStage(ctx, stage.ID, &UpdateLearningStageRequest{
		Name:  "Foundation review",
		Order: &newOrder,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Order)

	stages, err := service.ListLearningStages(ctx, "subject-1")
	require.NoError(t, err)
	assert.Len(t, stages, 1)
}
