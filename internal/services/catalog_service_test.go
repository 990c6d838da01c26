package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/hairui08/exambank-service/internal/repositories"
	"github.com/hairui08/exambank-service/internal/repositories/memory"
	"github.com/hairui08/exambank-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeps() (repositories.Repository, *slog.Logger, *validator.Validator) {
	return memory.NewRepository(), slog.New(slog.NewTextHandler(io.Discard, nil)), validator.New()
}

func TestCatalogService_CreateProject(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewCatalogService(repo, logger, validate)
	ctx := context.Background()

	project, err := service.CreateProject(ctx, &CreateProjectRequest{Name: "CPA"})
	require.NoError(t, err)
	assert.NotEmpty(t, project.ID)
	assert.Equal(t, 1, project.Order)

	second, err := service.CreateProject(ctx, &CreateProjectRequest{Name: "CMA"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Order, "order appends after the last project")
}

func TestCatalogService_CreateProject_ValidatesName(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewCatalogService(repo, logger, validate)

	_, err := service.CreateProject(context.Background(), &CreateProjectRequest{Name: ""})
	assert.True(t, IsValidation(err))
}

func TestCatalogService_DuplicateActiveNameRefused(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewCatalogService(repo, logger, validate)
	ctx := context.Background()

	_, err := service.CreateProject(ctx, &CreateProjectRequest{Name: "CPA"})
	require.NoError(t, err)

	_, err = service.CreateProject(ctx, &CreateProjectRequest{Name: "CPA"})
	assert.ErrorIs(t, err, ErrProjectDuplicateName)
	assert.True(t, IsConflict(err))
}

func TestCatalogService_DisabledNameCanBeReused_ButNotReenabled(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewCatalogService(repo, logger, validate)
	ctx := context.Background()

	first, err := service.CreateProject(ctx, &CreateProjectRequest{Name: "CPA"})
	require.NoError(t, err)

	// Disabling frees the name for a new active project.
	_, err = service.ToggleProjectStatus(ctx, first.ID)
	require.NoError(t, err)
	_, err = service.CreateProject(ctx, &CreateProjectRequest{Name: "CPA"})
	require.NoError(t, err)

	// Re-enabling the old one would collide with the new active project.
	_, err = service.ToggleProjectStatus(ctx, first.ID)
	assert.ErrorIs(t, err, ErrEnableBlocked)
}

func TestCatalogService_ReorderProjects(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewCatalogService(repo, logger, validate)
	ctx := context.Background()

	first, err := service.CreateProject(ctx, &CreateProjectRequest{Name: "CPA"})
	require.NoError(t, err)
	second, err := service.CreateProject(ctx, &CreateProjectRequest{Name: "CMA"})
	require.NoError(t, err)

	assert.ErrorIs(t, service.ReorderProjects(ctx, first.ID, first.ID), ErrReorderSameEntity)

	require.NoError(t, service.ReorderProjects(ctx, first.ID, second.ID))
	projects, err := service.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "CMA", projects[0].Name, "list stays sorted by order")
}

func TestCatalogService_DeleteProjectCascadesSubjects(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewCatalogService(repo, logger, validate)
	ctx := context.Background()

	project, err := service.CreateProject(ctx, &CreateProjectRequest{Name: "CPA"})
	require.NoError(t, err)
	_, err = service.CreateSubject(ctx, &CreateSubjectRequest{ProjectID: project.ID, Name: "Accounting"})
	require.NoError(t, err)
	_, err = service.CreateSubject(ctx, &CreateSubjectRequest{ProjectID: project.ID, Name: "Auditing"})
	require.NoError(t, err)

	require.NoError(t, service.DeleteProject(ctx, project.ID))

	_, err = service.GetProject(ctx, project.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	subjects, err := service.ListSubjects(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, subjects)
}

func TestCatalogService_CreateSubject_RequiresProject(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewCatalogService(repo, logger, validate)

	_, err := service.CreateSubject(context.Background(), &CreateSubjectRequest{
		ProjectID: "ghost",
		Name:      "Accounting",
	})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestCatalogService_SubjectNamesScopedToProject(t *testing.T) {
	repo, logger, validate := testDeps()
	service := NewCatalogService(repo, logger, validate)
	ctx := context.Background()

	cpa, err := service.CreateProject(ctx, &CreateProjectRequest{Name: "CPA"})
	require.NoError(t, err)
	cma, err := service.CreateProject(ctx, &CreateProjectRequest{Name: "CMA"})
	require.NoError(t, err)

	_, err = service.CreateSubject(ctx, &CreateSubjectRequest{ProjectID: cpa.ID, Name: "Accounting"})
	require.NoError(t, err)

	// Same name under another project is fine.
	_, err = service.CreateSubject(ctx, &CreateSubjectRequest{ProjectID: cma.ID, Name: "Accounting"})
	require.NoError(t, err)

	// Same name under the same project is not.
	_, err = service.CreateSubject(ctx, &CreateSubjectRequest{ProjectID: cpa.ID, Name: "Accounting"})
	assert.ErrorIs(t, err, ErrSubjectDuplicateName)
}
