package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hairui08/exambank-service/internal/models"
	"github.com/hairui08/exambank-service/internal/repositories"
)

type TestRepo struct {
	mu    sync.RWMutex
	items map[string]*models.Test
	index []string
}

func NewTestRepo() *TestRepo {
	return &TestRepo{items: make(map[string]*models.Test)}
}

func (r *TestRepo) Create(_ context.Context, test *models.Test) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *test
	r.items[test.ID] = &clone
	r.index = append(r.index, test.ID)
	return nil
}

func (r *TestRepo) GetByID(_ context.Context, id string) (*models.Test, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *TestRepo) Update(_ context.Context, test *models.Test) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[test.ID]; !ok {
		return repositories.ErrNotFound
	}
	clone := *test
	r.items[test.ID] = &clone
	return nil
}

func (r *TestRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.items, id)
	r.index = removeID(r.index, id)
	return nil
}

func (r *TestRepo) List(_ context.Context, filters repositories.TestFilters) ([]*models.Test, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*models.Test
	for _, id := range r.index {
		item := r.items[id]
		if filters.SubjectID != "" && item.SubjectID != filters.SubjectID {
			continue
		}
		if filters.Approval != "" && item.Approval != filters.Approval {
			continue
		}
		if filters.Name != "" && !strings.Contains(item.Name, filters.Name) {
			continue
		}
		clone := *item
		matched = append(matched, &clone)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreateTime.After(matched[j].CreateTime)
	})
	total := len(matched)
	return repositories.Paginate(matched, filters.Page, filters.PageSize), total, nil
}

func (r *TestRepo) ExistsName(_ context.Context, name, subjectID, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.ID != excludeID && item.SubjectID == subjectID && item.Name == name {
			return true, nil
		}
	}
	return false, nil
}
