package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hairui08/exambank-service/internal/models"
	"github.com/hairui08/exambank-service/internal/repositories"
)

// ProjectRepo keeps projects in a keyed map plus an insertion index. Reads
// hand out copies so callers can never mutate stored state in place.
type ProjectRepo struct {
	mu    sync.RWMutex
	items map[string]*models.Project
	index []string
}

func NewProjectRepo() *ProjectRepo {
	return &ProjectRepo{items: make(map[string]*models.Project)}
}

func (r *ProjectRepo) Create(_ context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *project
	r.items[project.ID] = &clone
	r.index = append(r.index, project.ID)
	return nil
}

func (r *ProjectRepo) GetByID(_ context.Context, id string) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *ProjectRepo) Update(_ context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[project.ID]; !ok {
		return repositories.ErrNotFound
	}
	clone := *project
	r.items[project.ID] = &clone
	return nil
}

func (r *ProjectRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.items, id)
	r.index = removeID(r.index, id)
	return nil
}

func (r *ProjectRepo) List(_ context.Context) ([]*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Project, 0, len(r.index))
	for _, id := range r.index {
		clone := *r.items[id]
		out = append(out, &clone)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *ProjectRepo) MaxOrder(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	max := 0
	for _, item := range r.items {
		if item.Order > max {
			max = item.Order
		}
	}
	return max, nil
}

func (r *ProjectRepo) ExistsActiveName(_ context.Context, name, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.ID != excludeID && item.Name == name && item.Status == models.StatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (r *ProjectRepo) SwapOrder(_ context.Context, draggedID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dragged, ok := r.items[draggedID]
	if !ok {
		return repositories.ErrNotFound
	}
	target, ok := r.items[targetID]
	if !ok {
		return repositories.ErrNotFound
	}
	dragged.Order, target.Order = target.Order, dragged.Order
	return nil
}

// SubjectRepo stores subjects keyed by id with a per-project view.
type SubjectRepo struct {
	mu    sync.RWMutex
	items map[string]*models.Subject
	index []string
}

func NewSubjectRepo() *SubjectRepo {
	return &SubjectRepo{items: make(map[string]*models.Subject)}
}

func (r *SubjectRepo) Create(_ context.Context, subject *models.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *subject
	r.items[subject.ID] = &clone
	r.index = append(r.index, subject.ID)
	return nil
}

func (r *SubjectRepo) GetByID(_ context.Context, id string) (*models.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *SubjectRepo) Update(_ context.Context, subject *models.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[subject.ID]; !ok {
		return repositories.ErrNotFound
	}
	clone := *subject
	r.items[subject.ID] = &clone
	return nil
}

func (r *SubjectRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.items, id)
	r.index = removeID(r.index, id)
	return nil
}

func (r *SubjectRepo) ListByProject(_ context.Context, projectID string) ([]*models.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.Subject
	for _, id := range r.index {
		item := r.items[id]
		if item.ProjectID == projectID {
			clone := *item
			out = append(out, &clone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *SubjectRepo) DeleteByProject(_ context.Context, projectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.index[:0]
	for _, id := range r.index {
		if r.items[id].ProjectID == projectID {
			delete(r.items, id)
			continue
		}
		kept = append(kept, id)
	}
	r.index = kept
	return nil
}

func (r *SubjectRepo) MaxOrder(_ context.Context, projectID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	max := 0
	for _, item := range r.items {
		if item.ProjectID == projectID && item.Order > max {
			max = item.Order
		}
	}
	return max, nil
}

func (r *SubjectRepo) ExistsActiveName(_ context.Context, projectID, name, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.ID != excludeID &&
			item.ProjectID == projectID &&
			item.Name == name &&
			item.Status == models.StatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (r *SubjectRepo) SwapOrder(_ context.Context, draggedID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dragged, ok := r.items[draggedID]
	if !ok {
		return repositories.ErrNotFound
	}
	target, ok := r.items[targetID]
	if !ok {
		return repositories.ErrNotFound
	}
	dragged.Order, target.Order = target.Order, dragged.Order
	return nil
}

func removeID(index []string, id string) []string {
	for i, v := range index {
		if v == id {
			return append(index[:i], index[i+1:]...)
		}
	}
	return index
}
