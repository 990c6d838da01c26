package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hairui08/exambank-service/internal/models"
	"github.com/hairui08/exambank-service/internal/repositories"
)

type ChapterRepo struct {
	mu    sync.RWMutex
	items map[string]*models.Chapter
	index []string
}

func NewChapterRepo() *ChapterRepo {
	return &ChapterRepo{items: make(map[string]*models.Chapter)}
}

func (r *ChapterRepo) Create(_ context.Context, chapter *models.Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *chapter
	r.items[chapter.ID] = &clone
	r.index = append(r.index, chapter.ID)
	return nil
}

func (r *ChapterRepo) GetByID(_ context.Context, id string) (*models.Chapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *ChapterRepo) Update(_ context.Context, chapter *models.Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[chapter.ID]; !ok {
		return repositories.ErrNotFound
	}
	clone := *chapter
	r.items[chapter.ID] = &clone
	return nil
}

func (r *ChapterRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.items, id)
	r.index = removeID(r.index, id)
	return nil
}

func (r *ChapterRepo) ListBySubject(_ context.Context, subjectID string) ([]*models.Chapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.Chapter
	for _, id := range r.index {
		item := r.items[id]
		if item.SubjectID == subjectID {
			clone := *item
			out = append(out, &clone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *ChapterRepo) ExistsName(_ context.Context, subjectID, name, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.ID != excludeID && item.SubjectID == subjectID && item.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *ChapterRepo) ExistsActiveName(_ context.Context, subjectID, name, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.ID != excludeID &&
			item.SubjectID == subjectID &&
			item.Name == name &&
			item.Status == models.StatusActive {
			return true, nil
		}
	}
	return false, nil
}

type SectionRepo struct {
	mu    sync.RWMutex
	items map[string]*models.Section
	index []string
}

func NewSectionRepo() *SectionRepo {
	return &SectionRepo{items: make(map[string]*models.Section)}
}

func (r *SectionRepo) Create(_ context.Context, section *models.Section) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *section
	r.items[section.ID] = &clone
	r.index = append(r.index, section.ID)
	return nil
}

func (r *SectionRepo) GetByID(_ context.Context, id string) (*models.Section, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *SectionRepo) Update(_ context.Context, section *models.Section) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[section.ID]; !ok {
		return repositories.ErrNotFound
	}
	clone := *section
	r.items[section.ID] = &clone
	return nil
}

func (r *SectionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.items, id)
	r.index = removeID(r.index, id)
	return nil
}

func (r *SectionRepo) ListByChapter(_ context.Context, chapterID string) ([]*models.Section, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.Section
	for _, id := range r.index {
		item := r.items[id]
		if item.ChapterID == chapterID {
			clone := *item
			out = append(out, &clone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *SectionRepo) CountByChapter(_ context.Context, chapterID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, item := range r.items {
		if item.ChapterID == chapterID {
			count++
		}
	}
	return count, nil
}

func (r *SectionRepo) ExistsName(_ context.Context, chapterID, name, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.ID != excludeID && item.ChapterID == chapterID && item.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *SectionRepo) ExistsActiveName(_ context.Context, chapterID, name, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.ID != excludeID &&
			item.ChapterID == chapterID &&
			item.Name == name &&
			item.Status == models.StatusActive {
			return true, nil
		}
	}
	return false, nil
}
