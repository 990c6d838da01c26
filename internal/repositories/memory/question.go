package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hairui08/exambank-service/internal/models"
	"github.com/hairui08/exambank-service/internal/repositories"
)

type QuestionRepo struct {
	mu    sync.RWMutex
	items map[string]*models.Question
	index []string
}

func NewQuestionRepo() *QuestionRepo {
	return &QuestionRepo{items: make(map[string]*models.Question)}
}

func (r *QuestionRepo) Create(_ context.Context, question *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *question
	r.items[question.ID] = &clone
	r.index = append(r.index, question.ID)
	return nil
}

func (r *QuestionRepo) GetByID(_ context.Context, id string) (*models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *QuestionRepo) GetByIDs(_ context.Context, ids []string) ([]*models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Question, 0, len(ids))
	for _, id := range ids {
		item, ok := r.items[id]
		if !ok {
			continue
		}
		clone := *item
		out = append(out, &clone)
	}
	return out, nil
}

func (r *QuestionRepo) Update(_ context.Context, question *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[question.ID]; !ok {
		return repositories.ErrNotFound
	}
	clone := *question
	r.items[question.ID] = &clone
	return nil
}

func (r *QuestionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.items, id)
	r.index = removeID(r.index, id)
	return nil
}

func (r *QuestionRepo) DeleteBatch(_ context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if _, ok := r.items[id]; !ok {
			continue
		}
		delete(r.items, id)
		r.index = removeID(r.index, id)
	}
	return nil
}

func (r *QuestionRepo) List(_ context.Context, filters repositories.QuestionFilters) ([]*models.Question, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*models.Question
	for _, id := range r.index {
		item := r.items[id]
		if !questionMatches(item, filters) {
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

func questionMatches(q *models.Question, f repositories.QuestionFilters) bool {
	if f.ProjectID != "" && q.ProjectID != f.ProjectID {
		return false
	}
	if f.SubjectID != "" && q.SubjectID != f.SubjectID {
		return false
	}
	if f.ChapterID != "" && q.ChapterID != f.ChapterID {
		return false
	}
	if f.SectionID != "" && q.SectionID != f.SectionID {
		return false
	}
	if f.Type != "" && q.Type != f.Type {
		return false
	}
	if f.Source != "" && q.Source != f.Source {
		return false
	}
	if f.Difficulty != "" && q.Difficulty != f.Difficulty {
		return false
	}
	if f.Frequency != "" && q.Frequency != f.Frequency {
		return false
	}
	if f.Year != "" && q.Year != f.Year {
		return false
	}
	if f.Status != "" && f.Status != "all" && string(q.Status) != f.Status {
		return false
	}
	if f.PaymentRuleID != "" && q.PaymentRuleID != f.PaymentRuleID {
		return false
	}
	if f.KnowledgePointID != "" && !containsString(q.KnowledgePointIDs, f.KnowledgePointID) {
		return false
	}
	if f.Keyword != "" && !strings.Contains(q.Stem, f.Keyword) {
		return false
	}
	return true
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func (r *QuestionRepo) ExistsDuplicate(_ context.Context, stem, subjectID, chapterID, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.ID != excludeID &&
			item.Stem == stem &&
			item.SubjectID == subjectID &&
			item.ChapterID == chapterID {
			return true, nil
		}
	}
	return false, nil
}

func (r *QuestionRepo) ExistsStemInChapter(_ context.Context, stem, chapterID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.Stem == stem && item.ChapterID == chapterID {
			return true, nil
		}
	}
	return false, nil
}

func (r *QuestionRepo) CountByChapter(_ context.Context, chapterID string) (int, error) {
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
