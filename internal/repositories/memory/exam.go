package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hairui08/exambank-service/internal/models"
	"github.com/hairui08/exambank-service/internal/repositories"
)

type ExamRepo struct {
	mu    sync.RWMutex
	items map[string]*models.Exam
	index []string
}

func NewExamRepo() *ExamRepo {
	return &ExamRepo{items: make(map[string]*models.Exam)}
}

func cloneExam(e *models.Exam) *models.Exam {
	clone := *e
	clone.Questions = append([]models.ExamQuestion(nil), e.Questions...)
	return &clone
}

func (r *ExamRepo) Create(_ context.Context, exam *models.Exam) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[exam.ID] = cloneExam(exam)
	r.index = append(r.index, exam.ID)
	return nil
}

func (r *ExamRepo) GetByID(_ context.Context, id string) (*models.Exam, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneExam(item), nil
}

func (r *ExamRepo) Update(_ context.Context, exam *models.Exam) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[exam.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.items[exam.ID] = cloneExam(exam)
	return nil
}

func (r *ExamRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.items, id)
	r.index = removeID(r.index, id)
	return nil
}

func (r *ExamRepo) DeleteBatch(_ context.Context, ids []string) error {
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

func (r *ExamRepo) List(_ context.Context, filters repositories.ExamFilters) ([]*models.Exam, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*models.Exam
	for _, id := range r.index {
		item := r.items[id]
		if filters.SubjectID != "" && item.SubjectID != filters.SubjectID {
			continue
		}
		if filters.Status != "" && item.Status != filters.Status {
			continue
		}
		if filters.Name != "" && !strings.Contains(item.Name, filters.Name) {
			continue
		}
		if filters.Year != 0 && item.Year != filters.Year {
			continue
		}
		if filters.PaymentRuleID != "" && item.PaymentRuleID != filters.PaymentRuleID {
			continue
		}
		if filters.LearningStageID != "" && item.LearningStageID != filters.LearningStageID {
			continue
		}
		matched = append(matched, cloneExam(item))
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreateTime.After(matched[j].CreateTime)
	})
	total := len(matched)
	return repositories.Paginate(matched, filters.Page, filters.PageSize), total, nil
}

func (r *ExamRepo) ExistsName(_ context.Context, name, subjectID, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.ID != excludeID && item.SubjectID == subjectID && item.Name == name {
			return true, nil
		}
	}
	return false, nil
}
