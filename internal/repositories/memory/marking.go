package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hairui08/exambank-service/internal/models"
	"github.com/hairui08/exambank-service/internal/repositories"
)

type MarkingRepo struct {
	mu       sync.RWMutex
	records  map[string]*models.MarkingRecord
	index    []string
	teachers []*models.Teacher
}

func NewMarkingRepo() *MarkingRepo {
	return &MarkingRepo{records: make(map[string]*models.MarkingRecord)}
}

func cloneRecord(rec *models.MarkingRecord) *models.MarkingRecord {
	clone := *rec
	clone.AssignedTeachers = append([]string(nil), rec.AssignedTeachers...)
	return &clone
}

func (r *MarkingRepo) CreateRecord(_ context.Context, record *models.MarkingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = cloneRecord(record)
	r.index = append(r.index, record.ID)
	return nil
}

func (r *MarkingRepo) GetRecord(_ context.Context, id string) (*models.MarkingRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.records[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneRecord(item), nil
}

func (r *MarkingRepo) UpdateRecord(_ context.Context, record *models.MarkingRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.records[record.ID] = cloneRecord(record)
	return nil
}

func (r *MarkingRepo) ListRecords(_ context.Context, filters repositories.MarkingFilters) ([]*models.MarkingRecord, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*models.MarkingRecord
	for _, id := range r.index {
		item := r.records[id]
		if filters.ProjectID != "" && item.ProjectID != filters.ProjectID {
			continue
		}
		if filters.SubjectID != "" && item.SubjectID != filters.SubjectID {
			continue
		}
		if filters.Status != "" && item.Status != filters.Status {
			continue
		}
		if filters.ExamName != "" && !strings.Contains(item.ExamName, filters.ExamName) {
			continue
		}
		matched = append(matched, cloneRecord(item))
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	return repositories.Paginate(matched, filters.Page, filters.PageSize), total, nil
}

func (r *MarkingRepo) CountRecords(_ context.Context, projectID, subjectID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, item := range r.records {
		if projectID != "" && item.ProjectID != projectID {
			continue
		}
		if subjectID != "" && item.SubjectID != subjectID {
			continue
		}
		count++
	}
	return count, nil
}

func (r *MarkingRepo) ListTeachers(_ context.Context) ([]*models.Teacher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Teacher, 0, len(r.teachers))
	for _, t := range r.teachers {
		clone := *t
		out = append(out, &clone)
	}
	return out, nil
}

func (r *MarkingRepo) CreateTeacher(_ context.Context, teacher *models.Teacher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *teacher
	r.teachers = append(r.teachers, &clone)
	return nil
}
