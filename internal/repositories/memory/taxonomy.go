package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hairui08/exambank-service/internal/models"
	"github.com/hairui08/exambank-service/internal/repositories"
)

type KnowledgePointRepo struct {
	mu    sync.RWMutex
	items map[string]*models.KnowledgePoint
	index []string
}

func NewKnowledgePointRepo() *KnowledgePointRepo {
	return &KnowledgePointRepo{items: make(map[string]*models.KnowledgePoint)}
}

func (r *KnowledgePointRepo) Create(_ context.Context, point *models.KnowledgePoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *point
	r.items[point.ID] = &clone
	r.index = append(r.index, point.ID)
	return nil
}

func (r *KnowledgePointRepo) GetByID(_ context.Context, id string) (*models.KnowledgePoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *KnowledgePointRepo) Update(_ context.Context, point *models.KnowledgePoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[point.ID]; !ok {
		return repositories.ErrNotFound
	}
	clone := *point
	r.items[point.ID] = &clone
	return nil
}

func (r *KnowledgePointRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.items, id)
	r.index = removeID(r.index, id)
	return nil
}

func (r *KnowledgePointRepo) ListBySubject(_ context.Context, subjectID string) ([]*models.KnowledgePoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.KnowledgePoint
	for _, id := range r.index {
		item := r.items[id]
		if item.SubjectID == subjectID {
			clone := *item
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *KnowledgePointRepo) ExistsNameFold(_ context.Context, subjectID, name, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, item := range r.items {
		if item.ID == excludeID || item.SubjectID != subjectID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(item.Name)) == needle {
			return true, nil
		}
	}
	return false, nil
}

type QuestionTypeConfigRepo struct {
	mu    sync.RWMutex
	items map[string]*models.QuestionTypeConfig
	index []string
}

func NewQuestionTypeConfigRepo() *QuestionTypeConfigRepo {
	return &QuestionTypeConfigRepo{items: make(map[string]*models.QuestionTypeConfig)}
}

func (r *QuestionTypeConfigRepo) Create(_ context.Context, cfg *models.QuestionTypeConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *cfg
	r.items[cfg.ID] = &clone
	r.index = append(r.index, cfg.ID)
	return nil
}

func (r *QuestionTypeConfigRepo) GetByID(_ context.Context, id string) (*models.QuestionTypeConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *QuestionTypeConfigRepo) Update(_ context.Context, cfg *models.QuestionTypeConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[cfg.ID]; !ok {
		return repositories.ErrNotFound
	}
	clone := *cfg
	r.items[cfg.ID] = &clone
	return nil
}

func (r *QuestionTypeConfigRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.items, id)
	r.index = removeID(r.index, id)
	return nil
}

func (r *QuestionTypeConfigRepo) ListBySubject(_ context.Context, subjectID string) ([]*models.QuestionTypeConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.QuestionTypeConfig
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

func (r *QuestionTypeConfigRepo) ExistsCode(_ context.Context, subjectID string, code models.QuestionType, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.ID != excludeID && item.SubjectID == subjectID && item.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *QuestionTypeConfigRepo) ExistsDisplayName(_ context.Context, subjectID, displayName, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.ID != excludeID && item.SubjectID == subjectID && item.DisplayName == displayName {
			return true, nil
		}
	}
	return false, nil
}

func (r *QuestionTypeConfigRepo) ExistsOrder(_ context.Context, subjectID string, order int, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.items {
		if item.ID != excludeID && item.SubjectID == subjectID && item.Order == order {
			return true, nil
		}
	}
	return false, nil
}

func (r *QuestionTypeConfigRepo) SwapOrder(_ context.Context, firstID, secondID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	first, ok := r.items[firstID]
	if !ok {
		return repositories.ErrNotFound
	}
	second, ok := r.items[secondID]
	if !ok {
		return repositories.ErrNotFound
	}
	first.Order, second.Order = second.Order, first.Order
	return nil
}

type PaymentRuleRepo struct {
	mu    sync.RWMutex
	items map[string]*models.PaymentRule
	index []string
}

func NewPaymentRuleRepo() *PaymentRuleRepo {
	return &PaymentRuleRepo{items: make(map[string]*models.PaymentRule)}
}

func (r *PaymentRuleRepo) Create(_ context.Context, rule *models.PaymentRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *rule
	r.items[rule.ID] = &clone
	r.index = append(r.index, rule.ID)
	return nil
}

func (r *PaymentRuleRepo) GetByID(_ context.Context, id string) (*models.PaymentRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *PaymentRuleRepo) Update(_ context.Context, rule *models.PaymentRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[rule.ID]; !ok {
		return repositories.ErrNotFound
	}
	clone := *rule
	r.items[rule.ID] = &clone
	return nil
}

func (r *PaymentRuleRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.items, id)
	r.index = removeID(r.index, id)
	return nil
}

func (r *PaymentRuleRepo) List(_ context.Context) ([]*models.PaymentRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.PaymentRule, 0, len(r.index))
	for _, id := range r.index {
		clone := *r.items[id]
		out = append(out, &clone)
	}
	return out, nil
}

type LearningStageRepo struct {
	mu    sync.RWMutex
	items map[string]*models.LearningStage
	index []string
}

func NewLearningStageRepo() *LearningStageRepo {
	return &LearningStageRepo{items: make(map[string]*models.LearningStage)}
}

func (r *LearningStageRepo) Create(_ context.Context, stage *models.LearningStage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *stage
	r.items[stage.ID] = &clone
	r.index = append(r.index, stage.ID)
	return nil
}

func (r *LearningStageRepo) GetByID(_ context.Context, id string) (*models.LearningStage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *LearningStageRepo) Update(_ context.Context, stage *models.LearningStage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[stage.ID]; !ok {
		return repositories.ErrNotFound
	}
	clone := *stage
	r.items[stage.ID] = &clone
	return nil
}

func (r *LearningStageRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.items, id)
	r.index = removeID(r.index, id)
	return nil
}

func (r *LearningStageRepo) List(_ context.Context, subjectID string) ([]*models.LearningStage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.LearningStage
	for _, id := range r.index {
		item := r.items[id]
		if subjectID != "" && item.SubjectID != subjectID {
			continue
		}
		clone := *item
		out = append(out, &clone)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}
