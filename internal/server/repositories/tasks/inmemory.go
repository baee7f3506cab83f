package tasks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used by tests and local
// development. IDs keep increasing after deletes.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.Task
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[int64]*models.Task)}
}

func (r *InMemoryRepository) List(ctx context.Context) ([]*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*models.Task, 0, len(r.byID))
	for _, t := range r.byID {
		copied := *t
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })

	return result, nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id int64) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := *task
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	r.byID[stored.ID] = &stored

	result := stored
	return &result, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id int64, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	updated := *task
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	r.byID[id] = &updated

	result := updated
	return &result, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}
