package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
)

// TaskService provides CRUD operations on task records. All input
// validation happens at the HTTP boundary; this layer only maps storage
// errors.
type TaskService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
}

func NewTaskService(db dbx.DBTX, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

func (s *TaskService) List(ctx context.Context) ([]*models.Task, error) {
	list, err := s.repomanager.Tasks(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return list, nil
}

func (s *TaskService) Get(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.repomanager.Tasks(s.db).Get(ctx, id)
	if err != nil {
		return nil, mapTaskError(err)
	}
	return task, nil
}

func (s *TaskService) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	created, err := s.repomanager.Tasks(s.db).Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return created, nil
}

func (s *TaskService) Update(ctx context.Context, id int64, task *models.Task) (*models.Task, error) {
	updated, err := s.repomanager.Tasks(s.db).Update(ctx, id, task)
	if err != nil {
		return nil, mapTaskError(err)
	}
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := s.repomanager.Tasks(s.db).Delete(ctx, id); err != nil {
		return mapTaskError(err)
	}
	return nil
}

func mapTaskError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("task store error: %w", err)
}
