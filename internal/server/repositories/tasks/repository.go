// Package tasks persists task records.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

type Repository interface {
	// List returns all tasks, newest first.
	List(ctx context.Context) ([]*models.Task, error)

	Get(ctx context.Context, id int64) (*models.Task, error)

	// Create persists task and returns it with ID and CreatedAt filled in.
	Create(ctx context.Context, task *models.Task) (*models.Task, error)

	// Update overwrites all mutable fields of the task with the given id
	// and returns the stored row, or common.ErrorNotFound.
	Update(ctx context.Context, id int64, task *models.Task) (*models.Task, error)

	Delete(ctx context.Context, id int64) error
}
