package models

import "time"

// Task is a single to-do record. Description is optional; nil means the
// field was never set.
type Task struct {
	ID          int64
	Title       string
	DueDate     time.Time
	Priority    int
	Description *string
	CreatedAt   time.Time
}
