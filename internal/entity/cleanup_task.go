package entity

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusAssigned   TaskStatus = "assigned"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusAssigned, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type CleanupTask struct {
	ID          string     `db:"id"`
	DetectionID string     `db:"detection_id"`
	Status      TaskStatus `db:"status"`
	AssignedTo  string     `db:"assigned_to"`
	CreatedAt   time.Time  `db:"created_at"`
	CompletedAt *time.Time `db:"completed_at"`
	Notes       string     `db:"notes"`

	Detection TrashDetection `db:"-"`
}
