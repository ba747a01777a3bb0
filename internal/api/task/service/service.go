package taskService

import (
	"context"
	"time"

	"github.com/TheNopenator/EcoVision/internal/api/task"
	taskRepository "github.com/TheNopenator/EcoVision/internal/api/task/repository"
	"github.com/TheNopenator/EcoVision/internal/entity"
	"github.com/TheNopenator/EcoVision/pkg/storage"
	"github.com/sirupsen/logrus"
)

type ITaskService interface {
	GetAllTasks(ctx context.Context) ([]entity.CleanupTask, error)
	GetPendingTasks(ctx context.Context) ([]entity.CleanupTask, error)
	GetTaskByID(ctx context.Context, id string) (entity.CleanupTask, error)
	UpdateTask(ctx context.Context, id string, req task.UpdateTaskRequest) (entity.CleanupTask, error)
	UpdateStatus(ctx context.Context, id string, status string) (entity.CleanupTask, error)
	DeleteTask(ctx context.Context, id string) error
}

type taskService struct {
	log     *logrus.Logger
	repo    taskRepository.Repository
	storage storage.Storage
	now     func() time.Time
}

// NewTaskService resolves the image references of nested detections through
// store, so S3-backed images come back presigned.
func NewTaskService(log *logrus.Logger, repo taskRepository.Repository, store storage.Storage) ITaskService {
	return &taskService{
		log:     log,
		repo:    repo,
		storage: store,
		now:     time.Now,
	}
}
