package taskService

import (
	"context"
	"errors"

	"github.com/TheNopenator/EcoVision/internal/api/task"
	"github.com/TheNopenator/EcoVision/internal/entity"
	contextPkg "github.com/TheNopenator/EcoVision/pkg/context"
	"github.com/TheNopenator/EcoVision/pkg/response"
	"github.com/sirupsen/logrus"
)

func (s *taskService) GetAllTasks(ctx context.Context) ([]entity.CleanupTask, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	tasks, err := repo.Tasks.GetAllTasks(ctx)
	if err != nil {
		return nil, err
	}
	return s.withURLs(ctx, tasks), nil
}

func (s *taskService) GetPendingTasks(ctx context.Context) ([]entity.CleanupTask, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	tasks, err := repo.Tasks.GetTasksByStatus(ctx, entity.TaskStatusPending)
	if err != nil {
		return nil, err
	}
	return s.withURLs(ctx, tasks), nil
}

func (s *taskService) GetTaskByID(ctx context.Context, id string) (entity.CleanupTask, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return entity.CleanupTask{}, err
	}

	current, err := repo.Tasks.GetTaskByID(ctx, id)
	if err != nil {
		return entity.CleanupTask{}, err
	}
	return s.withURL(ctx, current), nil
}

func (s *taskService) UpdateTask(ctx context.Context, id string, req task.UpdateTaskRequest) (entity.CleanupTask, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(true)
	if err != nil {
		return entity.CleanupTask{}, err
	}
	defer repo.Rollback()

	current, err := repo.Tasks.GetTaskByID(ctx, id)
	if err != nil {
		return entity.CleanupTask{}, err
	}

	if req.AssignedTo != nil {
		current.AssignedTo = *req.AssignedTo
	}
	if req.Notes != nil {
		current.Notes = *req.Notes
	}

	if err := repo.Tasks.UpdateTask(ctx, id, current.AssignedTo, current.Notes); err != nil {
		return entity.CleanupTask{}, s.wrap(requestID, err, task.ErrUpdateTask, "update")
	}

	if err := repo.Commit(); err != nil {
		return entity.CleanupTask{}, task.ErrUpdateTask
	}

	return s.withURL(ctx, current), nil
}

// UpdateStatus moves a task to status. Completing stamps completed_at;
// any other status clears it so a reopened task is not reported as done.
func (s *taskService) UpdateStatus(ctx context.Context, id string, status string) (entity.CleanupTask, error) {
	requestID := contextPkg.GetRequestID(ctx)

	next := entity.TaskStatus(status)
	if !next.Valid() {
		return entity.CleanupTask{}, task.ErrInvalidStatus
	}

	repo, err := s.repo.NewClient(true)
	if err != nil {
		return entity.CleanupTask{}, err
	}
	defer repo.Rollback()

	current, err := repo.Tasks.GetTaskByID(ctx, id)
	if err != nil {
		return entity.CleanupTask{}, err
	}

	current.Status = next
	current.CompletedAt = nil
	if next == entity.TaskStatusCompleted {
		completedAt := s.now().UTC()
		current.CompletedAt = &completedAt
	}

	if err := repo.Tasks.UpdateStatus(ctx, id, next, current.CompletedAt); err != nil {
		return entity.CleanupTask{}, s.wrap(requestID, err, task.ErrUpdateTask, "update_status")
	}

	if err := repo.Commit(); err != nil {
		return entity.CleanupTask{}, task.ErrUpdateTask
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"task_id":    id,
		"status":     next,
	}).Info("Cleanup task status changed")

	return s.withURL(ctx, current), nil
}

func (s *taskService) DeleteTask(ctx context.Context, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return err
	}

	if err := repo.Tasks.DeleteTask(ctx, id); err != nil {
		return s.wrap(requestID, err, task.ErrDeleteTask, "delete")
	}

	return nil
}

func (s *taskService) withURLs(ctx context.Context, tasks []entity.CleanupTask) []entity.CleanupTask {
	for i := range tasks {
		tasks[i] = s.withURL(ctx, tasks[i])
	}
	return tasks
}

func (s *taskService) withURL(ctx context.Context, t entity.CleanupTask) entity.CleanupTask {
	t.Detection.ImageURL = s.resolveURL(ctx, t.Detection.ImageURL)
	t.Detection.AnnotatedImageURL = s.resolveURL(ctx, t.Detection.AnnotatedImageURL)
	return t
}

func (s *taskService) resolveURL(ctx context.Context, ref string) string {
	if ref == "" || s.storage == nil {
		return ref
	}

	url, err := s.storage.URL(ctx, ref)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"ref":        ref,
			"error":      err.Error(),
		}).Warn("Failed to resolve image URL")
		return ref
	}
	return url
}

func (s *taskService) wrap(requestID string, err, fallback error, op string) error {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"operation":  op,
		"error":      err.Error(),
	}).Error("Task repository failure")
	return fallback
}
