package uc

import (
	"context"
	"log"
	"time"

	"github.com/ecociel/tasks/domain"
	"github.com/ecociel/tasks/metrics"
)

// notifyTimeout bounds how long a notification attempt may hold on a slow or
// unreachable external system. Attempts past it are abandoned, not retried.
const notifyTimeout = 10 * time.Second

type TaskStore interface {
	Insert(ctx context.Context, in domain.NewTask) (domain.Task, error)
	GetByID(ctx context.Context, id int64) (domain.Task, error)
	List(ctx context.Context, skip, limit int) ([]domain.Task, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]domain.Task, error)
	Update(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Task, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

type CompletionNotifier interface {
	Notify(ctx context.Context, task domain.Task) error
}

type CreateTaskUseCase = func(ctx context.Context, in domain.NewTask) (domain.Task, error)
type GetTaskUseCase = func(ctx context.Context, id int64) (domain.Task, error)
type ListTasksUseCase = func(ctx context.Context, skip, limit int) ([]domain.Task, error)
type ListTasksByStatusUseCase = func(ctx context.Context, status domain.Status) ([]domain.Task, error)
type UpdateTaskUseCase = func(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Task, error)
type DeleteTaskUseCase = func(ctx context.Context, id int64) error

func MakeCreateTaskUseCase(store TaskStore, publisher EventPublisher, m metrics.TaskMetrics) CreateTaskUseCase {
	return func(ctx context.Context, in domain.NewTask) (domain.Task, error) {
		task, err := store.Insert(ctx, in)
		if err != nil {
			return domain.Task{}, err
		}
		m.TaskCreated()

		publishEvent(ctx, publisher, m, domain.NewCreatedEvent(task))
		return task, nil
	}
}

func MakeGetTaskUseCase(store TaskStore) GetTaskUseCase {
	return func(ctx context.Context, id int64) (domain.Task, error) {
		return store.GetByID(ctx, id)
	}
}

func MakeListTasksUseCase(store TaskStore) ListTasksUseCase {
	return func(ctx context.Context, skip, limit int) ([]domain.Task, error) {
		return store.List(ctx, skip, limit)
	}
}

func MakeListTasksByStatusUseCase(store TaskStore) ListTasksByStatusUseCase {
	return func(ctx context.Context, status domain.Status) ([]domain.Task, error) {
		return store.ListByStatus(ctx, status)
	}
}

// MakeUpdateTaskUseCase sequences the core lifecycle rule: persist first, then
// notify. The completion webhook fires exactly on the pendente -> concluida
// transition, after the update is durable, and its failure never undoes or
// fails the update.
func MakeUpdateTaskUseCase(store TaskStore, publisher EventPublisher, notifier CompletionNotifier, m metrics.TaskMetrics) UpdateTaskUseCase {
	return func(ctx context.Context, id int64, patch domain.TaskPatch) (domain.Task, error) {
		current, err := store.GetByID(ctx, id)
		if err != nil {
			return domain.Task{}, err
		}
		oldStatus := current.Status

		task, err := store.Update(ctx, id, patch)
		if err != nil {
			return domain.Task{}, err
		}

		if oldStatus != domain.StatusCompleted && task.Status == domain.StatusCompleted {
			m.TaskCompleted()
			notifyCompletion(ctx, notifier, m, task)
		}

		publishEvent(ctx, publisher, m, domain.NewUpdatedEvent(task, oldStatus))
		return task, nil
	}
}

func MakeDeleteTaskUseCase(store TaskStore, publisher EventPublisher, m metrics.TaskMetrics) DeleteTaskUseCase {
	return func(ctx context.Context, id int64) error {
		// Fetch first: the deleted event needs the title.
		task, err := store.GetByID(ctx, id)
		if err != nil {
			return err
		}

		deleted, err := store.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			// Lost the race with a concurrent delete.
			return domain.ErrTaskNotFound
		}
		m.TaskDeleted()

		publishEvent(ctx, publisher, m, domain.NewDeletedEvent(task))
		return nil
	}
}

// publishEvent hands the event to the queue, best effort. The context is
// detached from the caller so an already-answered request cannot cancel the
// attempt, and bounded so the attempt cannot outlive its usefulness.
func publishEvent(ctx context.Context, publisher EventPublisher, m metrics.TaskMetrics, event domain.Event) {
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := publisher.Publish(pctx, event); err != nil {
		m.EventPublishFailed()
		log.Printf("publish %s for task %d: %v", event.Type, event.TaskID, err)
		return
	}
	m.EventPublished()
}

func notifyCompletion(ctx context.Context, notifier CompletionNotifier, m metrics.TaskMetrics, task domain.Task) {
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := notifier.Notify(nctx, task); err != nil {
		m.WebhookFailed()
		log.Printf("completion notification for task %d: %v", task.ID, err)
		return
	}
	m.WebhookSent()
}
