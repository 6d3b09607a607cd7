package task

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrNotFound          = errors.New("task not found")
	ErrInvalidTransition = errors.New("invalid task status transition")
	ErrNotAssignee       = errors.New("task is assigned to another member")
)

type (
	Repository interface {
		CreateTask(ctx context.Context, tsk Task) (Task, error)
		QueryAllTasks(ctx context.Context) ([]Task, error)
		GetTaskByID(ctx context.Context, id string) (Task, error)
		// FilterTasks applies AND operation on available QueryFilter fields.
		FilterTasks(ctx context.Context, filter QueryFilter) ([]Task, error)
		UpdateTask(ctx context.Context, tsk Task) (Task, error)
		DeleteTasksByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nt NewTask) (Task, error) {
	now := time.Now().UTC()
	return svc.repo.CreateTask(ctx, Task{
		Title:      nt.Title,
		Detail:     nt.Detail,
		DivisionID: nt.DivisionID,
		AssigneeID: nt.AssigneeID,
		DueDate:    nt.DueDate,
		Status:     StatusTodo,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

func (svc *Service) QueryAll(ctx context.Context) ([]Task, error) {
	return svc.repo.QueryAllTasks(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Task, error) {
	return svc.repo.GetTaskByID(ctx, id)
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Task, error) {
	if filter.IsEmpty() {
		return svc.repo.QueryAllTasks(ctx)
	}
	return svc.repo.FilterTasks(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, id string, ut UpdateTask) (Task, error) {
	tsk, err := svc.repo.GetTaskByID(ctx, id)
	if err != nil {
		return Task{}, err
	}
	tsk.Title = ut.Title
	tsk.Detail = ut.Detail
	tsk.DivisionID = ut.DivisionID
	tsk.AssigneeID = ut.AssigneeID
	tsk.DueDate = ut.DueDate
	tsk.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTask(ctx, tsk)
}

// ChangeStatus moves a task through its workflow.
// Verification is reserved to board/admin; the assignee moves the other steps.
func (svc *Service) ChangeStatus(ctx context.Context, id, status, actorID string, actorIsBoard bool) (Task, error) {
	tsk, err := svc.repo.GetTaskByID(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if !canTransition(tsk.Status, status) {
		return Task{}, ErrInvalidTransition
	}
	if status == StatusVerified {
		if !actorIsBoard {
			return Task{}, ErrInvalidTransition
		}
	} else if tsk.AssigneeID != actorID && !actorIsBoard {
		return Task{}, ErrNotAssignee
	}

	tsk.Status = status
	tsk.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTask(ctx, tsk)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteTasksByID(ctx, ids...)
}
