package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/osisproject0-hub/osis-sub000/core"
	"github.com/osisproject0-hub/osis-sub000/core/task"
)

type taskRepository struct {
	db *taskTable
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *DB) task.Repository {
	return &taskRepository{db: db.task}
}

func (repo *taskRepository) query() []task.Task {
	tasks := make([]task.Task, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		tasks = append(tasks, *t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })
	return tasks
}

func (repo *taskRepository) CreateTask(ctx context.Context, tsk task.Task) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	tsk.ID = uuid.New().String()
	repo.db.table[tsk.ID] = &tsk
	return tsk, nil
}

func (repo *taskRepository) QueryAllTasks(ctx context.Context) ([]task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *taskRepository) GetTaskByID(ctx context.Context, id string) (task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tsk, ok := repo.db.table[id]; ok {
		return *tsk, nil
	}
	return task.Task{}, task.ErrNotFound
}

func (repo *taskRepository) FilterTasks(ctx context.Context, filter task.QueryFilter) ([]task.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var filtered []task.Task
	for _, t := range repo.query() {
		if filter.DivisionID != "" && t.DivisionID != filter.DivisionID {
			continue
		}
		if filter.AssigneeID != "" && t.AssigneeID != filter.AssigneeID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		filtered = append(filtered, t)
	}

	if len(filter.Ordering) > 0 {
		sortTasks(filtered, filter.Ordering)
	}
	return filtered, nil
}

func sortTasks(tasks []task.Task, ords []core.DBOrdering) {
	sort.SliceStable(tasks, func(i, j int) bool {
		for _, ord := range ords {
			a, b := taskOrderKey(tasks[i], ord.Field), taskOrderKey(tasks[j], ord.Field)
			if a == b {
				continue
			}
			if ord.Ascending {
				return a < b
			}
			return a > b
		}
		return false
	})
}

func taskOrderKey(t task.Task, field string) string {
	switch field {
	case "title":
		return t.Title
	case "status":
		return t.Status
	case "due_date":
		return t.DueDate.Format(time.RFC3339Nano)
	case "created_at":
		return t.CreatedAt.Format(time.RFC3339Nano)
	}
	return ""
}

func (repo *taskRepository) UpdateTask(ctx context.Context, tsk task.Task) (task.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[tsk.ID]
	if !ok {
		return task.Task{}, task.ErrNotFound
	}
	orig.Title = tsk.Title
	orig.Detail = tsk.Detail
	orig.DivisionID = tsk.DivisionID
	orig.AssigneeID = tsk.AssigneeID
	orig.DueDate = tsk.DueDate
	orig.Status = tsk.Status
	orig.UpdatedAt = tsk.UpdatedAt
	return *orig, nil
}

func (repo *taskRepository) DeleteTasksByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
