package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/osis-sub000/core/task"
)

type taskRepository struct {
	db *sqlx.DB
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(db *sqlx.DB) *taskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, title, detail, division_id AS "divisionid", assignee_id AS "assigneeid",
	COALESCE(due_date, 'epoch'::timestamptz) AS "duedate", status,
	created_at AS "createdat", updated_at AS "updatedat"`

func (repo taskRepository) CreateTask(ctx context.Context, tsk task.Task) (task.Task, error) {
	tsk.ID = uuid.New().String()
	var due interface{}
	if !tsk.DueDate.IsZero() {
		due = tsk.DueDate.UTC()
	}
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO task (id, title, detail, division_id, assignee_id, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		tsk.ID, tsk.Title, tsk.Detail, tsk.DivisionID, tsk.AssigneeID, due, tsk.Status,
		tsk.CreatedAt.UTC(), tsk.UpdatedAt.UTC())
	if err != nil {
		return task.Task{}, errors.Wrap(err, "inserting task")
	}
	return tsk, nil
}

func (repo taskRepository) QueryAllTasks(ctx context.Context) ([]task.Task, error) {
	tasks := make([]task.Task, 0)
	err := repo.db.SelectContext(ctx, &tasks,
		fmt.Sprintf(`SELECT %s FROM task ORDER BY due_date NULLS LAST, created_at`, taskColumns))
	if err != nil {
		return nil, errors.Wrap(err, "querying tasks")
	}
	return tasks, nil
}

func (repo taskRepository) GetTaskByID(ctx context.Context, id string) (task.Task, error) {
	var tsk task.Task
	err := repo.db.GetContext(ctx, &tsk,
		fmt.Sprintf(`SELECT %s FROM task WHERE id = $1`, taskColumns), id)
	if err == sql.ErrNoRows {
		return task.Task{}, task.ErrNotFound
	}
	if err != nil {
		return task.Task{}, errors.Wrap(err, "finding task")
	}
	return tsk, nil
}

var taskOrderFields = map[string]string{
	"title":      "title",
	"status":     "status",
	"due_date":   "due_date",
	"created_at": "created_at",
}

func (repo taskRepository) FilterTasks(ctx context.Context, filter task.QueryFilter) ([]task.Task, error) {
	conds := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.DivisionID != "" {
		conds = append(conds, "division_id = "+arg(filter.DivisionID))
	}
	if filter.AssigneeID != "" {
		conds = append(conds, "assignee_id = "+arg(filter.AssigneeID))
	}
	if filter.Status != "" {
		conds = append(conds, "status = "+arg(filter.Status))
	}

	q := fmt.Sprintf(`SELECT %s FROM task`, taskColumns)
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += orderByClause(filter.Ordering, taskOrderFields, "due_date NULLS LAST, created_at")

	tasks := make([]task.Task, 0)
	if err := repo.db.SelectContext(ctx, &tasks, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering tasks")
	}
	return tasks, nil
}

func (repo taskRepository) UpdateTask(ctx context.Context, tsk task.Task) (task.Task, error) {
	var due interface{}
	if !tsk.DueDate.IsZero() {
		due = tsk.DueDate.UTC()
	}
	res, err := repo.db.ExecContext(ctx, `
		UPDATE task SET title = $2, detail = $3, division_id = $4, assignee_id = $5, due_date = $6,
			status = $7, updated_at = $8
		WHERE id = $1`,
		tsk.ID, tsk.Title, tsk.Detail, tsk.DivisionID, tsk.AssigneeID, due, tsk.Status, tsk.UpdatedAt.UTC())
	if err != nil {
		return task.Task{}, errors.Wrap(err, "updating task")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return task.Task{}, task.ErrNotFound
	}
	return repo.GetTaskByID(ctx, tsk.ID)
}

func (repo taskRepository) DeleteTasksByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM task WHERE id = ANY($1)`, pq.StringArray(ids))
	return errors.Wrap(err, "deleting tasks")
}
