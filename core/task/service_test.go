package task_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/osisproject0-hub/osis-sub000/core/task"
	dummydb "github.com/osisproject0-hub/osis-sub000/storage/database/dummy"
)

func newTestService(t *testing.T) *task.Service {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	return task.NewService(dummydb.NewTaskRepository(db))
}

func createTask(t *testing.T, svc *task.Service, assigneeID string) task.Task {
	tsk, err := svc.Create(context.Background(), task.NewTask{
		Title:      "Prepare MPLS banner",
		Detail:     "design and print",
		AssigneeID: assigneeID,
		DueDate:    time.Now().UTC().Add(7 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	return tsk
}

func TestCreate(t *testing.T) {
	svc := newTestService(t)
	tsk := createTask(t, svc, "mbr-1")
	if tsk.Status != task.StatusTodo {
		t.Errorf("Status = %q, want %q", tsk.Status, task.StatusTodo)
	}
}

func TestChangeStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		from, to     string
		actorID      string
		actorIsBoard bool
		wantErr      error
	}{
		{name: "todo to in-progress by assignee", from: task.StatusTodo, to: task.StatusInProgress, actorID: "mbr-1"},
		{name: "in-progress to done by assignee", from: task.StatusInProgress, to: task.StatusDone, actorID: "mbr-1"},
		{name: "done back to in-progress on rework", from: task.StatusDone, to: task.StatusInProgress, actorID: "mbr-1"},
		{name: "done to verified by board", from: task.StatusDone, to: task.StatusVerified, actorID: "mbr-9", actorIsBoard: true},
		{name: "done to verified by assignee", from: task.StatusDone, to: task.StatusVerified, actorID: "mbr-1", wantErr: task.ErrInvalidTransition},
		{name: "todo to done skips a step", from: task.StatusTodo, to: task.StatusDone, actorID: "mbr-1", wantErr: task.ErrInvalidTransition},
		{name: "verified is final", from: task.StatusVerified, to: task.StatusInProgress, actorID: "mbr-9", actorIsBoard: true, wantErr: task.ErrInvalidTransition},
		{name: "non-assignee cannot move", from: task.StatusTodo, to: task.StatusInProgress, actorID: "mbr-2", wantErr: task.ErrNotAssignee},
		{name: "board can move on behalf of assignee", from: task.StatusTodo, to: task.StatusInProgress, actorID: "mbr-9", actorIsBoard: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)
			tsk := createTask(t, svc, "mbr-1")

			// walk the task to the starting status through the repo-visible API
			steps := map[string][]string{
				task.StatusTodo:       {},
				task.StatusInProgress: {task.StatusInProgress},
				task.StatusDone:       {task.StatusInProgress, task.StatusDone},
				task.StatusVerified:   {task.StatusInProgress, task.StatusDone, task.StatusVerified},
			}
			for _, s := range steps[tt.from] {
				if _, err := svc.ChangeStatus(ctx, tsk.ID, s, "mbr-1", true); err != nil {
					t.Fatalf("setup ChangeStatus(%q) failed: %v", s, err)
				}
			}

			got, err := svc.ChangeStatus(ctx, tsk.ID, tt.to, tt.actorID, tt.actorIsBoard)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ChangeStatus() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got.Status != tt.to {
				t.Errorf("Status = %q, want %q", got.Status, tt.to)
			}
			if tt.wantErr != nil {
				// rejected transitions must not move the task
				cur, err := svc.GetByID(ctx, tsk.ID)
				if err != nil {
					t.Fatalf("GetByID() failed: %v", err)
				}
				if cur.Status != tt.from {
					t.Errorf("Status = %q, want unchanged %q", cur.Status, tt.from)
				}
			}
		})
	}
}

func TestChangeStatus_unknownTask(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.ChangeStatus(context.Background(), "nope", task.StatusInProgress, "mbr-1", false)
	if !errors.Is(err, task.ErrNotFound) {
		t.Errorf("ChangeStatus() error = %v, want %v", err, task.ErrNotFound)
	}
}

func TestFilter(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	t1 := createTask(t, svc, "mbr-1")
	createTask(t, svc, "mbr-2")
	if _, err := svc.ChangeStatus(ctx, t1.ID, task.StatusInProgress, "mbr-1", false); err != nil {
		t.Fatalf("ChangeStatus() failed: %v", err)
	}

	got, err := svc.Filter(ctx, task.QueryFilter{AssigneeID: "mbr-1", Status: task.StatusInProgress})
	if err != nil {
		t.Fatalf("Filter() failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != t1.ID {
		t.Errorf("Filter() = %+v, want [%s]", got, t1.ID)
	}

	// empty filter falls back to the full list
	all, err := svc.Filter(ctx, task.QueryFilter{})
	if err != nil {
		t.Fatalf("Filter() failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("len(Filter()) = %d, want 2", len(all))
	}
}
