package task

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/osisproject0-hub/osis-sub000/core"
)

// Task statuses
const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
	StatusVerified   = "verified"
)

// transitions maps a status to the statuses it may move to.
var transitions = map[string][]string{
	StatusTodo:       {StatusInProgress},
	StatusInProgress: {StatusDone},
	StatusDone:       {StatusVerified, StatusInProgress}, // back to in-progress on rework
	StatusVerified:   {},
}

func canTransition(from, to string) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Task struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Detail     string    `json:"detail"`
	DivisionID string    `json:"division_id"`
	AssigneeID string    `json:"assignee_id"`
	DueDate    time.Time `json:"due_date"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

type NewTask struct {
	Title      string    `json:"title" validate:"required"`
	Detail     string    `json:"detail"`
	DivisionID string    `json:"division_id"`
	AssigneeID string    `json:"assignee_id" validate:"required"`
	DueDate    time.Time `json:"due_date"`
}

func (nt *NewTask) Validate(validate *validator.Validate) error {
	nt.Title = core.CleanString(nt.Title)
	nt.Detail = core.CleanString(nt.Detail)
	return validate.Struct(nt)
}

type UpdateTask struct {
	Title      string    `json:"title"`
	Detail     string    `json:"detail"`
	DivisionID string    `json:"division_id"`
	AssigneeID string    `json:"assignee_id"`
	DueDate    time.Time `json:"due_date"`
}

func (ut *UpdateTask) Validate(validate *validator.Validate, orig Task) error {
	if title := core.CleanString(ut.Title); title != "" {
		ut.Title = title
	} else {
		ut.Title = orig.Title
	}
	if detail := core.CleanString(ut.Detail); detail != "" {
		ut.Detail = detail
	} else {
		ut.Detail = orig.Detail
	}
	if ut.DivisionID == "" {
		ut.DivisionID = orig.DivisionID
	}
	if ut.AssigneeID == "" {
		ut.AssigneeID = orig.AssigneeID
	}
	if ut.DueDate.IsZero() {
		ut.DueDate = orig.DueDate
	}
	return validate.Struct(ut)
}

type StatusChange struct {
	Status string `json:"status" validate:"required,oneof=todo in-progress done verified"`
}

func (sc StatusChange) Validate(validate *validator.Validate) error {
	return validate.Struct(sc)
}

type QueryFilter struct {
	DivisionID string `query:"division_id"`
	AssigneeID string `query:"assignee_id"`
	Status     string `query:"status"`

	Ordering []core.DBOrdering `query:"-"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.DivisionID == "" && qf.AssigneeID == "" && qf.Status == "" && len(qf.Ordering) == 0
}
