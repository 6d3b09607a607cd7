package org

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/osisproject0-hub/osis-sub000/core"
)

// Work program statuses
const (
	ProgramPlanned = "planned"
	ProgramOngoing = "ongoing"
	ProgramDone    = "done"
)

type Division struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	HeadID      string    `json:"head_id"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

type WorkProgram struct {
	ID          string    `json:"id"`
	DivisionID  string    `json:"division_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Quarter     string    `json:"quarter"` // e.g. "2026-Q1"
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

type NewDivision struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	HeadID      string `json:"head_id"`
}

func (nd *NewDivision) Validate(validate *validator.Validate) error {
	nd.Name = core.CleanString(nd.Name)
	nd.Description = core.CleanString(nd.Description)
	return validate.Struct(nd)
}

type UpdateDivision struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	HeadID      string `json:"head_id"`
}

func (ud *UpdateDivision) Validate(validate *validator.Validate, orig Division) error {
	if name := core.CleanString(ud.Name); name != "" {
		ud.Name = name
	} else {
		ud.Name = orig.Name
	}
	if desc := core.CleanString(ud.Description); desc != "" {
		ud.Description = desc
	} else {
		ud.Description = orig.Description
	}
	if ud.HeadID == "" {
		ud.HeadID = orig.HeadID
	}
	return validate.Struct(ud)
}

type NewWorkProgram struct {
	DivisionID  string `json:"division_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Quarter     string `json:"quarter" validate:"required"`
}

func (np *NewWorkProgram) Validate(validate *validator.Validate) error {
	np.Title = core.CleanString(np.Title)
	np.Description = core.CleanString(np.Description)
	np.Quarter = core.CleanString(np.Quarter, true /* lower */)
	return validate.Struct(np)
}

type UpdateWorkProgram struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Quarter     string `json:"quarter"`
	Status      string `json:"status" validate:"omitempty,oneof=planned ongoing done"`
}

func (up *UpdateWorkProgram) Validate(validate *validator.Validate, orig WorkProgram) error {
	if title := core.CleanString(up.Title); title != "" {
		up.Title = title
	} else {
		up.Title = orig.Title
	}
	if desc := core.CleanString(up.Description); desc != "" {
		up.Description = desc
	} else {
		up.Description = orig.Description
	}
	if quarter := core.CleanString(up.Quarter, true); quarter != "" {
		up.Quarter = quarter
	} else {
		up.Quarter = orig.Quarter
	}
	if up.Status == "" {
		up.Status = orig.Status
	}
	return validate.Struct(up)
}
