package org

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrDivisionNotFound = errors.New("division not found")
	ErrProgramNotFound  = errors.New("work program not found")
	ErrDivisionExists   = errors.New("a division with this name already exists")
)

type (
	Repository interface {
		CreateDivision(ctx context.Context, div Division) (Division, error)
		QueryAllDivisions(ctx context.Context) ([]Division, error)
		GetDivisionByID(ctx context.Context, id string) (Division, error)
		GetDivisionByName(ctx context.Context, name string) (Division, error)
		UpdateDivision(ctx context.Context, div Division) (Division, error)
		DeleteDivisionsByID(ctx context.Context, ids ...string) error

		CreateWorkProgram(ctx context.Context, prog WorkProgram) (WorkProgram, error)
		QueryWorkPrograms(ctx context.Context, divisionID string) ([]WorkProgram, error)
		GetWorkProgramByID(ctx context.Context, id string) (WorkProgram, error)
		UpdateWorkProgram(ctx context.Context, prog WorkProgram) (WorkProgram, error)
		DeleteWorkProgramsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CreateDivision(ctx context.Context, nd NewDivision) (Division, error) {
	if _, err := svc.repo.GetDivisionByName(ctx, nd.Name); err == nil {
		return Division{}, ErrDivisionExists
	} else if err != ErrDivisionNotFound {
		return Division{}, err
	}

	now := time.Now().UTC()
	return svc.repo.CreateDivision(ctx, Division{
		Name:        nd.Name,
		Description: nd.Description,
		HeadID:      nd.HeadID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *Service) QueryDivisions(ctx context.Context) ([]Division, error) {
	return svc.repo.QueryAllDivisions(ctx)
}

func (svc *Service) GetDivision(ctx context.Context, id string) (Division, error) {
	return svc.repo.GetDivisionByID(ctx, id)
}

func (svc *Service) UpdateDivision(ctx context.Context, id string, ud UpdateDivision) (Division, error) {
	return svc.repo.UpdateDivision(ctx, Division{
		ID:          id,
		Name:        ud.Name,
		Description: ud.Description,
		HeadID:      ud.HeadID,
		UpdatedAt:   time.Now().UTC(),
	})
}

func (svc *Service) DeleteDivisions(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteDivisionsByID(ctx, ids...)
}

func (svc *Service) CreateWorkProgram(ctx context.Context, np NewWorkProgram) (WorkProgram, error) {
	if _, err := svc.repo.GetDivisionByID(ctx, np.DivisionID); err != nil {
		return WorkProgram{}, err
	}

	now := time.Now().UTC()
	return svc.repo.CreateWorkProgram(ctx, WorkProgram{
		DivisionID:  np.DivisionID,
		Title:       np.Title,
		Description: np.Description,
		Quarter:     np.Quarter,
		Status:      ProgramPlanned,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// QueryWorkPrograms returns all work programs, or only a division's when divisionID is set.
func (svc *Service) QueryWorkPrograms(ctx context.Context, divisionID string) ([]WorkProgram, error) {
	return svc.repo.QueryWorkPrograms(ctx, divisionID)
}

func (svc *Service) GetWorkProgram(ctx context.Context, id string) (WorkProgram, error) {
	return svc.repo.GetWorkProgramByID(ctx, id)
}

func (svc *Service) UpdateWorkProgram(ctx context.Context, id string, up UpdateWorkProgram) (WorkProgram, error) {
	prog, err := svc.repo.GetWorkProgramByID(ctx, id)
	if err != nil {
		return WorkProgram{}, err
	}
	prog.Title = up.Title
	prog.Description = up.Description
	prog.Quarter = up.Quarter
	prog.Status = up.Status
	prog.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateWorkProgram(ctx, prog)
}

func (svc *Service) DeleteWorkPrograms(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteWorkProgramsByID(ctx, ids...)
}
