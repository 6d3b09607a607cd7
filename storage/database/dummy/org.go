package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/osisproject0-hub/osis-sub000/core/org"
)

type orgRepository struct {
	divisions *divisionTable
	programs  *programTable
}

var _ org.Repository = (*orgRepository)(nil) // interface compliance check

func NewOrgRepository(db *DB) org.Repository {
	return &orgRepository{divisions: db.division, programs: db.program}
}

func (repo *orgRepository) CreateDivision(ctx context.Context, div org.Division) (org.Division, error) {
	repo.divisions.Lock()
	defer repo.divisions.Unlock()

	div.ID = uuid.New().String()
	repo.divisions.table[div.ID] = &div
	return div, nil
}

func (repo *orgRepository) QueryAllDivisions(ctx context.Context) ([]org.Division, error) {
	repo.divisions.RLock()
	defer repo.divisions.RUnlock()

	divs := make([]org.Division, 0, len(repo.divisions.table))
	for _, d := range repo.divisions.table {
		divs = append(divs, *d)
	}
	sort.Slice(divs, func(i, j int) bool { return divs[i].Name < divs[j].Name })
	return divs, nil
}

func (repo *orgRepository) GetDivisionByID(ctx context.Context, id string) (org.Division, error) {
	repo.divisions.RLock()
	defer repo.divisions.RUnlock()

	if div, ok := repo.divisions.table[id]; ok {
		return *div, nil
	}
	return org.Division{}, org.ErrDivisionNotFound
}

func (repo *orgRepository) GetDivisionByName(ctx context.Context, name string) (org.Division, error) {
	repo.divisions.RLock()
	defer repo.divisions.RUnlock()

	for _, div := range repo.divisions.table {
		if div.Name == name {
			return *div, nil
		}
	}
	return org.Division{}, org.ErrDivisionNotFound
}

func (repo *orgRepository) UpdateDivision(ctx context.Context, div org.Division) (org.Division, error) {
	repo.divisions.Lock()
	defer repo.divisions.Unlock()

	orig, ok := repo.divisions.table[div.ID]
	if !ok {
		return org.Division{}, org.ErrDivisionNotFound
	}
	orig.Name = div.Name
	orig.Description = div.Description
	orig.HeadID = div.HeadID
	orig.UpdatedAt = div.UpdatedAt
	return *orig, nil
}

func (repo *orgRepository) DeleteDivisionsByID(ctx context.Context, ids ...string) error {
	repo.divisions.Lock()
	defer repo.divisions.Unlock()
	for _, id := range ids {
		delete(repo.divisions.table, id)
	}
	return nil
}

func (repo *orgRepository) CreateWorkProgram(ctx context.Context, prog org.WorkProgram) (org.WorkProgram, error) {
	repo.programs.Lock()
	defer repo.programs.Unlock()

	prog.ID = uuid.New().String()
	repo.programs.table[prog.ID] = &prog
	return prog, nil
}

func (repo *orgRepository) QueryWorkPrograms(ctx context.Context, divisionID string) ([]org.WorkProgram, error) {
	repo.programs.RLock()
	defer repo.programs.RUnlock()

	progs := make([]org.WorkProgram, 0, len(repo.programs.table))
	for _, p := range repo.programs.table {
		if divisionID != "" && p.DivisionID != divisionID {
			continue
		}
		progs = append(progs, *p)
	}
	sort.Slice(progs, func(i, j int) bool { return progs[i].Quarter < progs[j].Quarter })
	return progs, nil
}

func (repo *orgRepository) GetWorkProgramByID(ctx context.Context, id string) (org.WorkProgram, error) {
	repo.programs.RLock()
	defer repo.programs.RUnlock()

	if prog, ok := repo.programs.table[id]; ok {
		return *prog, nil
	}
	return org.WorkProgram{}, org.ErrProgramNotFound
}

func (repo *orgRepository) UpdateWorkProgram(ctx context.Context, prog org.WorkProgram) (org.WorkProgram, error) {
	repo.programs.Lock()
	defer repo.programs.Unlock()

	orig, ok := repo.programs.table[prog.ID]
	if !ok {
		return org.WorkProgram{}, org.ErrProgramNotFound
	}
	orig.Title = prog.Title
	orig.Description = prog.Description
	orig.Quarter = prog.Quarter
	orig.Status = prog.Status
	orig.UpdatedAt = prog.UpdatedAt
	return *orig, nil
}

func (repo *orgRepository) DeleteWorkProgramsByID(ctx context.Context, ids ...string) error {
	repo.programs.Lock()
	defer repo.programs.Unlock()
	for _, id := range ids {
		delete(repo.programs.table, id)
	}
	return nil
}
