package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/osis-sub000/core/org"
)

type orgRepository struct {
	db *sqlx.DB
}

var _ org.Repository = (*orgRepository)(nil) // interface compliance check

func NewOrgRepository(db *sqlx.DB) *orgRepository {
	return &orgRepository{db: db}
}

func (repo orgRepository) CreateDivision(ctx context.Context, div org.Division) (org.Division, error) {
	div.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO division (id, name, description, head_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		div.ID, div.Name, div.Description, div.HeadID, div.CreatedAt.UTC(), div.UpdatedAt.UTC())
	if err != nil {
		return org.Division{}, errors.Wrap(err, "inserting division")
	}
	return div, nil
}

func (repo orgRepository) QueryAllDivisions(ctx context.Context) ([]org.Division, error) {
	divs := make([]org.Division, 0)
	err := repo.db.SelectContext(ctx, &divs, `
		SELECT id, name, description, head_id AS "headid", created_at AS "createdat", updated_at AS "updatedat"
		FROM division ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying divisions")
	}
	return divs, nil
}

func (repo orgRepository) getDivision(ctx context.Context, cond string, arg interface{}) (org.Division, error) {
	var div org.Division
	err := repo.db.GetContext(ctx, &div, `
		SELECT id, name, description, head_id AS "headid", created_at AS "createdat", updated_at AS "updatedat"
		FROM division WHERE `+cond, arg)
	if err == sql.ErrNoRows {
		return org.Division{}, org.ErrDivisionNotFound
	}
	if err != nil {
		return org.Division{}, errors.Wrap(err, "finding division")
	}
	return div, nil
}

func (repo orgRepository) GetDivisionByID(ctx context.Context, id string) (org.Division, error) {
	return repo.getDivision(ctx, "id = $1", id)
}

func (repo orgRepository) GetDivisionByName(ctx context.Context, name string) (org.Division, error) {
	return repo.getDivision(ctx, "name = $1", name)
}

func (repo orgRepository) UpdateDivision(ctx context.Context, div org.Division) (org.Division, error) {
	res, err := repo.db.ExecContext(ctx, `
		UPDATE division SET name = $2, description = $3, head_id = $4, updated_at = $5 WHERE id = $1`,
		div.ID, div.Name, div.Description, div.HeadID, div.UpdatedAt.UTC())
	if err != nil {
		return org.Division{}, errors.Wrap(err, "updating division")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return org.Division{}, org.ErrDivisionNotFound
	}
	return repo.GetDivisionByID(ctx, div.ID)
}

func (repo orgRepository) DeleteDivisionsByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM division WHERE id = ANY($1)`, pq.StringArray(ids))
	return errors.Wrap(err, "deleting divisions")
}

func (repo orgRepository) CreateWorkProgram(ctx context.Context, prog org.WorkProgram) (org.WorkProgram, error) {
	prog.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO work_program (id, division_id, title, description, quarter, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		prog.ID, prog.DivisionID, prog.Title, prog.Description, prog.Quarter, prog.Status,
		prog.CreatedAt.UTC(), prog.UpdatedAt.UTC())
	if err != nil {
		return org.WorkProgram{}, errors.Wrap(err, "inserting work program")
	}
	return prog, nil
}

func (repo orgRepository) QueryWorkPrograms(ctx context.Context, divisionID string) ([]org.WorkProgram, error) {
	q := `SELECT id, division_id AS "divisionid", title, description, quarter, status,
		created_at AS "createdat", updated_at AS "updatedat" FROM work_program`
	args := make([]interface{}, 0, 1)
	if divisionID != "" {
		q += " WHERE division_id = $1"
		args = append(args, divisionID)
	}
	q += " ORDER BY quarter, title"

	progs := make([]org.WorkProgram, 0)
	if err := repo.db.SelectContext(ctx, &progs, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying work programs")
	}
	return progs, nil
}

func (repo orgRepository) GetWorkProgramByID(ctx context.Context, id string) (org.WorkProgram, error) {
	var prog org.WorkProgram
	err := repo.db.GetContext(ctx, &prog, `
		SELECT id, division_id AS "divisionid", title, description, quarter, status,
			created_at AS "createdat", updated_at AS "updatedat"
		FROM work_program WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return org.WorkProgram{}, org.ErrProgramNotFound
	}
	if err != nil {
		return org.WorkProgram{}, errors.Wrap(err, "finding work program")
	}
	return prog, nil
}

func (repo orgRepository) UpdateWorkProgram(ctx context.Context, prog org.WorkProgram) (org.WorkProgram, error) {
	res, err := repo.db.ExecContext(ctx, `
		UPDATE work_program SET title = $2, description = $3, quarter = $4, status = $5, updated_at = $6
		WHERE id = $1`,
		prog.ID, prog.Title, prog.Description, prog.Quarter, prog.Status, prog.UpdatedAt.UTC())
	if err != nil {
		return org.WorkProgram{}, errors.Wrap(err, "updating work program")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return org.WorkProgram{}, org.ErrProgramNotFound
	}
	return repo.GetWorkProgramByID(ctx, prog.ID)
}

func (repo orgRepository) DeleteWorkProgramsByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM work_program WHERE id = ANY($1)`, pq.StringArray(ids))
	return errors.Wrap(err, "deleting work programs")
}
