package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/osis-sub000/core/finance"
)

type financeRepository struct {
	db *sqlx.DB
}

var _ finance.Repository = (*financeRepository)(nil) // interface compliance check

func NewFinanceRepository(db *sqlx.DB) *financeRepository {
	return &financeRepository{db: db}
}

const fundRequestColumns = `id, requester_id AS "requesterid", division_id AS "divisionid", purpose,
	amount, status, decided_by AS "decidedby", decision_note AS "decisionnote",
	created_at AS "createdat", updated_at AS "updatedat"`

func (repo financeRepository) CreateFundRequest(ctx context.Context, req finance.FundRequest) (finance.FundRequest, error) {
	req.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO fund_request (id, requester_id, division_id, purpose, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		req.ID, req.RequesterID, req.DivisionID, req.Purpose, req.Amount, req.Status,
		req.CreatedAt.UTC(), req.UpdatedAt.UTC())
	if err != nil {
		return finance.FundRequest{}, errors.Wrap(err, "inserting fund request")
	}
	return req, nil
}

func (repo financeRepository) QueryFundRequests(ctx context.Context, divisionID string) ([]finance.FundRequest, error) {
	q := `SELECT ` + fundRequestColumns + ` FROM fund_request`
	args := make([]interface{}, 0, 1)
	if divisionID != "" {
		q += " WHERE division_id = $1"
		args = append(args, divisionID)
	}
	q += " ORDER BY created_at DESC"

	reqs := make([]finance.FundRequest, 0)
	if err := repo.db.SelectContext(ctx, &reqs, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying fund requests")
	}
	return reqs, nil
}

func (repo financeRepository) GetFundRequestByID(ctx context.Context, id string) (finance.FundRequest, error) {
	var req finance.FundRequest
	err := repo.db.GetContext(ctx, &req, `SELECT `+fundRequestColumns+` FROM fund_request WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return finance.FundRequest{}, finance.ErrNotFound
	}
	if err != nil {
		return finance.FundRequest{}, errors.Wrap(err, "finding fund request")
	}
	return req, nil
}

func (repo financeRepository) UpdateFundRequest(ctx context.Context, req finance.FundRequest) (finance.FundRequest, error) {
	res, err := repo.db.ExecContext(ctx, `
		UPDATE fund_request SET purpose = $2, amount = $3, status = $4, decided_by = $5,
			decision_note = $6, updated_at = $7
		WHERE id = $1`,
		req.ID, req.Purpose, req.Amount, req.Status, req.DecidedBy, req.DecisionNote, req.UpdatedAt.UTC())
	if err != nil {
		return finance.FundRequest{}, errors.Wrap(err, "updating fund request")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return finance.FundRequest{}, finance.ErrNotFound
	}
	return repo.GetFundRequestByID(ctx, req.ID)
}

func (repo financeRepository) CreateLedgerEntry(ctx context.Context, entry finance.LedgerEntry) (finance.LedgerEntry, error) {
	entry.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO ledger_entry (id, kind, amount, description, ref_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.Kind, entry.Amount, entry.Description, entry.RefID, entry.OccurredAt.UTC())
	if err != nil {
		return finance.LedgerEntry{}, errors.Wrap(err, "inserting ledger entry")
	}
	return entry, nil
}

func (repo financeRepository) QueryLedgerEntries(ctx context.Context, from, to time.Time) ([]finance.LedgerEntry, error) {
	entries := make([]finance.LedgerEntry, 0)
	err := repo.db.SelectContext(ctx, &entries, `
		SELECT id, kind, amount, description, ref_id AS "refid", occurred_at AS "occurredat"
		FROM ledger_entry
		WHERE occurred_at >= $1 AND occurred_at <= $2
		ORDER BY occurred_at`, from.UTC(), to.UTC())
	if err != nil {
		return nil, errors.Wrap(err, "querying ledger entries")
	}
	return entries, nil
}
