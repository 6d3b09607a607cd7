package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/osisproject0-hub/osis-sub000/core/finance"
)

type financeRepository struct {
	funds  *fundTable
	ledger *ledgerTable
}

var _ finance.Repository = (*financeRepository)(nil) // interface compliance check

func NewFinanceRepository(db *DB) finance.Repository {
	return &financeRepository{funds: db.fund, ledger: db.ledger}
}

func (repo *financeRepository) CreateFundRequest(ctx context.Context, req finance.FundRequest) (finance.FundRequest, error) {
	repo.funds.Lock()
	defer repo.funds.Unlock()

	req.ID = uuid.New().String()
	repo.funds.table[req.ID] = &req
	return req, nil
}

func (repo *financeRepository) QueryFundRequests(ctx context.Context, divisionID string) ([]finance.FundRequest, error) {
	repo.funds.RLock()
	defer repo.funds.RUnlock()

	reqs := make([]finance.FundRequest, 0, len(repo.funds.table))
	for _, r := range repo.funds.table {
		if divisionID != "" && r.DivisionID != divisionID {
			continue
		}
		reqs = append(reqs, *r)
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedAt.After(reqs[j].CreatedAt) })
	return reqs, nil
}

func (repo *financeRepository) GetFundRequestByID(ctx context.Context, id string) (finance.FundRequest, error) {
	repo.funds.RLock()
	defer repo.funds.RUnlock()

	if req, ok := repo.funds.table[id]; ok {
		return *req, nil
	}
	return finance.FundRequest{}, finance.ErrNotFound
}

func (repo *financeRepository) UpdateFundRequest(ctx context.Context, req finance.FundRequest) (finance.FundRequest, error) {
	repo.funds.Lock()
	defer repo.funds.Unlock()

	orig, ok := repo.funds.table[req.ID]
	if !ok {
		return finance.FundRequest{}, finance.ErrNotFound
	}
	orig.Purpose = req.Purpose
	orig.Amount = req.Amount
	orig.Status = req.Status
	orig.DecidedBy = req.DecidedBy
	orig.DecisionNote = req.DecisionNote
	orig.UpdatedAt = req.UpdatedAt
	return *orig, nil
}

func (repo *financeRepository) CreateLedgerEntry(ctx context.Context, entry finance.LedgerEntry) (finance.LedgerEntry, error) {
	repo.ledger.Lock()
	defer repo.ledger.Unlock()

	entry.ID = uuid.New().String()
	repo.ledger.table[entry.ID] = &entry
	return entry, nil
}

func (repo *financeRepository) QueryLedgerEntries(ctx context.Context, from, to time.Time) ([]finance.LedgerEntry, error) {
	repo.ledger.RLock()
	defer repo.ledger.RUnlock()

	entries := make([]finance.LedgerEntry, 0)
	for _, e := range repo.ledger.table {
		if !from.IsZero() && e.OccurredAt.Before(from.UTC()) {
			continue
		}
		if !to.IsZero() && e.OccurredAt.After(to.UTC()) {
			continue
		}
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].OccurredAt.Before(entries[j].OccurredAt) })
	return entries, nil
}
