package finance_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/osisproject0-hub/osis-sub000/core/finance"
	"github.com/osisproject0-hub/osis-sub000/core/member"
	emailsvc "github.com/osisproject0-hub/osis-sub000/services/email"
	dummydb "github.com/osisproject0-hub/osis-sub000/storage/database/dummy"
	"github.com/osisproject0-hub/osis-sub000/tests"
)

func newTestService(t *testing.T) (*finance.Service, member.Repository) {
	emailsvc.ClearSentMessages()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	mbrRepo := dummydb.NewMemberRepository(db)
	mailSvc := emailsvc.NewConsoleServiceMock(testutil.NewConfig())
	dir := member.NewService(mbrRepo, mailSvc, testutil.NewConfig())
	return finance.NewService(dummydb.NewFinanceRepository(db), dir, mailSvc), mbrRepo
}

func createRequest(t *testing.T, svc *finance.Service, requesterID string) finance.FundRequest {
	req, err := svc.CreateRequest(context.Background(), requesterID, finance.NewFundRequest{
		Purpose: "Class meeting trophies",
		Amount:  350_000,
	})
	if err != nil {
		t.Fatalf("CreateRequest() failed: %v", err)
	}
	return req
}

func TestFundRequestWorkflow(t *testing.T) {
	ctx := context.Background()
	svc, mbrRepo := newTestService(t)

	requester := testutil.CreateMember(t, mbrRepo, "Sekbid Satu", "sekbid1", "sekbid1@test.test", "", member.BoardRoles, true)
	req := createRequest(t, svc, requester.ID)
	if req.Status != finance.StatusDraft {
		t.Fatalf("Status = %q, want %q", req.Status, finance.StatusDraft)
	}

	t.Run("only requester submits", func(t *testing.T) {
		if _, err := svc.Submit(ctx, req.ID, "someone-else"); !errors.Is(err, finance.ErrNotRequester) {
			t.Errorf("Submit() error = %v, want %v", err, finance.ErrNotRequester)
		}
	})

	t.Run("decide before submit rejected", func(t *testing.T) {
		if _, err := svc.Decide(ctx, req.ID, "treasurer-1", finance.Decision{Approve: true}); !errors.Is(err, finance.ErrInvalidTransition) {
			t.Errorf("Decide() error = %v, want %v", err, finance.ErrInvalidTransition)
		}
	})

	t.Run("submit", func(t *testing.T) {
		got, err := svc.Submit(ctx, req.ID, requester.ID)
		if err != nil {
			t.Fatalf("Submit() failed: %v", err)
		}
		if got.Status != finance.StatusSubmitted {
			t.Errorf("Status = %q, want %q", got.Status, finance.StatusSubmitted)
		}
	})

	t.Run("resubmit rejected", func(t *testing.T) {
		if _, err := svc.Submit(ctx, req.ID, requester.ID); !errors.Is(err, finance.ErrInvalidTransition) {
			t.Errorf("Submit() error = %v, want %v", err, finance.ErrInvalidTransition)
		}
	})

	t.Run("disburse before approval rejected", func(t *testing.T) {
		if _, err := svc.Disburse(ctx, req.ID); !errors.Is(err, finance.ErrInvalidTransition) {
			t.Errorf("Disburse() error = %v, want %v", err, finance.ErrInvalidTransition)
		}
	})

	t.Run("approve notifies requester", func(t *testing.T) {
		got, err := svc.Decide(ctx, req.ID, "treasurer-1", finance.Decision{Approve: true, Note: "ok, keep receipts"})
		if err != nil {
			t.Fatalf("Decide() failed: %v", err)
		}
		if got.Status != finance.StatusApproved {
			t.Errorf("Status = %q, want %q", got.Status, finance.StatusApproved)
		}
		if got.DecidedBy != "treasurer-1" {
			t.Errorf("DecidedBy = %q, want %q", got.DecidedBy, "treasurer-1")
		}

		if len(emailsvc.SentMessages) != 1 {
			t.Fatalf("len(SentMessages) = %d, want 1", len(emailsvc.SentMessages))
		}
		msg := emailsvc.SentMessages[0]
		if msg.To[0].Address != requester.Email {
			t.Errorf("To = %q, want %q", msg.To[0].Address, requester.Email)
		}
		if !strings.Contains(msg.BodyStr, "approved") {
			t.Errorf("BodyStr = %q, want it to mention the verdict", msg.BodyStr)
		}
	})

	t.Run("disburse records the expense", func(t *testing.T) {
		got, err := svc.Disburse(ctx, req.ID)
		if err != nil {
			t.Fatalf("Disburse() failed: %v", err)
		}
		if got.Status != finance.StatusDisbursed {
			t.Errorf("Status = %q, want %q", got.Status, finance.StatusDisbursed)
		}

		rep, err := svc.Report(ctx, time.Time{}, time.Time{})
		if err != nil {
			t.Fatalf("Report() failed: %v", err)
		}
		if len(rep.Entries) != 1 {
			t.Fatalf("len(Entries) = %d, want 1", len(rep.Entries))
		}
		entry := rep.Entries[0]
		if entry.Kind != finance.KindExpense || entry.Amount != req.Amount || entry.RefID != req.ID {
			t.Errorf("ledger entry = %+v, want expense of %d for %s", entry, req.Amount, req.ID)
		}
	})
}

func TestDecide_reject(t *testing.T) {
	ctx := context.Background()
	svc, mbrRepo := newTestService(t)

	requester := testutil.CreateMember(t, mbrRepo, "Sekbid Satu", "sekbid1", "sekbid1@test.test", "", member.BoardRoles, true)
	req := createRequest(t, svc, requester.ID)
	if _, err := svc.Submit(ctx, req.ID, requester.ID); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	got, err := svc.Decide(ctx, req.ID, "treasurer-1", finance.Decision{Approve: false, Note: "no budget left"})
	if err != nil {
		t.Fatalf("Decide() failed: %v", err)
	}
	if got.Status != finance.StatusRejected {
		t.Errorf("Status = %q, want %q", got.Status, finance.StatusRejected)
	}

	// rejected requests never reach disbursement
	if _, err = svc.Disburse(ctx, req.ID); !errors.Is(err, finance.ErrInvalidTransition) {
		t.Errorf("Disburse() error = %v, want %v", err, finance.ErrInvalidTransition)
	}
}

func TestReport(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	entries := []finance.NewLedgerEntry{
		{Kind: finance.KindIncome, Amount: 1_000_000, Description: "canteen stand", OccurredAt: jan},
		{Kind: finance.KindExpense, Amount: 250_000, Description: "banner print", OccurredAt: feb},
		{Kind: finance.KindIncome, Amount: 500_000, Description: "sponsor", OccurredAt: mar},
	}
	for _, ne := range entries {
		if _, err := svc.RecordEntry(ctx, ne); err != nil {
			t.Fatalf("RecordEntry() failed: %v", err)
		}
	}

	t.Run("full period", func(t *testing.T) {
		rep, err := svc.Report(ctx, time.Time{}, time.Time{})
		if err != nil {
			t.Fatalf("Report() failed: %v", err)
		}
		if rep.TotalIncome != 1_500_000 || rep.TotalExpense != 250_000 || rep.Balance != 1_250_000 {
			t.Errorf("Report() = income %d, expense %d, balance %d", rep.TotalIncome, rep.TotalExpense, rep.Balance)
		}
	})

	t.Run("bounded period", func(t *testing.T) {
		rep, err := svc.Report(ctx, jan.Add(24*time.Hour), mar.Add(-24*time.Hour))
		if err != nil {
			t.Fatalf("Report() failed: %v", err)
		}
		if len(rep.Entries) != 1 || rep.Entries[0].Description != "banner print" {
			t.Errorf("Entries = %+v, want only the February expense", rep.Entries)
		}
		if rep.Balance != -250_000 {
			t.Errorf("Balance = %d, want -250000", rep.Balance)
		}
	})
}

// flakyLedgerRepo fails ledger writes on demand, delegating everything else
// to the wrapped repository.
type flakyLedgerRepo struct {
	finance.Repository
	failLedger bool
}

var errLedgerDown = errors.New("ledger store unavailable")

func (repo *flakyLedgerRepo) CreateLedgerEntry(ctx context.Context, entry finance.LedgerEntry) (finance.LedgerEntry, error) {
	if repo.failLedger {
		return finance.LedgerEntry{}, errLedgerDown
	}
	return repo.Repository.CreateLedgerEntry(ctx, entry)
}

func TestDisburse_ledgerFailureKeepsApproved(t *testing.T) {
	ctx := context.Background()
	emailsvc.ClearSentMessages()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	mbrRepo := dummydb.NewMemberRepository(db)
	mailSvc := emailsvc.NewConsoleServiceMock(testutil.NewConfig())
	dir := member.NewService(mbrRepo, mailSvc, testutil.NewConfig())
	repo := &flakyLedgerRepo{Repository: dummydb.NewFinanceRepository(db)}
	svc := finance.NewService(repo, dir, mailSvc)

	requester := testutil.CreateMember(t, mbrRepo, "Sekbid Satu", "sekbid1", "sekbid1@test.test", "", member.BoardRoles, true)
	req := createRequest(t, svc, requester.ID)
	if _, err := svc.Submit(ctx, req.ID, requester.ID); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if _, err := svc.Decide(ctx, req.ID, "treasurer-1", finance.Decision{Approve: true}); err != nil {
		t.Fatalf("Decide() failed: %v", err)
	}

	repo.failLedger = true
	if _, err := svc.Disburse(ctx, req.ID); !errors.Is(err, errLedgerDown) {
		t.Fatalf("Disburse() error = %v, want %v", err, errLedgerDown)
	}

	// the failed disbursal must not flip the status
	got, err := svc.GetRequest(ctx, req.ID)
	if err != nil {
		t.Fatalf("GetRequest() failed: %v", err)
	}
	if got.Status != finance.StatusApproved {
		t.Fatalf("Status = %q, want %q after a failed disbursal", got.Status, finance.StatusApproved)
	}

	// the retry goes through and leaves exactly one ledger entry
	repo.failLedger = false
	got, err = svc.Disburse(ctx, req.ID)
	if err != nil {
		t.Fatalf("Disburse() retry failed: %v", err)
	}
	if got.Status != finance.StatusDisbursed {
		t.Errorf("Status = %q, want %q", got.Status, finance.StatusDisbursed)
	}

	entries, err := repo.QueryLedgerEntries(ctx, time.Time{}, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("QueryLedgerEntries() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].RefID != req.ID {
		t.Errorf("RefID = %q, want %q", entries[0].RefID, req.ID)
	}
}
