package finance

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/osisproject0-hub/osis-sub000/core"
	"github.com/osisproject0-hub/osis-sub000/core/member"
)

var (
	// errors
	ErrNotFound          = errors.New("fund request not found")
	ErrInvalidTransition = errors.New("invalid fund request status transition")
	ErrNotRequester      = errors.New("fund request belongs to another member")
)

type (
	Repository interface {
		CreateFundRequest(ctx context.Context, req FundRequest) (FundRequest, error)
		QueryFundRequests(ctx context.Context, divisionID string) ([]FundRequest, error)
		GetFundRequestByID(ctx context.Context, id string) (FundRequest, error)
		UpdateFundRequest(ctx context.Context, req FundRequest) (FundRequest, error)

		CreateLedgerEntry(ctx context.Context, entry LedgerEntry) (LedgerEntry, error)
		QueryLedgerEntries(ctx context.Context, from, to time.Time) ([]LedgerEntry, error)
	}

	// Directory resolves member ids to members, for notifications.
	Directory interface {
		GetByID(ctx context.Context, id string) (member.Member, error)
	}

	Service struct {
		repo    Repository
		dir     Directory
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, dir Directory, mailSvc core.EmailService) *Service {
	return &Service{
		repo:    repo,
		dir:     dir,
		mailSvc: mailSvc,
	}
}

func (svc *Service) CreateRequest(ctx context.Context, requesterID string, nf NewFundRequest) (FundRequest, error) {
	now := time.Now().UTC()
	return svc.repo.CreateFundRequest(ctx, FundRequest{
		RequesterID: requesterID,
		DivisionID:  nf.DivisionID,
		Purpose:     nf.Purpose,
		Amount:      nf.Amount,
		Status:      StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *Service) QueryRequests(ctx context.Context, divisionID string) ([]FundRequest, error) {
	return svc.repo.QueryFundRequests(ctx, divisionID)
}

func (svc *Service) GetRequest(ctx context.Context, id string) (FundRequest, error) {
	return svc.repo.GetFundRequestByID(ctx, id)
}

// Submit moves a draft request into the approval queue. Only its requester may submit.
func (svc *Service) Submit(ctx context.Context, id, actorID string) (FundRequest, error) {
	req, err := svc.repo.GetFundRequestByID(ctx, id)
	if err != nil {
		return FundRequest{}, err
	}
	if req.RequesterID != actorID {
		return FundRequest{}, ErrNotRequester
	}
	if req.Status != StatusDraft {
		return FundRequest{}, ErrInvalidTransition
	}
	req.Status = StatusSubmitted
	req.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateFundRequest(ctx, req)
}

// Decide approves or rejects a submitted request and notifies the requester.
func (svc *Service) Decide(ctx context.Context, id, deciderID string, d Decision) (FundRequest, error) {
	req, err := svc.repo.GetFundRequestByID(ctx, id)
	if err != nil {
		return FundRequest{}, err
	}
	if req.Status != StatusSubmitted {
		return FundRequest{}, ErrInvalidTransition
	}

	if d.Approve {
		req.Status = StatusApproved
	} else {
		req.Status = StatusRejected
	}
	req.DecidedBy = deciderID
	req.DecisionNote = d.Note
	req.UpdatedAt = time.Now().UTC()

	req, err = svc.repo.UpdateFundRequest(ctx, req)
	if err != nil {
		return FundRequest{}, err
	}
	svc.notifyDecision(ctx, req)
	return req, nil
}

// Disburse pays out an approved request and records the matching ledger expense.
func (svc *Service) Disburse(ctx context.Context, id string) (FundRequest, error) {
	req, err := svc.repo.GetFundRequestByID(ctx, id)
	if err != nil {
		return FundRequest{}, err
	}
	if req.Status != StatusApproved {
		return FundRequest{}, ErrInvalidTransition
	}
	req.Status = StatusDisbursed
	req.UpdatedAt = time.Now().UTC()

	// The expense is recorded before the status flips: a disbursed request
	// always has its matching ledger entry. If the entry write fails the
	// request stays approved and the disbursal can be retried.
	if _, err = svc.repo.CreateLedgerEntry(ctx, LedgerEntry{
		Kind:        KindExpense,
		Amount:      req.Amount,
		Description: req.Purpose,
		RefID:       req.ID,
		OccurredAt:  req.UpdatedAt,
	}); err != nil {
		return FundRequest{}, err
	}
	return svc.repo.UpdateFundRequest(ctx, req)
}

func (svc *Service) RecordEntry(ctx context.Context, ne NewLedgerEntry) (LedgerEntry, error) {
	occurred := ne.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	return svc.repo.CreateLedgerEntry(ctx, LedgerEntry{
		Kind:        ne.Kind,
		Amount:      ne.Amount,
		Description: ne.Description,
		OccurredAt:  occurred.UTC(),
	})
}

// Report aggregates the ledger over [from, to].
func (svc *Service) Report(ctx context.Context, from, to time.Time) (Report, error) {
	entries, err := svc.repo.QueryLedgerEntries(ctx, from, to)
	if err != nil {
		return Report{}, err
	}

	rep := Report{From: from, To: to, Entries: entries}
	for _, e := range entries {
		switch e.Kind {
		case KindIncome:
			rep.TotalIncome += e.Amount
		case KindExpense:
			rep.TotalExpense += e.Amount
		}
	}
	rep.Balance = rep.TotalIncome - rep.TotalExpense
	return rep, nil
}

func (svc *Service) notifyDecision(ctx context.Context, req FundRequest) {
	mbr, err := svc.dir.GetByID(ctx, req.RequesterID)
	if err != nil || mbr.Email == "" {
		return
	}

	verdict := "rejected"
	if req.Status == StatusApproved {
		verdict = "approved"
	}
	body := fmt.Sprintf("Hi %s,\n\nYour fund request %q has been %s.", mbr.Name, req.Purpose, verdict)
	if req.DecisionNote != "" {
		body += fmt.Sprintf("\n\nNote: %s", req.DecisionNote)
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: mbr.Name, Address: mbr.Email}},
		Subject: "Fund Request " + verdict,
		BodyStr: body,
	})
}
