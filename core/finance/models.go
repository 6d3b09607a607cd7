package finance

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/osisproject0-hub/osis-sub000/core"
)

// Fund request statuses
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusDisbursed = "disbursed"
)

// Ledger entry kinds
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

type FundRequest struct {
	ID           string    `json:"id"`
	RequesterID  string    `json:"requester_id"`
	DivisionID   string    `json:"division_id"`
	Purpose      string    `json:"purpose"`
	Amount       int64     `json:"amount"` // in the currency's smallest unit
	Status       string    `json:"status"`
	DecidedBy    string    `json:"decided_by,omitempty"`
	DecisionNote string    `json:"decision_note,omitempty"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

type LedgerEntry struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	RefID       string    `json:"ref_id,omitempty"` // fund request id for disbursements
	OccurredAt  time.Time `json:"occurred_at"`      // UTC
}

// Report summarizes the ledger over a period.
type Report struct {
	From         time.Time     `json:"from"`
	To           time.Time     `json:"to"`
	TotalIncome  int64         `json:"total_income"`
	TotalExpense int64         `json:"total_expense"`
	Balance      int64         `json:"balance"`
	Entries      []LedgerEntry `json:"entries"`
}

type NewFundRequest struct {
	DivisionID string `json:"division_id"`
	Purpose    string `json:"purpose" validate:"required"`
	Amount     int64  `json:"amount" validate:"required,gt=0"`
}

func (nf *NewFundRequest) Validate(validate *validator.Validate) error {
	nf.Purpose = core.CleanString(nf.Purpose)
	return validate.Struct(nf)
}

type Decision struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

func (d *Decision) Validate(validate *validator.Validate) error {
	d.Note = core.CleanString(d.Note)
	return validate.Struct(d)
}

type NewLedgerEntry struct {
	Kind        string    `json:"kind" validate:"required,oneof=income expense"`
	Amount      int64     `json:"amount" validate:"required,gt=0"`
	Description string    `json:"description" validate:"required"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (ne *NewLedgerEntry) Validate(validate *validator.Validate) error {
	ne.Description = core.CleanString(ne.Description)
	return validate.Struct(ne)
}
