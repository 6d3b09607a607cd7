package election

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/osisproject0-hub/osis-sub000/core"
)

type (
	// Candidate is an election candidate. VoteTally is only ever mutated by the
	// ballot casting protocol; administrative edits never touch it.
	Candidate struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Vision    string    `json:"vision"`
		Mission   string    `json:"mission"`
		PhotoRef  string    `json:"photo_ref"`
		Order     int       `json:"order"`
		VoteTally int       `json:"vote_tally"`
		CreatedAt time.Time `json:"created_at"` // UTC
		UpdatedAt time.Time `json:"updated_at"` // UTC
	}

	// Ballot records that one voter cast a vote for one candidate.
	// It is keyed by VoterID and immutable once created.
	Ballot struct {
		VoterID     string    `json:"voter_id"`
		CandidateID string    `json:"candidate_id"`
		CastAt      time.Time `json:"cast_at"` // UTC, server-assigned
	}

	// Control is the singleton election control record.
	Control struct {
		Title    string    `json:"title"`
		IsOpen   bool      `json:"is_open"`
		StartsAt time.Time `json:"starts_at,omitempty"`
		EndsAt   time.Time `json:"ends_at,omitempty"`
	}
)

type NewCandidate struct {
	Name     string `json:"name" validate:"required"`
	Vision   string `json:"vision"`
	Mission  string `json:"mission"`
	PhotoRef string `json:"photo_ref"`
	Order    int    `json:"order"`
}

func (nc *NewCandidate) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Vision = core.CleanString(nc.Vision)
	nc.Mission = core.CleanString(nc.Mission)
	return validate.Struct(nc)
}

// UpdateCandidate carries administrative metadata edits.
// There is deliberately no tally field here.
type UpdateCandidate struct {
	Name     string `json:"name"`
	Vision   string `json:"vision"`
	Mission  string `json:"mission"`
	PhotoRef string `json:"photo_ref"`
	Order    *int   `json:"order"`
}

func (uc *UpdateCandidate) Validate(validate *validator.Validate, orig Candidate) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	if vision := core.CleanString(uc.Vision); vision != "" {
		uc.Vision = vision
	} else {
		uc.Vision = orig.Vision
	}
	if mission := core.CleanString(uc.Mission); mission != "" {
		uc.Mission = mission
	} else {
		uc.Mission = orig.Mission
	}
	if uc.PhotoRef == "" {
		uc.PhotoRef = orig.PhotoRef
	}
	if uc.Order == nil {
		order := orig.Order
		uc.Order = &order
	}
	return validate.Struct(uc)
}

type UpdateControl struct {
	Title    string    `json:"title"`
	IsOpen   *bool     `json:"is_open" validate:"required"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

func (uc *UpdateControl) Validate(validate *validator.Validate) error {
	uc.Title = core.CleanString(uc.Title)
	return validate.Struct(uc)
}

type (
	// CandidateResult is a candidate's share of the vote.
	CandidateResult struct {
		Candidate  Candidate `json:"candidate"`
		Percentage float64   `json:"percentage"`
	}

	// Results is the derived tally presentation: candidates ranked by tally
	// descending, ties broken by display order ascending.
	Results struct {
		TotalVotes int               `json:"total_votes"`
		Ranking    []CandidateResult `json:"ranking"`
	}
)
