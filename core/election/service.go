package election

import (
	"context"
	"errors"
	"sort"
	"time"
)

var (
	// terminal casting errors
	ErrAlreadyVoted      = errors.New("voter has already cast a ballot")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrBallotingClosed   = errors.New("balloting is closed")
	ErrVoterRequired     = errors.New("voter identity is required")

	// ErrTransientConflict is surfaced when commit retries are exhausted under
	// write contention. The caller may re-invoke with the same arguments: a
	// retry landing after the voter's own prior attempt committed surfaces
	// ErrAlreadyVoted, never a duplicate ballot.
	ErrTransientConflict = errors.New("ballot could not be committed under contention")

	// ErrTxConflict is returned by stores when an optimistic transaction fails
	// to commit because a conflicting write landed between its reads and its
	// commit. The casting protocol retries on it with fresh reads.
	ErrTxConflict = errors.New("transaction conflict")

	ErrBallotNotFound = errors.New("ballot not found")
)

const (
	castMaxAttempts = 5
	castBaseBackoff = 10 * time.Millisecond
)

// NowFunc assigns ballot timestamps. Mockable.
var NowFunc = time.Now

type (
	// Tx is the read/write surface available inside a ballot transaction.
	// All reads and writes performed through it commit atomically or not at all.
	Tx interface {
		GetCandidate(id string) (Candidate, error)
		GetBallot(voterID string) (Ballot, bool, error)
		GetControl() (Control, bool, error)
		CreateBallot(b Ballot) error
		SetCandidateTally(id string, tally int) error
	}

	Repository interface {
		CreateCandidate(ctx context.Context, c Candidate) (Candidate, error)
		// QueryCandidates returns candidates sorted by display order ascending.
		QueryCandidates(ctx context.Context) ([]Candidate, error)
		GetCandidateByID(ctx context.Context, id string) (Candidate, error)
		// UpdateCandidate persists metadata fields only; the stored tally is
		// left untouched whatever c.VoteTally holds.
		UpdateCandidate(ctx context.Context, c Candidate) (Candidate, error)
		DeleteCandidatesByID(ctx context.Context, ids ...string) error

		GetBallot(ctx context.Context, voterID string) (Ballot, error)
		CountBallots(ctx context.Context) (int, error)

		GetControl(ctx context.Context) (Control, bool, error)
		SaveControl(ctx context.Context, ctl Control) (Control, error)

		// RunBallotTx executes fn as one atomic read-modify-write unit and
		// returns ErrTxConflict when a conflicting write prevented the commit.
		RunBallotTx(ctx context.Context, fn func(tx Tx) error) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Cast records exactly one ballot for voterID and increments the chosen
// candidate's tally by one, atomically, or rejects the attempt with no side
// effect. Commit conflicts are retried a bounded number of times with fresh
// reads before ErrTransientConflict is surfaced.
func (svc *Service) Cast(ctx context.Context, voterID, candidateID string) error {
	if voterID == "" {
		return ErrVoterRequired
	}

	backoff := castBaseBackoff
	for attempt := 0; attempt < castMaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		err := svc.repo.RunBallotTx(ctx, func(tx Tx) error {
			if _, exists, err := tx.GetBallot(voterID); err != nil {
				return err
			} else if exists {
				return ErrAlreadyVoted
			}

			cand, err := tx.GetCandidate(candidateID)
			if err != nil {
				return err
			}

			// The control state is read inside the transaction so a cast
			// racing an administrative close cannot slip through.
			ctl, ok, err := tx.GetControl()
			if err != nil {
				return err
			}
			if !ok || !ctl.IsOpen {
				return ErrBallotingClosed
			}

			if err = tx.CreateBallot(Ballot{
				VoterID:     voterID,
				CandidateID: cand.ID,
				CastAt:      NowFunc().UTC(),
			}); err != nil {
				return err
			}
			return tx.SetCandidateTally(cand.ID, cand.VoteTally+1)
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrTxConflict) {
			continue
		}
		return err
	}
	return ErrTransientConflict
}

// HasVoted reports whether voterID already has a recorded ballot.
func (svc *Service) HasVoted(ctx context.Context, voterID string) (bool, error) {
	if _, err := svc.repo.GetBallot(ctx, voterID); err != nil {
		if errors.Is(err, ErrBallotNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Results computes the tally presentation over the current candidate set.
func (svc *Service) Results(ctx context.Context) (Results, error) {
	candidates, err := svc.repo.QueryCandidates(ctx)
	if err != nil {
		return Results{}, err
	}

	var total int
	for _, c := range candidates {
		total += c.VoteTally
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].VoteTally != candidates[j].VoteTally {
			return candidates[i].VoteTally > candidates[j].VoteTally
		}
		return candidates[i].Order < candidates[j].Order
	})

	ranking := make([]CandidateResult, 0, len(candidates))
	for _, c := range candidates {
		var pct float64
		if total > 0 {
			pct = float64(c.VoteTally) / float64(total) * 100
		}
		ranking = append(ranking, CandidateResult{Candidate: c, Percentage: pct})
	}
	return Results{TotalVotes: total, Ranking: ranking}, nil
}

// Candidate administration (metadata only)

func (svc *Service) CreateCandidate(ctx context.Context, nc NewCandidate) (Candidate, error) {
	now := time.Now().UTC()
	return svc.repo.CreateCandidate(ctx, Candidate{
		Name:      nc.Name,
		Vision:    nc.Vision,
		Mission:   nc.Mission,
		PhotoRef:  nc.PhotoRef,
		Order:     nc.Order,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *Service) QueryCandidates(ctx context.Context) ([]Candidate, error) {
	return svc.repo.QueryCandidates(ctx)
}

func (svc *Service) GetCandidate(ctx context.Context, id string) (Candidate, error) {
	return svc.repo.GetCandidateByID(ctx, id)
}

func (svc *Service) UpdateCandidate(ctx context.Context, id string, uc UpdateCandidate) (Candidate, error) {
	cand, err := svc.repo.GetCandidateByID(ctx, id)
	if err != nil {
		return Candidate{}, err
	}
	cand.Name = uc.Name
	cand.Vision = uc.Vision
	cand.Mission = uc.Mission
	cand.PhotoRef = uc.PhotoRef
	if uc.Order != nil {
		cand.Order = *uc.Order
	}
	cand.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCandidate(ctx, cand)
}

// DeleteCandidates removes candidates. Ballots referencing a deleted candidate
// are left as-is; this inconsistency is accepted, not reconciled.
func (svc *Service) DeleteCandidates(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteCandidatesByID(ctx, ids...)
}

// Control administration

func (svc *Service) GetControl(ctx context.Context) (Control, error) {
	ctl, ok, err := svc.repo.GetControl(ctx)
	if err != nil {
		return Control{}, err
	}
	if !ok {
		return Control{}, nil // absent record reads as closed
	}
	return ctl, nil
}

// SetControl creates or updates the control singleton.
func (svc *Service) SetControl(ctx context.Context, uc UpdateControl) (Control, error) {
	ctl, _, err := svc.repo.GetControl(ctx)
	if err != nil {
		return Control{}, err
	}
	if uc.Title != "" {
		ctl.Title = uc.Title
	}
	ctl.IsOpen = *uc.IsOpen
	if !uc.StartsAt.IsZero() {
		ctl.StartsAt = uc.StartsAt.UTC()
	}
	if !uc.EndsAt.IsZero() {
		ctl.EndsAt = uc.EndsAt.UTC()
	}
	return svc.repo.SaveControl(ctx, ctl)
}
