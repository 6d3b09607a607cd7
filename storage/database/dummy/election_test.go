package dummydb

import (
	"context"
	"errors"
	"testing"

	"github.com/osisproject0-hub/osis-sub000/core/election"
)

func newElectionRepo(t *testing.T) election.Repository {
	db, err := Open()
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	return NewElectionRepository(db)
}

func seedElection(t *testing.T, repo election.Repository) election.Candidate {
	ctx := context.Background()
	cand, err := repo.CreateCandidate(ctx, election.Candidate{Name: "Awa", Order: 1})
	if err != nil {
		t.Fatalf("CreateCandidate() failed: %v", err)
	}
	if _, err = repo.SaveControl(ctx, election.Control{Title: "test", IsOpen: true}); err != nil {
		t.Fatalf("SaveControl() failed: %v", err)
	}
	return cand
}

func castTx(voterID, candidateID string) func(tx election.Tx) error {
	return func(tx election.Tx) error {
		cand, err := tx.GetCandidate(candidateID)
		if err != nil {
			return err
		}
		if _, _, err = tx.GetControl(); err != nil {
			return err
		}
		if err = tx.CreateBallot(election.Ballot{VoterID: voterID, CandidateID: candidateID}); err != nil {
			return err
		}
		return tx.SetCandidateTally(candidateID, cand.VoteTally+1)
	}
}

// A transaction whose reads were overwritten before its commit must fail
// with ErrTxConflict rather than clobber the later write.
func TestRunBallotTx_staleReadConflicts(t *testing.T) {
	ctx := context.Background()
	repo := newElectionRepo(t)
	cand := seedElection(t, repo)

	err := repo.RunBallotTx(ctx, func(tx election.Tx) error {
		if err := castTx("voter-1", cand.ID)(tx); err != nil {
			return err
		}
		// another voter's transaction lands while this one is still open
		return repo.RunBallotTx(ctx, castTx("voter-2", cand.ID))
	})
	if !errors.Is(err, election.ErrTxConflict) {
		t.Fatalf("RunBallotTx() error = %v, want %v", err, election.ErrTxConflict)
	}

	// only the inner transaction committed
	count, err := repo.CountBallots(ctx)
	if err != nil {
		t.Fatalf("CountBallots() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("CountBallots() = %d, want 1", count)
	}
	got, err := repo.GetCandidateByID(ctx, cand.ID)
	if err != nil {
		t.Fatalf("GetCandidateByID() failed: %v", err)
	}
	if got.VoteTally != 1 {
		t.Errorf("VoteTally = %d, want 1", got.VoteTally)
	}
	if _, err = repo.GetBallot(ctx, "voter-1"); !errors.Is(err, election.ErrBallotNotFound) {
		t.Errorf("GetBallot(voter-1) error = %v, want %v", err, election.ErrBallotNotFound)
	}
}

// A duplicate ballot that appears between a voter's read and their commit is a
// conflict: the retry then observes the existing ballot.
func TestRunBallotTx_duplicateBallotConflicts(t *testing.T) {
	ctx := context.Background()
	repo := newElectionRepo(t)
	cand := seedElection(t, repo)

	err := repo.RunBallotTx(ctx, func(tx election.Tx) error {
		if _, exists, err := tx.GetBallot("voter-1"); err != nil {
			return err
		} else if exists {
			return election.ErrAlreadyVoted
		}
		if err := castTx("voter-1", cand.ID)(tx); err != nil {
			return err
		}
		// the same voter's concurrent attempt wins the race
		return repo.RunBallotTx(ctx, castTx("voter-1", cand.ID))
	})
	if !errors.Is(err, election.ErrTxConflict) {
		t.Fatalf("RunBallotTx() error = %v, want %v", err, election.ErrTxConflict)
	}

	got, err := repo.GetCandidateByID(ctx, cand.ID)
	if err != nil {
		t.Fatalf("GetCandidateByID() failed: %v", err)
	}
	if got.VoteTally != 1 {
		t.Errorf("VoteTally = %d, want 1", got.VoteTally)
	}
}

// An administrative control flip conflicts any cast still in flight.
func TestRunBallotTx_controlChangeConflicts(t *testing.T) {
	ctx := context.Background()
	repo := newElectionRepo(t)
	cand := seedElection(t, repo)

	err := repo.RunBallotTx(ctx, func(tx election.Tx) error {
		if err := castTx("voter-1", cand.ID)(tx); err != nil {
			return err
		}
		_, err := repo.SaveControl(ctx, election.Control{Title: "test", IsOpen: false})
		return err
	})
	if !errors.Is(err, election.ErrTxConflict) {
		t.Fatalf("RunBallotTx() error = %v, want %v", err, election.ErrTxConflict)
	}
	count, _ := repo.CountBallots(ctx)
	if count != 0 {
		t.Errorf("CountBallots() = %d, want 0", count)
	}
}

// fn errors pass through untouched so terminal casting errors keep their identity.
func TestRunBallotTx_passesThroughFnError(t *testing.T) {
	repo := newElectionRepo(t)
	seedElection(t, repo)

	err := repo.RunBallotTx(context.Background(), func(tx election.Tx) error {
		return election.ErrAlreadyVoted
	})
	if !errors.Is(err, election.ErrAlreadyVoted) {
		t.Errorf("RunBallotTx() error = %v, want %v", err, election.ErrAlreadyVoted)
	}
}
