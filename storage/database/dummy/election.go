package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/osisproject0-hub/osis-sub000/core/election"
)

type electionRepository struct {
	db *electionTables
}

var _ election.Repository = (*electionRepository)(nil) // interface compliance check

func NewElectionRepository(db *DB) election.Repository {
	return &electionRepository{db: db.election}
}

func (repo *electionRepository) CreateCandidate(ctx context.Context, c election.Candidate) (election.Candidate, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	c.ID = uuid.New().String()
	c.VoteTally = 0
	repo.db.candidates[c.ID] = &versionedCandidate{candidate: c, version: 1}
	return c, nil
}

func (repo *electionRepository) QueryCandidates(ctx context.Context) ([]election.Candidate, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	candidates := make([]election.Candidate, 0, len(repo.db.candidates))
	for _, vc := range repo.db.candidates {
		candidates = append(candidates, vc.candidate)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Order != candidates[j].Order {
			return candidates[i].Order < candidates[j].Order
		}
		return candidates[i].Name < candidates[j].Name
	})
	return candidates, nil
}

func (repo *electionRepository) GetCandidateByID(ctx context.Context, id string) (election.Candidate, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if vc, ok := repo.db.candidates[id]; ok {
		return vc.candidate, nil
	}
	return election.Candidate{}, election.ErrCandidateNotFound
}

func (repo *electionRepository) UpdateCandidate(ctx context.Context, c election.Candidate) (election.Candidate, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	vc, ok := repo.db.candidates[c.ID]
	if !ok {
		return election.Candidate{}, election.ErrCandidateNotFound
	}
	// metadata only; the stored tally stays untouched
	vc.candidate.Name = c.Name
	vc.candidate.Vision = c.Vision
	vc.candidate.Mission = c.Mission
	vc.candidate.PhotoRef = c.PhotoRef
	vc.candidate.Order = c.Order
	vc.candidate.UpdatedAt = c.UpdatedAt
	vc.version++
	return vc.candidate, nil
}

func (repo *electionRepository) DeleteCandidatesByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.candidates, id)
	}
	return nil
}

func (repo *electionRepository) GetBallot(ctx context.Context, voterID string) (election.Ballot, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if b, ok := repo.db.ballots[voterID]; ok {
		return *b, nil
	}
	return election.Ballot{}, election.ErrBallotNotFound
}

func (repo *electionRepository) CountBallots(ctx context.Context) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	return len(repo.db.ballots), nil
}

func (repo *electionRepository) GetControl(ctx context.Context) (election.Control, bool, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.db.control == nil {
		return election.Control{}, false, nil
	}
	return repo.db.control.control, true, nil
}

func (repo *electionRepository) SaveControl(ctx context.Context, ctl election.Control) (election.Control, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.db.control == nil {
		repo.db.control = &versionedControl{control: ctl, version: 1}
	} else {
		repo.db.control.control = ctl
		repo.db.control.version++
	}
	return ctl, nil
}

// RunBallotTx gives fn an optimistic transaction: reads record the version
// they observed, writes are buffered, and commit re-checks every read under
// the table lock. A row that changed since it was read (or a ballot that
// appeared for a voter read as absent) fails the commit with ErrTxConflict.
func (repo *electionRepository) RunBallotTx(ctx context.Context, fn func(tx election.Tx) error) error {
	tx := &memBallotTx{db: repo.db}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.commit()
}

type memBallotTx struct {
	db *electionTables

	readCandidates map[string]uint64 // candidate id -> version observed
	readBallots    map[string]bool   // voter id -> present at read time
	readControl    *uint64           // version observed; nil if never read

	newBallot *election.Ballot
	tallySets map[string]int
}

var _ election.Tx = (*memBallotTx)(nil)

func (t *memBallotTx) GetCandidate(id string) (election.Candidate, error) {
	t.db.Lock()
	defer t.db.Unlock()

	vc, ok := t.db.candidates[id]
	if !ok {
		return election.Candidate{}, election.ErrCandidateNotFound
	}
	if t.readCandidates == nil {
		t.readCandidates = make(map[string]uint64)
	}
	t.readCandidates[id] = vc.version
	return vc.candidate, nil
}

func (t *memBallotTx) GetBallot(voterID string) (election.Ballot, bool, error) {
	t.db.Lock()
	defer t.db.Unlock()

	if t.readBallots == nil {
		t.readBallots = make(map[string]bool)
	}
	if b, ok := t.db.ballots[voterID]; ok {
		t.readBallots[voterID] = true
		return *b, true, nil
	}
	t.readBallots[voterID] = false
	return election.Ballot{}, false, nil
}

func (t *memBallotTx) GetControl() (election.Control, bool, error) {
	t.db.Lock()
	defer t.db.Unlock()

	if t.db.control == nil {
		var zero uint64
		t.readControl = &zero
		return election.Control{}, false, nil
	}
	v := t.db.control.version
	t.readControl = &v
	return t.db.control.control, true, nil
}

func (t *memBallotTx) CreateBallot(b election.Ballot) error {
	t.newBallot = &b
	return nil
}

func (t *memBallotTx) SetCandidateTally(id string, tally int) error {
	if t.tallySets == nil {
		t.tallySets = make(map[string]int)
	}
	t.tallySets[id] = tally
	return nil
}

func (t *memBallotTx) commit() error {
	t.db.Lock()
	defer t.db.Unlock()

	for id, version := range t.readCandidates {
		vc, ok := t.db.candidates[id]
		if !ok || vc.version != version {
			return election.ErrTxConflict
		}
	}
	for voterID, present := range t.readBallots {
		if _, ok := t.db.ballots[voterID]; ok != present {
			return election.ErrTxConflict
		}
	}
	if t.readControl != nil {
		var current uint64
		if t.db.control != nil {
			current = t.db.control.version
		}
		if current != *t.readControl {
			return election.ErrTxConflict
		}
	}

	if t.newBallot != nil {
		if _, ok := t.db.ballots[t.newBallot.VoterID]; ok {
			return election.ErrTxConflict
		}
		b := *t.newBallot
		t.db.ballots[b.VoterID] = &b
	}
	for id, tally := range t.tallySets {
		vc, ok := t.db.candidates[id]
		if !ok {
			return election.ErrTxConflict
		}
		vc.candidate.VoteTally = tally
		vc.version++
	}
	return nil
}
