package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/osis-sub000/core/election"
)

type electionRepository struct {
	db *sqlx.DB
}

var _ election.Repository = (*electionRepository)(nil) // interface compliance check

func NewElectionRepository(db *sqlx.DB) *electionRepository {
	return &electionRepository{db: db}
}

const candidateColumns = `id, name, vision, mission, photo_ref AS "photoref", "order",
	vote_tally AS "votetally", created_at AS "createdat", updated_at AS "updatedat"`

func (repo electionRepository) CreateCandidate(ctx context.Context, c election.Candidate) (election.Candidate, error) {
	c.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO candidate (id, name, vision, mission, photo_ref, "order", vote_tally, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8)`,
		c.ID, c.Name, c.Vision, c.Mission, c.PhotoRef, c.Order, c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	if err != nil {
		return election.Candidate{}, errors.Wrap(err, "inserting candidate")
	}
	c.VoteTally = 0
	return c, nil
}

func (repo electionRepository) QueryCandidates(ctx context.Context) ([]election.Candidate, error) {
	candidates := make([]election.Candidate, 0)
	err := repo.db.SelectContext(ctx, &candidates,
		`SELECT `+candidateColumns+` FROM candidate ORDER BY "order", name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying candidates")
	}
	return candidates, nil
}

func (repo electionRepository) GetCandidateByID(ctx context.Context, id string) (election.Candidate, error) {
	var c election.Candidate
	err := repo.db.GetContext(ctx, &c, `SELECT `+candidateColumns+` FROM candidate WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return election.Candidate{}, election.ErrCandidateNotFound
	}
	if err != nil {
		return election.Candidate{}, errors.Wrap(err, "finding candidate")
	}
	return c, nil
}

// UpdateCandidate persists metadata edits; vote_tally is deliberately not in
// the column list so administrative edits can never touch it.
func (repo electionRepository) UpdateCandidate(ctx context.Context, c election.Candidate) (election.Candidate, error) {
	res, err := repo.db.ExecContext(ctx, `
		UPDATE candidate SET name = $2, vision = $3, mission = $4, photo_ref = $5, "order" = $6, updated_at = $7
		WHERE id = $1`,
		c.ID, c.Name, c.Vision, c.Mission, c.PhotoRef, c.Order, c.UpdatedAt.UTC())
	if err != nil {
		return election.Candidate{}, errors.Wrap(err, "updating candidate")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return election.Candidate{}, election.ErrCandidateNotFound
	}
	return repo.GetCandidateByID(ctx, c.ID)
}

func (repo electionRepository) DeleteCandidatesByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM candidate WHERE id = ANY($1)`, pq.StringArray(ids))
	return errors.Wrap(err, "deleting candidates")
}

func (repo electionRepository) GetBallot(ctx context.Context, voterID string) (election.Ballot, error) {
	var b election.Ballot
	err := repo.db.GetContext(ctx, &b, `
		SELECT voter_id AS "voterid", candidate_id AS "candidateid", cast_at AS "castat"
		FROM ballot WHERE voter_id = $1`, voterID)
	if err == sql.ErrNoRows {
		return election.Ballot{}, election.ErrBallotNotFound
	}
	if err != nil {
		return election.Ballot{}, errors.Wrap(err, "finding ballot")
	}
	return b, nil
}

func (repo electionRepository) CountBallots(ctx context.Context) (int, error) {
	var cnt int
	if err := repo.db.GetContext(ctx, &cnt, `SELECT COUNT(*) FROM ballot`); err != nil {
		return 0, errors.Wrap(err, "counting ballots")
	}
	return cnt, nil
}

func (repo electionRepository) GetControl(ctx context.Context) (election.Control, bool, error) {
	var row dbControl
	err := repo.db.GetContext(ctx, &row, `SELECT title, is_open, starts_at, ends_at FROM election_control WHERE id = 1`)
	if err == sql.ErrNoRows {
		return election.Control{}, false, nil
	}
	if err != nil {
		return election.Control{}, false, errors.Wrap(err, "finding election control")
	}
	return row.control(), true, nil
}

func (repo electionRepository) SaveControl(ctx context.Context, ctl election.Control) (election.Control, error) {
	var startsAt, endsAt interface{}
	if !ctl.StartsAt.IsZero() {
		startsAt = ctl.StartsAt.UTC()
	}
	if !ctl.EndsAt.IsZero() {
		endsAt = ctl.EndsAt.UTC()
	}
	_, err := repo.db.ExecContext(ctx, `
		INSERT INTO election_control (id, title, is_open, starts_at, ends_at)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET title = $1, is_open = $2, starts_at = $3, ends_at = $4`,
		ctl.Title, ctl.IsOpen, startsAt, endsAt)
	if err != nil {
		return election.Control{}, errors.Wrap(err, "saving election control")
	}
	return ctl, nil
}

// RunBallotTx runs fn inside a SERIALIZABLE transaction. A serialization
// failure or a duplicate ballot key at commit is reported as
// election.ErrTxConflict so the casting protocol retries with fresh reads;
// the retry then observes the committed state.
func (repo electionRepository) RunBallotTx(ctx context.Context, fn func(tx election.Tx) error) error {
	tx, err := repo.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return errors.Wrap(err, "beginning ballot transaction")
	}

	if err = fn(&pgBallotTx{ctx: ctx, tx: tx}); err != nil {
		_ = tx.Rollback()
		return trapConflictErr(err, "running ballot transaction")
	}
	if err = tx.Commit(); err != nil {
		return trapConflictErr(err, "committing ballot transaction")
	}
	return nil
}

// trapConflictErr maps retryable psql errs to election.ErrTxConflict.
func trapConflictErr(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code.Class() == "40": // serialization_failure, deadlock_detected
			return election.ErrTxConflict
		case pqErr.Code == "23505": // unique_violation: concurrent ballot for the same voter
			return election.ErrTxConflict
		}
	}
	if terminal(err) {
		return err
	}
	return errors.Wrap(err, msg)
}

func terminal(err error) bool {
	return errors.Is(err, election.ErrAlreadyVoted) ||
		errors.Is(err, election.ErrCandidateNotFound) ||
		errors.Is(err, election.ErrBallotingClosed)
}

type pgBallotTx struct {
	ctx context.Context
	tx  *sqlx.Tx
}

var _ election.Tx = (*pgBallotTx)(nil)

func (t *pgBallotTx) GetCandidate(id string) (election.Candidate, error) {
	var c election.Candidate
	err := t.tx.GetContext(t.ctx, &c, `SELECT `+candidateColumns+` FROM candidate WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return election.Candidate{}, election.ErrCandidateNotFound
	}
	if err != nil {
		return election.Candidate{}, errors.Wrap(err, "finding candidate in tx")
	}
	return c, nil
}

func (t *pgBallotTx) GetBallot(voterID string) (election.Ballot, bool, error) {
	var b election.Ballot
	err := t.tx.GetContext(t.ctx, &b, `
		SELECT voter_id AS "voterid", candidate_id AS "candidateid", cast_at AS "castat"
		FROM ballot WHERE voter_id = $1`, voterID)
	if err == sql.ErrNoRows {
		return election.Ballot{}, false, nil
	}
	if err != nil {
		return election.Ballot{}, false, errors.Wrap(err, "finding ballot in tx")
	}
	return b, true, nil
}

func (t *pgBallotTx) GetControl() (election.Control, bool, error) {
	var row dbControl
	err := t.tx.GetContext(t.ctx, &row, `SELECT title, is_open, starts_at, ends_at FROM election_control WHERE id = 1`)
	if err == sql.ErrNoRows {
		return election.Control{}, false, nil
	}
	if err != nil {
		return election.Control{}, false, errors.Wrap(err, "finding election control in tx")
	}
	return row.control(), true, nil
}

func (t *pgBallotTx) CreateBallot(b election.Ballot) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO ballot (voter_id, candidate_id, cast_at) VALUES ($1, $2, $3)`,
		b.VoterID, b.CandidateID, b.CastAt.UTC())
	return err
}

func (t *pgBallotTx) SetCandidateTally(id string, tally int) error {
	_, err := t.tx.ExecContext(t.ctx, `UPDATE candidate SET vote_tally = $2 WHERE id = $1`, id, tally)
	return err
}

type dbControl struct {
	Title    string       `db:"title"`
	IsOpen   bool         `db:"is_open"`
	StartsAt sql.NullTime `db:"starts_at"`
	EndsAt   sql.NullTime `db:"ends_at"`
}

func (c dbControl) control() election.Control {
	return election.Control{
		Title:    c.Title,
		IsOpen:   c.IsOpen,
		StartsAt: c.StartsAt.Time,
		EndsAt:   c.EndsAt.Time,
	}
}
