package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/osis-sub000/core/member"
)

type memberRepository struct {
	db *sqlx.DB
}

var _ member.Repository = (*memberRepository)(nil) // interface compliance check

func NewMemberRepository(db *sqlx.DB) *memberRepository {
	return &memberRepository{db: db}
}

type dbMember struct {
	ID           string         `db:"id"`
	Name         sql.NullString `db:"name"`
	Username     sql.NullString `db:"username"`
	Email        sql.NullString `db:"email"`
	Division     string         `db:"division"`
	IsActive     bool           `db:"is_active"`
	Roles        pq.StringArray `db:"roles"`
	PasswordHash []byte         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	LastLogin    sql.NullTime   `db:"last_login"`
}

func (repo memberRepository) toDB(mbr member.Member) dbMember {
	m := dbMember{
		ID:           mbr.ID,
		Name:         sql.NullString{String: mbr.Name, Valid: mbr.Name != ""},
		Username:     sql.NullString{String: mbr.Username, Valid: mbr.Username != ""},
		Email:        sql.NullString{String: mbr.Email, Valid: mbr.Email != ""},
		Division:     mbr.Division,
		Roles:        mbr.Roles,
		PasswordHash: mbr.PasswordHash,
		CreatedAt:    mbr.CreatedAt.UTC(),
		UpdatedAt:    mbr.UpdatedAt.UTC(),
		LastLogin:    sql.NullTime{Time: mbr.LastLogin.UTC(), Valid: !mbr.LastLogin.IsZero()},
	}
	if mbr.IsActive != nil {
		m.IsActive = *mbr.IsActive
	}
	return m
}

func (repo memberRepository) fromDB(m dbMember) member.Member {
	isActive := m.IsActive
	return member.Member{
		ID:           m.ID,
		Name:         m.Name.String,
		Username:     m.Username.String,
		Email:        m.Email.String,
		Division:     m.Division,
		IsActive:     &isActive,
		Roles:        m.Roles,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		LastLogin:    m.LastLogin.Time,
	}
}

func (repo memberRepository) fromDBSlice(rows []dbMember) []member.Member {
	members := make([]member.Member, 0, len(rows))
	for _, m := range rows {
		members = append(members, repo.fromDB(m))
	}
	return members
}

// trapNoRowsErr maps psql "no rows" err to member.ErrNotFound
func trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return member.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo memberRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedMembers ...member.Member) error {
	args := []interface{}{username, email}
	q := `SELECT username = $1 FROM "member" WHERE (username = $1 OR email = $2)`
	if len(excludedMembers) > 0 {
		ids := make([]string, 0, len(excludedMembers))
		for _, m := range excludedMembers {
			ids = append(ids, m.ID)
		}
		q += " AND id != ALL($3)"
		args = append(args, pq.StringArray(ids))
	}
	q += " LIMIT 1"

	var usernameTaken bool
	err := repo.db.QueryRowContext(ctx, q, args...).Scan(&usernameTaken)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "checking member uniqueness")
	}
	if usernameTaken {
		return member.ErrUsernameExists
	}
	return member.ErrEmailExists
}

func (repo memberRepository) CreateMember(ctx context.Context, mbr member.Member) (member.Member, error) {
	mbr.ID = uuid.New().String()
	m := repo.toDB(mbr)
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO "member" (id, name, username, email, division, is_active, roles, password_hash, created_at, updated_at)
		VALUES (:id, :name, :username, :email, :division, :is_active, :roles, :password_hash, :created_at, :updated_at)`, m)
	if err != nil {
		return member.Member{}, errors.Wrap(err, "inserting member")
	}
	return repo.fromDB(m), nil
}

func (repo memberRepository) QueryAllMembers(ctx context.Context) ([]member.Member, error) {
	var rows []dbMember
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM "member" ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying members")
	}
	return repo.fromDBSlice(rows), nil
}

func (repo memberRepository) GetMemberByID(ctx context.Context, id string) (member.Member, error) {
	if _, err := uuid.Parse(id); err != nil {
		return member.Member{}, member.ErrNotFound
	}
	var m dbMember
	if err := repo.db.GetContext(ctx, &m, `SELECT * FROM "member" WHERE id = $1`, id); err != nil {
		return member.Member{}, trapNoRowsErr(err, "finding member by ID")
	}
	return repo.fromDB(m), nil
}

func (repo memberRepository) GetMemberByUsername(ctx context.Context, username string) (member.Member, error) {
	var m dbMember
	if err := repo.db.GetContext(ctx, &m, `SELECT * FROM "member" WHERE username = $1`, username); err != nil {
		return member.Member{}, trapNoRowsErr(err, "finding member by username")
	}
	return repo.fromDB(m), nil
}

func (repo memberRepository) GetMemberByEmail(ctx context.Context, email string) (member.Member, error) {
	var m dbMember
	if err := repo.db.GetContext(ctx, &m, `SELECT * FROM "member" WHERE email = $1`, email); err != nil {
		return member.Member{}, trapNoRowsErr(err, "finding member by email")
	}
	return repo.fromDB(m), nil
}

func (repo memberRepository) GetMemberByUsernameOrEmail(ctx context.Context, username string) (member.Member, error) {
	var m dbMember
	err := repo.db.GetContext(ctx, &m, `SELECT * FROM "member" WHERE username = $1 OR email = $1`, username)
	if err != nil {
		return member.Member{}, trapNoRowsErr(err, "finding member")
	}
	return repo.fromDB(m), nil
}

var memberOrderFields = map[string]string{
	"name":       "name",
	"username":   "username",
	"email":      "email",
	"division":   "division",
	"created_at": "created_at",
	"last_login": "last_login",
}

func (repo memberRepository) FilterMembers(ctx context.Context, filter member.QueryFilter) ([]member.Member, error) {
	conds := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %[1]s OR username ILIKE %[1]s OR email ILIKE %[1]s)", p))
	}
	if len(filter.Roles) > 0 {
		// members with any role that starts with any of the provided roles
		roleConds := make([]string, 0, len(filter.Roles))
		for _, role := range filter.Roles {
			roleConds = append(roleConds,
				fmt.Sprintf(`EXISTS (SELECT 1 FROM UNNEST(roles) member_role WHERE member_role ILIKE %s)`, arg(role+"%")))
		}
		conds = append(conds, "("+strings.Join(roleConds, " OR ")+")")
	}
	if filter.Division != "" {
		conds = append(conds, "division = "+arg(filter.Division))
	}
	if filter.IsActive != nil {
		conds = append(conds, "is_active = "+arg(*filter.IsActive))
	}
	if !filter.CreatedFrom.IsZero() {
		conds = append(conds, "created_at >= "+arg(filter.CreatedFrom.UTC()))
	}
	if !filter.CreatedTo.IsZero() {
		conds = append(conds, "created_at <= "+arg(filter.CreatedTo.UTC()))
	}

	q := `SELECT * FROM "member"`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += orderByClause(filter.Ordering, memberOrderFields, "name")

	var rows []dbMember
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering members")
	}
	return repo.fromDBSlice(rows), nil
}

func (repo memberRepository) UpdateMember(ctx context.Context, mbr member.Member, isActive *bool) (member.Member, error) {
	sets := []string{"updated_at = now()"}
	args := make([]interface{}, 0, 8)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if mbr.Name != "" {
		sets = append(sets, "name = "+arg(mbr.Name))
	}
	if mbr.Username != "" {
		sets = append(sets, "username = "+arg(mbr.Username))
	}
	if mbr.Email != "" {
		sets = append(sets, "email = "+arg(mbr.Email))
	}
	if mbr.Division != "" {
		sets = append(sets, "division = "+arg(mbr.Division))
	}
	if mbr.Roles != nil {
		sets = append(sets, "roles = "+arg(pq.StringArray(mbr.Roles)))
	}
	if mbr.PasswordHash != nil {
		sets = append(sets, "password_hash = "+arg(mbr.PasswordHash))
	}
	if !mbr.LastLogin.IsZero() {
		sets = append(sets, "last_login = "+arg(mbr.LastLogin.UTC()))
	}
	if isActive != nil {
		sets = append(sets, "is_active = "+arg(*isActive))
	}

	q := fmt.Sprintf(`UPDATE "member" SET %s WHERE id = %s`, strings.Join(sets, ", "), arg(mbr.ID))
	res, err := repo.db.ExecContext(ctx, q, args...)
	if err != nil {
		return member.Member{}, errors.Wrap(err, "updating member")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return member.Member{}, member.ErrNotFound
	}
	return repo.GetMemberByID(ctx, mbr.ID)
}

func (repo memberRepository) DeleteMembersByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM "member" WHERE id = ANY($1)`, pq.StringArray(ids))
	return errors.Wrap(err, "deleting members")
}
