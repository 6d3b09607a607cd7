package dummydb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osisproject0-hub/osis-sub000/core"
	"github.com/osisproject0-hub/osis-sub000/core/member"
)

type memberRepository struct {
	db *memberTable
}

var _ member.Repository = (*memberRepository)(nil) // interface compliance check

func NewMemberRepository(db *DB) member.Repository {
	return &memberRepository{db: db.member}
}

func (repo *memberRepository) query() []member.Member {
	members := make([]member.Member, 0, len(repo.db.table))
	for _, m := range repo.db.table {
		members = append(members, *m)
	}
	return members
}

func (repo *memberRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedMembers ...member.Member) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	exclLen := len(excludedMembers)
	if exclLen > 1 {
		sort.Slice(excludedMembers, func(i, j int) bool { return excludedMembers[i].ID < excludedMembers[j].ID })
	}

	for _, mbr := range repo.query() {
		if mbr.Username == username && !isExcluded(mbr, excludedMembers, exclLen) {
			return member.ErrUsernameExists
		}
		if mbr.Email == email && !isExcluded(mbr, excludedMembers, exclLen) {
			return member.ErrEmailExists
		}
	}
	return nil
}

func (repo *memberRepository) CreateMember(ctx context.Context, mbr member.Member) (member.Member, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	mbr.ID = uuid.New().String()
	repo.db.table[mbr.ID] = &mbr
	return mbr, nil
}

func (repo *memberRepository) QueryAllMembers(ctx context.Context) ([]member.Member, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *memberRepository) GetMemberByID(ctx context.Context, id string) (member.Member, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if mbr, ok := repo.db.table[id]; ok {
		return *mbr, nil
	}
	return member.Member{}, member.ErrNotFound
}

func (repo *memberRepository) GetMemberByUsername(ctx context.Context, username string) (member.Member, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, mbr := range repo.query() {
		if mbr.Username == username {
			return mbr, nil
		}
	}
	return member.Member{}, member.ErrNotFound
}

func (repo *memberRepository) GetMemberByEmail(ctx context.Context, email string) (member.Member, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, mbr := range repo.query() {
		if mbr.Email == email {
			return mbr, nil
		}
	}
	return member.Member{}, member.ErrNotFound
}

func (repo *memberRepository) GetMemberByUsernameOrEmail(ctx context.Context, username string) (member.Member, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, mbr := range repo.query() {
		if (mbr.Username == username) || (mbr.Email == username) {
			return mbr, nil
		}
	}
	return member.Member{}, member.ErrNotFound
}

func (repo *memberRepository) FilterMembers(ctx context.Context, filter member.QueryFilter) ([]member.Member, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	members := repo.query()

	// members with search keyword matching any Name, Username or Email ?
	if filter.Search != "" {
		var filtered []member.Member
		for _, m := range members {
			if strings.Contains(strings.ToLower(m.Username), strings.ToLower(filter.Search)) ||
				strings.Contains(strings.ToLower(m.Email), strings.ToLower(filter.Search)) ||
				strings.Contains(strings.ToLower(m.Name), strings.ToLower(filter.Search)) {
				filtered = append(filtered, m)
			}
		}
		members = filtered
	}
	// members with any of the specified roles
	if members != nil && len(filter.Roles) > 0 {
		var filtered []member.Member
		for _, m := range members {
			for _, r := range filter.Roles {
				if m.RoleStartsWith(r) {
					filtered = append(filtered, m)
					break
				}
			}
		}
		members = filtered
	}
	if members != nil && filter.Division != "" {
		var filtered []member.Member
		for _, m := range members {
			if m.Division == filter.Division {
				filtered = append(filtered, m)
			}
		}
		members = filtered
	}
	if members != nil && filter.IsActive != nil {
		var filtered []member.Member
		for _, m := range members {
			if m.IsActive != nil && *m.IsActive == *filter.IsActive {
				filtered = append(filtered, m)
			}
		}
		members = filtered
	}
	if members != nil && !filter.CreatedFrom.IsZero() {
		var filtered []member.Member
		timeUTC := filter.CreatedFrom.UTC()
		for _, m := range members {
			if m.CreatedAt.Equal(timeUTC) || m.CreatedAt.After(timeUTC) {
				filtered = append(filtered, m)
			}
		}
		members = filtered
	}
	if members != nil && !filter.CreatedTo.IsZero() {
		var filtered []member.Member
		timeUTC := filter.CreatedTo.UTC()
		for _, m := range members {
			if m.CreatedAt.Before(timeUTC) || m.CreatedAt.Equal(timeUTC) {
				filtered = append(filtered, m)
			}
		}
		members = filtered
	}

	if len(filter.Ordering) > 0 {
		sortMembers(members, filter.Ordering)
	}

	return members, nil
}

func sortMembers(members []member.Member, ords []core.DBOrdering) {
	sort.SliceStable(members, func(i, j int) bool {
		for _, ord := range ords {
			a, b := memberOrderKey(members[i], ord.Field), memberOrderKey(members[j], ord.Field)
			if a == b {
				continue
			}
			if ord.Ascending {
				return a < b
			}
			return a > b
		}
		return false
	})
}

func memberOrderKey(m member.Member, field string) string {
	switch field {
	case "name":
		return m.Name
	case "username":
		return m.Username
	case "email":
		return m.Email
	case "division":
		return m.Division
	case "created_at":
		return m.CreatedAt.Format(time.RFC3339Nano)
	case "last_login":
		return m.LastLogin.Format(time.RFC3339Nano)
	}
	return ""
}

func (repo *memberRepository) UpdateMember(ctx context.Context, mbr member.Member, isActive *bool) (member.Member, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	origMbr, ok := repo.db.table[mbr.ID]
	if !ok {
		return member.Member{}, member.ErrNotFound
	}
	if mbr.Roles != nil {
		origMbr.Roles = mbr.Roles
	}
	if mbr.PasswordHash != nil {
		origMbr.PasswordHash = mbr.PasswordHash
	}
	if isActive != nil {
		origMbr.IsActive = isActive
	}
	if !mbr.LastLogin.IsZero() {
		origMbr.LastLogin = mbr.LastLogin
	}
	origMbr.Name = mbr.Name
	origMbr.Username = mbr.Username
	origMbr.Email = mbr.Email
	origMbr.Division = mbr.Division
	origMbr.UpdatedAt = mbr.UpdatedAt

	repo.db.table[mbr.ID] = origMbr
	return *origMbr, nil
}

func (repo *memberRepository) DeleteMembersByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func isExcluded(mbr member.Member, excludedMembers []member.Member, n int) bool {
	if n <= 0 {
		return false
	}
	idx := sort.Search(n, func(i int) bool { return excludedMembers[i].ID >= mbr.ID })
	return idx < n && excludedMembers[idx].ID == mbr.ID
}
