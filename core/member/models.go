package member

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/osisproject0-hub/osis-sub000/core"
)

// Roles
const (
	// Admin (pembina & inti)
	RoleAdmin          = "admin:"
	RoleAdminChair     = "admin:chair"
	RoleAdminTreasurer = "admin:treasurer"

	// Board (pengurus)
	RoleBoard             = "board:"
	RoleBoardSecretary    = "board:secretary"
	RoleBoardDivisionHead = "board:division-head"

	// Member
	RoleMember = "member:"
)

var (
	AdminRoles  = []string{RoleAdmin, RoleAdminChair, RoleAdminTreasurer}
	BoardRoles  = []string{RoleBoard, RoleBoardSecretary, RoleBoardDivisionHead}
	MemberRoles = []string{RoleMember}
	AllRoles    = getAllRoles()

	rolePriorities = map[string]int{
		// Admins: 30 - 21
		RoleAdminChair:     30,
		RoleAdminTreasurer: 29,
		RoleAdmin:          21,

		// Board: 20 - 11
		RoleBoardSecretary:    13,
		RoleBoardDivisionHead: 12,
		RoleBoard:             11,

		// Members: 10 - 1
		RoleMember: 1,
	}

	Roles = []Role{
		{Name: "Member", Value: RoleMember},
		{Name: "Board", Value: RoleBoard},
		{Name: "Division Head", Value: RoleBoardDivisionHead},
		{Name: "Secretary", Value: RoleBoardSecretary},
		{Name: "Admin", Value: RoleAdmin},
		{Name: "Treasurer", Value: RoleAdminTreasurer},
		{Name: "Chair", Value: RoleAdminChair},
	}
)

func getAllRoles() []string {
	all := make([]string, 0, 7)
	all = append(all, AdminRoles...)
	all = append(all, BoardRoles...)
	all = append(all, MemberRoles...)
	return all
}

func RolePriority(role string) int {
	return rolePriorities[role]
}

func MaxRolePriority(roles []string) int {
	var max int
	for _, role := range roles {
		if RolePriority(role) > max {
			max = RolePriority(role)
		}
	}
	return max
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Member struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Division     string    `json:"division"`
	IsActive     *bool     `json:"is_active"`
	Roles        []string  `json:"roles"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (m *Member) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	m.PasswordHash = hash
	return nil
}

func (m *Member) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(m.PasswordHash, []byte(pwd))
}

func (m *Member) RoleStartsWith(prefix string) bool {
	for _, role := range m.Roles {
		if strings.HasPrefix(role, prefix) {
			return true
		}
	}
	return false
}

func (m *Member) IsAdmin() bool {
	return m.RoleStartsWith(RoleAdmin)
}

func (m *Member) IsBoard() bool {
	return m.RoleStartsWith(RoleBoard)
}

func (m *Member) IsTreasurer() bool {
	return m.RoleStartsWith(RoleAdminTreasurer)
}

// NewMember contains information needed to create a new Member.
type NewMember struct {
	Name            string   `json:"name" validate:"required"`
	Username        string   `json:"username" validate:"omitempty,min=6,alphanum_"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Division        string   `json:"division"`
	Password        string   `json:"password" validate:"required"`
	PasswordConfirm string   `json:"password_confirm" validate:"required,eqfield=Password"`
	Roles           []string `json:"roles" validate:"omitempty,allroles"`
}

func (nm *NewMember) Validate(validate *validator.Validate, svc *Service) error {
	nm.Name = core.CleanString(nm.Name)
	nm.Username = core.CleanString(nm.Username, true /* lower */)
	nm.Email = core.CleanString(nm.Email, true /* lower */)
	nm.Division = core.CleanString(nm.Division)

	if err := validate.Struct(nm); err != nil {
		return err
	}
	return svc.checkUniqueness(nm.Username, nm.Email)
}

// UpdateMember defines what information may be provided to modify an existing Member.
type UpdateMember struct {
	Name            string   `json:"name"`
	Username        string   `json:"username" validate:"omitempty,min=6,alphanum_"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Division        string   `json:"division"`
	IsActive        *bool    `json:"is_active"`
	Roles           []string `json:"roles" validate:"omitempty,allroles"`
	Password        string   `json:"password" validate:"omitempty"`
	PasswordConfirm string   `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (um *UpdateMember) Validate(validate *validator.Validate, svc *Service, origMbr Member) error {
	if name := core.CleanString(um.Name); name != "" {
		um.Name = name
	} else {
		um.Name = origMbr.Name
	}

	if uname := core.CleanString(um.Username, true /* lower */); uname != "" {
		um.Username = uname
	} else {
		um.Username = origMbr.Username
	}

	if email := core.CleanString(um.Email, true /* lower */); email != "" {
		um.Email = email
	} else {
		um.Email = origMbr.Email
	}

	if division := core.CleanString(um.Division); division != "" {
		um.Division = division
	} else {
		um.Division = origMbr.Division
	}

	if err := validate.Struct(um); err != nil {
		return err
	}
	return svc.checkUniqueness(um.Username, um.Email, origMbr)
}

type ResetMemberPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetMemberPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(rp)
}

type QueryFilter struct {
	Search      string    `query:"search"`
	Roles       []string  `query:"role"`
	Division    string    `query:"division"`
	IsActive    *bool     `query:"is_active"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`

	Ordering []core.DBOrdering `query:"-"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Roles == nil && qf.Division == "" && qf.IsActive == nil &&
		qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero() && len(qf.Ordering) == 0
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Division = core.CleanString(qf.Division)
}
