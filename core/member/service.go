package member

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/osisproject0-hub/osis-sub000/core"
)

var (
	// errors
	ErrNotFound       = errors.New("member not found")
	ErrEmailExists    = errors.New("a member with this email already exists")
	ErrUsernameExists = errors.New("a member with this username already exists")
)

type (
	Repository interface {
		CheckUsernameUniqueness(ctx context.Context, username, email string, excludedMembers ...Member) error
		CreateMember(ctx context.Context, mbr Member) (Member, error)
		QueryAllMembers(ctx context.Context) ([]Member, error)
		GetMemberByID(ctx context.Context, id string) (Member, error)
		GetMemberByUsername(ctx context.Context, username string) (Member, error)
		GetMemberByEmail(ctx context.Context, email string) (Member, error)
		GetMemberByUsernameOrEmail(ctx context.Context, username string) (Member, error)
		// FilterMembers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Name, Username or Email.
		FilterMembers(ctx context.Context, filter QueryFilter) ([]Member, error)
		UpdateMember(ctx context.Context, mbr Member, isActive *bool) (Member, error)
		DeleteMembersByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *Service) checkUniqueness(uname, email string, exclMembers ...Member) error {
	if err := svc.repo.CheckUsernameUniqueness(context.Background(), uname, email, exclMembers...); err != nil {
		var field string
		switch err {
		case ErrUsernameExists:
			field = "username"
		case ErrEmailExists:
			field = "email"
		default:
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nm NewMember) (Member, error) {
	now := time.Now().UTC()
	active := true
	mbr := Member{
		Name:      nm.Name,
		Username:  nm.Username,
		Email:     nm.Email,
		Division:  nm.Division,
		IsActive:  &active,
		Roles:     nm.Roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := mbr.SetPassword(nm.Password); err != nil {
		return Member{}, err
	}
	return svc.repo.CreateMember(ctx, mbr)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Member, error) {
	return svc.repo.QueryAllMembers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Member, error) {
	return svc.repo.GetMemberByID(ctx, id)
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (Member, error) {
	return svc.repo.GetMemberByUsername(ctx, core.CleanString(uname, true /* lower */))
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Member, error) {
	return svc.repo.GetMemberByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) GetByUsernameOrEmail(ctx context.Context, uname string) (Member, error) {
	return svc.repo.GetMemberByUsernameOrEmail(ctx, core.CleanString(uname, true /* lower */))
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]Member, error) {
	return svc.repo.FilterMembers(ctx, filter)
}

func (svc *Service) Update(ctx context.Context, id string, um UpdateMember) (Member, error) {
	mbr := Member{
		ID:        id,
		Name:      um.Name,
		Username:  um.Username,
		Email:     um.Email,
		Division:  um.Division,
		Roles:     um.Roles,
		UpdatedAt: time.Now().UTC(),
	}
	if um.Password != "" {
		if err := mbr.SetPassword(um.Password); err != nil {
			return Member{}, err
		}
	}
	return svc.repo.UpdateMember(ctx, mbr, um.IsActive)
}

func (svc *Service) SetLastLogin(ctx context.Context, mbr Member) (Member, error) {
	mbr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateMember(ctx, mbr, nil)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteMembersByID(ctx, ids...)
}

// RequestPasswordReset emails a password reset link to the member with the given email.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	mbr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := MakeToken(svc.conf, mbr)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/password-reset/%s/%s", svc.conf.FrontendBaseURL, EncodeUID(mbr), token)
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: mbr.Name, Address: mbr.Email}},
		Subject: "Password Reset",
		BodyStr: fmt.Sprintf(
			"Hi %s,\n\nYou requested a password reset for your %s account.\n"+
				"Follow this link to set a new password:\n\n%s\n\n"+
				"If you did not request this, you can safely ignore this email.",
			mbr.Name, svc.conf.AppName, url),
	})
	return nil
}

// ResetPassword sets a new password for the member identified by rp.UID,
// provided rp.Token is valid.
func (svc *Service) ResetPassword(ctx context.Context, rp ResetMemberPassword) error {
	id, err := decodeUID(rp.UID)
	if err != nil {
		return core.NewValidationError(errInvalidToken)
	}
	mbr, err := svc.GetByID(ctx, id)
	if err != nil {
		return core.NewValidationError(errInvalidToken)
	}
	if err = verifyToken(svc.conf, mbr, rp.Token); err != nil {
		return core.NewValidationError(err)
	}
	if err = mbr.SetPassword(rp.Password); err != nil {
		return err
	}
	mbr.UpdatedAt = time.Now().UTC()
	_, err = svc.repo.UpdateMember(ctx, mbr, nil)
	return err
}
