package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/osisproject0-hub/osis-sub000/core"
	"github.com/osisproject0-hub/osis-sub000/core/member"
)

// addMember updates or creates a member.Member
func (cli *commandLine) addMember(uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	mbr, err := cli.mbrRepo.GetMemberByUsernameOrEmail(ctx, uname)
	if err != nil {
		if errors.Cause(err) != member.ErrNotFound {
			return err
		}
		mbr, err = cli.mbrRepo.GetMemberByEmail(ctx, email)
	}

	active := true
	switch {
	case err == nil: // existing member
		if isAdmin {
			mbr.Roles = member.AllRoles
		}
		if err := mbr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.mbrRepo.UpdateMember(ctx, mbr, &active)
		return err
	case errors.Cause(err) == member.ErrNotFound: // new member
		mbr = member.Member{
			Name:     uname,
			Username: uname,
			Email:    email,
			IsActive: &active,
			Roles:    member.MemberRoles,
		}
		if isAdmin {
			mbr.Roles = member.AllRoles
		}
		if err := mbr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.mbrRepo.CreateMember(ctx, mbr)
		return err
	default:
		return err
	}
}
