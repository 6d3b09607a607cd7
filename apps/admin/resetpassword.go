package main

import (
	"context"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	ctx := context.Background()
	mbr, err := cli.mbrRepo.GetMemberByUsernameOrEmail(ctx, uname)
	if err != nil {
		return err
	}
	if err := mbr.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.mbrRepo.UpdateMember(ctx, mbr, nil)
	return err
}
