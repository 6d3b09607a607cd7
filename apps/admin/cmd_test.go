package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/osisproject0-hub/osis-sub000/core/election"
	"github.com/osisproject0-hub/osis-sub000/core/member"
	dummydb "github.com/osisproject0-hub/osis-sub000/storage/database/dummy"
	"github.com/osisproject0-hub/osis-sub000/tests"
)

var (
	mbrRepo      member.Repository
	electionRepo election.Repository
)

func setup(t *testing.T) *commandLine {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	mbrRepo = dummydb.NewMemberRepository(db)
	electionRepo = dummydb.NewElectionRepository(db)

	// start CLI; migrate is mocked so no real connection is needed
	return &commandLine{
		db:           &sqlx.DB{},
		mbrRepo:      mbrRepo,
		electionRepo: electionRepo,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "gallery", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	mbr := testutil.CreateMember(t, mbrRepo, "Member", "awe", "awe@test.test", "mdr", nil, true)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "member not found", args: []string{"resetpassword", "-username", "lol"}, extra: extra{pwd: "lol"}, wantErr: member.ErrNotFound},
		{name: "reset with username", args: []string{"resetpassword", "-username", mbr.Username}, extra: extra{pwd: "lol"}},
		{name: "reset with email", args: []string{"resetpassword", "-username", mbr.Email}, extra: extra{pwd: "lmao"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedMbr, err := mbrRepo.GetMemberByID(context.Background(), mbr.ID)
				if err != nil {
					t.Fatalf("GetMemberByID() failed: %v", err)
				}
				if bytes.Equal(refreshedMbr.PasswordHash, mbr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_addMember(t *testing.T) {
	cli := setup(t)

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("s3cr3t"), nil }

	t.Run("creates a new member", func(t *testing.T) {
		if err := cli.run([]string{"admin", "addmember", "-username", "pembina", "-email", "pembina@test.test", "-admin"}); err != nil {
			t.Fatalf("cli.run() failed: %v", err)
		}
		mbr, err := mbrRepo.GetMemberByUsername(context.Background(), "pembina")
		if err != nil {
			t.Fatalf("GetMemberByUsername() failed: %v", err)
		}
		if !mbr.IsAdmin() {
			t.Errorf("Roles = %v, want admin roles", mbr.Roles)
		}
		if mbr.IsActive == nil || !*mbr.IsActive {
			t.Error("new member is not active")
		}
		if err = mbr.CheckPassword("s3cr3t"); err != nil {
			t.Errorf("CheckPassword() failed: %v", err)
		}
	})

	t.Run("updates an existing member", func(t *testing.T) {
		existing := testutil.CreateMember(t, mbrRepo, "Member", "siswa", "siswa@test.test", "old", member.MemberRoles, false)

		if err := cli.run([]string{"admin", "addmember", "-username", "siswa", "-email", "siswa@test.test"}); err != nil {
			t.Fatalf("cli.run() failed: %v", err)
		}
		mbr, err := mbrRepo.GetMemberByID(context.Background(), existing.ID)
		if err != nil {
			t.Fatalf("GetMemberByID() failed: %v", err)
		}
		if mbr.IsActive == nil || !*mbr.IsActive {
			t.Error("existing member was not reactivated")
		}
		if err = mbr.CheckPassword("s3cr3t"); err != nil {
			t.Errorf("CheckPassword() failed: %v", err)
		}
	})
}

func Test_commandLine_election(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	if _, err := electionRepo.SaveControl(ctx, election.Control{Title: "Ketua OSIS", IsOpen: false}); err != nil {
		t.Fatalf("SaveControl() failed: %v", err)
	}

	tests := []cliTest{
		{name: "no action", args: []string{"election"}, wantErr: errHelp},
		{name: "unknown action", args: []string{"election", "lol"}, wantErr: errHelp},
		{name: "status", args: []string{"election", "status"}},
		{name: "open", args: []string{"election", "open"}, extra: true},
		{name: "close", args: []string{"election", "close"}, extra: false},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err != tt.wantErr {
				t.Fatalf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if wantOpen, ok := tt.extra.(bool); ok {
				ctl, _, err := electionRepo.GetControl(ctx)
				if err != nil {
					t.Fatalf("GetControl() failed: %v", err)
				}
				if ctl.IsOpen != wantOpen {
					t.Errorf("IsOpen = %v, want %v", ctl.IsOpen, wantOpen)
				}
			}
		})
	}
}
