package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/osisproject0-hub/osis-sub000/core/election"
	"github.com/osisproject0-hub/osis-sub000/core/member"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db           *sqlx.DB
	mbrRepo      member.Repository
	electionRepo election.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  addmember -username USERNAME -email EMAIL [-admin] - update or create a member")
	fmt.Println("  resetpassword -username USERNAME|EMAIL - reset member's password")
	fmt.Println("  election status|open|close - inspect or toggle balloting")
	fmt.Println("  migrate COMMAND [args] - run database migrations (goose commands)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addMemberCmd := flag.NewFlagSet("addmember", flag.ExitOnError)
	addMemberUname := addMemberCmd.String("username", "", "The member's username. The password will be prompted next.")
	addMemberEmail := addMemberCmd.String("email", "", "The member's email.")
	addMemberIsAdmin := addMemberCmd.Bool("admin", false, "Grant all admin roles.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The member's username or email. The password will be prompted next.")

	switch args[1] {
	case "addmember":
		if err := addMemberCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addMemberUname == "" || *addMemberEmail == "" {
			addMemberCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addMemberCmd.Usage()
			return errHelp
		}
		return cli.addMember(*addMemberUname, *addMemberEmail, pwd, *addMemberIsAdmin)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordUname, pwd)
	case "election":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.election(args[2])
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
