package main

import (
	"context"
	"fmt"
)

// election inspects or toggles the balloting control record.
func (cli *commandLine) election(action string) error {
	ctx := context.Background()

	ctl, ok, err := cli.electionRepo.GetControl(ctx)
	if err != nil {
		return err
	}

	switch action {
	case "status":
		if !ok {
			fmt.Println("election: not configured")
			return nil
		}
		state := "closed"
		if ctl.IsOpen {
			state = "open"
		}
		fmt.Printf("election %q: %s\n", ctl.Title, state)
		return nil
	case "open":
		ctl.IsOpen = true
	case "close":
		ctl.IsOpen = false
	default:
		cli.printUsage()
		return errHelp
	}

	if _, err := cli.electionRepo.SaveControl(ctx, ctl); err != nil {
		return err
	}
	fmt.Printf("election: balloting is now %s\n", action)
	return nil
}
