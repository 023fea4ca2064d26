// Command tourplanner manages a local catalog of tours and their logs.
package main

import (
	"fmt"
	"os"

	"github.com/Davimalu/TourPlanner-sub000/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands that already reported the failure through the output
		// formatter still return an ExitError; print only the message here.
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
