package main

import (
	"fmt"
	"os"

	"github.com/crytic/selectors/cmd"
	"github.com/crytic/selectors/cmd/exitcodes"
)

func main() {
	// Run our root CLI command, which contains all underlying command logic and will handle parsing/invocation.
	err := cmd.Execute()

	// Errors wrapped with an exit code have already been logged by the command that produced them.
	_, handled := err.(*exitcodes.ErrorWithExitCode)
	err, exitCode := exitcodes.GetInnerErrorAndExitCode(err)
	if err != nil && !handled {
		fmt.Fprintln(os.Stderr, err)
	}

	if exitCode != exitcodes.ExitCodeSuccess {
		os.Exit(exitCode)
	}
}
