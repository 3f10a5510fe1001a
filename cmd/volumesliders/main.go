// Command volumesliders applies zone-triggered sound channel overrides.
package main

import (
	"fmt"
	"os"

	"github.com/SheldonMichaels/WoW-Volume-Sliders/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands that already reported the error in --format json
		// still print the one-line reason on stderr.
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
