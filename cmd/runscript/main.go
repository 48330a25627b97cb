// Command runscript runs a script body against typed JSON inputs and prints
// the outputs as a JSON array.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/runscript/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
