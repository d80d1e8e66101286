// Command pakview inspects and exports the assets of a pak file.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/pakview/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
