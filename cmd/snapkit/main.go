// Command snapkit inspects and maintains snapshot artifacts.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/snapkit/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "snapkit: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
