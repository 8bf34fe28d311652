// Command julian converts between Julian Day Numbers and calendar dates.
//
// Usage:
//
//	julian [-oOq] [date ...]
//	julian regions [code ...]
package main

import (
	"fmt"
	"os"

	"github.com/zapponejosh/julian/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil && !cli.Reported(err) {
		fmt.Fprintf(os.Stderr, "julian: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
