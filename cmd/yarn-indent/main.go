package main

import (
	"fmt"
	"io"
	"os"

	"github.com/r9s-ai/yarn-indent/cli"
)

// Set via -ldflags "-X main.version=..." at release time.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	err := cli.Run(args, cli.Options{
		Stdin:  in,
		Stdout: out,
		Stderr: errOut,
		BuildInfo: cli.BuildInfo{
			Version:   version,
			Commit:    commit,
			BuildDate: buildDate,
		},
	})
	if err != nil {
		_, _ = fmt.Fprintf(errOut, "yarn-indent: %v\n", err)
		return 1
	}
	return 0
}
