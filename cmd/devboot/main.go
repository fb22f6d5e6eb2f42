package main

import (
	"os"

	"github.com/superclaud/devboot/cmd/devboot/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
