package main

import (
	"os"

	"github.com/scan-io-git/taintgraph/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
