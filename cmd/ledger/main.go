// Command ledger manages the resource ledger from the command line.
package main

import (
	"os"

	"github.com/mesh-intelligence/ledger/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
