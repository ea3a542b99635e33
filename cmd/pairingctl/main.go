// Command pairingctl is the CLI front end SPEC_FULL.md §9 names: it runs
// named curve presets (internal/config) and starts the optional ambient
// servers (internal/metrics, internal/rpc), mirroring
// cmd/drand-cli's main-delegates-to-CLI()-delegates-to-app.Run shape.
package main

import (
	"fmt"
	"os"

	"github.com/drand/pairing/internal/pairingctl"
)

func main() {
	app := pairingctl.CLI()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}
