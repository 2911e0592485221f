// Command traitforge is a thin CLI host around the generation engine: it
// loads a request, runs the engine, and writes images/<index>.png and
// metadata/<index>.json to an output directory. It uses only the engine
// packages' exported constructors and entry points (pkg/request,
// pkg/ledger, pkg/compositor, pkg/telemetry, pkg/logging, pkg/scheduler,
// pkg/rarity, pkg/visualize).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
