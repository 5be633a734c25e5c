// Command rokit-fetch installs the latest rokit release binaries into the
// install root used by the rokit launcher.
package main

import (
	"fmt"
	"os"

	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/config"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

func main() {
	if err := runFetch(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", config.FormatError(err, config.DebugFromEnv()))
		os.Exit(1)
	}
}
