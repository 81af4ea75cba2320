// main is the entry point for the episense CLI.
package main

import (
	"os"

	"github.com/episense/episense/cmd"
	"github.com/episense/episense/internal/contract"
	"github.com/episense/episense/internal/iocache"
)

func main() {
	// Close stores after all command logic is complete
	defer iocache.CloseStores()

	// Wire the persistence manager into the command layer
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()

	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Failed to stop profiling", perr)
	}

	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
