// main is the entry point for the gitpulse CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/gitpulse/cmd"
	"github.com/huangsam/gitpulse/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	iocache.CloseCaching()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error stopping profiling:", stopErr)
	}
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
