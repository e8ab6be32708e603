// Command lightspec analyzes unit test profiling telemetry and recommends
// optimizations.
package main

import (
	"os"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
