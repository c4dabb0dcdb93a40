// Command sightline replays visibility scenarios headlessly and prints every
// threshold crossing they produce.
package main

import (
	"os"

	"github.com/phanxgames/sightline/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
