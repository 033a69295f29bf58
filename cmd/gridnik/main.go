// Command gridnik calculates grid layouts from the command line.
package main

import (
	"os"

	"github.com/mattlean/gridnik/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
