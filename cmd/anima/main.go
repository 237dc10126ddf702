// Command anima drives animation scenarios from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/anima/cmd/anima/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
