// main is the entry point for the sprintlens CLI.
package main

import (
	"fmt"
	"os"

	"github.com/sprintlens/sprintlens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
