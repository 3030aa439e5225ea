// main is the entry point for the strides CLI.
package main

import (
	"fmt"
	"os"

	"github.com/vvasiu/strides/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
