package main

import (
	"os"

	"github.com/rmoura/finsim/cmd/finsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
