package main

import (
	"os"

	"frizo/futures_grid/cmd/futures_grid/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
