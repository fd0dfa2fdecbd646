package main

import (
	"os"

	"github.com/postan/postan-api/cmd/postan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
