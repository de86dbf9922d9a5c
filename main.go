package main

import (
	"os"

	"github.com/montrey/shelf/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
