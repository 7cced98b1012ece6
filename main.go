package main

import (
	"os"

	"github.com/dataforge-hq/dataforge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
