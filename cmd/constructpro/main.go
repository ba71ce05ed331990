package main

import (
	"os"

	"github.com/hardhatlabs/constructpro/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
