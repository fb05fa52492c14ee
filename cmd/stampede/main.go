package main

import (
	"os"

	"github.com/bmowrey/stampede/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
