package main

import (
	"os"

	"github.com/liancar/yard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
