package main

import (
	"os"

	"github.com/ppiankov/liarlens/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
