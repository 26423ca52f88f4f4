package main

import (
	"os"

	"github.com/raflibima25/go-electroshop/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
