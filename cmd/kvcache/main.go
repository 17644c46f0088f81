package main

import (
	"os"

	"github.com/dshills/kvcache/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
