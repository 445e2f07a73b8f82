package main

import (
	"os"

	"github.com/dshills/codereview/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
