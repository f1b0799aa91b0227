package main

import (
	"os"

	"github.com/jcline/revlist/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
