package main

import (
	"os"

	"github.com/YuminosukeSato/csvclean/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
