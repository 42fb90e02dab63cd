package main

import (
	"os"

	"smalldoc/internal/cliapp"
)

func main() {
	os.Exit(cliapp.Run(os.Args[1:]))
}
