package main

import (
	"os"

	"github.com/linguakit/linguakit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
