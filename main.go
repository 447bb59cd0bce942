package main

import (
	"os"

	"github.com/niktheblak/ruuvitag-decoder/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
