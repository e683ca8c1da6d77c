package main

import (
	"os"

	"github.com/avoncourt/pitchvigil/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
