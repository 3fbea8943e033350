package main

import (
	"os"

	"github.com/newobj/dexpack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
