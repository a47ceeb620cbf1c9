package main

import (
	"os"

	"github.com/deepsea/deepsea/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
