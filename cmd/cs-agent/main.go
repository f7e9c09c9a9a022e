package main

import (
	"os"

	"github.com/certsight-app/cs-agent/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
