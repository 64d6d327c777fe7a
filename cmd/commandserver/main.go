package main

import (
	"os"

	"github.com/dmitrymomot/cmdrouter/cmd/commandserver/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
