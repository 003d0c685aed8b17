package main

import (
	"os"
)

// Version info (set by ldflags)
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
