package main

import (
	"log"
	"os"
)

func main() {
	logger := log.New(os.Stdout, "prestamos-admin ", log.LstdFlags)

	if err := newRootCommand(logger).Execute(); err != nil {
		os.Exit(1)
	}
}
