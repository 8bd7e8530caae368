// Package main is fnctl, a command-line client for deployed function
// services. It invokes actions through the same instrumented HTTP client the
// services use for each other and mints bearer tokens for functions that
// have authorization enabled.
//
//	fnctl invoke dummies.get_dummies --data '{"paging":{"take":5}}'
//	fnctl token --subject alice --claim role=writer
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
