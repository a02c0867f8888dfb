// Package main is the entry point for the Ninox SNMP traffic inspector.
package main

import (
	"fmt"
	"os"

	"firestige.xyz/ninox/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
