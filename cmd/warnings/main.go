// Package main is a command line tool for inspecting the warning records
// kept by the file backend.
//
// Usage:
//
//	warnings list [--dir warnings]
//	warnings show <userId>
//	warnings export [--format yaml|json]
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
