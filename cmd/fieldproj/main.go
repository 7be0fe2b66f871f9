// Package main provides the CLI entrypoint for fieldproj.
//
// fieldproj is a Go codegen tool that:
//   - Parses Go packages (AST + go/types) to find aggregates marked with
//     //fieldproj:generate or listed in a schema file
//   - Applies the pin projection policy and derives relocatability
//   - Generates typed field descriptor sets for the projection runtime
package main

import (
	"os"

	"field-projection/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
