package main

import (
	"flag"
	"fmt"
	"io"
)

func newFlagSet(output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("refs-lint", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: refs-lint [paths...]\n")
		fmt.Fprintf(fs.Output(), "\nLint reference field definitions and OpenAPI x-relationships/x-reference extensions.\n")
	}
	return fs
}
