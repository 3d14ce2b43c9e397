package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/openfaas-community/faas-function-tests/framework"
)

type commandParams struct {
	rootDir   string
	filters   framework.RegexFilters
	debug     bool
	debugAll  bool
	assumeYes bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.rootDir, "dir", ".", "root directory to search for function stack files")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select functions to test")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select functions not to test")
	fs.BoolVar(&c.debug, "debug", false, "dump debug output and the process log when a function's test fails")
	fs.BoolVar(&c.debugAll, "debug-all", false, "dump debug output for every function regardless of outcome")
	fs.BoolVar(&c.assumeYes, "yes", false, "start immediately without the confirmation pause")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	return true
}
