// Package cmd implements the lofreq command-line front end: a router that
// matches the first argument against the closed set of subcommands and
// hands control to an in-process handler (call), an external program
// (filter) or the version printer.
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"lofreq/internal/buildinfo"
	"lofreq/internal/errors"
	"lofreq/internal/log"
)

// command is the closed set of subcommand tokens. Matching is exact and
// case-sensitive.
type command string

const (
	cmdCall    command = "call"
	cmdFilter  command = "filter"
	cmdVersion command = "version"
)

// callHandler is the in-process variant-calling entry point. It receives
// the invocation starting at the subcommand token, so it sees its own
// name as argument zero, and its return value becomes the process exit
// code unchanged. Swapped in tests.
var callHandler = callMain

// Execute dispatches os.Args and terminates the process with the
// resulting exit code. When the filter delegation succeeds this never
// returns at all; the delegate owns the process from then on.
func Execute() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run dispatches one invocation. args is the full argument vector
// including the program name at index 0.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		printUsage(stderr, progName(args))
		return errors.NewUsageError("no command given").ExitCode()
	}

	switch command(args[1]) {
	case cmdCall:
		return callHandler(args[1:], stdout, stderr)
	case cmdFilter:
		return runFilter(args[0], args[2:], stderr)
	case cmdVersion:
		// Trailing arguments are deliberately ignored.
		fmt.Fprintln(stdout, buildinfo.Version)
		return errors.ExitSuccess
	default:
		unknown := errors.NewUnknownCommandError(args[1])
		log.New(stderr, log.LevelWarn).Fatalf("%s", unknown.Message)
		return unknown.ExitCode()
	}
}

func progName(args []string) string {
	if len(args) == 0 || args[0] == "" {
		return "lofreq"
	}
	return filepath.Base(args[0])
}

func printUsage(w io.Writer, prog string) {
	fmt.Fprintf(w, "lofreq: fast and sensitive inference of single-nucleotide variants\n")
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Usage: %s <command> [options], where command is one of:\n", prog)
	fmt.Fprintf(w, "  call    : call variants\n")
	fmt.Fprintf(w, "  filter  : filter variants\n")
	fmt.Fprintf(w, "  version : print version\n")
	fmt.Fprintf(w, "\n")
}
