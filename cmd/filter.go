package cmd

import (
	"io"

	"lofreq/internal/delegate"
	"lofreq/internal/errors"
	"lofreq/internal/log"
)

// filterProgram is the external tool that owns variant filtering. It is
// resolved through PATH at delegation time.
const filterProgram = "lofreq2_filter.py"

// replaceFilterProcess performs the actual process-image replacement.
// Swapped in tests, where replacing the test binary would be unhelpful.
var replaceFilterProcess = delegate.Replace

// runFilter hands the process over to the external filter. The delegate
// receives the original program name at argument zero followed by
// everything after the subcommand token, untouched. On success control
// never comes back here; reaching the lines below means the delegate
// could not be started.
func runFilter(prog string, rest []string, stderr io.Writer) int {
	argv := delegate.ForwardedArgs(prog, rest)
	err := replaceFilterProcess(filterProgram, argv)
	log.New(stderr, log.LevelWarn).Errorf("calling %s failed: %v", filterProgram, err)
	return errors.ExitCode(err)
}
