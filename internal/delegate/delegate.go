// Package delegate hands the current process over to an external program.
// Delegation is a full hand-off: on success the delegate owns the OS
// process and control never returns here. The caller therefore only ever
// observes launch failures.
package delegate

import (
	"os"
	"os/exec"

	"lofreq/internal/errors"
)

// ForwardedArgs builds the argument vector handed to an external delegate.
// The caller's program name keeps slot 0 and the subcommand token is
// dropped, so the delegate sees the remaining arguments shifted left by
// exactly one position. The returned slice is freshly allocated and owned
// by the delegation attempt.
func ForwardedArgs(prog string, rest []string) []string {
	argv := make([]string, 0, len(rest)+1)
	argv = append(argv, prog)
	argv = append(argv, rest...)
	return argv
}

// replaceProcess performs the platform-specific process-image replacement.
// Swapped out in tests.
var replaceProcess = execReplace

// Replace resolves name on the process search path and replaces the
// current process image with it, passing argv as the full argument vector
// (argv[0] included) and inheriting the environment. On success it never
// returns. Every returned error is a DelegateError.
func Replace(name string, argv []string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return errors.NewDelegateError(name, "not found on search path", err)
	}
	if err := replaceProcess(path, argv, os.Environ()); err != nil {
		return errors.NewDelegateError(name, "could not start", err)
	}
	// Unreachable on unix; the spawn-and-wait approximation exits above.
	return nil
}
