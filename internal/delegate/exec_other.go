//go:build !unix

package delegate

import (
	"os"
	"os/exec"
)

// execReplace approximates process-image replacement on platforms without
// one: the delegate is spawned with inherited standard streams and this
// process exits with the delegate's exit code once it finishes. Unlike a
// true replacement, parent resources persist until the child exits.
func execReplace(path string, argv []string, env []string) error {
	cmd := exec.Command(path)
	cmd.Args = argv
	cmd.Path = path
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return err
	}
	err := cmd.Wait()
	if exitErr, ok := err.(*exec.ExitError); ok {
		os.Exit(exitErr.ExitCode())
	}
	if err != nil {
		os.Exit(1)
	}
	os.Exit(0)
	return nil
}
