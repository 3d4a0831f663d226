//go:build unix

package delegate

import "syscall"

// execReplace replaces the current process image. It only returns on
// failure; the new program takes over the process entirely otherwise.
func execReplace(path string, argv []string, env []string) error {
	return syscall.Exec(path, argv, env)
}
