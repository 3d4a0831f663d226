// Package buildinfo exposes the version identity of the lofreq binary.
// Values can be overridden at build time via -ldflags, e.g.:
//
//	-ldflags "-X 'lofreq/internal/buildinfo.Version=0.6.1' -X 'lofreq/internal/buildinfo.Commit=abc1234'"
package buildinfo

var (
	// Version is the version identifier printed by the version command.
	// It must stay a single token with no trailing whitespace so that
	// the command output is exactly one line.
	Version = "0.6.1"

	// Commit is the VCS commit hash the binary was built from (optional).
	Commit = ""

	// Date is the build date (optional).
	Date = ""
)
