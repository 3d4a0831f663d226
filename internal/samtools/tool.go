package samtools

import (
	"bytes"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"lofreq/internal/errors"
)

// DefaultBinary is the samtools executable resolved on the search path
// when the configuration does not name one.
const DefaultBinary = "samtools"

// Header returns the raw SAM header lines of a BAM file via
// `samtools view -H`.
func Header(samtools, bam string) ([]string, error) {
	cmd := exec.Command(samtools, "view", "-H", bam)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.NewExternalToolError(samtools,
			"view -H failed: "+firstLine(stderr.String()), err)
	}

	var lines []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// Version is a samtools release identifier.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Less reports whether v predates other.
func (v Version) Less(other Version) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor < other.Minor
	}
	return v.Patch < other.Patch
}

func (v Version) String() string {
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor) + "." + strconv.Itoa(v.Patch)
}

var versionPattern = regexp.MustCompile(`Version:\s+(\d+)\.(\d+)(?:\.(\d+))?`)

// ToolVersion probes the samtools binary for its version. samtools prints
// its usage to stderr when invoked bare and exits non-zero, so the exit
// status is ignored as long as a version line is found. The second return
// value reports whether a version could be determined.
func ToolVersion(samtools string) (Version, bool, error) {
	cmd := exec.Command(samtools)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if _, ok := err.(*exec.ExitError); err != nil && !ok {
		return Version{}, false, errors.NewExternalToolError(samtools, "could not be run", err)
	}

	return parseVersion(stderr.String())
}

func parseVersion(usage string) (Version, bool, error) {
	m := versionPattern.FindStringSubmatch(usage)
	if m == nil {
		return Version{}, false, nil
	}

	var v Version
	v.Major, _ = strconv.Atoi(m[1])
	v.Minor, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		v.Patch, _ = strconv.Atoi(m[3])
	}
	return v, true, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
