package samtools

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"lofreq/internal/errors"
)

// BAQMode selects how mpileup applies base-alignment quality correction.
type BAQMode string

// Supported BAQ modes. Extended BAQ is the default used for calling since
// it markedly lowers false positives around indels.
const (
	BAQOff      BAQMode = "off"
	BAQOn       BAQMode = "on"
	BAQExtended BAQMode = "extended"
)

// DefaultMaxDepth caps the per-column read depth passed to mpileup.
const DefaultMaxDepth = 100000

// Pileup describes one mpileup invocation over a BAM file.
type Pileup struct {
	Samtools  string
	BAM       string
	RefFasta  string
	BAQ       BAQMode
	MaxDepth  int
	RegionBed string
	JoinQuals bool
}

// Args builds the mpileup argument list (binary name excluded).
func (p *Pileup) Args() ([]string, error) {
	maxDepth := p.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	args := []string{"mpileup", "-d", strconv.Itoa(maxDepth)}

	switch p.BAQ {
	case BAQOff:
		args = append(args, "-B")
	case BAQExtended:
		args = append(args, "-E")
	case BAQOn:
		// mpileup's default behavior.
	default:
		return nil, errors.NewConfigError(
			fmt.Sprintf("unknown BAQ mode '%s'", p.BAQ), nil)
	}

	if p.JoinQuals {
		args = append(args, "-j")
	}
	if p.RegionBed != "" {
		args = append(args, "-l", p.RegionBed)
	}
	if p.RefFasta != "" {
		args = append(args, "-f", p.RefFasta)
	}
	args = append(args, p.BAM)

	return args, nil
}

// EachLine runs mpileup and hands every output line to fn in stream order.
// A non-nil error from fn stops the pileup and is returned unchanged.
// mpileup's own chatter on stderr is ignored unless the process fails.
func (p *Pileup) EachLine(ctx context.Context, fn func(line string) error) error {
	args, err := p.Args()
	if err != nil {
		return err
	}

	bin := p.Samtools
	if bin == "" {
		bin = DefaultBinary
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.NewExternalToolError(bin, "could not open pileup stream", err)
	}
	if err := cmd.Start(); err != nil {
		return errors.NewExternalToolError(bin, "mpileup could not be started", err)
	}

	scanner := bufio.NewScanner(stdout)
	// Columns at full depth can be very long lines.
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)

	var fnErr error
	for scanner.Scan() {
		if fnErr = fn(scanner.Text()); fnErr != nil {
			break
		}
	}
	scanErr := scanner.Err()

	if fnErr != nil || scanErr != nil {
		_ = cmd.Process.Kill()
	}
	waitErr := cmd.Wait()

	switch {
	case fnErr != nil:
		return fnErr
	case scanErr != nil:
		return errors.NewExternalToolError(bin, "reading pileup stream failed", scanErr)
	case waitErr != nil:
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.NewExternalToolError(bin,
			"mpileup failed: "+firstLine(stderr.String()), waitErr)
	}
	return nil
}
