package samtools

import (
	"bufio"
	"bytes"
	"os/exec"
	"strconv"
	"strings"

	"lofreq/internal/errors"
)

// DepthStats summarizes `samtools depth` output: the mean depth over
// covered columns and the number of columns with any coverage. depth only
// reports covered positions, so Columns is the covered-column count.
type DepthStats struct {
	MeanDepth float64
	Columns   int64
}

// Depth runs `samtools depth` over a BAM file, optionally restricted to
// BED regions, counting only bases at or above the given base and mapping
// qualities.
func Depth(samtools, bam, bedFile string, minBaseQ, minMapQ int) (DepthStats, error) {
	bin := samtools
	if bin == "" {
		bin = DefaultBinary
	}

	args := []string{"depth", "-q", strconv.Itoa(minBaseQ), "-Q", strconv.Itoa(minMapQ)}
	if bedFile != "" {
		args = append(args, "-b", bedFile)
	}
	args = append(args, bam)

	cmd := exec.Command(bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return DepthStats{}, errors.NewExternalToolError(bin, "could not open depth stream", err)
	}
	if err := cmd.Start(); err != nil {
		return DepthStats{}, errors.NewExternalToolError(bin, "depth could not be started", err)
	}

	var stats DepthStats
	var depthSum int64

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			return DepthStats{}, errors.NewParseError("",
				"malformed depth line: '"+line+"'", nil)
		}
		depth, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			return DepthStats{}, errors.NewParseError("",
				"malformed depth value: '"+fields[2]+"'", err)
		}
		stats.Columns++
		depthSum += depth
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return DepthStats{}, errors.NewExternalToolError(bin, "reading depth stream failed", err)
	}

	if err := cmd.Wait(); err != nil {
		return DepthStats{}, errors.NewExternalToolError(bin,
			"depth failed: "+firstLine(stderr.String()), err)
	}

	if stats.Columns > 0 {
		stats.MeanDepth = float64(depthSum) / float64(stats.Columns)
	}
	return stats, nil
}
