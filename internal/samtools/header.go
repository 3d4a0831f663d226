// Package samtools drives the external samtools binary and parses its
// output: SAM headers, pileup streams and depth tables. samtools is a
// collaborator process, not a library; every entry point here that touches
// it can fail with an ExternalToolError when the binary is missing or
// exits uncleanly.
package samtools

import (
	"fmt"
	"strconv"
	"strings"

	"lofreq/internal/errors"
)

// SequenceNames parses the reference sequence names from @SQ header lines.
func SequenceNames(header []string) []string {
	var names []string
	for _, line := range header {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "@SQ" {
			continue
		}
		if strings.HasPrefix(fields[1], "SN:") {
			names = append(names, fields[1][3:])
		}
	}
	return names
}

// SequenceLength parses the length of one reference sequence from @SQ
// header lines. The second return value reports whether the sequence was
// found with a usable LN field.
func SequenceLength(header []string, name string) (int64, bool) {
	for _, line := range header {
		fields := strings.Split(line, "\t")
		if len(fields) < 2 || fields[0] != "@SQ" {
			continue
		}
		if !strings.HasPrefix(fields[1], "SN:") || fields[1][3:] != name {
			continue
		}
		for _, field := range fields[2:] {
			if strings.HasPrefix(field, "LN:") {
				length, err := strconv.ParseInt(field[3:], 10, 64)
				if err != nil {
					return 0, false
				}
				return length, true
			}
		}
	}
	return 0, false
}

// SumSequenceLength returns the total length of the named reference
// sequences, or of all sequences in the header when chroms is empty.
func SumSequenceLength(header []string, chroms []string) (int64, error) {
	if len(chroms) == 0 {
		chroms = SequenceNames(header)
	}
	if len(chroms) == 0 {
		return 0, errors.NewParseError("", "no @SQ lines in header", nil)
	}

	var total int64
	for _, chrom := range chroms {
		length, ok := SequenceLength(header, chrom)
		if !ok {
			return 0, errors.NewParseError("",
				fmt.Sprintf("no length for sequence '%s' in header", chrom), nil)
		}
		total += length
	}
	return total, nil
}
