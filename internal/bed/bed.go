// Package bed provides loading and parsing of BED region tables.
// Only the first three columns (chromosome, start, end) are used; regions
// restrict where variants are called and drive the automatic
// multiple-testing factor.
package bed

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"lofreq/internal/errors"
)

// Range is a 0-based half-open interval on a chromosome.
type Range struct {
	Start int64
	End   int64
}

// Length returns the number of positions the range spans.
func (r Range) Length() int64 {
	return r.End - r.Start
}

// Regions holds the parsed region table grouped by chromosome, preserving
// the order in which chromosomes and ranges appear in the file.
type Regions struct {
	chroms []string
	ranges map[string][]Range
}

// Chroms returns the chromosome names in file order.
func (r *Regions) Chroms() []string {
	return r.chroms
}

// Ranges returns the ranges for a chromosome in file order.
func (r *Regions) Ranges(chrom string) []Range {
	return r.ranges[chrom]
}

// Span returns the total number of positions covered by all ranges.
// Overlapping ranges are counted twice; the caller is expected to provide
// a non-overlapping table, as the downstream tools do.
func (r *Regions) Span() int64 {
	var total int64
	for _, chrom := range r.chroms {
		for _, rg := range r.ranges[chrom] {
			total += rg.Length()
		}
	}
	return total
}

// Size returns the number of ranges in the table.
func (r *Regions) Size() int {
	n := 0
	for _, chrom := range r.chroms {
		n += len(r.ranges[chrom])
	}
	return n
}

// LoadRegions opens and parses a BED file.
func LoadRegions(path string) (*Regions, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewParseError(path, "cannot open region file", err)
	}
	defer file.Close()

	return ParseRegions(file, path)
}

// ParseRegions parses BED data from a reader. Comment lines (#) and
// browser/track header lines are skipped; each remaining line needs at
// least chromosome, start and end columns with start < end.
func ParseRegions(reader io.Reader, path string) (*Regions, error) {
	regions := &Regions{ranges: make(map[string][]Range)}

	scanner := bufio.NewScanner(reader)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, errors.NewParseError(path,
				fmt.Sprintf("line %d: expected at least 3 columns, got %d", lineNo, len(fields)), nil)
		}

		start, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, errors.NewParseError(path,
				fmt.Sprintf("line %d: invalid start coordinate '%s'", lineNo, fields[1]), err)
		}
		end, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, errors.NewParseError(path,
				fmt.Sprintf("line %d: invalid end coordinate '%s'", lineNo, fields[2]), err)
		}
		if start < 0 || end <= start {
			return nil, errors.NewParseError(path,
				fmt.Sprintf("line %d: invalid range %d-%d", lineNo, start, end), nil)
		}

		chrom := fields[0]
		if _, seen := regions.ranges[chrom]; !seen {
			regions.chroms = append(regions.chroms, chrom)
		}
		regions.ranges[chrom] = append(regions.ranges[chrom], Range{Start: start, End: end})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewParseError(path, "failed reading region file", err)
	}

	if regions.Size() == 0 {
		return nil, errors.NewParseError(path, "no regions found", nil)
	}

	return regions, nil
}
