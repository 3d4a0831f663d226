// Package pileup parses samtools mpileup output into per-position columns.
//
// A pileup line has six tab-separated fields: chromosome, 1-based
// position, reference base, coverage, read bases and base qualities. In
// the read-base field a dot is a match to the reference on the forward
// strand and a comma a match on the reverse strand; ACGTN/acgtn are
// mismatches with the same case convention. "^X" marks a read start (X
// encodes the mapping quality), "$" a read end, "+N<seq>"/"-N<seq>"
// insertion and deletion events, and "*" a base deleted from the
// reference. The markup carries no quality values of its own, except "*"
// which does.
package pileup

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"lofreq/internal/errors"
)

// validBases are the only base identities kept in the histograms.
var validBases = []byte{'A', 'C', 'G', 'T', 'N'}

// consBases are the bases eligible as consensus.
var consBases = []byte{'A', 'C', 'G', 'T'}

var indelPattern = regexp.MustCompile(`[-+][0-9]+`)

// StrandCounts holds per-strand counts of one base identity.
type StrandCounts struct {
	Fw int
	Rv int
}

// Sum returns the strand-collapsed count.
func (s StrandCounts) Sum() int {
	return s.Fw + s.Rv
}

// Column is one parsed pileup position. Base observations are kept as
// per-strand quality histograms; uppercase keys are forward-strand calls,
// lowercase reverse-strand.
type Column struct {
	Chrom    string
	Pos      int64 // 0-based
	RefBase  byte
	ConsBase byte
	Coverage int

	NumInsEvents  int
	NumDelEvents  int
	NumReadStarts int
	NumReadEnds   int

	hist map[byte]map[int]int
}

func newColumn() *Column {
	c := &Column{hist: make(map[byte]map[int]int, 2*len(validBases))}
	for _, b := range validBases {
		c.hist[b] = make(map[int]int)
		c.hist[lower(b)] = make(map[int]int)
	}
	return c
}

func lower(b byte) byte {
	return b + ('a' - 'A')
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// ParseColumn parses one mpileup line into a Column, including markup
// removal, histogram filling and consensus determination.
func ParseColumn(line string) (*Column, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(fields) != 6 {
		return nil, errors.NewParseError("",
			fmt.Sprintf("expected 6 pileup fields, got %d", len(fields)), nil)
	}

	col := newColumn()
	col.Chrom = fields[0]

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || pos < 1 {
		return nil, errors.NewParseError("",
			fmt.Sprintf("invalid pileup position '%s'", fields[1]), err)
	}
	col.Pos = pos - 1

	if len(fields[2]) != 1 {
		return nil, errors.NewParseError("",
			fmt.Sprintf("invalid reference base '%s'", fields[2]), nil)
	}
	col.RefBase = upper(fields[2][0])

	cov, err := strconv.Atoi(fields[3])
	if err != nil || cov < 0 {
		return nil, errors.NewParseError("",
			fmt.Sprintf("invalid coverage value '%s'", fields[3]), err)
	}
	col.Coverage = cov

	// Resolve reference markup to concrete bases, keeping the strand
	// encoded in the case.
	bases := strings.ReplaceAll(fields[4], ".", string(col.RefBase))
	bases = strings.ReplaceAll(bases, ",", string(lower(col.RefBase)))

	quals := make([]int, len(fields[5]))
	for i := 0; i < len(fields[5]); i++ {
		quals[i] = int(fields[5][i]) - qualOffset
	}

	bases = col.stripStartEndMarkup(bases)
	bases, quals, err = col.stripIndelMarkup(bases, quals)
	if err != nil {
		return nil, err
	}
	if len(bases) != len(quals) {
		return nil, errors.NewParseError("",
			fmt.Sprintf("%s:%d: %d bases but %d quality values after markup removal",
				col.Chrom, col.Pos+1, len(bases), len(quals)), nil)
	}

	for i := 0; i < len(bases); i++ {
		b := bases[i]
		if !isValidBase(upper(b)) {
			// Gaps and other artifacts are skipped rather than rejected.
			continue
		}
		col.hist[b][quals[i]]++
	}

	cons := col.consensus()
	if cons == 'N' || cons == '-' {
		cons = col.RefBase
	}
	col.ConsBase = cons

	return col, nil
}

func isValidBase(b byte) bool {
	for _, v := range validBases {
		if b == v {
			return true
		}
	}
	return false
}

// stripStartEndMarkup removes "$" read-end markers and "^X" read-start
// markers (X being the encoded mapping quality), counting both.
func (c *Column) stripStartEndMarkup(bases string) string {
	orgLen := len(bases)
	bases = strings.ReplaceAll(bases, "$", "")
	c.NumReadEnds = orgLen - len(bases)

	var sb strings.Builder
	sb.Grow(len(bases))
	starts := 0
	for i := 0; i < len(bases); i++ {
		if bases[i] == '^' && i+1 < len(bases) {
			starts++
			i++ // the mapping-quality byte goes with the marker
			continue
		}
		sb.WriteByte(bases[i])
	}
	c.NumReadStarts = starts
	return sb.String()
}

// stripIndelMarkup removes "+N<seq>"/"-N<seq>" indel markup (counting
// insertion events) and then drops "*" deleted-base placeholders together
// with their quality values.
func (c *Column) stripIndelMarkup(bases string, quals []int) (string, []int, error) {
	for {
		loc := indelPattern.FindStringIndex(bases)
		if loc == nil {
			break
		}
		if bases[loc[0]] == '+' {
			c.NumInsEvents++
		}
		n, err := strconv.Atoi(bases[loc[0]+1 : loc[1]])
		if err != nil {
			return "", nil, errors.NewParseError("",
				fmt.Sprintf("invalid indel length in '%s'", bases), err)
		}
		if loc[1]+n > len(bases) {
			return "", nil, errors.NewParseError("",
				fmt.Sprintf("truncated indel markup in '%s'", bases), nil)
		}
		bases = bases[:loc[0]] + bases[loc[1]+n:]
	}

	c.NumDelEvents = strings.Count(bases, "*")
	if c.NumDelEvents == 0 {
		return bases, quals, nil
	}

	var sb strings.Builder
	sb.Grow(len(bases))
	kept := make([]int, 0, len(quals))
	for i := 0; i < len(bases); i++ {
		if bases[i] == '*' {
			continue
		}
		sb.WriteByte(bases[i])
		if i < len(quals) {
			kept = append(kept, quals[i])
		}
	}
	return sb.String(), kept, nil
}

// consensus determines the consensus base from the quality-weighted base
// histograms. Each call contributes its probability of being correct,
// qualities of 2 and below are ignored, and a tie yields N.
func (c *Column) consensus() byte {
	probsum := make(map[byte]float64, len(consBases))
	for _, b := range consBases {
		var sum float64
		for qual, count := range c.hist[b] {
			if qual < minCountedQual {
				continue
			}
			sum += float64(count) * (1.0 - PhredToProb(qual))
		}
		for qual, count := range c.hist[lower(b)] {
			if qual < minCountedQual {
				continue
			}
			sum += float64(count) * (1.0 - PhredToProb(qual))
		}
		probsum[b] = sum
	}

	var best, second float64
	var bestBase byte = 'N'
	for _, b := range consBases {
		if probsum[b] > best {
			second = best
			best = probsum[b]
			bestBase = b
		} else if probsum[b] > second {
			second = probsum[b]
		}
	}
	if best-second < 1e-6 {
		return 'N'
	}
	return bestBase
}

// CountsForBase returns the forward and reverse strand counts for a base
// identity, counting only calls with quality >= minQual.
func (c *Column) CountsForBase(base byte, minQual int) StrandCounts {
	b := upper(base)
	if !isValidBase(b) {
		return StrandCounts{}
	}

	var counts StrandCounts
	for qual, count := range c.hist[b] {
		if qual >= minQual {
			counts.Fw += count
		}
	}
	for qual, count := range c.hist[lower(b)] {
		if qual >= minQual {
			counts.Rv += count
		}
	}
	return counts
}

// AllBaseCounts returns per-strand counts for every valid base identity,
// keyed by the uppercase base.
func (c *Column) AllBaseCounts(minQual int) map[byte]StrandCounts {
	counts := make(map[byte]StrandCounts, len(validBases))
	for _, b := range validBases {
		counts[b] = c.CountsForBase(b, minQual)
	}
	return counts
}

// MergedQualHist returns a copy of the strand-collapsed quality histogram
// for one base identity.
func (c *Column) MergedQualHist(base byte) map[int]int {
	b := upper(base)
	merged := make(map[int]int)
	if !isValidBase(b) {
		return merged
	}
	for qual, count := range c.hist[b] {
		merged[qual] += count
	}
	for qual, count := range c.hist[lower(b)] {
		merged[qual] += count
	}
	return merged
}

// BaseCount returns the total number of base calls kept in the histograms
// regardless of quality. When parsing went cleanly this matches the
// coverage value minus deleted bases and skipped artifacts.
func (c *Column) BaseCount() int {
	n := 0
	for _, qh := range c.hist {
		for _, count := range qh {
			n += count
		}
	}
	return n
}
