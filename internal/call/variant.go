// Package call implements the in-process variant-calling entry point: it
// walks a quality-aware pileup of a BAM file and reports candidate
// substitution sites. Deciding the statistical significance of a
// candidate is the caller engine's job, not this package's; the resolved
// multiple-testing factor is computed here so that engine has it.
package call

import (
	"fmt"
	"io"

	"lofreq/internal/pileup"
)

// Variant is one candidate substitution at a pileup column.
type Variant struct {
	Chrom  string
	Pos    int64 // 0-based
	Ref    byte
	Alt    byte
	Counts pileup.StrandCounts
	Freq   float64
}

// Candidates extracts candidate substitutions from a column: every base
// identity other than the consensus with at least one call at or above
// minQual. Frequencies are relative to all counted calls at the column.
// N calls never form candidates and are excluded from the denominator.
func Candidates(col *pileup.Column, minQual int) []Variant {
	counts := col.AllBaseCounts(minQual)

	total := 0
	for base, sc := range counts {
		if base != 'N' {
			total += sc.Sum()
		}
	}
	if total == 0 {
		return nil
	}

	var variants []Variant
	for _, base := range []byte{'A', 'C', 'G', 'T'} {
		if base == col.ConsBase {
			continue
		}
		sc := counts[base]
		if sc.Sum() == 0 {
			continue
		}
		variants = append(variants, Variant{
			Chrom:  col.Chrom,
			Pos:    col.Pos,
			Ref:    col.RefBase,
			Alt:    base,
			Counts: sc,
			Freq:   float64(sc.Sum()) / float64(total),
		})
	}
	return variants
}

// WriteHeader writes the column legend for the candidate report.
func WriteHeader(w io.Writer) error {
	_, err := fmt.Fprintln(w, "#chrom\tpos\tref\tvar\tfw-count\trv-count\tfreq")
	return err
}

// Write writes one candidate as a report line. Positions are reported
// 1-based.
func (v Variant) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\t%d\t%c\t%c\t%d\t%d\t%.6f\n",
		v.Chrom, v.Pos+1, v.Ref, v.Alt, v.Counts.Fw, v.Counts.Rv, v.Freq)
	return err
}
