package call

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lofreq/internal/pileup"
)

func mustColumn(t *testing.T, line string) *pileup.Column {
	t.Helper()
	col, err := pileup.ParseColumn(line)
	require.NoError(t, err)
	return col
}

func TestCandidates(t *testing.T) {
	// 8 reference A calls, 2 C mismatches (one per strand).
	col := mustColumn(t, "chr1\t100\tA\t10\t....,,,,Cc\tIIIIIIIIII")

	variants := Candidates(col, 3)
	require.Len(t, variants, 1)

	v := variants[0]
	assert.Equal(t, "chr1", v.Chrom)
	assert.EqualValues(t, 99, v.Pos)
	assert.Equal(t, byte('A'), v.Ref)
	assert.Equal(t, byte('C'), v.Alt)
	assert.Equal(t, 1, v.Counts.Fw)
	assert.Equal(t, 1, v.Counts.Rv)
	assert.InDelta(t, 0.2, v.Freq, 1e-9)
}

func TestCandidatesAllConsensus(t *testing.T) {
	col := mustColumn(t, "chr1\t100\tA\t4\t....\tIIII")
	assert.Empty(t, Candidates(col, 3))
}

func TestCandidatesQualityFilter(t *testing.T) {
	// The lone mismatch is Q2 and must not survive the filter.
	col := mustColumn(t, "chr1\t100\tA\t4\t...C\tIII#")

	assert.Empty(t, Candidates(col, 3))

	// Without a quality floor it is a candidate again.
	variants := Candidates(col, 0)
	require.Len(t, variants, 1)
	assert.InDelta(t, 0.25, variants[0].Freq, 1e-9)
}

func TestCandidatesNoUsableBases(t *testing.T) {
	col := mustColumn(t, "chr1\t100\tA\t2\tNN\tII")
	assert.Empty(t, Candidates(col, 3))
}

func TestCandidatesMultipleAlts(t *testing.T) {
	col := mustColumn(t, "chr1\t100\tA\t10\t......CCgT\tIIIIIIIIII")

	variants := Candidates(col, 3)
	require.Len(t, variants, 3)

	// Deterministic base order: C, G, T.
	assert.Equal(t, byte('C'), variants[0].Alt)
	assert.Equal(t, byte('G'), variants[1].Alt)
	assert.Equal(t, byte('T'), variants[2].Alt)
	assert.Equal(t, 2, variants[0].Counts.Sum())
	assert.Equal(t, 1, variants[1].Counts.Sum())
	assert.Equal(t, 1, variants[2].Counts.Sum())
}

func TestVariantWrite(t *testing.T) {
	v := Variant{
		Chrom:  "chr2",
		Pos:    41,
		Ref:    'G',
		Alt:    'T',
		Counts: pileup.StrandCounts{Fw: 3, Rv: 2},
		Freq:   0.05,
	}

	var buf bytes.Buffer
	require.NoError(t, v.Write(&buf))
	assert.Equal(t, "chr2\t42\tG\tT\t3\t2\t0.050000\n", buf.String())
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf))
	assert.Equal(t, "#chrom\tpos\tref\tvar\tfw-count\trv-count\tfreq\n", buf.String())
}
