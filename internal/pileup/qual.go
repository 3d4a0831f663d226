package pileup

import "math"

// qualOffset is the phred+33 ASCII encoding offset used by mpileup
// quality strings.
const qualOffset = 33

// minCountedQual is the lowest quality treated as a real base call when
// determining the consensus. Q2 and below are reserved as "no quality"
// markers by the upstream tools.
const minCountedQual = 3

// PhredToProb converts a phred-scaled quality to an error probability.
func PhredToProb(qual int) float64 {
	return math.Pow(10, -float64(qual)/10)
}
