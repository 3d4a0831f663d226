package call

import (
	"lofreq/internal/bed"
	"lofreq/internal/config"
	"lofreq/internal/log"
	"lofreq/internal/samtools"
)

// Positions are tested for three possible substitutions each, so every
// automatic mode scales its position count by three.
const testsPerPosition = 3

// ResolveBonfFactor determines the multiple-testing correction factor for
// a run. Explicit integers are taken as-is; "auto" derives the factor
// from the reference span (restricted to the region table when one is
// given); "auto-depth" counts only columns that actually have coverage.
func ResolveBonfFactor(cfg *config.Config, logger *log.Logger) (int64, error) {
	if factor, err := cfg.BonfFactor(); err != nil {
		return 0, err
	} else if factor > 0 {
		return factor, nil
	}

	if cfg.Bonf == config.BonfAutoDepth {
		stats, err := samtools.Depth(cfg.Samtools, cfg.BAM, cfg.BedFile, cfg.MinBaseQual, 0)
		if err != nil {
			return 0, err
		}
		logger.Infof("%d covered columns, mean depth %.1f", stats.Columns, stats.MeanDepth)
		return stats.Columns * testsPerPosition, nil
	}

	if cfg.BedFile != "" {
		regions, err := bed.LoadRegions(cfg.BedFile)
		if err != nil {
			return 0, err
		}
		return regions.Span() * testsPerPosition, nil
	}

	header, err := samtools.Header(cfg.Samtools, cfg.BAM)
	if err != nil {
		return 0, err
	}
	span, err := samtools.SumSequenceLength(header, nil)
	if err != nil {
		return 0, err
	}
	return span * testsPerPosition, nil
}
