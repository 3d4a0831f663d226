package call

import (
	"bufio"
	"context"
	"io"

	"lofreq/internal/concurrent"
	"lofreq/internal/config"
	"lofreq/internal/log"
	"lofreq/internal/samtools"
)

// minSamtoolsVersion is the oldest samtools release the pileup options
// are known to work with. Older installations get a warning, not an
// error, matching the collaborator contract: samtools validates its own
// arguments.
var minSamtoolsVersion = samtools.Version{Major: 0, Minor: 1, Patch: 13}

// Run executes the call pipeline: probe samtools, resolve the
// multiple-testing factor, stream the pileup, parse columns in parallel
// and report candidate sites to out. Diagnostics go to the logger.
func Run(ctx context.Context, cfg *config.Config, out io.Writer, logger *log.Logger) error {
	if version, ok, err := samtools.ToolVersion(cfg.Samtools); err != nil {
		return err
	} else if !ok {
		logger.Warnf("could not determine samtools version, continuing anyway")
	} else if version.Less(minSamtoolsVersion) {
		logger.Warnf("samtools %s looks too old, continuing anyway", version)
	}

	factor, err := ResolveBonfFactor(cfg, logger)
	if err != nil {
		return err
	}
	logger.Infof("using multiple-testing factor %d", factor)

	pile := &samtools.Pileup{
		Samtools:  cfg.Samtools,
		BAM:       cfg.BAM,
		RefFasta:  cfg.RefFasta,
		BAQ:       samtools.BAQMode(cfg.BAQ),
		MaxDepth:  cfg.MaxDepth,
		RegionBed: cfg.BedFile,
		JoinQuals: cfg.JoinQuals,
	}
	if args, err := pile.Args(); err == nil {
		logger.Debugf("pileup command: %s %v", cfg.Samtools, args)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	processor := concurrent.NewProcessor(cfg.Workers)
	lines := make(chan string, 256)
	results := processor.Process(ctx, lines)

	writer := bufio.NewWriter(out)
	if err := WriteHeader(writer); err != nil {
		cancel()
		close(lines)
		for range results {
		}
		return err
	}

	var columns, candidates int64
	consumeErr := make(chan error, 1)
	go func() {
		for r := range results {
			if r.Err != nil {
				consumeErr <- r.Err
				cancel()
				for range results {
				}
				return
			}
			columns++
			if r.Column.Coverage > 0 && r.Column.BaseCount() == 0 {
				logger.Warnf("no usable bases at %s:%d despite coverage %d",
					r.Column.Chrom, r.Column.Pos+1, r.Column.Coverage)
			}
			for _, v := range Candidates(r.Column, cfg.MinBaseQual) {
				candidates++
				if err := v.Write(writer); err != nil {
					consumeErr <- err
					cancel()
					for range results {
					}
					return
				}
			}
		}
		consumeErr <- nil
	}()

	feedErr := pile.EachLine(ctx, func(line string) error {
		select {
		case lines <- line:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	close(lines)

	err = <-consumeErr
	if flushErr := writer.Flush(); err == nil && flushErr != nil {
		err = flushErr
	}

	// A consumer failure cancels the pileup, which then reports the
	// cancellation; the root cause is the consumer's error.
	if err != nil {
		return err
	}
	if feedErr != nil {
		return feedErr
	}

	logger.Infof("processed %d columns, %d candidate sites", columns, candidates)
	return nil
}
