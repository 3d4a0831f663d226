// Package config provides configuration management and validation for the
// call command. It centralizes all command-line options and the optional
// YAML defaults file, with validation logic that catches bad settings
// before any external process is started.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"lofreq/internal/errors"
	"lofreq/internal/samtools"
)

// Bonferroni factor modes accepted by --bonf besides an explicit integer.
const (
	BonfAuto      = "auto"
	BonfAutoDepth = "auto-depth"
)

// Config holds all runtime options for a call run. It is filled from the
// command line, with unset options backfilled from a defaults file when
// one is given.
type Config struct {
	BAM         string
	RefFasta    string
	BedFile     string
	OutFile     string
	BAQ         string
	MaxDepth    int
	MinBaseQual int
	Bonf        string
	JoinQuals   bool
	Samtools    string
	Workers     int
	Verbose     bool
	Debug       bool
	Quiet       bool
}

// Defaults mirrors the YAML defaults file. Only fields present in the
// file override the built-in defaults, and explicit command-line flags
// always win over the file.
type Defaults struct {
	Samtools    string `yaml:"samtools"`
	MaxDepth    int    `yaml:"max-depth"`
	BAQ         string `yaml:"baq"`
	MinBaseQual int    `yaml:"min-bq"`
	Bonf        string `yaml:"bonf"`
}

// LoadDefaults reads and parses a YAML defaults file.
func LoadDefaults(path string) (*Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigErrorWithPath(path, "cannot read defaults file", err)
	}

	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, errors.NewConfigErrorWithPath(path, "invalid YAML", err)
	}
	return &d, nil
}

// Apply backfills cfg fields from the defaults file. The changed set
// names the flags the user set explicitly; those are never overridden.
func (d *Defaults) Apply(cfg *Config, changed map[string]bool) {
	if d.Samtools != "" && !changed["samtools"] {
		cfg.Samtools = d.Samtools
	}
	if d.MaxDepth != 0 && !changed["max-depth"] {
		cfg.MaxDepth = d.MaxDepth
	}
	if d.BAQ != "" && !changed["baq"] {
		cfg.BAQ = d.BAQ
	}
	if d.MinBaseQual != 0 && !changed["min-bq"] {
		cfg.MinBaseQual = d.MinBaseQual
	}
	if d.Bonf != "" && !changed["bonf"] {
		cfg.Bonf = d.Bonf
	}
}

// Validate performs validation of all settings. It is called once, after
// flag parsing and defaults application, so every later component can
// trust the configuration.
func (c *Config) Validate() error {
	if c.BAM == "" {
		return errors.NewConfigError("no BAM file given", nil)
	}
	if _, err := os.Stat(c.BAM); err != nil {
		return errors.NewConfigErrorWithPath(c.BAM, "BAM file not accessible", err)
	}
	if c.RefFasta != "" {
		if _, err := os.Stat(c.RefFasta); err != nil {
			return errors.NewConfigErrorWithPath(c.RefFasta, "reference fasta not accessible", err)
		}
	}
	if c.BedFile != "" {
		if _, err := os.Stat(c.BedFile); err != nil {
			return errors.NewConfigErrorWithPath(c.BedFile, "region file not accessible", err)
		}
	}

	switch samtools.BAQMode(c.BAQ) {
	case samtools.BAQOff, samtools.BAQOn, samtools.BAQExtended:
	default:
		return errors.NewConfigError(
			fmt.Sprintf("invalid BAQ mode '%s' (must be on, off or extended)", c.BAQ), nil)
	}

	if c.MaxDepth <= 0 {
		return errors.NewConfigError(
			fmt.Sprintf("invalid max-depth %d", c.MaxDepth), nil)
	}
	if c.MinBaseQual < 0 {
		return errors.NewConfigError(
			fmt.Sprintf("invalid min-bq %d", c.MinBaseQual), nil)
	}

	if _, err := c.BonfFactor(); err != nil {
		return err
	}

	return nil
}

// BonfFactor returns the explicit Bonferroni factor, or 0 when one of the
// automatic modes is selected. An unparsable setting is a config error.
func (c *Config) BonfFactor() (int64, error) {
	switch c.Bonf {
	case BonfAuto, BonfAutoDepth:
		return 0, nil
	}
	n, err := strconv.ParseInt(c.Bonf, 10, 64)
	if err != nil || n <= 0 {
		return 0, errors.NewConfigError(
			fmt.Sprintf("invalid bonf '%s' (must be %s, %s or a positive integer)",
				c.Bonf, BonfAuto, BonfAutoDepth), err)
	}
	return n, nil
}

// BonfIsAuto reports whether the factor is derived from the reference
// span or depth rather than given explicitly.
func (c *Config) BonfIsAuto() bool {
	return c.Bonf == BonfAuto || c.Bonf == BonfAutoDepth
}
