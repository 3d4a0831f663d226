package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"lofreq/internal/call"
	"lofreq/internal/config"
	"lofreq/internal/errors"
	"lofreq/internal/log"
	"lofreq/internal/samtools"
)

// defaultsFlags names the options the YAML defaults file may backfill.
var defaultsFlags = []string{"samtools", "max-depth", "baq", "min-bq", "bonf"}

// callMain runs the call subcommand. argv starts at the subcommand token,
// so argv[0] is "call" and the rest are its options and the BAM operand.
func callMain(argv []string, stdout, stderr io.Writer) int {
	cmd := newCallCommand(stdout, stderr)
	cmd.SetArgs(argv[1:])
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err.Error())
		return errors.ExitCode(err)
	}
	return errors.ExitSuccess
}

func newCallCommand(stdout, stderr io.Writer) *cobra.Command {
	cfg := &config.Config{}
	var configFile string

	cmd := &cobra.Command{
		Use:           "call [options] <bam>",
		Short:         "Call variants from a BAM alignment",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.BAM = args[0]

			if configFile != "" {
				defaults, err := config.LoadDefaults(configFile)
				if err != nil {
					return err
				}
				changed := make(map[string]bool, len(defaultsFlags))
				for _, name := range defaultsFlags {
					changed[name] = cmd.Flag(name).Changed
				}
				defaults.Apply(cfg, changed)
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := log.New(stderr, log.LevelFor(cfg.Quiet, cfg.Verbose, cfg.Debug))

			out := stdout
			if cfg.OutFile != "" && cfg.OutFile != "-" {
				f, err := os.Create(cfg.OutFile)
				if err != nil {
					return errors.NewConfigErrorWithPath(cfg.OutFile, "cannot create output file", err)
				}
				defer f.Close()
				out = f
			}

			return call.Run(cmd.Context(), cfg, out, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfg.RefFasta, "ref", "f", "", "Reference fasta (enables reference-aware pileup)")
	flags.StringVarP(&cfg.BedFile, "bed", "l", "", "BED file restricting calls to the listed regions")
	flags.StringVarP(&cfg.OutFile, "out", "o", "-", "Output file ('-' writes to stdout)")
	flags.StringVar(&cfg.BAQ, "baq", string(samtools.BAQExtended), "Base alignment quality mode (on, off, extended)")
	flags.IntVarP(&cfg.MaxDepth, "max-depth", "d", samtools.DefaultMaxDepth, "Coverage cap per column")
	flags.IntVarP(&cfg.MinBaseQual, "min-bq", "q", 3, "Minimum base quality for a call to count")
	flags.StringVar(&cfg.Bonf, "bonf", config.BonfAuto, "Multiple-testing factor (auto, auto-depth or a positive integer)")
	flags.BoolVarP(&cfg.JoinQuals, "join-quals", "j", false, "Merge mapping and base qualities in the pileup")
	flags.StringVar(&cfg.Samtools, "samtools", samtools.DefaultBinary, "Samtools binary to invoke")
	flags.IntVar(&cfg.Workers, "workers", 0, "Pileup parser workers (0 picks one per core)")
	flags.StringVar(&configFile, "config", "", "YAML file with option defaults")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose output")
	flags.BoolVar(&cfg.Debug, "debug", false, "Enable debug output")
	flags.BoolVar(&cfg.Quiet, "quiet", false, "Suppress all diagnostics except errors")

	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	cmd.MarkFlagsMutuallyExclusive("debug", "quiet")

	return cmd
}
