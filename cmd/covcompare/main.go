package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/swantron/covcompare/internal/compare"
	"github.com/swantron/covcompare/internal/config"
	"github.com/swantron/covcompare/internal/ctxlog"
	"github.com/swantron/covcompare/pkg/report"
)

// exitUsage is returned for bad arguments, bad configuration and reports
// carrying non-numeric rates. It is outside the comparison code range.
const exitUsage = 2

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	tolerance  float64
	output     string
	configFile string
	verbose    bool
}

func newRootCmd(stdout, stderr io.Writer, code *int) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "covcompare [flags] <baseline> <change>",
		Short: "Compare Cobertura coverage between a baseline and a change",
		Long: `Covcompare reads the top-level line-rate and branch-rate from two
Cobertura XML reports and fails when either rate dropped by more than
the tolerance. The report is written to stderr and the exit code is:

  0  coverage did not regress beyond tolerance
  1  line and/or branch coverage regressed
  8  change report missing or unparsable
  9  baseline report missing or unparsable`,
		Version:       fmt.Sprintf("%s (commit: %s, date: %s)", version, commit, date),
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := runCompare(cmd, opts, args[0], args[1], stdout, stderr)
			if err != nil {
				return err
			}
			*code = c
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().Float64VarP(&opts.tolerance, "tolerance", "t", compare.DefaultTolerance, "Allowed coverage drop as a fraction (0.002 = 0.2%)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", config.OutputText, "Additional report on stdout: text, json, markdown")
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "Path to config file (default: "+config.DefaultFile+" if present)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log extraction details to stderr")

	return cmd
}

func runCompare(cmd *cobra.Command, opts *options, baseline, change string, stdout, stderr io.Writer) (int, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return 0, err
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.Tolerance = opts.tolerance
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = opts.output
	}
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	logger := ctxlog.New(stderr, opts.verbose)
	ctx := ctxlog.WithLogger(cmd.Context(), logger)
	logger.Debug("comparing coverage",
		"baseline", baseline, "change", change,
		"tolerance", cfg.Tolerance, "output", cfg.Output)

	result, err := compare.Compare(ctx, baseline, change, cfg.Tolerance)
	if err != nil {
		return 0, err
	}

	fmt.Fprintln(stderr, result.Message)

	switch cfg.Output {
	case config.OutputJSON:
		out, err := report.ToJSON(result)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(stdout, string(out))
	case config.OutputMarkdown:
		fmt.Fprint(stdout, report.ToMarkdown(result))
	}

	return result.Code, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	code := 0
	cmd := newRootCmd(stdout, stderr, &code)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	return code
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
