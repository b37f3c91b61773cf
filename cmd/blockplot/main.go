// blockplot renders per-block accuracy for a behavioral experiment log.
//
// Input is a CSV (or .xlsx) file with phase, block and correct columns, one
// row per trial. The root command writes a PNG line chart with phase
// boundaries and captions; `blockplot summary` prints the same aggregates as
// text without writing anything.
//
// Settings resolve in this order: explicit flag, then --config TOML, then
// built-in default.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/iafilius/BlockAccuracyPlot/src/analysis"
	"github.com/iafilius/BlockAccuracyPlot/src/config"
	"github.com/iafilius/BlockAccuracyPlot/src/logging"
	"github.com/iafilius/BlockAccuracyPlot/src/render"
	"github.com/iafilius/BlockAccuracyPlot/src/types"
)

type cliOptions struct {
	csvPath    string
	outputPath string
	title      string
	note       string
	configPath string
	logLevel   string

	file config.FileConfig
}

func main() {
	err := newRootCmd().Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	rootCmd := &cobra.Command{
		Use:               "blockplot --csv PATH --output PATH",
		Short:             "Plot per-block accuracy for an experiment CSV",
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return loadSettings(cmd, opts) },
		RunE:              func(cmd *cobra.Command, _ []string) error { return runPlot(cmd, opts) },
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "optional TOML config file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug|info|warn|error)")

	rootCmd.Flags().StringVar(&opts.csvPath, "csv", "", "CSV (or .xlsx) file with phase, block and correct columns")
	rootCmd.Flags().StringVar(&opts.outputPath, "output", "", "path for the generated PNG")
	rootCmd.Flags().StringVar(&opts.title, "title", render.DefaultTitle, "plot title")
	rootCmd.Flags().StringVar(&opts.note, "note", "", "optional note stamped in the bottom-left corner")
	_ = rootCmd.MarkFlagRequired("csv")
	_ = rootCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(newSummaryCmd(opts))
	return rootCmd
}

func newSummaryCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary --csv PATH",
		Short: "Print per-block and per-phase accuracy",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, _ []string) error { return runSummary(cmd.OutOrStdout(), opts) },
	}
	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "CSV (or .xlsx) file with phase, block and correct columns")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}

// loadSettings reads the config file and applies the log level.
func loadSettings(cmd *cobra.Command, opts *cliOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	opts.file = cfg
	applyStringConfig(cmd, "log-level", &opts.logLevel, cfg.Log.Level)
	if _, ok := logging.ParseLevel(opts.logLevel); !ok {
		return fmt.Errorf("invalid log level %q", opts.logLevel)
	}
	logging.SetLogLevel(opts.logLevel)
	return nil
}

func runPlot(cmd *cobra.Command, opts *cliOptions) error {
	defer logging.TimeTrack(time.Now(), "plot")
	applyStringConfig(cmd, "title", &opts.title, opts.file.Chart.Title)
	applyStringConfig(cmd, "note", &opts.note, opts.file.Chart.Note)

	blocks, n, err := analysis.LoadBlockAccuracy(opts.csvPath)
	if err != nil {
		return err
	}
	logging.Infof("loaded %d records into %d blocks from %s", n, len(blocks), opts.csvPath)

	ro := render.DefaultOptions()
	ro.Title = opts.title
	ro.Note = opts.note
	ro.LineColor = deref(opts.file.Chart.LineColor)
	ro.BoundaryColor = deref(opts.file.Chart.BoundaryColor)
	ro.LabelColor = deref(opts.file.Chart.LabelColor)
	if err := render.WriteChart(blocks, ro, opts.outputPath); err != nil {
		return err
	}

	if sums, err := analysis.SummarizePhases(blocks); err == nil {
		for _, s := range sums {
			logging.Debugf("phase %s: blocks=%d trials=%d mean=%.3f min=%.3f max=%.3f", s.Phase, s.Blocks, s.Trials, s.Mean, s.Min, s.Max)
		}
	}
	logging.Infof("wrote %s", opts.outputPath)
	return nil
}

var headerStyle = lipgloss.NewStyle().Bold(true)

func runSummary(out io.Writer, opts *cliOptions) error {
	blocks, n, err := analysis.LoadBlockAccuracy(opts.csvPath)
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		return types.EmptyInputError{}
	}
	sums, err := analysis.SummarizePhases(blocks)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%d records, %d blocks, %d phases\n\n", n, len(blocks), len(sums))
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-6s %-16s %6s %7s %9s", "Tick", "Phase", "Block", "Trials", "Accuracy")))
	for _, b := range blocks {
		fmt.Fprintf(out, "%-6s %-16s %6d %7d %9.3f\n", render.TickLabel(b), b.Phase, b.Block, b.Total, b.Accuracy)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-16s %6s %7s %7s %7s %7s", "Phase", "Blocks", "Trials", "Mean", "Min", "Max")))
	for _, s := range sums {
		fmt.Fprintf(out, "%-16s %6d %7d %7.3f %7.3f %7.3f\n", render.PhaseTitle(s.Phase), s.Blocks, s.Trials, s.Mean, s.Min, s.Max)
	}
	return nil
}

// applyStringConfig copies a config value into target unless the flag was set explicitly.
func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
