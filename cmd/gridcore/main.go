// Package main provides the CLI entry point for gridcore.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/MutexLabs01/double-excel-sub000/internal/config"
)

var log = commonlog.GetLogger("gridcore.cli")

var (
	configPath string
	verbosity  int
	logFile    string
	pretty     bool
	outputPath string

	cfg *config.Config
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gridcore",
		Short: "Evaluate spreadsheet formulas and diff grid snapshots",
		Long: `gridcore evaluates formulas over sparse cell grids and reports
structural differences between two snapshots of a sheet or a project.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file path (default: "+config.DefaultPath+")")
	flags.CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeatable)")
	flags.StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")
	flags.BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	flags.StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")

	rootCmd.AddCommand(newEvalCmd(), newDiffCmd(), newRefsCmd(), newServeCmd())
	return rootCmd
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	level := cfg.Log.Verbosity
	if cmd.Flags().Changed("verbose") {
		level = verbosity
	}
	path := cfg.Log.Path
	if logFile != "" {
		path = logFile
	}
	if path != "" {
		commonlog.Configure(level, &path)
	} else {
		commonlog.Configure(level, nil)
	}

	log.Debugf("loaded config (diff bound %dx%d, max depth %d)",
		cfg.Diff.MaxRows, cfg.Diff.MaxCols, cfg.Formula.MaxDepth)
	return nil
}
