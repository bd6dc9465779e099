package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/diff"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/models"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/output"
)

type diffFlags struct {
	sheet   string
	files   bool
	maxRows int
	maxCols int
}

func newDiffCmd() *cobra.Command {
	var f diffFlags
	cmd := &cobra.Command{
		Use:   "diff [old] [new]",
		Short: "Report structural differences between two snapshots",
		Long: `Compare two sheets cell by cell, or with --files two project file
listings (JSON snapshots, or workbooks where each sheet is one file).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("max-rows") {
				cfg.Diff.MaxRows = f.maxRows
			}
			if cmd.Flags().Changed("max-cols") {
				cfg.Diff.MaxCols = f.maxCols
			}
			return runDiff(cmd, args[0], args[1], f)
		},
	}

	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Sheet name (default: first sheet)")
	cmd.Flags().BoolVar(&f.files, "files", false, "Compare file listings instead of one sheet")
	cmd.Flags().IntVar(&f.maxRows, "max-rows", diff.DefaultMaxRows, "Number of rows compared")
	cmd.Flags().IntVar(&f.maxCols, "max-cols", diff.DefaultMaxCols, "Number of columns compared")
	return cmd
}

func runDiff(cmd *cobra.Command, oldPath, newPath string, f diffFlags) error {
	opts := gridcore.DefaultOptions()
	bound := cfg.DiffOptions()

	var result any
	if f.files {
		oldFiles, err := gridcore.LoadFiles(oldPath, opts)
		if err != nil {
			return fmt.Errorf("load failed: %w", err)
		}
		newFiles, err := gridcore.LoadFiles(newPath, opts)
		if err != nil {
			return fmt.Errorf("load failed: %w", err)
		}
		diffs := diff.CompareFiles(oldFiles, newFiles, bound)
		if diffs == nil {
			diffs = []models.FileDiff{}
		}
		log.Infof("%d files changed", len(diffs))
		result = diffs
	} else {
		oldGrid, err := gridcore.LoadGrid(oldPath, f.sheet, opts)
		if err != nil {
			return fmt.Errorf("load failed: %w", err)
		}
		newGrid, err := gridcore.LoadGrid(newPath, f.sheet, opts)
		if err != nil {
			return fmt.Errorf("load failed: %w", err)
		}
		d := diff.CompareSpreadsheets(oldGrid, newGrid, bound.MaxRows, bound.MaxCols)
		log.Infof("%d rows changed", d.Changes())
		result = d
	}

	if outputPath != "" {
		if err := output.WriteJSONFile(outputPath, result, pretty); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	return output.WriteJSON(cmd.OutOrStdout(), result, pretty)
}
