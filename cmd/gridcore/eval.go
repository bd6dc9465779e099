package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/formula"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/grid"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/output"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/ref"
)

type evalFlags struct {
	sheet    string
	cell     string
	formula  string
	all      bool
	maxDepth int
}

// cellResult is one evaluated cell of --all output.
type cellResult struct {
	Cell    string `json:"cell"`
	Formula string `json:"formula"`
	Display string `json:"display"`
	Error   string `json:"error,omitempty"`
}

func newEvalCmd() *cobra.Command {
	var f evalFlags
	cmd := &cobra.Command{
		Use:   "eval [input.xlsx|grid.json]",
		Short: "Evaluate a cell, a formula, or every formula cell of a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("max-depth") {
				cfg.Formula.MaxDepth = f.maxDepth
			}
			return runEval(cmd, args[0], f)
		},
	}

	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Sheet name (default: first sheet)")
	cmd.Flags().StringVar(&f.cell, "cell", "", "Cell to evaluate, e.g. B4")
	cmd.Flags().StringVar(&f.formula, "formula", "", "Formula to evaluate against the sheet, e.g. =SUM(A1:A3)")
	cmd.Flags().BoolVar(&f.all, "all", false, "Evaluate every formula cell")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", formula.DefaultMaxDepth, "Maximum reference nesting depth")
	cmd.MarkFlagsMutuallyExclusive("cell", "formula", "all")
	cmd.MarkFlagsOneRequired("cell", "formula", "all")
	return cmd
}

func runEval(cmd *cobra.Command, inputPath string, f evalFlags) error {
	g, err := gridcore.LoadGrid(inputPath, f.sheet, gridcore.DefaultOptions())
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}
	engine := cfg.Engine()
	out := cmd.OutOrStdout()

	switch {
	case f.cell != "":
		c, err := ref.ParseCell(f.cell)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, display(engine, g, c))

	case f.formula != "":
		v, err := engine.Evaluate(f.formula, g)
		if err != nil {
			log.Infof("%s", err)
			fmt.Fprintln(out, formula.ErrorMarker)
			return nil
		}
		fmt.Fprintln(out, v.String())

	default:
		results := []cellResult{}
		for c := range g.Coords() {
			cell, _ := g.Get(c)
			if !cell.HasFormula() {
				continue
			}
			r := cellResult{Cell: ref.FormatCell(c), Formula: cell.Formula}
			if v, err := engine.EvaluateCell(g, c); err != nil {
				r.Display = formula.ErrorMarker
				r.Error = errorKind(err)
			} else {
				r.Display = v.String()
			}
			results = append(results, r)
		}
		if outputPath != "" {
			return output.WriteJSONFile(outputPath, results, pretty)
		}
		return output.WriteJSON(out, results, pretty)
	}
	return nil
}

func display(engine *formula.Engine, g *grid.Grid, c ref.Coord) string {
	cell, ok := g.Get(c)
	if !ok || !cell.HasFormula() {
		return cell.Value
	}
	v, err := engine.EvaluateCell(g, c)
	if err != nil {
		log.Infof("%s: %s", ref.FormatCell(c), err)
		return formula.ErrorMarker
	}
	return v.String()
}

func errorKind(err error) string {
	for _, kind := range []error{
		formula.ErrCircularReference,
		formula.ErrUnknownFunction,
		formula.ErrDivideByZero,
		formula.ErrInvalidFormula,
		ref.ErrInvalidReference,
	} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return err.Error()
}
