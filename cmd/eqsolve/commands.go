package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/eqsolve/internal/automation"
	"github.com/san-kum/eqsolve/internal/catalog"
	"github.com/san-kum/eqsolve/internal/export"
	"github.com/san-kum/eqsolve/internal/resolver"
	"github.com/san-kum/eqsolve/internal/storage"
	"github.com/spf13/cobra"
)

func (f *flags) solveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve [equation]",
		Short: "solve an equation for one unknown",
		Example: `  eqsolve solve free_fall --set h=19.6,g=9.8 --for t
  eqsolve solve --formula "y = x^2 + 1" --set y=10 --for x`,
		Args: cobra.MaximumNArgs(1),
		RunE: f.runSolve,
	}
	cmd.Flags().StringSliceVarP(&f.set, "set", "s", nil, "known value as name=value (repeatable)")
	cmd.Flags().StringVar(&f.solveFor, "for", "", "variable to solve for")
	cmd.Flags().StringVar(&f.formula, "formula", "", "inline formula instead of a catalog equation")
	cmd.Flags().Float64Var(&f.guess, "guess", resolver.DefaultOptions().InitialGuess, "initial guess")
	cmd.Flags().BoolVar(&f.trace, "trace", false, "print every iteration")
	cmd.Flags().IntVar(&f.precision, "precision", resolver.DisplayPrecision, "decimal places in output")
	cmd.Flags().BoolVar(&f.noSave, "no-save", false, "do not record the solve in history")
	_ = cmd.MarkFlagRequired("for")
	return cmd
}

func (f *flags) runSolve(cmd *cobra.Command, args []string) error {
	if (len(args) == 0) == (f.formula == "") {
		return errors.New("give either an equation name or --formula")
	}

	a, err := f.setup(cmd)
	if err != nil {
		return err
	}
	bindings, err := parseBindings(f.set)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var (
		name, formula, unit string
		res                 *resolver.Result
	)
	if f.formula != "" {
		formula = f.formula
		res, err = a.resolver.SolveDetailed(formula, bindings, f.solveFor)
	} else {
		eq, getErr := a.catalog.Get(args[0])
		if getErr != nil {
			return getErr
		}
		name, formula, unit = eq.Name, eq.Formula, eq.Unit(f.solveFor)
		res, err = eq.Solve(a.resolver, bindings, f.solveFor)
	}

	if !f.noSave && (err == nil || resolver.IsNumericFailure(err)) {
		rec := storage.NewRecord(name, formula, f.solveFor, bindings, res, err)
		if id, saveErr := a.history.Save(rec); saveErr != nil {
			a.logger.Warn("failed to save history record", "error", saveErr)
		} else {
			a.logger.Debug("saved history record", "id", id)
		}
	}
	if err != nil {
		return err
	}

	if name != "" {
		fmt.Fprintf(out, "equation: %s  (%s)\n", name, formula)
	} else {
		fmt.Fprintf(out, "formula: %s\n", formula)
	}
	value := resolver.Format(res.Value, a.cfg.Solver.Precision)
	if unit != "" {
		value += " " + unit
	}
	fmt.Fprintf(out, "%s = %s\n", f.solveFor, value)
	fmt.Fprintf(out, "iterations: %d\n", res.Iterations)

	if f.trace {
		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ITER\tX\tF(X)\tF'(X)")
		for i, s := range res.Trace {
			fmt.Fprintf(w, "%d\t%.10g\t%.4e\t%.4e\n", i+1, s.X, s.F, s.DF)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if len(res.Trace) > 1 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, asciigraph.Plot(residualMagnitudes(res.Trace),
				asciigraph.Height(8),
				asciigraph.Width(60),
				asciigraph.Caption("log10 |f(x)| per iteration"),
			))
		}
	}
	return nil
}

// residualMagnitudes returns log10|f| per step, clamped so exact zeros plot.
func residualMagnitudes(trace []resolver.Step) []float64 {
	out := make([]float64, len(trace))
	for i, s := range trace {
		out[i] = math.Log10(math.Max(math.Abs(s.F), 1e-300))
	}
	return out
}

func (f *flags) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list catalog equations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := f.setup(cmd)
			if err != nil {
				return err
			}

			eqs := a.catalog.List()
			if f.category != "" {
				eqs = a.catalog.ListCategory(f.category)
			}
			if f.asYAML {
				data, err := catalog.Marshal(eqs)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if len(eqs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no equations found (categories: %s)\n", strings.Join(a.catalog.Categories(), ", "))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCATEGORY\tFORMULA")
			for _, eq := range eqs {
				fmt.Fprintf(w, "%s\t%s\t%s\n", eq.Name, eq.Category, eq.Formula)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&f.category, "category", "", "only list one category")
	cmd.Flags().BoolVar(&f.asYAML, "yaml", false, "print entries in catalog file format")
	return cmd
}

func (f *flags) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [equation]",
		Short: "show an equation and its variables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := f.setup(cmd)
			if err != nil {
				return err
			}
			eq, err := a.catalog.Get(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name: %s\n", eq.Name)
			fmt.Fprintf(out, "category: %s\n", eq.Category)
			fmt.Fprintf(out, "formula: %s\n", eq.Formula)
			if eq.Description != "" {
				fmt.Fprintf(out, "description: %s\n", eq.Description)
			}
			fmt.Fprintln(out, "\nvariables:")
			for _, v := range eq.Variables {
				if unit := eq.Unit(v); unit != "" {
					fmt.Fprintf(out, "  %s [%s]\n", v, unit)
				} else {
					fmt.Fprintf(out, "  %s\n", v)
				}
			}
			return nil
		},
	}
}

func (f *flags) sweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sweep [equation]",
		Short:   "solve over a range of one known variable",
		Example: `  eqsolve sweep free_fall --for t --vary h --from 1 --to 100 --points 50 --set g=9.8`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := f.setup(cmd)
			if err != nil {
				return err
			}
			eq, err := a.catalog.Get(args[0])
			if err != nil {
				return err
			}
			known, err := parseBindings(f.set)
			if err != nil {
				return err
			}

			sweep := &automation.Sweep{
				Equation: eq,
				Known:    known,
				Unknown:  f.solveFor,
				Vary:     f.vary,
				Min:      f.from,
				Max:      f.to,
				Points:   f.points,
			}
			result, err := automation.RunSweep(cmd.Context(), sweep, a.resolver)
			if err != nil {
				return err
			}
			return f.printSweep(cmd, a, eq, result)
		},
	}
	cmd.Flags().StringSliceVarP(&f.set, "set", "s", nil, "known value as name=value (repeatable)")
	cmd.Flags().StringVar(&f.solveFor, "for", "", "variable to solve for")
	cmd.Flags().StringVar(&f.vary, "vary", "", "known variable to sweep")
	cmd.Flags().Float64Var(&f.from, "from", 0, "start of the range")
	cmd.Flags().Float64Var(&f.to, "to", 1, "end of the range")
	cmd.Flags().IntVar(&f.points, "points", 20, "number of points")
	cmd.Flags().StringVar(&f.svgPath, "svg", "", "write the curve to an SVG file")
	_ = cmd.MarkFlagRequired("for")
	_ = cmd.MarkFlagRequired("vary")
	return cmd
}

func (f *flags) printSweep(cmd *cobra.Command, a *app, eq catalog.Equation, result *automation.SweepResult) error {
	out := cmd.OutOrStdout()
	precision := a.cfg.Solver.Precision

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(result.Vary), strings.ToUpper(result.Unknown))
	for _, p := range result.Points {
		if p.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", resolver.Format(p.Input, precision), p.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", resolver.Format(p.Input, precision), resolver.Format(p.Value, precision))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	xs, ys := result.Series()
	if result.Failures() < len(result.Points) && len(ys) > 1 {
		caption := fmt.Sprintf("%s vs %s", result.Unknown, result.Vary)
		if unit := eq.Unit(result.Unknown); unit != "" {
			caption += " [" + unit + "]"
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, asciigraph.Plot(ys,
			asciigraph.Height(12),
			asciigraph.Width(70),
			asciigraph.Caption(caption),
		))
	}
	if n := result.Failures(); n > 0 {
		fmt.Fprintf(out, "\n%d of %d points failed\n", n, len(result.Points))
	}

	if f.svgPath != "" {
		svg := export.SeriesToSVG(xs, ys, 800, 400, "#00ff88")
		if svg == "" {
			return errors.New("not enough solved points to draw an SVG")
		}
		if err := os.WriteFile(f.svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", f.svgPath)
	}
	return nil
}

func (f *flags) batchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch [problems.yaml]",
		Short: "solve a problem set and check expected answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := f.setup(cmd)
			if err != nil {
				return err
			}
			set, err := automation.LoadProblemSet(args[0])
			if err != nil {
				return fmt.Errorf("failed to load problem set: %w", err)
			}

			outcomes, err := automation.RunProblemSet(cmd.Context(), set, a.catalog, a.resolver)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if set.Name != "" {
				fmt.Fprintf(out, "%s\n", set.Name)
				if set.Description != "" {
					fmt.Fprintf(out, "%s\n", set.Description)
				}
				fmt.Fprintln(out)
			}

			precision := a.cfg.Solver.Precision
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tPROBLEM\tVALUE\tSTATUS")
			for i, o := range outcomes {
				value, status := "-", "ok"
				switch {
				case o.Err != nil:
					status = o.Err.Error()
				case o.Checked && o.Passed:
					status = "pass"
				case o.Checked:
					status = fmt.Sprintf("FAIL (expected %s)", resolver.Format(*o.Problem.Expect, precision))
				}
				if o.Err == nil {
					value = resolver.Format(o.Value, precision)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, o.Problem.Title(), value, status)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			s := automation.Summarize(outcomes)
			fmt.Fprintf(out, "\nsolved %d/%d, passed %d/%d checked\n", s.Solved, s.Total, s.Passed, s.Checked)
			if s.Solved < s.Total || s.Passed < s.Checked {
				return fmt.Errorf("%d problems unsolved, %d checks failed", s.Total-s.Solved, s.Checked-s.Passed)
			}
			return nil
		},
	}
}
