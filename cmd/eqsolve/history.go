package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/san-kum/eqsolve/internal/api"
	"github.com/san-kum/eqsolve/internal/config"
	"github.com/san-kum/eqsolve/internal/resolver"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (f *flags) historyCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "list past solves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := f.setup(cmd)
			if err != nil {
				return err
			}
			records, err := a.history.List()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no history found")
				return nil
			}

			precision := a.cfg.Solver.Precision
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIME\tEQUATION\tUNKNOWN\tRESULT")
			for _, rec := range records {
				name := rec.Equation
				if name == "" {
					name = rec.Formula
				}
				result := resolver.Format(rec.Value, precision)
				if rec.Error != "" {
					result = "failed"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					rec.ID,
					rec.Timestamp.Format("2006-01-02 15:04:05"),
					name,
					rec.Unknown,
					result,
				)
			}
			return w.Flush()
		},
	}

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "show one history record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := f.setup(cmd)
			if err != nil {
				return err
			}
			rec, err := a.history.Load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id: %s\n", rec.ID)
			fmt.Fprintf(out, "time: %s\n", rec.Timestamp.Format(time.RFC3339))
			if rec.Equation != "" {
				fmt.Fprintf(out, "equation: %s\n", rec.Equation)
			}
			fmt.Fprintf(out, "formula: %s\n", rec.Formula)

			names := make([]string, 0, len(rec.Bindings))
			for name := range rec.Bindings {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Fprintln(out, "known:")
			for _, name := range names {
				fmt.Fprintf(out, "  %s = %g\n", name, rec.Bindings[name])
			}

			if rec.Error != "" {
				fmt.Fprintf(out, "error: %s\n", rec.Error)
			} else {
				fmt.Fprintf(out, "%s = %s\n", rec.Unknown, resolver.Format(rec.Value, a.cfg.Solver.Precision))
			}
			fmt.Fprintf(out, "iterations: %d\n", rec.Iterations)
			return nil
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv",
		Short: "export history as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := f.setup(cmd)
			if err != nil {
				return err
			}
			return f.writeExport(cmd, a.history.ExportCSV)
		},
	}
	exportCSVCmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json",
		Short: "export history as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := f.setup(cmd)
			if err != nil {
				return err
			}
			return f.writeExport(cmd, a.history.ExportJSON)
		},
	}
	exportJSONCmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default stdout)")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "delete all history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := f.setup(cmd)
			if err != nil {
				return err
			}
			n, err := a.history.Clear()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d records\n", n)
			return nil
		},
	}

	historyCmd.AddCommand(showCmd, exportCSVCmd, exportJSONCmd, clearCmd)
	return historyCmd
}

func (f *flags) writeExport(cmd *cobra.Command, export func(io.Writer) error) error {
	if f.output == "" {
		return export(cmd.OutOrStdout())
	}

	file, err := os.Create(f.output)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := export(file); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "exported to %s\n", f.output)
	return nil
}

func (f *flags) presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list solver presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tGUESS\tTOLERANCE\tMAX ITER\tRELATIVE STEP")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%g\t%g\t%d\t%t\n", name, p.InitialGuess, p.Tolerance, p.MaxIterations, p.RelativeStep)
			}
			return w.Flush()
		},
	}
}

func (f *flags) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		Example: `  eqsolve config --preset precise --write eqsolve.yaml
  eqsolve config --check eqsolve.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.checkPath != "" {
				if _, err := config.Load(f.checkPath); err != nil {
					return fmt.Errorf("%s: %w", f.checkPath, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", f.checkPath)
				return nil
			}

			a, err := f.setup(cmd)
			if err != nil {
				return err
			}
			if f.writePath != "" {
				if err := config.Save(f.writePath, a.cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", f.writePath)
				return nil
			}
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&f.writePath, "write", "", "save the effective configuration to a file")
	cmd.Flags().StringVar(&f.checkPath, "check", "", "validate a config file without env overrides")
	cmd.MarkFlagsMutuallyExclusive("write", "check")
	return cmd
}

func (f *flags) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the solver over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := f.setup(cmd)
			if err != nil {
				return err
			}
			if err := a.history.Init(); err != nil {
				return err
			}

			handler := api.NewHandler(a.catalog, a.resolver, a.history, a.cfg.Solver.Precision, a.logger)
			server := api.NewServer(a.cfg.Server.Addr, handler)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("starting server", "addr", a.cfg.Server.Addr, "equations", a.catalog.Len())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
				a.logger.Info("shutting down server")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown failed: %w", err)
			}
			a.logger.Info("server shutdown completed")
			return nil
		},
	}
	cmd.Flags().StringVar(&f.addr, "addr", config.DefaultAddr, "listen address")
	return cmd
}
