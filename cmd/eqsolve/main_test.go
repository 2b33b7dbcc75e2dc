package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/eqsolve/internal/catalog"
	"github.com/san-kum/eqsolve/internal/resolver"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runWithStderr(t, args...)
	return out, err
}

func runWithStderr(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestParseBindings(t *testing.T) {
	got, err := parseBindings([]string{"h=19.6", " g = 9.8 ", "m=-1e3"})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got["h"] != 19.6 || got["g"] != 9.8 || got["m"] != -1000 {
		t.Errorf("unexpected bindings %v", got)
	}

	for _, bad := range [][]string{{"h"}, {"=1"}, {"h=abc"}, {"h=1", "h=2"}} {
		if _, err := parseBindings(bad); err == nil {
			t.Errorf("expected error for %v", bad)
		}
	}
}

func TestSolveCommand(t *testing.T) {
	data := t.TempDir()

	out, err := run(t, "solve", "free_fall", "--set", "h=19.6,g=9.8", "--for", "t", "--data", data)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if !strings.Contains(out, "t = 2.000 s") {
		t.Errorf("expected t = 2.000 s in output:\n%s", out)
	}

	out, err = run(t, "history", "--data", data)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "free_fall") {
		t.Errorf("expected free_fall in history:\n%s", out)
	}
}

func TestSolveFormulaCommand(t *testing.T) {
	out, err := run(t, "solve", "--formula", "y = x^2", "-s", "y=9", "--for", "x",
		"--precision", "1", "--trace", "--no-save", "--data", t.TempDir())
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	if !strings.Contains(out, "x = 3.0\n") {
		t.Errorf("expected x = 3.0 in output:\n%s", out)
	}
	if !strings.Contains(out, "ITER") {
		t.Errorf("expected trace table in output:\n%s", out)
	}
}

func TestSolveCommandErrors(t *testing.T) {
	data := t.TempDir()

	_, err := run(t, "solve", "weight", "--set", "m=1", "--for", "W", "--data", data)
	if !errors.Is(err, resolver.ErrMissingVariable) {
		t.Errorf("expected missing variable, got %v", err)
	}

	_, err = run(t, "solve", "warp_drive", "--for", "c", "--data", data)
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	_, err = run(t, "solve", "weight", "--formula", "W = m * g", "--for", "W", "--data", data)
	if err == nil {
		t.Error("expected error when both equation and formula are given")
	}

	_, err = run(t, "solve", "weight", "--set", "m=1,g=2", "--for", "W", "--preset", "nope", "--data", data)
	if err == nil {
		t.Error("expected unknown preset error")
	}
}

func TestListAndShow(t *testing.T) {
	out, err := run(t, "list", "--category", "astronomy")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "hubbles_law") || strings.Contains(out, "free_fall") {
		t.Errorf("unexpected astronomy listing:\n%s", out)
	}

	out, err = run(t, "show", "free_fall")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out, "h = 0.5 * g * t^2") || !strings.Contains(out, "t [s]") {
		t.Errorf("unexpected show output:\n%s", out)
	}
}

func TestSweepCommand(t *testing.T) {
	svg := filepath.Join(t.TempDir(), "curve.svg")
	out, err := run(t, "sweep", "newtons_second_law", "--for", "F", "--vary", "m",
		"--from", "1", "--to", "10", "--points", "10", "--set", "a=2", "--svg", svg)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if !strings.Contains(out, "F vs m") {
		t.Errorf("expected plot caption in output:\n%s", out)
	}
	data, err := os.ReadFile(svg)
	if err != nil {
		t.Fatalf("svg not written: %v", err)
	}
	if !strings.Contains(string(data), "<path") {
		t.Error("expected an svg path")
	}
}

func TestBatchCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "set.yaml")
	body := `name: quiz
problems:
  - equation: free_fall
    known: {h: 19.6, g: 9.8}
    solve_for: t
    expect: 2
  - formula: "y = 3 * x"
    known: {y: 9}
    solve_for: x
    expect: 3
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "batch", path)
	if err != nil {
		t.Fatalf("batch failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "solved 2/2, passed 2/2 checked") {
		t.Errorf("unexpected summary:\n%s", out)
	}
}

func TestConfigAndPresets(t *testing.T) {
	out, err := run(t, "config", "--preset", "astronomical")
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if !strings.Contains(out, "relative_step: true") {
		t.Errorf("expected preset in effective config:\n%s", out)
	}

	out, err = run(t, "presets")
	if err != nil {
		t.Fatalf("presets failed: %v", err)
	}
	for _, name := range []string{"astronomical", "precise", "quick", "standard"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected preset %s in output", name)
		}
	}
}

func TestLogLevelFlag(t *testing.T) {
	solve := []string{"solve", "weight", "--set", "m=2,g=10", "--for", "W", "--no-save", "--data", t.TempDir()}

	for _, level := range []string{"DEBUG", "warning", "Error"} {
		out, stderr, err := runWithStderr(t, append(solve, "--log-level", level)...)
		if err != nil {
			t.Fatalf("level %s: solve failed: %v", level, err)
		}
		if !strings.Contains(out, "W = 20.000") {
			t.Errorf("level %s: unexpected output:\n%s", level, out)
		}
		if strings.Contains(stderr, "invalid log level") {
			t.Errorf("level %s should be accepted:\n%s", level, stderr)
		}
	}

	out, stderr, err := runWithStderr(t, append(solve, "--log-level", "verbose")...)
	if err != nil {
		t.Fatalf("unknown level should fall back to info, got %v", err)
	}
	if !strings.Contains(out, "W = 20.000") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(stderr, "invalid log level") || !strings.Contains(stderr, "configured_level=verbose") {
		t.Errorf("expected a warning about the level:\n%s", stderr)
	}
}

func TestConfigWriteAndCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eqsolve.yaml")
	if _, err := run(t, "config", "--preset", "precise", "--write", path); err != nil {
		t.Fatalf("config --write failed: %v", err)
	}

	out, err := run(t, "config", "--check", path)
	if err != nil {
		t.Fatalf("config --check failed: %v", err)
	}
	if !strings.Contains(out, "ok") {
		t.Errorf("expected ok:\n%s", out)
	}

	// the written file feeds back in as --config
	out, err = run(t, "config", "--config", path)
	if err != nil {
		t.Fatalf("config --config failed: %v", err)
	}
	if !strings.Contains(out, "precision: 6") || !strings.Contains(out, "max_iterations: 500") {
		t.Errorf("expected preset values from the written file:\n%s", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("solver:\n  step: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "config", "--check", bad); err == nil {
		t.Error("expected invalid config to fail the check")
	}
}

func TestCatalogOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	out, err := run(t, "list", "--category", "astronomy", "--yaml")
	if err != nil {
		t.Fatalf("list --yaml failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		t.Fatal(err)
	}

	out, err = run(t, "list", "--catalog", path, "--catalog-only")
	if err != nil {
		t.Fatalf("list --catalog-only failed: %v", err)
	}
	if !strings.Contains(out, "hubbles_law") || strings.Contains(out, "free_fall") {
		t.Errorf("expected only astronomy entries:\n%s", out)
	}

	out, err = run(t, "list", "--catalog", path)
	if err != nil {
		t.Fatalf("list --catalog failed: %v", err)
	}
	if !strings.Contains(out, "free_fall") {
		t.Errorf("expected built-in entries when overlaying:\n%s", out)
	}

	if _, err := run(t, "list", "--catalog-only"); err == nil {
		t.Error("expected --catalog-only without a file to fail")
	}
}
