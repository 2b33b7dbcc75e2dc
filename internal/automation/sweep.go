package automation

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"runtime"
	"slices"
	"sync"

	"github.com/san-kum/eqsolve/internal/catalog"
	"github.com/san-kum/eqsolve/internal/expr"
	"github.com/san-kum/eqsolve/internal/resolver"
)

var (
	ErrInvalidSweep = errors.New("automation: invalid sweep")

	// ErrSkipped marks a point that never ran because the sweep was
	// cancelled first. It is wrapped together with the ctx error.
	ErrSkipped = errors.New("automation: sweep point skipped")
)

// Sweep solves Unknown while Vary moves linearly from Min to Max.
type Sweep struct {
	Equation catalog.Equation
	Known    map[string]float64
	Unknown  string
	Vary     string
	Min      float64
	Max      float64
	Points   int
	Workers  int
}

type SweepPoint struct {
	Input float64
	Value float64
	Err   error
}

type SweepResult struct {
	Vary    string
	Unknown string
	Points  []SweepPoint
}

func (s *Sweep) validate() error {
	switch {
	case s.Points < 1:
		return fmt.Errorf("%w: need at least one point, got %d", ErrInvalidSweep, s.Points)
	case s.Vary == s.Unknown:
		return fmt.Errorf("%w: cannot vary the unknown %s", ErrInvalidSweep, s.Vary)
	case !slices.Contains(s.Equation.Variables, s.Vary):
		return fmt.Errorf("%w: %s is not a variable of %s", ErrInvalidSweep, s.Vary, s.Equation.Name)
	case math.IsNaN(s.Min) || math.IsNaN(s.Max) || math.IsInf(s.Min, 0) || math.IsInf(s.Max, 0):
		return fmt.Errorf("%w: range must be finite", ErrInvalidSweep)
	}
	return nil
}

// Input returns the value of the varied variable at point i.
func (s *Sweep) Input(i int) float64 {
	if s.Points == 1 {
		return s.Min
	}
	return s.Min + float64(i)*(s.Max-s.Min)/float64(s.Points-1)
}

// RunSweep solves every point of the sweep. Per-point failures are kept in
// the result; the error is set for an invalid sweep or a cancelled ctx.
func RunSweep(ctx context.Context, s *Sweep, r *resolver.Resolver) (*SweepResult, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	eq, err := expr.ParseEquation(s.Equation.Formula)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{
		Vary:    s.Vary,
		Unknown: s.Unknown,
		Points:  make([]SweepPoint, s.Points),
	}
	for i := range result.Points {
		result.Points[i] = SweepPoint{Input: s.Input(i), Value: math.NaN(), Err: ErrSkipped}
	}

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	parallelFor(ctx, s.Points, workers, func(i int) {
		in := s.Input(i)
		known := maps.Clone(s.Known)
		if known == nil {
			known = make(map[string]float64, 1)
		}
		known[s.Vary] = in

		pt := SweepPoint{Input: in, Value: math.NaN()}
		if err := s.Equation.Request(known, s.Unknown); err != nil {
			pt.Err = err
		} else if res, err := r.SolveEquation(eq, known, s.Unknown); err != nil {
			pt.Err = err
		} else {
			pt.Value = res.Value
		}
		result.Points[i] = pt
	})

	if err := ctx.Err(); err != nil {
		skipped := fmt.Errorf("%w: %w", ErrSkipped, err)
		for i := range result.Points {
			if result.Points[i].Err == ErrSkipped {
				result.Points[i].Err = skipped
			}
		}
		return result, err
	}
	return result, nil
}

// parallelFor runs fn over [0, n) split into contiguous chunks, one per
// worker. Items not yet started when ctx is cancelled are skipped.
func parallelFor(ctx context.Context, n, workers int, fn func(i int)) {
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				if ctx.Err() != nil {
					return
				}
				fn(i)
			}
		}(start, end)
	}

	wg.Wait()
}

// Series returns the inputs and solved values; failed points are NaN.
func (r *SweepResult) Series() (xs, ys []float64) {
	xs = make([]float64, len(r.Points))
	ys = make([]float64, len(r.Points))
	for i, p := range r.Points {
		xs[i] = p.Input
		ys[i] = p.Value
	}
	return xs, ys
}

func (r *SweepResult) Failures() int {
	n := 0
	for _, p := range r.Points {
		if p.Err != nil {
			n++
		}
	}
	return n
}
