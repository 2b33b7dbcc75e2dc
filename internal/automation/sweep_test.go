package automation

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/eqsolve/internal/catalog"
	"github.com/san-kum/eqsolve/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func secondLaw(t *testing.T) catalog.Equation {
	t.Helper()
	eq, err := catalog.Builtin().Get("newtons_second_law")
	require.NoError(t, err)
	return eq
}

func TestRunSweep(t *testing.T) {
	s := &Sweep{
		Equation: secondLaw(t),
		Known:    map[string]float64{"a": 2},
		Unknown:  "F",
		Vary:     "m",
		Min:      1,
		Max:      5,
		Points:   5,
		Workers:  3,
	}

	res, err := RunSweep(context.Background(), s, resolver.Default())
	require.NoError(t, err)
	require.Len(t, res.Points, 5)
	assert.Zero(t, res.Failures())

	xs, ys := res.Series()
	for i := range 5 {
		assert.InDelta(t, float64(i+1), xs[i], 1e-12)
		assert.InDelta(t, 2*float64(i+1), ys[i], 1e-6)
	}

	// the caller's bindings are left alone
	assert.Equal(t, map[string]float64{"a": 2}, s.Known)
}

func TestRunSweepKeepsPointFailures(t *testing.T) {
	s := &Sweep{
		Equation: secondLaw(t),
		Known:    map[string]float64{"F": 8},
		Unknown:  "a",
		Vary:     "m",
		Min:      0,
		Max:      4,
		Points:   5,
	}

	res, err := RunSweep(context.Background(), s, resolver.Default())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failures())

	assert.ErrorIs(t, res.Points[0].Err, resolver.ErrDivergentDerivative)
	assert.True(t, math.IsNaN(res.Points[0].Value))
	assert.InDelta(t, 8.0, res.Points[1].Value, 1e-6)
	assert.InDelta(t, 2.0, res.Points[4].Value, 1e-6)
}

func TestRunSweepSinglePoint(t *testing.T) {
	s := &Sweep{
		Equation: secondLaw(t),
		Known:    map[string]float64{"a": 3},
		Unknown:  "F",
		Vary:     "m",
		Min:      2,
		Max:      10,
		Points:   1,
	}

	res, err := RunSweep(context.Background(), s, resolver.Default())
	require.NoError(t, err)
	require.Len(t, res.Points, 1)
	assert.Equal(t, 2.0, res.Points[0].Input)
	assert.InDelta(t, 6.0, res.Points[0].Value, 1e-6)
}

func TestRunSweepInvalid(t *testing.T) {
	eq := secondLaw(t)
	tests := []struct {
		name string
		s    Sweep
	}{
		{"vary unknown", Sweep{Equation: eq, Unknown: "F", Vary: "F", Points: 3}},
		{"not a variable", Sweep{Equation: eq, Unknown: "F", Vary: "q", Points: 3}},
		{"no points", Sweep{Equation: eq, Unknown: "F", Vary: "m", Points: 0}},
		{"infinite range", Sweep{Equation: eq, Unknown: "F", Vary: "m", Max: math.Inf(1), Points: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RunSweep(context.Background(), &tt.s, resolver.Default())
			assert.ErrorIs(t, err, ErrInvalidSweep)
		})
	}
}

func TestRunSweepMissingBinding(t *testing.T) {
	s := &Sweep{Equation: secondLaw(t), Unknown: "F", Vary: "m", Min: 1, Max: 2, Points: 2}

	res, err := RunSweep(context.Background(), s, resolver.Default())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Failures())
	assert.ErrorIs(t, res.Points[0].Err, resolver.ErrMissingVariable)
}

func TestRunSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Sweep{
		Equation: secondLaw(t),
		Known:    map[string]float64{"a": 2},
		Unknown:  "F",
		Vary:     "m",
		Min:      1,
		Max:      100,
		Points:   100,
	}
	res, err := RunSweep(ctx, s, resolver.Default())
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	require.Len(t, res.Points, 100)

	// nothing ran, so every point is a failure with its input still set
	assert.Equal(t, 100, res.Failures())
	for i, p := range res.Points {
		assert.ErrorIs(t, p.Err, ErrSkipped, "point %d", i)
		assert.ErrorIs(t, p.Err, context.Canceled, "point %d", i)
	}
	xs, ys := res.Series()
	assert.Equal(t, 1.0, xs[0])
	assert.Equal(t, 100.0, xs[99])
	for i, y := range ys {
		assert.True(t, math.IsNaN(y), "point %d should be NaN, got %v", i, y)
	}
}

func TestParallelForCoversEveryIndex(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 7, 50} {
		seen := make([]int, 23)
		parallelFor(context.Background(), len(seen), workers, func(i int) { seen[i]++ })
		for i, n := range seen {
			assert.Equal(t, 1, n, "workers=%d index=%d", workers, i)
		}
	}
}
