package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/san-kum/eqsolve/internal/catalog"
	"github.com/san-kum/eqsolve/internal/resolver"
	"gopkg.in/yaml.v3"
)

// DefaultTolerance is the allowed difference from an expected answer.
const DefaultTolerance = 1e-3

var ErrInvalidProblem = errors.New("automation: invalid problem")

var validate = validator.New()

// ProblemSet is a worksheet of solve requests loaded from YAML.
type ProblemSet struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Problems    []Problem `yaml:"problems"`
}

// Problem names either a catalog equation or an inline formula.
type Problem struct {
	Label     string             `yaml:"label"`
	Equation  string             `yaml:"equation" validate:"required_without=Formula,excluded_with=Formula"`
	Formula   string             `yaml:"formula"`
	Known     map[string]float64 `yaml:"known"`
	SolveFor  string             `yaml:"solve_for" validate:"required"`
	Expect    *float64           `yaml:"expect"`
	Tolerance float64            `yaml:"tolerance" validate:"gte=0"`
}

func (p Problem) Title() string {
	if p.Label != "" {
		return p.Label
	}
	if p.Equation != "" {
		return p.Equation + " for " + p.SolveFor
	}
	return p.Formula + " for " + p.SolveFor
}

// Outcome is the result of one problem. Checked is set when the problem
// has an expected answer, and Passed tells whether it was met.
type Outcome struct {
	Problem Problem
	Value   float64
	Result  *resolver.Result
	Err     error
	Checked bool
	Passed  bool
}

// LoadProblemSet loads a problem set from a YAML file
func LoadProblemSet(path string) (*ProblemSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var set ProblemSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, err
	}

	return &set, nil
}

// RunProblemSet solves every problem in order. Failures are recorded per
// problem; the returned error is only set if ctx is cancelled.
func RunProblemSet(ctx context.Context, set *ProblemSet, cat *catalog.Catalog, r *resolver.Resolver) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(set.Problems))

	for i, p := range set.Problems {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		out := Outcome{Problem: p}
		out.Result, out.Err = solveProblem(p, cat, r)
		if out.Err != nil {
			out.Value = math.NaN()
			out.Err = fmt.Errorf("problem %d: %w", i+1, out.Err)
		} else {
			out.Value = out.Result.Value
		}

		if p.Expect != nil {
			out.Checked = true
			tol := p.Tolerance
			if tol == 0 {
				tol = DefaultTolerance
			}
			out.Passed = out.Err == nil && math.Abs(out.Value-*p.Expect) <= tol
		}

		outcomes = append(outcomes, out)
	}

	return outcomes, nil
}

func solveProblem(p Problem, cat *catalog.Catalog, r *resolver.Resolver) (*resolver.Result, error) {
	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProblem, err)
	}
	if p.Formula != "" {
		return r.SolveDetailed(p.Formula, p.Known, p.SolveFor)
	}
	eq, err := cat.Get(p.Equation)
	if err != nil {
		return nil, err
	}
	return eq.Solve(r, p.Known, p.SolveFor)
}

// Summary counts outcomes.
type Summary struct {
	Total   int
	Solved  int
	Checked int
	Passed  int
}

func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.Err == nil {
			s.Solved++
		}
		if o.Checked {
			s.Checked++
			if o.Passed {
				s.Passed++
			}
		}
	}
	return s
}
