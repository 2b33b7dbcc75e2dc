// Package catalog holds the named equations the resolver can work on.
//
// A [Catalog] is built once, validated, and then only read. Every accessor
// returns copies so callers cannot change a shared catalog.
package catalog

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/san-kum/eqsolve/internal/expr"
	"github.com/san-kum/eqsolve/internal/resolver"
)

var (
	ErrNotFound        = errors.New("catalog: equation not found")
	ErrInvalidEquation = errors.New("catalog: invalid equation")
	ErrDuplicate       = errors.New("catalog: duplicate equation name")
)

var validate = validator.New()

// Equation is a named formula with its ordered variable list.
type Equation struct {
	Name        string            `yaml:"name" json:"name" validate:"required,max=64"`
	Formula     string            `yaml:"formula" json:"formula" validate:"required"`
	Variables   []string          `yaml:"variables" json:"variables" validate:"required,min=2,dive,required"`
	Category    string            `yaml:"category,omitempty" json:"category,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Units       map[string]string `yaml:"units,omitempty" json:"units,omitempty"`
}

func (e Equation) clone() Equation {
	e.Variables = slices.Clone(e.Variables)
	e.Units = maps.Clone(e.Units)
	return e
}

// Validate checks the struct tags, that the formula parses, and that the
// formula mentions exactly the declared variables.
func (e Equation) Validate() error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidEquation, e.Name, err)
	}
	parsed, err := expr.ParseEquation(e.Formula)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidEquation, e.Name, err)
	}

	declared := make(map[string]bool, len(e.Variables))
	for _, v := range e.Variables {
		if declared[v] {
			return fmt.Errorf("%w %q: variable %s listed twice", ErrInvalidEquation, e.Name, v)
		}
		declared[v] = true
	}
	used := parsed.Variables()
	for _, v := range used {
		if !declared[v] {
			return fmt.Errorf("%w %q: formula uses undeclared variable %s", ErrInvalidEquation, e.Name, v)
		}
	}
	if len(used) != len(declared) {
		for _, v := range e.Variables {
			if !slices.Contains(used, v) {
				return fmt.Errorf("%w %q: variable %s does not appear in the formula", ErrInvalidEquation, e.Name, v)
			}
		}
	}
	for v := range e.Units {
		if !declared[v] {
			return fmt.Errorf("%w %q: unit given for unknown variable %s", ErrInvalidEquation, e.Name, v)
		}
	}
	return nil
}

// Request checks a solve request against the declared variables, reporting
// missing values in declaration order.
func (e Equation) Request(bindings map[string]float64, unknown string) error {
	return resolver.CheckRequest(e.Variables, bindings, unknown)
}

// Solve checks the request and runs r on the formula.
func (e Equation) Solve(r *resolver.Resolver, bindings map[string]float64, unknown string) (*resolver.Result, error) {
	if err := e.Request(bindings, unknown); err != nil {
		return nil, err
	}
	parsed, err := expr.ParseEquation(e.Formula)
	if err != nil {
		return nil, err
	}
	return r.SolveEquation(parsed, bindings, unknown)
}

// Unit returns the unit label for a variable, or "" if none is recorded.
func (e Equation) Unit(variable string) string {
	return e.Units[variable]
}

type Catalog struct {
	byName map[string]Equation
	order  []string
}

// New validates eqs and builds a catalog from copies of them.
func New(eqs ...Equation) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Equation, len(eqs))}
	for _, eq := range eqs {
		if err := eq.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.byName[eq.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, eq.Name)
		}
		c.byName[eq.Name] = eq.clone()
		c.order = append(c.order, eq.Name)
	}
	sort.SliceStable(c.order, func(i, j int) bool {
		a, b := c.byName[c.order[i]], c.byName[c.order[j]]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Name < b.Name
	})
	return c, nil
}

// Merge returns a catalog with the entries of base overlaid by extra.
// Entries in extra replace base entries of the same name. A nil base is
// treated as empty.
func Merge(base *Catalog, extra ...Equation) (*Catalog, error) {
	if base == nil {
		return New(extra...)
	}
	replaced := make(map[string]bool, len(extra))
	for _, eq := range extra {
		replaced[eq.Name] = true
	}
	all := make([]Equation, 0, base.Len()+len(extra))
	for _, eq := range base.List() {
		if !replaced[eq.Name] {
			all = append(all, eq)
		}
	}
	return New(append(all, extra...)...)
}

func (c *Catalog) Get(name string) (Equation, error) {
	eq, ok := c.byName[name]
	if !ok {
		eq, ok = c.byName[strings.ToLower(name)]
	}
	if !ok {
		return Equation{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return eq.clone(), nil
}

// List returns all equations ordered by category, then name.
func (c *Catalog) List() []Equation {
	out := make([]Equation, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.byName[name].clone())
	}
	return out
}

func (c *Catalog) ListCategory(category string) []Equation {
	var out []Equation
	for _, name := range c.order {
		if eq := c.byName[name]; strings.EqualFold(eq.Category, category) {
			out = append(out, eq.clone())
		}
	}
	return out
}

func (c *Catalog) Categories() []string {
	var cats []string
	for _, name := range c.order {
		cat := c.byName[name].Category
		if len(cats) == 0 || cats[len(cats)-1] != cat {
			cats = append(cats, cat)
		}
	}
	return cats
}

func (c *Catalog) Len() int { return len(c.order) }
