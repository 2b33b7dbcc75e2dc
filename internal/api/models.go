package api

import "github.com/san-kum/eqsolve/internal/resolver"

// SolveRequest names a catalog equation or carries an inline formula.
type SolveRequest struct {
	Equation  string             `json:"equation" validate:"required_without=Formula,excluded_with=Formula"`
	Formula   string             `json:"formula"`
	Known     map[string]float64 `json:"known"`
	SolveFor  string             `json:"solve_for" validate:"required"`
	Precision *int               `json:"precision" validate:"omitempty,gte=0,lte=15"`
	Trace     bool               `json:"trace"`
}

type SolveResponse struct {
	Equation   string          `json:"equation,omitempty"`
	Formula    string          `json:"formula"`
	Unknown    string          `json:"unknown"`
	Value      float64         `json:"value"`
	Display    string          `json:"display"`
	Unit       string          `json:"unit,omitempty"`
	Iterations int             `json:"iterations"`
	Residual   float64         `json:"residual"`
	Trace      []resolver.Step `json:"trace,omitempty"`
	HistoryID  string          `json:"history_id,omitempty"`
}

type SweepRequest struct {
	Equation string             `json:"equation" validate:"required"`
	Known    map[string]float64 `json:"known"`
	SolveFor string             `json:"solve_for" validate:"required"`
	Vary     string             `json:"vary" validate:"required,nefield=SolveFor"`
	From     float64            `json:"from"`
	To       float64            `json:"to"`
	Points   int                `json:"points" validate:"gte=1,lte=10000"`
}

// SweepPoint carries either a value or the error for one input.
type SweepPoint struct {
	Input float64  `json:"input"`
	Value *float64 `json:"value,omitempty"`
	Error string   `json:"error,omitempty"`
}

type SweepResponse struct {
	Equation string       `json:"equation"`
	Vary     string       `json:"vary"`
	Unknown  string       `json:"unknown"`
	Points   []SweepPoint `json:"points"`
	Failures int          `json:"failures"`
}
