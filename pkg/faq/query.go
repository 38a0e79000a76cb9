package faq

import (
	"fmt"
	"slices"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/l7mp/faq/pkg/util"
)

// Mode selects how the factors participating in one elimination step are joined.
type Mode string

const (
	// ModeGlobalJoin joins all participating factors at once on their common variables and
	// normalizes the result. This is the default.
	ModeGlobalJoin Mode = "global"
	// ModePairwiseFold joins participating factors two at a time, each pair on its own shared
	// variables, and removes the variable with the step's aggregate (Sum if none is given).
	ModePairwiseFold Mode = "pairwise"
)

// ParseMode parses a mode name. The empty string means ModeGlobalJoin.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeGlobalJoin:
		return ModeGlobalJoin, nil
	case ModePairwiseFold:
		return ModePairwiseFold, nil
	default:
		return "", fmt.Errorf("unknown elimination mode %q", s)
	}
}

// Options configures the engine.
type Options struct {
	// Logger is the logger. The zero value disables logging.
	Logger logr.Logger
	// Mode is the elimination strategy, default ModeGlobalJoin.
	Mode Mode
}

// Query is a functional aggregate query: a product of factors, and the order in which the bound
// variables are eliminated. Variables absent from Order are free and survive into the output.
type Query[W any] struct {
	Factors []Factor[W]
	Order   []Variable
	// Aggregates is either empty or holds one aggregate per variable of Order.
	Aggregates []Aggregate[W]
}

// Step records one elimination.
type Step struct {
	Variable     Variable     `json:"variable"`
	Aggregate    string       `json:"aggregate,omitempty"`
	Participants [][]Variable `json:"participants"`
	JoinVars     []Variable   `json:"joinVariables"`
	Output       []Variable   `json:"output"`
	Size         int          `json:"size"`
}

// Result is the outcome of InsideOut.
type Result[W any] struct {
	// Output is the relation over the free variables. Its variable list is the column layout of
	// the terminal join.
	Output *GenericFactor[W]
	// Trace lists the elimination steps in order.
	Trace []Step
}

// Variables returns the variable lists of the factors.
func (q Query[W]) Variables() [][]Variable {
	return util.Map(func(f Factor[W]) []Variable { return f.Variables() }, q.Factors)
}

// Free returns the variables that occur in some factor but not in the elimination order, in
// first-seen order.
func (q Query[W]) Free() []Variable {
	return without(Union(q.Variables()...), q.Order...)
}

// Validate checks the query before any relational work is done.
func (q Query[W]) Validate() error {
	if len(q.Factors) == 0 {
		return NewInvalidQueryError(ErrEmptyJoin)
	}

	kind := q.Factors[0].Kind()
	for _, f := range q.Factors {
		if f.Kind() != kind {
			return NewInvalidQueryError(ErrMixedFactorKinds)
		}
	}

	if len(q.Aggregates) != 0 && len(q.Aggregates) != len(q.Order) {
		return NewInvalidQueryError(fmt.Errorf("%w: %d aggregates for %d variables", ErrAggregateCount,
			len(q.Aggregates), len(q.Order)))
	}

	vars := Union(q.Variables()...)
	for i, v := range q.Order {
		if slices.Contains(q.Order[:i], v) {
			return NewInvalidQueryError(fmt.Errorf("%w: %s", ErrDuplicateEliminationVariable, v))
		}
		if !slices.Contains(vars, v) {
			return NewInvalidQueryError(NewEmptyEliminationGroupError(v))
		}
	}

	return nil
}

// InsideOut evaluates the query by eliminating the variables of the elimination order one by
// one and joining what remains.
//
// In every step the factors mentioning the variable are joined and replaced by the join with the
// variable removed. The query is validated up front: a malformed query returns an error and no
// join is computed.
func InsideOut[W any](q Query[W], opts Options) (*Result[W], error) {
	logger := opts.Logger
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}
	log := logger.WithName("inside-out").WithValues("run", uuid.NewString())

	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}

	if err := q.Validate(); err != nil {
		log.V(1).Info("rejecting query", "error", err.Error())
		return nil, err
	}

	kind := q.Factors[0].Kind()
	log.V(1).Info("evaluating query", "kind", kind, "mode", mode, "factors", len(q.Factors),
		"order", q.Order, "free", q.Free())

	pool := slices.Clone(q.Factors)
	trace := make([]Step, 0, len(q.Order))

	for i, v := range q.Order {
		var agg Aggregate[W]
		if len(q.Aggregates) != 0 {
			agg = q.Aggregates[i]
		}

		participating, rest := partition(pool, v)
		if len(participating) == 0 {
			return nil, NewEmptyEliminationGroupError(v)
		}

		step := Step{
			Variable: v,
			Participants: util.Map(func(f Factor[W]) []Variable { return f.Variables() },
				participating),
		}
		step.JoinVars = Intersection(step.Participants...)
		if agg != nil {
			step.Aggregate = agg.Name()
		}

		var eliminated Factor[W]
		switch mode {
		case ModePairwiseFold:
			eliminated, err = eliminatePairwise(kind, participating, v, agg, log)
		default:
			eliminated, err = eliminateGlobal(kind, participating, v, agg, log)
		}
		if err != nil {
			return nil, fmt.Errorf("eliminating %s: %w", v, err)
		}

		step.Output = eliminated.Variables()
		step.Size = eliminated.Len()
		trace = append(trace, step)

		log.V(2).Info("eliminated variable", "variable", v, "participants", len(participating),
			"join-vars", step.JoinVars, "output", step.Output, "size", step.Size)
		log.V(5).Info("eliminated factor", "tuples", util.Stringify(eliminated.Tuples().Entries()))

		pool = append(rest, eliminated)
	}

	// the pool now only holds factors over free variables
	joined, err := join(kind, pool)
	if err != nil {
		return nil, err
	}
	output := joined.Factor()

	log.V(1).Info("query evaluated", "steps", len(trace), "output", output.Variables(),
		"size", output.Len())

	return &Result[W]{Output: output, Trace: trace}, nil
}

func partition[W any](pool []Factor[W], v Variable) ([]Factor[W], []Factor[W]) {
	participating, rest := []Factor[W]{}, []Factor[W]{}
	for _, f := range pool {
		if f.Participates(v) {
			participating = append(participating, f)
		} else {
			rest = append(rest, f)
		}
	}
	return participating, rest
}

func eliminateGlobal[W any](kind Kind, participating []Factor[W], v Variable, agg Aggregate[W], log logr.Logger) (Factor[W], error) {
	joined, err := join(kind, participating)
	if err != nil {
		return nil, err
	}
	log.V(4).Info("joined factors", "variable", v, "join-vars", joined.JoinVars,
		"columns", joined.Columns(), "rows", joined.Size())

	return Eliminate(joined, v, agg)
}

func eliminatePairwise[W any](kind Kind, participating []Factor[W], v Variable, agg Aggregate[W], log logr.Logger) (Factor[W], error) {
	if agg == nil {
		agg = Sum[W]()
	}

	acc, err := participating[0].Reorder(participating[0].Variables())
	if err != nil {
		return nil, err
	}
	for _, f := range participating[1:] {
		joined, err := join(kind, []Factor[W]{acc, f})
		if err != nil {
			return nil, err
		}
		log.V(4).Info("joined factor pair", "variable", v, "join-vars", joined.JoinVars,
			"columns", joined.Columns(), "rows", joined.Size())
		acc = joined.Factor()
	}

	reduced, err := agg.Reduce(acc, v)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s failed: %w", agg.Name(), err)
	}

	lists := util.Map(func(f Factor[W]) []Variable { return f.Variables() }, participating)
	return finalize(kind, reduced, without(Union(lists...), v))
}
