package faq

import (
	"fmt"
	"slices"

	"github.com/l7mp/faq/pkg/value"
	"github.com/l7mp/faq/pkg/zset"
)

// Aggregate removes one variable from a joined factor, folding the weights of tuples that become
// identical.
type Aggregate[W any] interface {
	// Name identifies the aggregate, e.g., in traces.
	Name() string
	// Reduce returns f without variable v.
	Reduce(f *GenericFactor[W], v Variable) (*GenericFactor[W], error)
}

type sumAggregate[W any] struct{}

// Sum sums out the variable with the semiring's Combine.
func Sum[W any]() Aggregate[W] { return sumAggregate[W]{} }

func (sumAggregate[W]) Name() string { return "sum" }

func (sumAggregate[W]) Reduce(f *GenericFactor[W], v Variable) (*GenericFactor[W], error) {
	return reduce(f, v, f.Semiring().Combine)
}

type maxAggregate[W any] struct{}

// Max keeps, for every remaining tuple, the largest weight under the semiring's total order.
func Max[W any]() Aggregate[W] { return maxAggregate[W]{} }

func (maxAggregate[W]) Name() string { return "max" }

func (maxAggregate[W]) Reduce(f *GenericFactor[W], v Variable) (*GenericFactor[W], error) {
	s := f.Semiring()
	return reduce(f, v, func(a, b W) W {
		if s.Compare(a, b) >= 0 {
			return a
		}
		return b
	})
}

func reduce[W any](f *GenericFactor[W], v Variable, fold func(a, b W) W) (*GenericFactor[W], error) {
	pos := slices.Index(f.vars, v)
	if pos < 0 {
		return nil, NewUnboundEliminationVariableError(v, f.vars)
	}
	z := zset.GroupAndCombine(f.tuples, func(t value.Tuple) value.Tuple { return t.Without(pos) }, fold)
	return &GenericFactor[W]{vars: without(f.vars, v), tuples: z}, nil
}

// Eliminate removes variable v from a join result and returns a factor of the joined kind over
// the union of the joined variables minus v.
//
// Without an aggregate the join rows are normalized: v is dropped from the key and tuples that
// coincide have their weights combined. With an aggregate the flattened join is handed to it.
// Graph results are then canonicalized: variables are sorted and binary tuples are kept only
// with their smaller endpoint first.
func Eliminate[W any](j *Joined[W], v Variable, agg Aggregate[W]) (Factor[W], error) {
	pos := slices.Index(j.JoinVars, v)
	if pos < 0 {
		return nil, NewUnboundEliminationVariableError(v, j.JoinVars)
	}

	var (
		reduced *GenericFactor[W]
		err     error
	)
	if agg == nil {
		reduced = normalize(j, pos)
	} else {
		reduced, err = agg.Reduce(j.Factor(), v)
		if err != nil {
			return nil, fmt.Errorf("aggregate %s failed: %w", agg.Name(), err)
		}
	}

	return finalize(j.Kind, reduced, without(j.Variables, v))
}

// normalize drops the key value at pos from every row and concatenates the remaining key with the
// value segments.
func normalize[W any](j *Joined[W], pos int) *GenericFactor[W] {
	z := j.rows.Flatten(func(key, val value.Tuple) value.Tuple {
		return value.Concat(key.Without(pos), val)
	})
	cols := j.Columns()
	return &GenericFactor[W]{vars: append(cols[:pos:pos], cols[pos+1:]...), tuples: z}
}

// finalize lays out the factor along vars and converts it to the requested kind.
func finalize[W any](kind Kind, f *GenericFactor[W], vars []Variable) (Factor[W], error) {
	out, err := f.Reorder(vars)
	if err != nil {
		return nil, err
	}
	if kind == KindGraph {
		g, err := newGraphFactorFromGeneric(out)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return out, nil
}
