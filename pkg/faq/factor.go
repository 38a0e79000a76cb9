package faq

import (
	"fmt"
	"slices"
	"strings"

	"github.com/l7mp/faq/pkg/semiring"
	"github.com/l7mp/faq/pkg/value"
	"github.com/l7mp/faq/pkg/zset"
)

// Kind selects the factor variant of a query.
type Kind string

const (
	// KindGeneric is the arbitrary-arity weighted relation of probabilistic queries.
	KindGeneric Kind = "generic"
	// KindGraph is the undirected edge relation of graph-pattern queries.
	KindGraph Kind = "graph"
)

// Factor is a weighted relation over an ordered list of distinct variables: a hyperedge of the
// query hypergraph. Position i of every tuple holds the value of the i-th variable.
//
// The set of variants is closed: GenericFactor and GraphFactor.
type Factor[W any] interface {
	// Kind returns the variant of the factor.
	Kind() Kind
	// Variables returns a copy of the variable list.
	Variables() []Variable
	// Participates reports whether v is one of the factor's variables.
	Participates(v Variable) bool
	// ProjectForJoin splits each tuple into the values at joinVars (the key, in the order of
	// joinVars) and the values at the remaining positions (in the factor's order). Ids missing from
	// the factor are absent from the key.
	ProjectForJoin(joinVars []Variable) (*zset.Indexed[W], error)
	// Tuples returns the weighted tuples. The result must not be modified.
	Tuples() *zset.ZSet[W]
	// Semiring returns the weight algebra.
	Semiring() semiring.Semiring[W]
	// Reorder permutes the factor onto a permutation of its variable list.
	Reorder(vars []Variable) (*GenericFactor[W], error)
	// Len returns the number of distinct tuples.
	Len() int
	String() string

	factor()
}

var _ Factor[int64] = &GenericFactor[int64]{}

// GenericFactor is the default factor: arbitrary arity, tuples kept as given.
type GenericFactor[W any] struct {
	vars   []Variable
	tuples *zset.ZSet[W]
}

// NewGenericFactor creates a factor, merging duplicate tuples with the semiring's Combine. It fails
// if the variable list has duplicates or a tuple's length differs from it.
func NewGenericFactor[W any](s semiring.Semiring[W], vars []Variable, entries []zset.Entry[W]) (*GenericFactor[W], error) {
	return NewGenericFactorFromZSet(vars, zset.FromEntries(s, entries))
}

// NewGenericFactorFromZSet wraps a ZSet as a factor. The ZSet is owned by the factor afterwards.
func NewGenericFactorFromZSet[W any](vars []Variable, z *zset.ZSet[W]) (*GenericFactor[W], error) {
	if err := checkDistinct(vars); err != nil {
		return nil, err
	}
	if err := checkArity(vars, z); err != nil {
		return nil, err
	}
	return &GenericFactor[W]{vars: slices.Clone(vars), tuples: z}, nil
}

func (f *GenericFactor[W]) factor() {}

func (f *GenericFactor[W]) Kind() Kind { return KindGeneric }

func (f *GenericFactor[W]) Variables() []Variable { return slices.Clone(f.vars) }

func (f *GenericFactor[W]) Participates(v Variable) bool { return slices.Contains(f.vars, v) }

func (f *GenericFactor[W]) ProjectForJoin(joinVars []Variable) (*zset.Indexed[W], error) {
	return projectForJoin(f.vars, f.tuples, joinVars)
}

func (f *GenericFactor[W]) Tuples() *zset.ZSet[W] { return f.tuples }

func (f *GenericFactor[W]) Semiring() semiring.Semiring[W] { return f.tuples.Semiring() }

func (f *GenericFactor[W]) Reorder(vars []Variable) (*GenericFactor[W], error) {
	return reorder(f.vars, f.tuples, vars)
}

func (f *GenericFactor[W]) Len() int { return f.tuples.Len() }

func (f *GenericFactor[W]) String() string { return render(KindGeneric, f.vars, f.tuples) }

// Weight returns the weight of a tuple, or zero if absent.
func (f *GenericFactor[W]) Weight(t value.Tuple) W { return f.tuples.Weight(t) }

// Entries returns the weighted tuples ordered by tuple.
func (f *GenericFactor[W]) Entries() []zset.Entry[W] { return f.tuples.Entries() }

func checkArity[W any](vars []Variable, z *zset.ZSet[W]) error {
	var err error
	z.ForEach(func(t value.Tuple, _ W) bool {
		if len(t) != len(vars) {
			err = NewArityMismatchError(vars, len(t))
			return false
		}
		return true
	})
	return err
}

func projectForJoin[W any](vars []Variable, z *zset.ZSet[W], joinVars []Variable) (*zset.Indexed[W], error) {
	ix, err := zset.Index(z, positions(vars, joinVars))
	if err != nil {
		return nil, fmt.Errorf("cannot project factor over %v for join on %v: %w", vars, joinVars, err)
	}
	return ix, nil
}

func reorder[W any](from []Variable, z *zset.ZSet[W], to []Variable) (*GenericFactor[W], error) {
	if len(to) != len(from) || len(positions(from, to)) != len(from) {
		return nil, fmt.Errorf("cannot reorder factor over %v onto %v", from, to)
	}
	if err := checkDistinct(to); err != nil {
		return nil, err
	}
	pos := positions(from, to)
	if slices.Equal(from, to) {
		return &GenericFactor[W]{vars: slices.Clone(to), tuples: z.DeepCopy()}, nil
	}
	tuples, err := zset.Project(z, pos)
	if err != nil {
		return nil, fmt.Errorf("cannot reorder factor over %v onto %v: %w", from, to, err)
	}
	return &GenericFactor[W]{vars: slices.Clone(to), tuples: tuples}, nil
}

func render[W any](kind Kind, vars []Variable, z *zset.ZSet[W]) string {
	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.String()
	}
	return fmt.Sprintf("%s[%s]%s", kind, strings.Join(names, ","), z.String())
}
