package faq

import (
	"slices"

	"github.com/l7mp/faq/pkg/semiring"
	"github.com/l7mp/faq/pkg/value"
	"github.com/l7mp/faq/pkg/zset"
)

var _ Factor[int64] = &GraphFactor[int64]{}

// GraphFactor is an undirected edge relation between two endpoint variables, or a lower-arity
// relation produced by eliminating endpoints.
//
// The variables of a graph factor are kept in ascending order and every binary tuple is kept with
// its smaller endpoint first, so each undirected edge has exactly one representation. A pattern
// is evaluated correctly only if its variables are totally ordered by its edges (as in a clique);
// otherwise the orientation filter drops valid bindings.
type GraphFactor[W any] struct {
	vars   []Variable
	tuples *zset.ZSet[W]
}

// NewGraphFactor creates a graph factor from edges. Each binary tuple is an undirected edge: it is
// stored smaller endpoint first and self loops are dropped; duplicate edges have their weights
// combined. Tuples of other arities are kept, permuted onto the sorted variable order.
func NewGraphFactor[W any](s semiring.Semiring[W], vars []Variable, entries []zset.Entry[W]) (*GraphFactor[W], error) {
	if err := checkDistinct(vars); err != nil {
		return nil, err
	}

	sorted := slices.Clone(vars)
	slices.Sort(sorted)
	pos := positions(vars, sorted)

	z := zset.New(s)
	for _, e := range entries {
		if len(e.Tuple) != len(vars) {
			return nil, NewArityMismatchError(vars, len(e.Tuple))
		}
		t := e.Tuple
		if len(t) == 2 {
			switch value.Compare(t[0], t[1]) {
			case 0:
				continue
			case 1:
				t = value.Tuple{t[1], t[0]}
			}
		} else {
			t = t.Select(pos)
		}
		z.Insert(t, e.Weight)
	}

	return &GraphFactor[W]{vars: sorted, tuples: z}, nil
}

// newGraphFactorFromGeneric canonicalizes an elimination result: the variables are sorted and
// binary tuples whose first endpoint is not strictly smaller than the second are dropped.
func newGraphFactorFromGeneric[W any](f *GenericFactor[W]) (*GraphFactor[W], error) {
	sorted := slices.Clone(f.vars)
	slices.Sort(sorted)
	g, err := f.Reorder(sorted)
	if err != nil {
		return nil, err
	}

	return &GraphFactor[W]{
		vars:   sorted,
		tuples: zset.Filter(g.tuples, isCanonicalEdge),
	}, nil
}

func isCanonicalEdge(t value.Tuple) bool {
	if len(t) != 2 {
		return true
	}
	return t[0].Less(t[1])
}

func (f *GraphFactor[W]) factor() {}

func (f *GraphFactor[W]) Kind() Kind { return KindGraph }

func (f *GraphFactor[W]) Variables() []Variable { return slices.Clone(f.vars) }

func (f *GraphFactor[W]) Participates(v Variable) bool { return slices.Contains(f.vars, v) }

func (f *GraphFactor[W]) ProjectForJoin(joinVars []Variable) (*zset.Indexed[W], error) {
	return projectForJoin(f.vars, f.tuples, joinVars)
}

func (f *GraphFactor[W]) Tuples() *zset.ZSet[W] { return f.tuples }

func (f *GraphFactor[W]) Semiring() semiring.Semiring[W] { return f.tuples.Semiring() }

func (f *GraphFactor[W]) Reorder(vars []Variable) (*GenericFactor[W], error) {
	return reorder(f.vars, f.tuples, vars)
}

func (f *GraphFactor[W]) Len() int { return f.tuples.Len() }

func (f *GraphFactor[W]) String() string { return render(KindGraph, f.vars, f.tuples) }
