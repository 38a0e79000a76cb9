package faq

import (
	"slices"

	"github.com/l7mp/faq/pkg/semiring"
	"github.com/l7mp/faq/pkg/value"
	"github.com/l7mp/faq/pkg/zset"
)

// Joined is the natural join of the factors participating in one elimination step.
//
// Every row is a key over JoinVars and a value that concatenates the segments contributed by the
// joined factors in fold order: segment i holds the variables of the i-th factor that are neither
// join variables nor contributed by an earlier factor. Columns lists the resulting layout.
type Joined[W any] struct {
	// Kind is the factor variant of the joined factors.
	Kind Kind
	// Variables is the ordered first-seen union of the variable lists.
	Variables []Variable
	// JoinVars are the variables shared by every joined factor, in the first factor's order.
	JoinVars []Variable
	// Segments are the value variables contributed by each factor.
	Segments [][]Variable

	s    semiring.Semiring[W]
	rows *zset.Indexed[W]
}

// Columns returns the layout of a flattened row: the join variables followed by all segments.
func (j *Joined[W]) Columns() []Variable {
	cols := slices.Clone(j.JoinVars)
	for _, seg := range j.Segments {
		cols = append(cols, seg...)
	}
	return cols
}

// Size returns the number of distinct joined rows.
func (j *Joined[W]) Size() int { return j.rows.Size() }

// Factor flattens the join into a generic factor over Columns.
func (j *Joined[W]) Factor() *GenericFactor[W] {
	z := j.rows.Flatten(func(key, val value.Tuple) value.Tuple { return value.Concat(key, val) })
	return &GenericFactor[W]{vars: j.Columns(), tuples: z}
}

// Join computes the natural join of a non-empty list of factors of the same kind.
//
// The join key is the set of variables common to every factor. Factors are folded left to right
// with an equi-join on the key, multiplying weights. A variable shared by some but not all factors
// is not part of the key: its values must agree across the factors that carry it and it appears
// once in the output. A single factor joins with itself over its full variable list.
func Join[W any](factors []Factor[W]) (*Joined[W], error) {
	if len(factors) == 0 {
		return nil, ErrEmptyJoin
	}
	kind := factors[0].Kind()
	for _, f := range factors[1:] {
		if f.Kind() != kind {
			return nil, ErrMixedFactorKinds
		}
	}
	return join(kind, factors)
}

func join[W any](kind Kind, factors []Factor[W]) (*Joined[W], error) {
	if len(factors) == 0 {
		return nil, ErrEmptyJoin
	}

	lists := make([][]Variable, len(factors))
	for i, f := range factors {
		lists[i] = f.Variables()
	}

	var joinVars []Variable
	if len(factors) == 1 {
		joinVars = lists[0]
	} else {
		joinVars = Intersection(lists...)
	}

	acc, err := factors[0].ProjectForJoin(joinVars)
	if err != nil {
		return nil, err
	}
	accCols := without(lists[0], joinVars...)
	segments := [][]Variable{slices.Clone(accCols)}

	for i, f := range factors[1:] {
		next, err := f.ProjectForJoin(joinVars)
		if err != nil {
			return nil, err
		}

		// value columns of the next factor either repeat a column of the accumulator (equality
		// constraint) or extend it
		nextCols := without(lists[i+1], joinVars...)
		var eq [][2]int
		keep := []int{}
		seg := []Variable{}
		for c, v := range nextCols {
			if p := slices.Index(accCols, v); p >= 0 {
				eq = append(eq, [2]int{p, c})
				continue
			}
			keep = append(keep, c)
			seg = append(seg, v)
		}

		acc = zset.EquiJoin(acc, next, func(_, l, r value.Tuple) (value.Tuple, bool) {
			for _, e := range eq {
				if l[e[0]] != r[e[1]] {
					return nil, false
				}
			}
			return value.Concat(l, r.Select(keep)), true
		})
		accCols = append(accCols, seg...)
		segments = append(segments, seg)
	}

	return &Joined[W]{
		Kind:      kind,
		Variables: Union(lists...),
		JoinVars:  slices.Clone(joinVars),
		Segments:  segments,
		s:         factors[0].Semiring(),
		rows:      acc,
	}, nil
}
