package zset

import (
	"fmt"
	"slices"

	"github.com/l7mp/faq/pkg/semiring"
	"github.com/l7mp/faq/pkg/value"
)

// Map applies f to every tuple and consolidates the result: tuples that f maps to the same output
// have their weights combined.
func Map[W any](z *ZSet[W], f func(value.Tuple) value.Tuple) *ZSet[W] {
	result := New(z.s)
	for key, t := range z.tuples {
		result.Insert(f(t), z.weights[key])
	}
	return result
}

// Filter keeps the tuples for which pred returns true.
func Filter[W any](z *ZSet[W], pred func(value.Tuple) bool) *ZSet[W] {
	result := New(z.s)
	for key, t := range z.tuples {
		if pred(t) {
			result.tuples[key] = t.Clone()
			result.weights[key] = z.weights[key]
		}
	}
	return result
}

// Project keeps the columns at the given positions, in the order given, and consolidates.
func Project[W any](z *ZSet[W], pos []int) (*ZSet[W], error) {
	result := New(z.s)
	for key, t := range z.tuples {
		if err := checkPositions(t, pos); err != nil {
			return nil, newZSetError("projection failed", err)
		}
		result.Insert(t.Select(pos), z.weights[key])
	}
	return result, nil
}

// GroupAndCombine groups tuples by the output of group and folds the weights inside each group
// with combine. The semiring's own Combine is the usual choice; passing a different fold (e.g.,
// a maximum) changes the aggregate without changing the weight algebra.
func GroupAndCombine[W any](z *ZSet[W], group func(value.Tuple) value.Tuple, combine func(a, b W) W) *ZSet[W] {
	type acc struct {
		tuple  value.Tuple
		weight W
	}
	groups := make(map[string]*acc)

	for key, t := range z.tuples {
		g := group(t)
		gk := g.Key()
		if a, ok := groups[gk]; ok {
			a.weight = combine(a.weight, z.weights[key])
			continue
		}
		groups[gk] = &acc{tuple: g, weight: z.weights[key]}
	}

	result := New(z.s)
	for _, a := range groups {
		result.Insert(a.tuple, a.weight)
	}
	return result
}

// Indexed is a keyed collection: for each key tuple it holds a consolidated ZSet of value tuples.
// It is the arrangement joins operate on.
type Indexed[W any] struct {
	s      semiring.Semiring[W]
	keys   map[string]value.Tuple
	groups map[string]*ZSet[W]
}

// NewIndexed creates an empty keyed collection.
func NewIndexed[W any](s semiring.Semiring[W]) *Indexed[W] {
	return &Indexed[W]{
		s:      s,
		keys:   make(map[string]value.Tuple),
		groups: make(map[string]*ZSet[W]),
	}
}

// Index splits every tuple into the columns at keyPos (the key) and the remaining columns in
// their original order (the value).
func Index[W any](z *ZSet[W], keyPos []int) (*Indexed[W], error) {
	ix := NewIndexed(z.s)
	for key, t := range z.tuples {
		if err := checkPositions(t, keyPos); err != nil {
			return nil, newZSetError("indexing failed", err)
		}
		ix.Insert(t.Select(keyPos), rest(t, keyPos), z.weights[key])
	}
	return ix, nil
}

// Insert adds a (key, value) pair with the given weight.
func (ix *Indexed[W]) Insert(key, val value.Tuple, w W) {
	k := key.Key()
	g, ok := ix.groups[k]
	if !ok {
		g = New(ix.s)
		ix.groups[k] = g
		ix.keys[k] = key.Clone()
	}
	g.Insert(val, w)
	if g.IsZero() {
		delete(ix.groups, k)
		delete(ix.keys, k)
	}
}

// Len returns the number of distinct keys.
func (ix *Indexed[W]) Len() int { return len(ix.keys) }

// Size returns the number of (key, value) pairs.
func (ix *Indexed[W]) Size() int {
	n := 0
	for _, g := range ix.groups {
		n += g.Len()
	}
	return n
}

// Keys returns the keys in ascending order.
func (ix *Indexed[W]) Keys() []value.Tuple {
	ret := make([]value.Tuple, 0, len(ix.keys))
	for _, k := range ix.keys {
		ret = append(ret, k.Clone())
	}
	slices.SortFunc(ret, value.CompareTuples)
	return ret
}

// Group returns the values stored under a key, or nil if the key is absent.
func (ix *Indexed[W]) Group(key value.Tuple) *ZSet[W] {
	return ix.groups[key.Key()]
}

// Flatten maps every (key, value) pair into a tuple with f and consolidates the result.
func (ix *Indexed[W]) Flatten(f func(key, val value.Tuple) value.Tuple) *ZSet[W] {
	result := New(ix.s)
	for k, g := range ix.groups {
		key := ix.keys[k]
		for vk, val := range g.tuples {
			result.Insert(f(key, val), g.weights[vk])
		}
	}
	return result
}

// EquiJoin joins two keyed collections on equal keys. For every key present on both sides and
// every pair of values, merge produces the output value or rejects the pair; the weight of an
// output pair is the product of the input weights. The result is keyed by the common key.
func EquiJoin[W any](left, right *Indexed[W], merge func(key, l, r value.Tuple) (value.Tuple, bool)) *Indexed[W] {
	s := left.s
	result := NewIndexed(s)

	// probe the collection with fewer keys
	probe, build, swapped := left, right, false
	if right.Len() < left.Len() {
		probe, build, swapped = right, left, true
	}

	for _, key := range probe.Keys() {
		bg := build.Group(key)
		if bg == nil {
			continue
		}
		built := bg.Entries()
		for _, pe := range probe.Group(key).Entries() {
			for _, be := range built {
				l, r := pe.Tuple, be.Tuple
				lw, rw := pe.Weight, be.Weight
				if swapped {
					l, r = r, l
					lw, rw = rw, lw
				}
				val, ok := merge(key, l, r)
				if !ok {
					continue
				}
				result.Insert(key, val, s.Multiply(lw, rw))
			}
		}
	}

	return result
}

func checkPositions(t value.Tuple, pos []int) error {
	for _, p := range pos {
		if p < 0 || p >= len(t) {
			return fmt.Errorf("position %d out of range for tuple %s of arity %d", p, t, len(t))
		}
	}
	return nil
}

func rest(t value.Tuple, keyPos []int) value.Tuple {
	ret := make(value.Tuple, 0, len(t))
	for i, v := range t {
		if !slices.Contains(keyPos, i) {
			ret = append(ret, v)
		}
	}
	return ret
}
