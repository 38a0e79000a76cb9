package zset

import (
	"fmt"
	"slices"
	"strings"

	"github.com/l7mp/faq/pkg/semiring"
	"github.com/l7mp/faq/pkg/value"
)

// ZSetError is the error type of the substrate.
type ZSetError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ZSetError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the cause.
func (e *ZSetError) Unwrap() error { return e.Cause }

func newZSetError(message string, cause error) error {
	return &ZSetError{Message: message, Cause: cause}
}

// ZSet is a weighted multiset of tuples. Duplicate tuples are merged on insertion with the Combine
// operation of the semiring and tuples whose weight becomes zero are dropped, so a ZSet is always
// consolidated.
type ZSet[W any] struct {
	s       semiring.Semiring[W]
	tuples  map[string]value.Tuple // tuple key -> tuple
	weights map[string]W           // tuple key -> weight
}

// Entry is a tuple with its weight.
type Entry[W any] struct {
	Tuple  value.Tuple
	Weight W
}

// Update is a raw insert (positive multiplicity) or delete (negative multiplicity) event.
type Update struct {
	Tuple        value.Tuple
	Multiplicity int64
}

// New creates an empty ZSet over the given semiring.
func New[W any](s semiring.Semiring[W]) *ZSet[W] {
	return &ZSet[W]{
		s:       s,
		tuples:  make(map[string]value.Tuple),
		weights: make(map[string]W),
	}
}

// FromUpdates ingests a batch of insert/delete events, lifting each multiplicity into a weight.
func FromUpdates[W any](s semiring.Semiring[W], updates []Update) *ZSet[W] {
	z := New(s)
	for _, u := range updates {
		z.Insert(u.Tuple, s.FromMultiplicity(u.Multiplicity))
	}
	return z
}

// FromEntries builds a ZSet from weighted tuples, merging duplicates.
func FromEntries[W any](s semiring.Semiring[W], entries []Entry[W]) *ZSet[W] {
	z := New(s)
	for _, e := range entries {
		z.Insert(e.Tuple, e.Weight)
	}
	return z
}

// Semiring returns the weight algebra of the ZSet.
func (z *ZSet[W]) Semiring() semiring.Semiring[W] { return z.s }

// Insert adds a tuple with the given weight in place. The tuple is copied.
func (z *ZSet[W]) Insert(t value.Tuple, w W) {
	if semiring.IsZero(z.s, w) {
		return
	}

	key := t.Key()
	if old, exists := z.weights[key]; exists {
		w = z.s.Combine(old, w)
	} else {
		z.tuples[key] = t.Clone()
	}

	if semiring.IsZero(z.s, w) {
		delete(z.tuples, key)
		delete(z.weights, key)
		return
	}
	z.weights[key] = w
}

// Add returns the union of two ZSets, combining the weights of common tuples.
func (z *ZSet[W]) Add(other *ZSet[W]) *ZSet[W] {
	result := z.DeepCopy()
	if other == nil {
		return result
	}
	for key, w := range other.weights {
		result.Insert(other.tuples[key], w)
	}
	return result
}

// DeepCopy returns a copy of the ZSet that shares no tuple storage with z.
func (z *ZSet[W]) DeepCopy() *ZSet[W] {
	result := &ZSet[W]{
		s:       z.s,
		tuples:  make(map[string]value.Tuple, len(z.tuples)),
		weights: make(map[string]W, len(z.weights)),
	}
	for key, t := range z.tuples {
		result.tuples[key] = t.Clone()
		result.weights[key] = z.weights[key]
	}
	return result
}

// Weight returns the weight of a tuple, or the semiring zero if absent.
func (z *ZSet[W]) Weight(t value.Tuple) W {
	if w, ok := z.weights[t.Key()]; ok {
		return w
	}
	return z.s.Zero()
}

// Len returns the number of distinct tuples.
func (z *ZSet[W]) Len() int { return len(z.weights) }

// IsZero reports whether the ZSet is empty.
func (z *ZSet[W]) IsZero() bool { return len(z.weights) == 0 }

// ForEach calls fn on every tuple in unspecified order until fn returns false. The tuple must not
// be modified.
func (z *ZSet[W]) ForEach(fn func(t value.Tuple, w W) bool) {
	for key, t := range z.tuples {
		if !fn(t, z.weights[key]) {
			return
		}
	}
}

// Entries returns copies of all tuples with their weights, ordered by tuple.
func (z *ZSet[W]) Entries() []Entry[W] {
	result := make([]Entry[W], 0, len(z.tuples))
	for key, t := range z.tuples {
		result = append(result, Entry[W]{Tuple: t.Clone(), Weight: z.weights[key]})
	}
	slices.SortFunc(result, func(a, b Entry[W]) int { return value.CompareTuples(a.Tuple, b.Tuple) })
	return result
}

// Total combines the weights of all tuples.
func (z *ZSet[W]) Total() W {
	ws := make([]W, 0, len(z.weights))
	for _, w := range z.weights {
		ws = append(ws, w)
	}
	return semiring.Fold(z.s, ws...)
}

// String returns a deterministic representation for debugging.
func (z *ZSet[W]) String() string {
	if z.IsZero() {
		return "∅"
	}

	parts := []string{}
	for _, e := range z.Entries() {
		parts = append(parts, fmt.Sprintf("%s×%v", e.Tuple, e.Weight))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
