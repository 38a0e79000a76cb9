package v1alpha1

import (
	"errors"
	"fmt"

	"github.com/l7mp/faq/pkg/faq"
)

// ErrInvalidQuery is wrapped by every validation error of query documents.
var ErrInvalidQuery = errors.New("invalid query document")

func NewInvalidQueryError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}

// Validate checks the document-level constraints of a query. Structural constraints of the
// factors (arity, duplicate variables, elimination groups) are checked by the engine.
func (q *Query) Validate() error {
	if q.APIVersion != "" && q.APIVersion != GroupVersion.String() {
		return NewInvalidQueryError("unknown apiVersion %q", q.APIVersion)
	}
	if q.Kind != "" && q.Kind != QueryKind {
		return NewInvalidQueryError("unknown kind %q", q.Kind)
	}
	return q.Spec.Validate()
}

// Validate checks the document-level constraints of a query spec.
func (s *QuerySpec) Validate() error {
	switch s.Semiring {
	case Counting, MaxProduct, SumProduct:
	default:
		return NewInvalidQueryError("unknown semiring %q", s.Semiring)
	}

	switch s.Kind {
	case "", faq.KindGeneric, faq.KindGraph:
	default:
		return NewInvalidQueryError("unknown factor kind %q", s.Kind)
	}

	if _, err := faq.ParseMode(string(s.Mode)); err != nil {
		return NewInvalidQueryError("%s", err.Error())
	}

	for i, a := range s.Aggregates {
		if a != Sum && a != Max {
			return NewInvalidQueryError("aggregate %d: unknown aggregate %q", i, a)
		}
	}

	if len(s.Factors) == 0 {
		return NewInvalidQueryError("no factors")
	}

	for name, ts := range s.Relations {
		for i, t := range ts {
			if err := t.Validate(); err != nil {
				return fmt.Errorf("relation %q tuple %d: %w", name, i, err)
			}
		}
	}

	for i, f := range s.Factors {
		if err := f.validate(s.Relations); err != nil {
			return fmt.Errorf("factor %d (%s): %w", i, f.Name, err)
		}
	}

	return nil
}

func (f *FactorSpec) validate(relations map[string][]TupleSpec) error {
	if f.Relation != "" {
		if len(f.Tuples) != 0 {
			return NewInvalidQueryError("both relation and tuples are given")
		}
		if _, ok := relations[f.Relation]; !ok {
			return NewInvalidQueryError("unknown relation %q", f.Relation)
		}
	}
	for i, t := range f.Tuples {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("tuple %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks that at most one of weight and multiplicity is given.
func (t *TupleSpec) Validate() error {
	if t.Weight != nil && t.Multiplicity != nil {
		return NewInvalidQueryError("both weight and multiplicity are given for tuple %s", t.Tuple)
	}
	return nil
}

// TupleSet returns the tuples of a factor, resolving named relations.
func (s *QuerySpec) TupleSet(f FactorSpec) []TupleSpec {
	if f.Relation != "" {
		return s.Relations[f.Relation]
	}
	return f.Tuples
}
