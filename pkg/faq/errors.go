package faq

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyEliminationGroup means a variable of the elimination order occurs in no factor.
	ErrEmptyEliminationGroup = errors.New("empty elimination group")
	// ErrUnboundEliminationVariable means the variable being eliminated is not a join variable.
	ErrUnboundEliminationVariable = errors.New("unbound elimination variable")
	// ErrArityMismatch means a tuple's length disagrees with its factor's variable list.
	ErrArityMismatch = errors.New("arity mismatch")
	// ErrDuplicateVariableInFactor means a factor lists the same variable twice.
	ErrDuplicateVariableInFactor = errors.New("duplicate variable in factor")
	// ErrEmptyJoin means a join was requested over zero factors.
	ErrEmptyJoin = errors.New("join of zero factors")
	// ErrDuplicateEliminationVariable means the elimination order lists a variable twice.
	ErrDuplicateEliminationVariable = errors.New("duplicate elimination variable")
	// ErrMixedFactorKinds means a query mixes generic and graph factors.
	ErrMixedFactorKinds = errors.New("mixed factor kinds")
	// ErrAggregateCount means the aggregate list does not match the elimination order.
	ErrAggregateCount = errors.New("aggregate count mismatch")
)

func NewEmptyEliminationGroupError(v Variable) error {
	return fmt.Errorf("%w: variable %s occurs in no factor", ErrEmptyEliminationGroup, v)
}

func NewUnboundEliminationVariableError(v Variable, joinVars []Variable) error {
	return fmt.Errorf("%w: variable %s is not among the join variables %v", ErrUnboundEliminationVariable,
		v, joinVars)
}

func NewArityMismatchError(vars []Variable, arity int) error {
	return fmt.Errorf("%w: tuple of arity %d in factor over %v", ErrArityMismatch, arity, vars)
}

func NewDuplicateVariableError(v Variable, vars []Variable) error {
	return fmt.Errorf("%w: variable %s repeats in %v", ErrDuplicateVariableInFactor, v, vars)
}

type ErrInvalidQuery = error

func NewInvalidQueryError(err error) ErrInvalidQuery {
	return fmt.Errorf("invalid query: %w", err)
}
