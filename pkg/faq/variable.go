package faq

import (
	"fmt"
	"slices"
)

// Variable identifies a query variable (a vertex of the query hypergraph).
type Variable uint32

// String renders the variable as "x<id>".
func (v Variable) String() string { return fmt.Sprintf("x%d", uint32(v)) }

// Union returns the deduplicated concatenation of the variable lists, preserving first-seen order.
func Union(lists ...[]Variable) []Variable {
	ret := []Variable{}
	for _, l := range lists {
		for _, v := range l {
			if !slices.Contains(ret, v) {
				ret = append(ret, v)
			}
		}
	}
	return ret
}

// Intersection returns the variables of the first list that occur in every other list, in the
// order of the first list.
func Intersection(lists ...[]Variable) []Variable {
	if len(lists) == 0 {
		return []Variable{}
	}
	ret := []Variable{}
	for _, v := range lists[0] {
		shared := true
		for _, l := range lists[1:] {
			if !slices.Contains(l, v) {
				shared = false
				break
			}
		}
		if shared {
			ret = append(ret, v)
		}
	}
	return ret
}

// without returns vars minus the elements of drop, order preserved.
func without(vars []Variable, drop ...Variable) []Variable {
	ret := make([]Variable, 0, len(vars))
	for _, v := range vars {
		if !slices.Contains(drop, v) {
			ret = append(ret, v)
		}
	}
	return ret
}

// positions returns the index in vars of every element of sel that vars contains. Missing
// elements are skipped.
func positions(vars, sel []Variable) []int {
	ret := make([]int, 0, len(sel))
	for _, v := range sel {
		if i := slices.Index(vars, v); i >= 0 {
			ret = append(ret, i)
		}
	}
	return ret
}

func checkDistinct(vars []Variable) error {
	for i, v := range vars {
		if slices.Contains(vars[:i], v) {
			return NewDuplicateVariableError(v, vars)
		}
	}
	return nil
}
