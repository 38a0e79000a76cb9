package value

import (
	"strings"
)

// Tuple is an ordered sequence of values. Position i of a tuple holds the value of the i-th
// variable of the relation it belongs to.
type Tuple []Value

// Ints builds a tuple of integer values.
func Ints(ns ...int64) Tuple {
	t := make(Tuple, len(ns))
	for i, n := range ns {
		t[i] = Int(n)
	}
	return t
}

// Strings builds a tuple of text values.
func Strings(ss ...string) Tuple {
	t := make(Tuple, len(ss))
	for i, s := range ss {
		t[i] = String(s)
	}
	return t
}

// Key returns the canonical identity of the tuple. Two tuples have the same key iff they are
// element-wise equal.
func (t Tuple) Key() string {
	buf := make([]byte, 0, 8*len(t)+2)
	buf = append(buf, '[')
	for i, v := range t {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = v.appendKey(buf)
	}
	buf = append(buf, ']')
	return string(buf)
}

// Clone returns a copy of the tuple that shares no storage with t.
func (t Tuple) Clone() Tuple {
	if t == nil {
		return Tuple{}
	}
	ret := make(Tuple, len(t))
	copy(ret, t)
	return ret
}

// Concat returns the concatenation of the given tuples in a fresh tuple.
func Concat(ts ...Tuple) Tuple {
	n := 0
	for _, t := range ts {
		n += len(t)
	}
	ret := make(Tuple, 0, n)
	for _, t := range ts {
		ret = append(ret, t...)
	}
	return ret
}

// Select returns the values at the given positions, in the order of the positions.
func (t Tuple) Select(pos []int) Tuple {
	ret := make(Tuple, len(pos))
	for i, p := range pos {
		ret[i] = t[p]
	}
	return ret
}

// Without returns the tuple with the value at position pos removed.
func (t Tuple) Without(pos int) Tuple {
	ret := make(Tuple, 0, len(t))
	for i, v := range t {
		if i != pos {
			ret = append(ret, v)
		}
	}
	return ret
}

// Equal reports element-wise equality.
func (t Tuple) Equal(o Tuple) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i] != o[i] {
			return false
		}
	}
	return true
}

// CompareTuples orders tuples lexicographically; a proper prefix orders first.
func CompareTuples(a, b Tuple) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// String renders the tuple as "(v1, v2, ...)".
func (t Tuple) String() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
