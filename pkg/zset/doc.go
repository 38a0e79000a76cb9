// Package zset implements the in-memory relational substrate of the query engine: weighted
// multisets of tuples (Z-sets) and the operators over them.
//
// A ZSet maps each tuple to a weight drawn from a semiring. Inserting a tuple that is already
// present combines the two weights, and tuples whose weight becomes zero disappear, so a ZSet is
// always consolidated. Raw insert/delete events are ingested with FromUpdates, which lifts their
// integer multiplicities into weights.
//
// Operators:
//   - Map, Filter, Project: elementwise transforms, consolidating the output.
//   - GroupAndCombine: consolidation under a caller-supplied fold.
//   - Index, EquiJoin, Flatten: keyed arrangements and the equi-join over them; joined weights
//     are multiplied.
package zset
