// Package faq evaluates Functional Aggregate Queries with the InsideOut variable-elimination
// algorithm.
//
// A query is a product of factors, each a weighted relation over a subset of the query variables,
// together with an elimination order. For every variable of the order, the factors mentioning it
// are joined and the variable is aggregated away; the remaining factors, now over the free
// variables only, are joined into the output relation. The weights are interpreted by a
// semiring, so the same engine counts graph patterns (counting semiring), computes marginals
// (sum-product) and most probable explanations (max-product).
//
// Two factor variants exist: GenericFactor for arbitrary relations and GraphFactor for undirected
// edge relations, which keeps a single canonical orientation per edge so that cyclic patterns
// such as triangles are counted once.
//
// Example usage:
//
//	g12, _ := faq.NewGraphFactor[int64](semiring.NewCounting(), []faq.Variable{1, 2}, edges)
//	g13, _ := faq.NewGraphFactor[int64](semiring.NewCounting(), []faq.Variable{1, 3}, edges)
//	g23, _ := faq.NewGraphFactor[int64](semiring.NewCounting(), []faq.Variable{2, 3}, edges)
//	res, err := faq.InsideOut(faq.Query[int64]{
//		Factors: []faq.Factor[int64]{g23, g12, g13},
//		Order:   []faq.Variable{3, 2, 1},
//	}, faq.Options{Logger: logger})
package faq
