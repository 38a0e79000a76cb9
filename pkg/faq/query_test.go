package faq

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/l7mp/faq/pkg/value"
	"github.com/l7mp/faq/pkg/zset"
)

var _ = Describe("InsideOut", func() {
	for _, mode := range []Mode{ModeGlobalJoin, ModePairwiseFold} {
		opts := Options{Logger: logger, Mode: mode}

		Context("in "+string(mode)+" mode", func() {
			Describe("triangle counting", func() {
				It("should count the triangles of the graph", func() {
					q := Query[int64]{
						Factors: []Factor[int64]{graphFactor(2, 3), graphFactor(1, 2), graphFactor(1, 3)},
						Order:   vars(3, 2, 1),
					}
					res, err := InsideOut(q, opts)
					Expect(err).NotTo(HaveOccurred())
					Expect(res.Output.Variables()).To(BeEmpty())
					Expect(res.Output.Entries()).To(Equal([]zset.Entry[int64]{entry(value.Tuple{}, int64(2))}))

					Expect(res.Trace).To(HaveLen(3))
					Expect(res.Trace[0].Variable).To(Equal(Variable(3)))
					Expect(res.Trace[0].Participants).To(Equal([][]Variable{vars(2, 3), vars(1, 3)}))
					Expect(res.Trace[0].JoinVars).To(Equal(vars(3)))
					Expect(res.Trace[0].Output).To(Equal(vars(1, 2)))
					Expect(res.Trace[0].Size).To(Equal(2))
					Expect(res.Trace[1].Output).To(Equal(vars(1)))
					Expect(res.Trace[1].Size).To(Equal(2))
					Expect(res.Trace[2].Output).To(BeEmpty())
					Expect(res.Trace[2].Size).To(Equal(1))
				})

				It("should apply explicit sum aggregates", func() {
					q := Query[int64]{
						Factors:    []Factor[int64]{graphFactor(2, 3), graphFactor(1, 2), graphFactor(1, 3)},
						Order:      vars(3, 2, 1),
						Aggregates: []Aggregate[int64]{Sum[int64](), Sum[int64](), Sum[int64]()},
					}
					res, err := InsideOut(q, opts)
					Expect(err).NotTo(HaveOccurred())
					Expect(res.Output.Weight(value.Tuple{})).To(Equal(int64(2)))
					Expect(res.Trace[0].Aggregate).To(Equal("sum"))
				})

				It("should report each triangle once over the free variables", func() {
					q := Query[int64]{
						Factors: []Factor[int64]{graphFactor(2, 3), graphFactor(1, 2), graphFactor(1, 3)},
						Order:   vars(3),
					}
					res, err := InsideOut(q, opts)
					Expect(err).NotTo(HaveOccurred())
					Expect(res.Output.Variables()).To(Equal(vars(1, 2)))
					Expect(res.Output.Entries()).To(Equal([]zset.Entry[int64]{
						entry(ints(1, 2), int64(1)),
						entry(ints(5, 6), int64(1)),
					}))
				})

				It("should list the triangles without elimination", func() {
					q := Query[int64]{
						Factors: []Factor[int64]{graphFactor(2, 3), graphFactor(1, 2), graphFactor(1, 3)},
					}
					res, err := InsideOut(q, opts)
					Expect(err).NotTo(HaveOccurred())
					Expect(res.Trace).To(BeEmpty())
					out, err := res.Output.Reorder(vars(1, 2, 3))
					Expect(err).NotTo(HaveOccurred())
					Expect(out.Entries()).To(Equal([]zset.Entry[int64]{
						entry(ints(1, 2, 3), int64(1)),
						entry(ints(5, 6, 7), int64(1)),
					}))
				})

				It("should not depend on the order the factors are presented in", func() {
					for _, factors := range [][]Factor[int64]{
						{graphFactor(1, 3), graphFactor(2, 3), graphFactor(1, 2)},
						{graphFactor(1, 2), graphFactor(1, 3), graphFactor(2, 3)},
						{graphFactor(1, 3), graphFactor(1, 2), graphFactor(2, 3)},
					} {
						res, err := InsideOut(Query[int64]{Factors: factors, Order: vars(3, 2, 1)}, opts)
						Expect(err).NotTo(HaveOccurred())
						Expect(res.Output.Weight(value.Tuple{})).To(Equal(int64(2)))

						res, err = InsideOut(Query[int64]{Factors: factors, Order: vars(3)}, opts)
						Expect(err).NotTo(HaveOccurred())
						out, err := res.Output.Reorder(vars(1, 2))
						Expect(err).NotTo(HaveOccurred())
						Expect(out.Entries()).To(Equal([]zset.Entry[int64]{
							entry(ints(1, 2), int64(1)),
							entry(ints(5, 6), int64(1)),
						}))
					}
				})
			})

			Describe("probabilistic inference", func() {
				It("should compute the marginal of the alarm", func() {
					q := Query[float64]{
						Factors: burglaryFactors(sumProduct, identity),
						Order:   vars(1, 2, 4, 5),
					}
					res, err := InsideOut(q, opts)
					Expect(err).NotTo(HaveOccurred())
					Expect(res.Output.Variables()).To(Equal(vars(3)))
					Expect(res.Output.Len()).To(Equal(2))
					Expect(res.Output.Weight(strs("A"))).To(BeNumerically("~", 0.0001296, 1e-12))
					Expect(res.Output.Weight(strs("!A"))).To(BeNumerically("~", 0.0000016, 1e-12))
					Expect(res.Output.Tuples().Total()).To(BeNumerically("~", 0.0001312, 1e-6))
				})

				It("should keep the weights stable under a different presentation", func() {
					factors := burglaryFactors(sumProduct, identity)
					reversed := []Factor[float64]{}
					for i := len(factors) - 1; i >= 0; i-- {
						reversed = append(reversed, factors[i])
					}
					a, err := InsideOut(Query[float64]{Factors: factors, Order: vars(1, 2, 4, 5)}, opts)
					Expect(err).NotTo(HaveOccurred())
					b, err := InsideOut(Query[float64]{Factors: reversed, Order: vars(1, 2, 4, 5)}, opts)
					Expect(err).NotTo(HaveOccurred())
					for _, t := range []value.Tuple{strs("A"), strs("!A")} {
						Expect(b.Output.Weight(t)).To(BeNumerically("~", a.Output.Weight(t), 1e-12))
					}
				})

				It("should find the most probable explanation with max aggregates", func() {
					f := genericFactor(sumProduct, vars(1, 2),
						entry(strs("a", "x"), 0.2), entry(strs("b", "x"), 0.5), entry(strs("a", "y"), 0.3))
					q := Query[float64]{
						Factors:    []Factor[float64]{f},
						Order:      vars(1),
						Aggregates: []Aggregate[float64]{Max[float64]()},
					}
					res, err := InsideOut(q, opts)
					Expect(err).NotTo(HaveOccurred())
					Expect(res.Output.Weight(strs("x"))).To(BeNumerically("~", 0.5, 1e-9))
					Expect(res.Output.Weight(strs("y"))).To(BeNumerically("~", 0.3, 1e-9))
					Expect(res.Trace[0].Aggregate).To(Equal("max"))
				})

				It("should evaluate over the max-product semiring", func() {
					q := Query[float64]{
						Factors: burglaryFactors(maxProduct, identity),
						Order:   vars(1, 2, 4, 5),
					}
					res, err := InsideOut(q, opts)
					Expect(err).NotTo(HaveOccurred())
					Expect(res.Output.Weight(strs("A"))).To(BeNumerically("~", 0.0001296, 1e-12))
					best := res.Output.Tuples().Total()
					Expect(best).To(BeNumerically("~", 0.0001296, 1e-12))
				})
			})

			Describe("degenerate queries", func() {
				It("should project a single factor onto the surviving variable", func() {
					f := genericFactor(counting, vars(1, 2, 3),
						entry(ints(1, 10, 100), int64(2)), entry(ints(2, 20, 200), int64(3)))
					res, err := InsideOut(Query[int64]{Factors: []Factor[int64]{f}, Order: vars(1, 3)}, opts)
					Expect(err).NotTo(HaveOccurred())
					Expect(res.Output.Variables()).To(Equal(vars(2)))
					Expect(res.Output.Entries()).To(Equal([]zset.Entry[int64]{
						entry(ints(10), int64(2)),
						entry(ints(20), int64(3)),
					}))
				})

				It("should keep every output tuple at the number of free variables", func() {
					queries := []Query[int64]{
						{Factors: []Factor[int64]{graphFactor(2, 3), graphFactor(1, 2), graphFactor(1, 3)}, Order: vars(2)},
						{Factors: []Factor[int64]{graphFactor(2, 3), graphFactor(1, 2), graphFactor(1, 3)}, Order: vars(1, 3)},
						{Factors: []Factor[int64]{graphFactor(1, 2), graphFactor(3, 4)}, Order: vars(4)},
					}
					for _, q := range queries {
						res, err := InsideOut(q, opts)
						Expect(err).NotTo(HaveOccurred())
						Expect(res.Output.Variables()).To(ConsistOf(q.Free()))
						for _, e := range res.Output.Entries() {
							Expect(e.Tuple).To(HaveLen(len(q.Free())))
						}
					}
				})
			})
		})
	}

	Describe("malformed queries", func() {
		opts := Options{Logger: logger}

		It("should reject a variable that occurs in no factor", func() {
			q := Query[int64]{Factors: []Factor[int64]{graphFactor(1, 2)}, Order: vars(9)}
			res, err := InsideOut(q, opts)
			Expect(errors.Is(err, ErrEmptyEliminationGroup)).To(BeTrue())
			Expect(res).To(BeNil())
		})

		It("should reject an elimination order with repeats", func() {
			q := Query[int64]{Factors: []Factor[int64]{graphFactor(1, 2)}, Order: vars(1, 1)}
			_, err := InsideOut(q, opts)
			Expect(errors.Is(err, ErrDuplicateEliminationVariable)).To(BeTrue())
		})

		It("should reject a query without factors", func() {
			_, err := InsideOut(Query[int64]{}, opts)
			Expect(errors.Is(err, ErrEmptyJoin)).To(BeTrue())
		})

		It("should reject mixed factor kinds", func() {
			q := Query[int64]{
				Factors: []Factor[int64]{graphFactor(1, 2), genericFactor[int64](counting, vars(2, 3))},
				Order:   vars(2),
			}
			_, err := InsideOut(q, opts)
			Expect(errors.Is(err, ErrMixedFactorKinds)).To(BeTrue())
		})

		It("should reject a wrong number of aggregates", func() {
			q := Query[int64]{
				Factors:    []Factor[int64]{graphFactor(1, 2)},
				Order:      vars(1, 2),
				Aggregates: []Aggregate[int64]{Sum[int64]()},
			}
			_, err := InsideOut(q, opts)
			Expect(errors.Is(err, ErrAggregateCount)).To(BeTrue())
		})

		It("should reject an unknown mode", func() {
			q := Query[int64]{Factors: []Factor[int64]{graphFactor(1, 2)}}
			_, err := InsideOut(q, Options{Mode: "bogus"})
			Expect(err).To(HaveOccurred())
		})

		It("should run without a logger", func() {
			q := Query[int64]{Factors: []Factor[int64]{graphFactor(1, 2)}, Order: vars(1, 2)}
			res, err := InsideOut(q, Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Output.Weight(value.Tuple{})).To(Equal(int64(8)))
		})
	})
})
