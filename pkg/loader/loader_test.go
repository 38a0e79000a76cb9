package loader

import (
	"errors"
	"math"
	"strconv"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap/zapcore"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/l7mp/faq/pkg/api/v1alpha1"
	"github.com/l7mp/faq/pkg/faq"
	"github.com/l7mp/faq/pkg/value"
)

var (
	loglevel = -10
	logger   = zap.New(zap.UseFlagOptions(&zap.Options{
		Development:     true,
		DestWriter:      GinkgoWriter,
		StacktraceLevel: zapcore.Level(3),
		TimeEncoder:     zapcore.RFC3339NanoTimeEncoder,
		Level:           zapcore.Level(loglevel),
	}))
)

func TestLoader(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Loader Suite")
}

func weightOf(r Row) float64 {
	w, err := strconv.ParseFloat(r.Weight, 64)
	Expect(err).NotTo(HaveOccurred())
	return w
}

var _ = Describe("Loading query documents", func() {
	It("should load the triangle query", func() {
		q, err := Load("../../testdata/triangle.yaml")
		Expect(err).NotTo(HaveOccurred())
		Expect(q.GetName()).To(Equal("triangle"))
		Expect(q.Spec.Semiring).To(Equal(v1alpha1.Counting))
		Expect(q.Spec.Kind).To(Equal(faq.KindGraph))
		Expect(q.Spec.Order).To(Equal([]faq.Variable{3, 2, 1}))
		Expect(q.Spec.Factors).To(HaveLen(3))
		Expect(q.Spec.TupleSet(q.Spec.Factors[0])).To(HaveLen(8))
		Expect(q.Spec.Relations["edges"][0].Tuple).To(Equal(value.Ints(1, 2)))
	})

	It("should fail on a missing file", func() {
		_, err := Load("../../testdata/no-such-query.yaml")
		Expect(err).To(HaveOccurred())
	})

	It("should decode typed tuple values", func() {
		q, err := Parse([]byte(`
spec:
  semiring: counting
  factors:
    - variables: [1, 2, 3]
      tuples:
        - tuple: ["a", true, -4]
          multiplicity: 3`))
		Expect(err).NotTo(HaveOccurred())
		t := q.Spec.Factors[0].Tuples[0]
		Expect(t.Tuple).To(Equal(value.Tuple{value.String("a"), value.Bool(true), value.Int(-4)}))
		Expect(*t.Multiplicity).To(Equal(int64(3)))
		Expect(t.Weight).To(BeNil())
	})

	DescribeTable("should reject invalid documents",
		func(doc string) {
			_, err := Parse([]byte(doc))
			Expect(err).To(HaveOccurred())
		},
		Entry("unknown semiring", `{spec: {semiring: tropical, factors: [{variables: [1]}]}}`),
		Entry("unknown kind", `{spec: {semiring: counting, kind: tree, factors: [{variables: [1]}]}}`),
		Entry("unknown mode", `{spec: {semiring: counting, mode: random, factors: [{variables: [1]}]}}`),
		Entry("unknown aggregate", `{spec: {semiring: counting, order: [1], aggregates: [min], factors: [{variables: [1]}]}}`),
		Entry("no factors", `{spec: {semiring: counting}}`),
		Entry("unknown relation", `{spec: {semiring: counting, factors: [{variables: [1], relation: r}]}}`),
		Entry("relation and tuples", `{spec: {semiring: counting, relations: {r: []}, factors: [{variables: [1], relation: r, tuples: [{tuple: [1]}]}]}}`),
		Entry("weight and multiplicity", `{spec: {semiring: counting, factors: [{variables: [1], tuples: [{tuple: [1], weight: 1, multiplicity: 1}]}]}}`),
		Entry("float tuple value", `{spec: {semiring: counting, factors: [{variables: [1], tuples: [{tuple: [1.5]}]}]}}`),
		Entry("null tuple value", `{spec: {semiring: counting, factors: [{variables: [1], tuples: [{tuple: [null]}]}]}}`),
		Entry("wrong api version", `{apiVersion: v1, kind: Query, spec: {semiring: counting, factors: [{variables: [1]}]}}`),
		Entry("wrong kind", `{apiVersion: faq.l7mp.io/v1alpha1, kind: Pod, spec: {semiring: counting, factors: [{variables: [1]}]}}`),
	)

	It("should report validation errors as invalid documents", func() {
		_, err := Parse([]byte(`{spec: {semiring: tropical, factors: [{variables: [1]}]}}`))
		Expect(errors.Is(err, v1alpha1.ErrInvalidQuery)).To(BeTrue())
	})

	It("should only accept kinds registered in the query scheme", func() {
		_, err := Parse([]byte(`{apiVersion: faq.l7mp.io/v1alpha1, kind: Pod, spec: {semiring: counting, factors: [{variables: [1]}]}}`))
		Expect(errors.Is(err, v1alpha1.ErrInvalidQuery)).To(BeTrue())

		_, err = Parse([]byte(`{apiVersion: faq.l7mp.io/v1alpha1, kind: QueryList, items: []}`))
		Expect(errors.Is(err, v1alpha1.ErrInvalidQuery)).To(BeTrue())

		q, err := Parse([]byte(`{kind: Query, spec: {semiring: counting, factors: [{variables: [1]}]}}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(q.Spec.Semiring).To(Equal(v1alpha1.Counting))
	})
})

var _ = Describe("Building queries", func() {
	It("should lift multiplicities and weights", func() {
		q, err := Parse([]byte(`
spec:
  semiring: counting
  order: [1]
  aggregates: [max]
  factors:
    - variables: [1, 2]
      tuples:
        - tuple: [1, 2]
        - tuple: [1, 3]
          multiplicity: -2
        - tuple: [2, 3]
          weight: 5`))
		Expect(err).NotTo(HaveOccurred())
		query, err := BuildCounting(&q.Spec)
		Expect(err).NotTo(HaveOccurred())
		Expect(query.Order).To(Equal([]faq.Variable{1}))
		Expect(query.Aggregates).To(HaveLen(1))
		Expect(query.Aggregates[0].Name()).To(Equal("max"))
		Expect(query.Factors).To(HaveLen(1))
		ts := query.Factors[0].Tuples()
		Expect(ts.Weight(value.Ints(1, 2))).To(Equal(int64(1)))
		Expect(ts.Weight(value.Ints(1, 3))).To(Equal(int64(-2)))
		Expect(ts.Weight(value.Ints(2, 3))).To(Equal(int64(5)))
	})

	It("should lift negative multiplicities to their absolute value in max-product", func() {
		q, err := Parse([]byte(`{spec: {semiring: max-product, factors: [{variables: [1], tuples: [{tuple: [1], multiplicity: -2}]}]}}`))
		Expect(err).NotTo(HaveOccurred())
		query, err := BuildMaxProduct(&q.Spec)
		Expect(err).NotTo(HaveOccurred())
		Expect(query.Factors[0].Tuples().Weight(value.Ints(1))).To(Equal(2.0))
	})

	It("should retract tuples whose multiplicities cancel", func() {
		for _, kind := range []string{"generic", "graph"} {
			q, err := Parse([]byte(`
spec:
  semiring: counting
  kind: ` + kind + `
  factors:
    - variables: [1, 2]
      tuples:
        - tuple: [1, 2]
        - tuple: [1, 2]
          multiplicity: -1
        - tuple: [2, 3]
          multiplicity: 2
        - tuple: [2, 3]
          weight: 3`))
			Expect(err).NotTo(HaveOccurred())
			query, err := BuildCounting(&q.Spec)
			Expect(err).NotTo(HaveOccurred())
			ts := query.Factors[0].Tuples()
			Expect(ts.Len()).To(Equal(1))
			Expect(ts.Weight(value.Ints(1, 2))).To(Equal(int64(0)))
			Expect(ts.Weight(value.Ints(2, 3))).To(Equal(int64(5)))
		}
	})

	It("should reject fractional weights in the counting semiring", func() {
		q, err := Parse([]byte(`{spec: {semiring: counting, factors: [{variables: [1], tuples: [{tuple: [1], weight: 0.5}]}]}}`))
		Expect(err).NotTo(HaveOccurred())
		_, err = BuildCounting(&q.Spec)
		Expect(err).To(HaveOccurred())
	})

	It("should reject counting weights outside the int64 range", func() {
		q, err := Parse([]byte(`{spec: {semiring: counting, factors: [{variables: [1], tuples: [{tuple: [1], weight: 9223372036854775808}]}]}}`))
		Expect(err).NotTo(HaveOccurred())
		_, err = BuildCounting(&q.Spec)
		Expect(err).To(HaveOccurred())

		q, err = Parse([]byte(`{spec: {semiring: counting, factors: [{variables: [1], tuples: [{tuple: [1], weight: -9223372036854775808}]}]}}`))
		Expect(err).NotTo(HaveOccurred())
		query, err := BuildCounting(&q.Spec)
		Expect(err).NotTo(HaveOccurred())
		Expect(query.Factors[0].Tuples().Weight(value.Ints(1))).To(Equal(int64(math.MinInt64)))
	})

	It("should surface structural errors from the engine", func() {
		q, err := Parse([]byte(`{spec: {semiring: sum-product, factors: [{variables: [1, 1], tuples: [{tuple: [1, 1]}]}]}}`))
		Expect(err).NotTo(HaveOccurred())
		_, err = BuildSumProduct(&q.Spec)
		Expect(errors.Is(err, faq.ErrDuplicateVariableInFactor)).To(BeTrue())

		q, err = Parse([]byte(`{spec: {semiring: sum-product, factors: [{variables: [1, 2], tuples: [{tuple: [1]}]}]}}`))
		Expect(err).NotTo(HaveOccurred())
		_, err = BuildSumProduct(&q.Spec)
		Expect(errors.Is(err, faq.ErrArityMismatch)).To(BeTrue())
	})
})

var _ = Describe("Checking query documents", func() {
	It("should accept the sample queries", func() {
		for _, file := range []string{"triangle.yaml", "burglary.yaml", "map.yaml"} {
			q, err := Load("../../testdata/" + file)
			Expect(err).NotTo(HaveOccurred())
			Expect(Check(q)).To(Succeed())
		}
	})

	It("should catch malformed factors and orders", func() {
		q, err := Parse([]byte(`{spec: {semiring: counting, factors: [{variables: [1, 2], tuples: [{tuple: [1]}]}]}}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(errors.Is(Check(q), faq.ErrArityMismatch)).To(BeTrue())

		q, err = Parse([]byte(`{spec: {semiring: max-product, order: [3], factors: [{variables: [1], tuples: [{tuple: [1]}]}]}}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(errors.Is(Check(q), faq.ErrEmptyEliminationGroup)).To(BeTrue())
	})
})

var _ = Describe("Running query documents", func() {
	It("should count the triangles", func() {
		q, err := Load("../../testdata/triangle.yaml")
		Expect(err).NotTo(HaveOccurred())
		res, err := Run(q, Options{Logger: logger})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Name).To(Equal("triangle"))
		Expect(res.Mode).To(Equal(faq.ModeGlobalJoin))
		Expect(res.Variables).To(BeEmpty())
		Expect(res.Rows).To(HaveLen(1))
		Expect(res.Rows[0].Weight).To(Equal("2"))
		Expect(res.Trace).To(HaveLen(3))
		Expect(res.FactorNames).To(Equal([]string{"g23", "g12", "g13"}))
		Expect(res.Factors).To(Equal([][]faq.Variable{{2, 3}, {1, 2}, {1, 3}}))
	})

	It("should compute the alarm marginal in both modes", func() {
		q, err := Load("../../testdata/burglary.yaml")
		Expect(err).NotTo(HaveOccurred())
		for _, mode := range []faq.Mode{faq.ModeGlobalJoin, faq.ModePairwiseFold} {
			res, err := Run(q, Options{Logger: logger, Mode: mode})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Mode).To(Equal(mode))
			Expect(res.Variables).To(Equal([]faq.Variable{3}))
			Expect(res.Rows).To(HaveLen(2))
			Expect(res.Rows[0].Tuple).To(Equal(value.Strings("!A")))
			Expect(res.Rows[1].Tuple).To(Equal(value.Strings("A")))
			Expect(weightOf(res.Rows[0])).To(BeNumerically("~", 0.0000016, 1e-12))
			Expect(weightOf(res.Rows[1])).To(BeNumerically("~", 0.0001296, 1e-12))
			Expect(weightOf(res.Rows[0]) + weightOf(res.Rows[1])).To(BeNumerically("~", 0.0001312, 1e-6))
		}
	})

	It("should find the most probable explanation", func() {
		q, err := Load("../../testdata/map.yaml")
		Expect(err).NotTo(HaveOccurred())
		res, err := Run(q, Options{Logger: logger})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Mode).To(Equal(faq.ModePairwiseFold))
		Expect(res.Variables).To(Equal([]faq.Variable{2}))
		Expect(res.Rows).To(Equal([]Row{
			{Tuple: value.Tuple{value.Bool(false)}, Weight: "0.35"},
			{Tuple: value.Tuple{value.Bool(true)}, Weight: "0.35"},
		}))
	})

	It("should reject an unknown mode override", func() {
		q, err := Load("../../testdata/triangle.yaml")
		Expect(err).NotTo(HaveOccurred())
		_, err = Run(q, Options{Mode: "bogus"})
		Expect(err).To(HaveOccurred())
	})

	It("should report malformed elimination orders", func() {
		q, err := Parse([]byte(`{spec: {semiring: counting, order: [7], factors: [{variables: [1], tuples: [{tuple: [1]}]}]}}`))
		Expect(err).NotTo(HaveOccurred())
		_, err = Run(q, Options{})
		Expect(errors.Is(err, faq.ErrEmptyEliminationGroup)).To(BeTrue())
	})
})
