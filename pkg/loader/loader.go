// Package loader turns declarative query documents into typed queries and evaluates them.
package loader

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/serializer/json"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"

	"github.com/l7mp/faq/pkg/api/v1alpha1"
	"github.com/l7mp/faq/pkg/faq"
	"github.com/l7mp/faq/pkg/semiring"
	"github.com/l7mp/faq/pkg/util"
	"github.com/l7mp/faq/pkg/value"
	"github.com/l7mp/faq/pkg/zset"
)

var (
	scheme  = runtime.NewScheme()
	decoder = json.NewSerializerWithOptions(json.DefaultMetaFactory, scheme, scheme,
		json.SerializerOptions{Yaml: true})
)

func init() {
	utilruntime.Must(v1alpha1.AddToScheme(scheme))
}

// Load reads and validates a query document from a YAML or JSON file.
func Load(file string) (*v1alpha1.Query, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read query file %s: %w", file, err)
	}

	q, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("failed to load query file %s: %w", file, err)
	}

	return q, nil
}

// Parse decodes and validates a query document. Documents may omit apiVersion and kind, anything
// else must name a kind registered in the query scheme.
func Parse(data []byte) (*v1alpha1.Query, error) {
	obj, _, err := decoder.Decode(data, nil, &v1alpha1.Query{})
	if err != nil {
		if runtime.IsNotRegisteredError(err) {
			return nil, v1alpha1.NewInvalidQueryError("%s", err.Error())
		}
		return nil, fmt.Errorf("failed to parse query: %w", err)
	}

	q, ok := obj.(*v1alpha1.Query)
	if !ok {
		return nil, v1alpha1.NewInvalidQueryError("expected a single %s, got %T",
			v1alpha1.QueryKind, obj)
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}

	return q, nil
}

// BuildCounting builds a query over the counting semiring. Weights must be integral.
func BuildCounting(spec *v1alpha1.QuerySpec) (faq.Query[int64], error) {
	return build[int64](spec, semiring.NewCounting(), func(w float64) (int64, error) {
		if w != math.Trunc(w) || w >= math.MaxInt64 || w < math.MinInt64 {
			return 0, fmt.Errorf("weight %v is not an integer", w)
		}
		return int64(w), nil
	})
}

// BuildMaxProduct builds a query over the max-product semiring.
func BuildMaxProduct(spec *v1alpha1.QuerySpec) (faq.Query[float64], error) {
	return build[float64](spec, semiring.NewMaxProduct(), floatWeight)
}

// BuildSumProduct builds a query over the sum-product semiring.
func BuildSumProduct(spec *v1alpha1.QuerySpec) (faq.Query[float64], error) {
	return build[float64](spec, semiring.NewSumProduct(), floatWeight)
}

func floatWeight(w float64) (float64, error) { return w, nil }

func build[W any](spec *v1alpha1.QuerySpec, s semiring.Semiring[W], weight func(float64) (W, error)) (faq.Query[W], error) {
	if err := spec.Validate(); err != nil {
		return faq.Query[W]{}, err
	}

	kind := spec.Kind
	if kind == "" {
		kind = faq.KindGeneric
	}

	factors, err := util.MapErr(func(fs v1alpha1.FactorSpec) (faq.Factor[W], error) {
		z, err := tupleSet(s, spec.TupleSet(fs), weight)
		if err != nil {
			return nil, err
		}

		if kind == faq.KindGraph {
			f, err := faq.NewGraphFactor(s, fs.Variables, z.Entries())
			if err != nil {
				return nil, err
			}
			return f, nil
		}
		f, err := faq.NewGenericFactorFromZSet(fs.Variables, z)
		if err != nil {
			return nil, err
		}
		return f, nil
	}, spec.Factors)
	if err != nil {
		return faq.Query[W]{}, fmt.Errorf("invalid factor: %w", err)
	}

	aggregates := util.Map(func(a v1alpha1.AggregateType) faq.Aggregate[W] {
		if a == v1alpha1.Max {
			return faq.Max[W]()
		}
		return faq.Sum[W]()
	}, spec.Aggregates)

	return faq.Query[W]{
		Factors:    factors,
		Order:      append([]faq.Variable{}, spec.Order...),
		Aggregates: aggregates,
	}, nil
}

// tupleSet collects explicitly weighted tuples and multiplicity updates into one ZSet. Repeated
// tuples combine under the semiring, so over counting a +1 and a -1 retract each other.
func tupleSet[W any](s semiring.Semiring[W], tuples []v1alpha1.TupleSpec, weight func(float64) (W, error)) (*zset.ZSet[W], error) {
	updates := []zset.Update{}
	weighted := []zset.Entry[W]{}
	for i, ts := range tuples {
		if ts.Weight == nil {
			m := int64(1)
			if ts.Multiplicity != nil {
				m = *ts.Multiplicity
			}
			updates = append(updates, zset.Update{Tuple: ts.Tuple, Multiplicity: m})
			continue
		}
		w, err := weight(*ts.Weight)
		if err != nil {
			return nil, fmt.Errorf("tuple %d: %w", i, err)
		}
		weighted = append(weighted, zset.Entry[W]{Tuple: ts.Tuple, Weight: w})
	}
	return zset.FromUpdates(s, updates).Add(zset.FromEntries(s, weighted)), nil
}

// Check validates a query document and builds its factors without evaluating the query.
func Check(q *v1alpha1.Query) error {
	if err := q.Validate(); err != nil {
		return err
	}

	switch q.Spec.Semiring {
	case v1alpha1.Counting:
		query, err := BuildCounting(&q.Spec)
		if err != nil {
			return err
		}
		return query.Validate()
	case v1alpha1.MaxProduct:
		query, err := BuildMaxProduct(&q.Spec)
		if err != nil {
			return err
		}
		return query.Validate()
	default:
		query, err := BuildSumProduct(&q.Spec)
		if err != nil {
			return err
		}
		return query.Validate()
	}
}

// Options configures evaluation.
type Options struct {
	Logger logr.Logger
	// Mode overrides the mode of the document when set.
	Mode faq.Mode
}

// Row is one output tuple with its weight rendered as text.
type Row struct {
	Tuple  value.Tuple `json:"tuple"`
	Weight string      `json:"weight"`
}

// Result is the semiring-independent outcome of evaluating a query document.
type Result struct {
	Name     string                `json:"name,omitempty"`
	Semiring v1alpha1.SemiringType `json:"semiring"`
	Mode     faq.Mode              `json:"mode"`
	// Factors lists the variables of each input factor.
	Factors [][]faq.Variable `json:"factors"`
	// FactorNames holds the optional names of the input factors.
	FactorNames []string       `json:"factorNames,omitempty"`
	Order       []faq.Variable `json:"order"`
	Variables   []faq.Variable `json:"variables"`
	Rows        []Row          `json:"rows"`
	Trace       []faq.Step     `json:"trace"`
}

// Run evaluates a query document with the semiring it names.
func Run(q *v1alpha1.Query, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}
	log := logger.WithName("loader").WithValues("query", q.GetName())

	if err := q.Validate(); err != nil {
		return nil, err
	}

	mode := q.Spec.Mode
	if opts.Mode != "" {
		mode = opts.Mode
	}
	mode, err := faq.ParseMode(string(mode))
	if err != nil {
		return nil, err
	}
	engineOpts := faq.Options{Logger: logger, Mode: mode}

	log.V(1).Info("evaluating query document", "semiring", q.Spec.Semiring, "mode", mode,
		"factors", len(q.Spec.Factors))

	res := &Result{
		Name:     q.GetName(),
		Semiring: q.Spec.Semiring,
		Mode:     mode,
		Factors:  util.Map(func(f v1alpha1.FactorSpec) []faq.Variable { return f.Variables }, q.Spec.Factors),
		FactorNames: util.Map(func(f v1alpha1.FactorSpec) string { return f.Name },
			q.Spec.Factors),
		Order: append([]faq.Variable{}, q.Spec.Order...),
	}

	switch q.Spec.Semiring {
	case v1alpha1.Counting:
		query, err := BuildCounting(&q.Spec)
		if err != nil {
			return nil, err
		}
		err = evaluate(res, query, engineOpts, func(w int64) string { return strconv.FormatInt(w, 10) })
		if err != nil {
			return nil, err
		}
	case v1alpha1.MaxProduct, v1alpha1.SumProduct:
		buildFn := BuildSumProduct
		if q.Spec.Semiring == v1alpha1.MaxProduct {
			buildFn = BuildMaxProduct
		}
		query, err := buildFn(&q.Spec)
		if err != nil {
			return nil, err
		}
		err = evaluate(res, query, engineOpts, func(w float64) string {
			return strconv.FormatFloat(w, 'g', -1, 64)
		})
		if err != nil {
			return nil, err
		}
	}

	log.V(1).Info("query document evaluated", "variables", res.Variables, "rows", len(res.Rows))

	return res, nil
}

func evaluate[W any](res *Result, q faq.Query[W], opts faq.Options, format func(W) string) error {
	out, err := faq.InsideOut(q, opts)
	if err != nil {
		return err
	}

	res.Variables = out.Output.Variables()
	res.Trace = out.Trace
	res.Rows = util.Map(func(e zset.Entry[W]) Row {
		return Row{Tuple: e.Tuple, Weight: format(e.Weight)}
	}, out.Output.Entries())

	return nil
}
