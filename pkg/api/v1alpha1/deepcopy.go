package v1alpha1

import (
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/l7mp/faq/pkg/faq"
)

// DeepCopyInto copies the receiver into out.
func (in *TupleSpec) DeepCopyInto(out *TupleSpec) {
	*out = *in
	if in.Tuple != nil {
		out.Tuple = in.Tuple.Clone()
	}
	if in.Weight != nil {
		w := *in.Weight
		out.Weight = &w
	}
	if in.Multiplicity != nil {
		m := *in.Multiplicity
		out.Multiplicity = &m
	}
}

func deepCopyTuples(in []TupleSpec) []TupleSpec {
	if in == nil {
		return nil
	}
	out := make([]TupleSpec, len(in))
	for i := range in {
		in[i].DeepCopyInto(&out[i])
	}
	return out
}

func deepCopyVariables(in []faq.Variable) []faq.Variable {
	if in == nil {
		return nil
	}
	out := make([]faq.Variable, len(in))
	copy(out, in)
	return out
}

// DeepCopyInto copies the receiver into out.
func (in *FactorSpec) DeepCopyInto(out *FactorSpec) {
	*out = *in
	out.Variables = deepCopyVariables(in.Variables)
	out.Tuples = deepCopyTuples(in.Tuples)
}

// DeepCopyInto copies the receiver into out.
func (in *QuerySpec) DeepCopyInto(out *QuerySpec) {
	*out = *in
	out.Order = deepCopyVariables(in.Order)
	if in.Aggregates != nil {
		out.Aggregates = make([]AggregateType, len(in.Aggregates))
		copy(out.Aggregates, in.Aggregates)
	}
	if in.Relations != nil {
		out.Relations = make(map[string][]TupleSpec, len(in.Relations))
		for k, v := range in.Relations {
			out.Relations[k] = deepCopyTuples(v)
		}
	}
	if in.Factors != nil {
		out.Factors = make([]FactorSpec, len(in.Factors))
		for i := range in.Factors {
			in.Factors[i].DeepCopyInto(&out.Factors[i])
		}
	}
}

// DeepCopyInto copies the receiver into out.
func (in *Query) DeepCopyInto(out *Query) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
}

// DeepCopy returns a deep copy of the query.
func (in *Query) DeepCopy() *Query {
	if in == nil {
		return nil
	}
	out := new(Query)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *Query) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver into out.
func (in *QueryList) DeepCopyInto(out *QueryList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]Query, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy returns a deep copy of the list.
func (in *QueryList) DeepCopy() *QueryList {
	if in == nil {
		return nil
	}
	out := new(QueryList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *QueryList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}
