package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/l7mp/faq/pkg/faq"
	"github.com/l7mp/faq/pkg/value"
)

func init() {
	SchemeBuilder.Register(&Query{}, &QueryList{})
}

// Query is a declarative functional aggregate query: a set of factors over numbered variables, a
// semiring interpreting the weights and the order in which the bound variables are eliminated.
//
// +kubebuilder:object:root=true
type Query struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	// Spec defines the query.
	Spec QuerySpec `json:"spec"`
}

// +kubebuilder:object:root=true

// QueryList contains a list of queries.
type QueryList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Query `json:"items"`
}

// QuerySpec defines a query.
type QuerySpec struct {
	// Semiring selects the weight algebra.
	//
	// +kubebuilder:validation:Enum=counting;max-product;sum-product
	Semiring SemiringType `json:"semiring"`

	// Kind selects the factor variant, default generic.
	//
	// +kubebuilder:validation:Enum=generic;graph
	Kind faq.Kind `json:"kind,omitempty"`

	// Mode selects the elimination strategy, default global.
	//
	// +kubebuilder:validation:Enum=global;pairwise
	Mode faq.Mode `json:"mode,omitempty"`

	// Order is the elimination order. Variables of the factors absent from the order are free.
	Order []faq.Variable `json:"order,omitempty"`

	// Aggregates is either empty or holds one aggregate per variable of the elimination order.
	Aggregates []AggregateType `json:"aggregates,omitempty"`

	// Relations are named tuple sets that several factors can share.
	Relations map[string][]TupleSpec `json:"relations,omitempty"`

	// Factors are the hyperedges of the query.
	//
	// +kubebuilder:validation:MinItems=1
	Factors []FactorSpec `json:"factors"`
}

// FactorSpec defines a factor. Tuples are either given inline or taken from a named relation.
type FactorSpec struct {
	// Name is an optional human-readable name used in diagrams.
	Name string `json:"name,omitempty"`
	// Variables lists the variables of the factor; position i of every tuple is variable i.
	Variables []faq.Variable `json:"variables"`
	// Tuples are the weighted tuples of the factor.
	Tuples []TupleSpec `json:"tuples,omitempty"`
	// Relation refers to an entry of the query's relations.
	Relation string `json:"relation,omitempty"`
}

// TupleSpec is a tuple with an optional weight. Without a weight the tuple carries the given
// multiplicity, 1 by default, lifted into the semiring.
type TupleSpec struct {
	Tuple        value.Tuple `json:"tuple"`
	Weight       *float64    `json:"weight,omitempty"`
	Multiplicity *int64      `json:"multiplicity,omitempty"`
}

// SemiringType names a built-in semiring.
type SemiringType string

const (
	Counting   SemiringType = "counting"
	MaxProduct SemiringType = "max-product"
	SumProduct SemiringType = "sum-product"
)

// AggregateType names a built-in aggregate.
type AggregateType string

const (
	Sum AggregateType = "sum"
	Max AggregateType = "max"
)
