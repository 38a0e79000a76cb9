// Package visualize renders functional aggregate queries as diagrams: the query hypergraph
// (variables and the factors spanning them) together with the elimination trace.
package visualize

import (
	"fmt"
	"slices"
	"strings"

	"github.com/emicklei/dot"

	"github.com/l7mp/faq/pkg/faq"
	"github.com/l7mp/faq/pkg/util"
)

// Graph represents the visualization graph of a query run.
type Graph struct {
	QueryName string
	Variables []VariableNode
	Factors   []FactorNode
	Steps     []StepNode
	// Output lists the factors joined into the output relation.
	Output []string
	// Free are the output variables.
	Free []faq.Variable
}

// VariableNode is a query variable.
type VariableNode struct {
	Variable faq.Variable
	// Step is the 1-based elimination step of the variable, 0 for free variables.
	Step int
}

// FactorNode is an input factor or a factor produced by an elimination step.
type FactorNode struct {
	ID        string
	Name      string
	Variables []faq.Variable
	// Produced is set for factors created by an elimination step.
	Produced bool
	Size     int
}

// StepNode is an elimination step.
type StepNode struct {
	ID        string
	Variable  faq.Variable
	Aggregate string
	JoinVars  []faq.Variable
	Inputs    []string
	Output    string
}

// BuildGraph constructs a visualization graph from the input factors (their variable lists and
// optional names) and the elimination trace of a run. The factor pool is replayed step by step to
// find which factors each step consumed.
func BuildGraph(name string, factors [][]faq.Variable, names []string, trace []faq.Step) *Graph {
	g := &Graph{QueryName: name}

	type entry struct {
		id   string
		vars []faq.Variable
	}
	pool := []entry{}

	for i, vars := range factors {
		n := ""
		if i < len(names) {
			n = names[i]
		}
		id := fmt.Sprintf("f%d", i)
		g.Factors = append(g.Factors, FactorNode{ID: id, Name: n, Variables: slices.Clone(vars)})
		pool = append(pool, entry{id: id, vars: vars})
	}

	eliminated := map[faq.Variable]int{}
	for i, s := range trace {
		step := StepNode{
			ID:        fmt.Sprintf("s%d", i+1),
			Variable:  s.Variable,
			Aggregate: s.Aggregate,
			JoinVars:  slices.Clone(s.JoinVars),
			Output:    fmt.Sprintf("m%d", i+1),
		}

		rest := []entry{}
		for _, e := range pool {
			if slices.Contains(e.vars, s.Variable) {
				step.Inputs = append(step.Inputs, e.id)
			} else {
				rest = append(rest, e)
			}
		}

		g.Factors = append(g.Factors, FactorNode{
			ID:        step.Output,
			Variables: slices.Clone(s.Output),
			Produced:  true,
			Size:      s.Size,
		})
		g.Steps = append(g.Steps, step)
		eliminated[s.Variable] = i + 1
		pool = append(rest, entry{id: step.Output, vars: s.Output})
	}

	vars := map[faq.Variable]bool{}
	for _, vs := range factors {
		for _, v := range vs {
			vars[v] = true
		}
	}
	for _, v := range util.SortedKeys(vars) {
		g.Variables = append(g.Variables, VariableNode{Variable: v, Step: eliminated[v]})
		if eliminated[v] == 0 {
			g.Free = append(g.Free, v)
		}
	}

	g.Output = util.Map(func(e entry) string { return e.id }, pool)

	return g
}

// FactorLabel returns the display label of a factor.
func FactorLabel(f FactorNode) string {
	vars := "[" + strings.Join(util.Map(faq.Variable.String, f.Variables), ",") + "]"
	switch {
	case f.Produced:
		return fmt.Sprintf("%s%s (%d tuples)", f.ID, vars, f.Size)
	case f.Name != "":
		return f.Name + vars
	default:
		return f.ID + vars
	}
}

// StepLabel returns the display label of an elimination step.
func StepLabel(s StepNode) string {
	agg := s.Aggregate
	if agg == "" {
		agg = "sum"
	}
	return fmt.Sprintf("%s: eliminate %s (%s)", s.ID, s.Variable, agg)
}

// NodeStyle holds the shape and fill attribute values of the nodes for one output format.
type NodeStyle struct {
	// Variable, Factor, Step and Output are the shape attributes of the respective nodes.
	Variable, Factor, Step, Output any
	// Fill renders the fill style of a node from its color.
	Fill func(node dot.Node, color string)
}

// DotStyle uses Graphviz shape names and fill attributes.
var DotStyle = NodeStyle{
	Variable: "circle",
	Factor:   "box",
	Step:     "diamond",
	Output:   "box",
	Fill: func(node dot.Node, color string) {
		node.Attr("style", "filled").Attr("fillcolor", color)
	},
}

// MermaidStyle uses the Mermaid node shapes of the dot library and CSS fills.
var MermaidStyle = NodeStyle{
	Variable: dot.MermaidShapeCircle,
	Factor:   dot.MermaidShapeRound,
	Step:     dot.MermaidShapeRhombus,
	Output:   dot.MermaidShapeRound,
	Fill: func(node dot.Node, color string) {
		node.Attr("style", "fill:"+color)
	},
}

// BuildDotGraph creates a dot.Graph from the visualization graph, with node attributes taken from
// style. The graph can then be rendered in different formats (DOT, Mermaid, etc.).
func BuildDotGraph(g *Graph, style NodeStyle) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "LR") // Left to right layout.
	graph.Attr("newrank", "true")
	graph.Attr("label", g.QueryName)
	graph.Attr("labelloc", "t") // Label at top.
	graph.Attr("fontsize", "16")

	varNodes := make(map[faq.Variable]dot.Node)
	factorNodes := make(map[string]dot.Node)

	// Variables: free variables are highlighted.
	for _, v := range g.Variables {
		node := graph.Node(v.Variable.String()).
			Attr("label", v.Variable.String()).
			Attr("shape", style.Variable).
			Attr("fontname", "helvetica")
		if v.Step == 0 {
			style.Fill(node, "lightgreen")
		} else {
			style.Fill(node, "lightgrey")
		}
		varNodes[v.Variable] = node
	}

	// Factors and the hyperedges they span.
	for _, f := range g.Factors {
		fill := "lightblue"
		if f.Produced {
			fill = "lightyellow"
		}
		node := graph.Node(f.ID).
			Attr("label", FactorLabel(f)).
			Attr("shape", style.Factor).
			Attr("fontname", "helvetica")
		style.Fill(node, fill)
		factorNodes[f.ID] = node

		if f.Produced {
			continue
		}
		for _, v := range f.Variables {
			graph.Edge(node, varNodes[v]).
				Attr("arrowhead", "none").
				Attr("style", "dotted").
				Attr("color", "grey")
		}
	}

	// Elimination steps.
	for _, s := range g.Steps {
		node := graph.Node(s.ID).
			Attr("label", StepLabel(s)).
			Attr("shape", style.Step).
			Attr("fontname", "helvetica")
		style.Fill(node, "orange")
		for _, in := range s.Inputs {
			graph.Edge(factorNodes[in], node).
				Attr("fontname", "helvetica").
				Attr("fontsize", "10")
		}
		graph.Edge(node, factorNodes[s.Output]).
			Attr("label", fmt.Sprintf("-%s", s.Variable)).
			Attr("fontname", "helvetica").
			Attr("fontsize", "10")
		if v, ok := varNodes[s.Variable]; ok {
			graph.Edge(node, v).
				Attr("style", "dashed").
				Attr("color", "red").
				Attr("arrowhead", "tee")
		}
	}

	// Terminal join.
	free := "[" + strings.Join(util.Map(faq.Variable.String, g.Free), ",") + "]"
	out := graph.Node("output").
		Attr("label", "output"+free).
		Attr("shape", style.Output).
		Attr("fontname", "helvetica")
	style.Fill(out, "lightcyan")
	for _, id := range g.Output {
		graph.Edge(factorNodes[id], out).
			Attr("style", "bold").
			Attr("color", "blue")
	}

	return graph
}
