package visualize

import "fmt"

// Generator renders a visualization graph in a text format.
type Generator interface {
	Generate(g *Graph) string
	// Extension is the usual file extension of the format.
	Extension() string
}

// NewGenerator returns the generator for a format name: "dot" or "mermaid".
func NewGenerator(format string) (Generator, error) {
	switch format {
	case "dot", "graphviz":
		return &DotGenerator{}, nil
	case "mermaid":
		return &MermaidGenerator{}, nil
	default:
		return nil, fmt.Errorf("unknown diagram format %q", format)
	}
}

// DotGenerator generates Graphviz DOT diagrams.
type DotGenerator struct{}

// Generate creates a Graphviz DOT diagram from the graph.
func (d *DotGenerator) Generate(g *Graph) string {
	return BuildDotGraph(g, DotStyle).String()
}

func (d *DotGenerator) Extension() string { return "dot" }
