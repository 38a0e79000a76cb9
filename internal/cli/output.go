package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/l7mp/faq/internal/buildinfo"
	"github.com/l7mp/faq/pkg/api/v1alpha1"
	"github.com/l7mp/faq/pkg/faq"
	"github.com/l7mp/faq/pkg/loader"
	"github.com/l7mp/faq/pkg/util"
)

// printer writes command results in the requested format.
type printer struct {
	format string
	w      io.Writer
}

func newPrinter(format string, w io.Writer) *printer {
	return &printer{format: format, w: w}
}

// Validation is the structured result of the validate command.
type Validation struct {
	File    string         `json:"file"`
	Name    string         `json:"name,omitempty"`
	Factors int            `json:"factors"`
	Order   []faq.Variable `json:"order"`
	Valid   bool           `json:"valid"`
}

func (p *printer) printResult(res *loader.Result) error {
	if p.format != "text" {
		return p.encode(res)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "query: %s\n", orDash(res.Name))
	fmt.Fprintf(&b, "semiring: %s\n", res.Semiring)
	fmt.Fprintf(&b, "mode: %s\n", res.Mode)

	factors := make([]string, len(res.Factors))
	for i, vs := range res.Factors {
		name := fmt.Sprintf("f%d", i)
		if i < len(res.FactorNames) && res.FactorNames[i] != "" {
			name = res.FactorNames[i]
		}
		factors[i] = name + varList(vs)
	}
	fmt.Fprintf(&b, "factors: %s\n", strings.Join(factors, " "))
	fmt.Fprintf(&b, "order: %s\n", orDash(strings.Join(util.Map(faq.Variable.String, res.Order), " ")))

	for i, s := range res.Trace {
		agg := ""
		if s.Aggregate != "" {
			agg = " (" + s.Aggregate + ")"
		}
		fmt.Fprintf(&b, "step %d: eliminate %s%s joining %s on %s -> %s size=%d\n", i+1, s.Variable, agg,
			strings.Join(util.Map(varList, s.Participants), " "), varList(s.JoinVars), varList(s.Output), s.Size)
	}

	fmt.Fprintf(&b, "output %s:\n", varList(res.Variables))
	for _, r := range res.Rows {
		fmt.Fprintf(&b, "  %s %s\n", r.Tuple, r.Weight)
	}

	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p *printer) printValid(file string, q *v1alpha1.Query) error {
	v := Validation{
		File:    file,
		Name:    q.GetName(),
		Factors: len(q.Spec.Factors),
		Order:   q.Spec.Order,
		Valid:   true,
	}
	if p.format != "text" {
		return p.encode(v)
	}
	_, err := fmt.Fprintf(p.w, "%s: query %s is valid (%d factors, order %s)\n", v.File, orDash(v.Name),
		v.Factors, varList(v.Order))
	return err
}

func (p *printer) printVersion(info buildinfo.BuildInfo) error {
	if p.format != "text" {
		return p.encode(info)
	}
	_, err := fmt.Fprintf(p.w, "faq %s\n", info.String())
	return err
}

func (p *printer) encode(v any) error {
	var (
		b   []byte
		err error
	)
	switch p.format {
	case "yaml":
		b, err = yaml.Marshal(v)
	default:
		b, err = json.MarshalIndent(v, "", "  ")
		b = append(b, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = p.w.Write(b)
	return err
}

func varList(vs []faq.Variable) string {
	return "[" + strings.Join(util.Map(faq.Variable.String, vs), ",") + "]"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
