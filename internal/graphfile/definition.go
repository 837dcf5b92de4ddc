package graphfile

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/born-ml/gradgraph/internal/ctxlog"
)

// Leaf is a declared input.
type Leaf struct {
	Name  string
	Value float64
	Range hcl.Range
}

// Value is a declared expression.
type Value struct {
	Name  string
	Expr  hclsyntax.Expression
	Range hcl.Range
}

// Definition is a parsed graph file.
type Definition struct {
	Filename string
	Leaves   []Leaf  // Declaration order
	Values   []Value // Declaration order
	Output   string  // Name of the node to differentiate

	leafIndex  map[string]int
	valueIndex map[string]int
}

// fileRoot decodes the top-level body of a graph file.
type fileRoot struct {
	Leaves []*leafBlock  `hcl:"leaf,block"`
	Values []*valueBlock `hcl:"value,block"`
	Output string        `hcl:"output,optional"`
}

type leafBlock struct {
	Name      string    `hcl:"name,label"`
	Value     float64   `hcl:"value"`
	DeclRange hcl.Range `hcl:",def_range"`
}

type valueBlock struct {
	Name      string         `hcl:"name,label"`
	Expr      hcl.Expression `hcl:"expr"`
	DeclRange hcl.Range      `hcl:",def_range"`
}

// Load reads and parses the graph file at path.
func Load(ctx context.Context, path string) (*Definition, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse graph file %s: %w", path, diags)
	}
	return decode(ctx, file, path)
}

// Parse parses graph source held in memory. filename is used in diagnostics.
func Parse(ctx context.Context, src []byte, filename string) (*Definition, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse graph file %s: %w", filename, diags)
	}
	return decode(ctx, file, filename)
}

func decode(ctx context.Context, file *hcl.File, filename string) (*Definition, error) {
	logger := ctxlog.FromContext(ctx)

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode graph file %s: %w", filename, diags)
	}

	def := &Definition{
		Filename:   filename,
		Output:     root.Output,
		leafIndex:  make(map[string]int, len(root.Leaves)),
		valueIndex: make(map[string]int, len(root.Values)),
	}

	var diags hcl.Diagnostics
	declared := make(map[string]hcl.Range)
	declare := func(name string, rng hcl.Range) bool {
		if prev, dup := declared[name]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate name",
				Detail:   fmt.Sprintf("The name %q was already declared at %s.", name, prev),
				Subject:  rng.Ptr(),
			})
			return false
		}
		if !hclsyntax.ValidIdentifier(name) {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid name",
				Detail:   fmt.Sprintf("%q is not a valid identifier, so expressions could not refer to it.", name),
				Subject:  rng.Ptr(),
			})
			return false
		}
		declared[name] = rng
		return true
	}

	for _, lb := range root.Leaves {
		if !declare(lb.Name, lb.DeclRange) {
			continue
		}
		def.leafIndex[lb.Name] = len(def.Leaves)
		def.Leaves = append(def.Leaves, Leaf{Name: lb.Name, Value: lb.Value, Range: lb.DeclRange})
	}

	for _, vb := range root.Values {
		if !declare(vb.Name, vb.DeclRange) {
			continue
		}
		expr, ok := vb.Expr.(hclsyntax.Expression)
		if !ok {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported syntax",
				Detail:   "Value expressions must be written in HCL native syntax.",
				Subject:  vb.Expr.Range().Ptr(),
			})
			continue
		}
		def.valueIndex[vb.Name] = len(def.Values)
		def.Values = append(def.Values, Value{Name: vb.Name, Expr: expr, Range: vb.DeclRange})
	}

	if def.Output != "" && !def.Has(def.Output) {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unknown output",
			Detail:   fmt.Sprintf("The output %q is neither a leaf nor a value.", def.Output),
		})
	}

	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid graph file %s: %w", filename, diags)
	}

	logger.Debug("Graph definition decoded.", "file", filename, "leaves", len(def.Leaves), "values", len(def.Values), "output", def.Output)
	return def, nil
}

// Has reports whether name is a declared leaf or value.
func (d *Definition) Has(name string) bool {
	_, isLeaf := d.leafIndex[name]
	_, isValue := d.valueIndex[name]
	return isLeaf || isValue
}

// LeafValues returns leaf names and values in declaration order.
func (d *Definition) LeafValues() ([]string, []float64) {
	names := make([]string, len(d.Leaves))
	values := make([]float64, len(d.Leaves))
	for i, l := range d.Leaves {
		names[i] = l.Name
		values[i] = l.Value
	}
	return names, values
}
