package viz

import (
	"fmt"
	"html"
	"io"
	"strconv"

	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/born-ml/gradgraph/internal/autodiff"
)

// DOTOptions configures WriteDOT and Render.
type DOTOptions struct {
	Name      string // Graph name (default: "Comp")
	Precision int    // Digits after the decimal point (default: 4)
	LeftRight bool   // Lay the graph out left to right instead of top down
}

func (o DOTOptions) withDefaults() DOTOptions {
	if o.Name == "" {
		o.Name = "Comp"
	}
	if o.Precision <= 0 {
		o.Precision = 4
	}
	return o
}

// diagram is the gonum graph behind a rendered trace. Data node i has
// gonum id 2i and its operation node 2i+1.
type diagram struct {
	*simple.DirectedGraph
	attrs encoding.Attributes
}

func (d *diagram) DOTAttributers() (graph, node, edge encoding.Attributer) {
	return &d.attrs, nil, nil
}

// dataNode holds the value and gradient of one arena node.
type dataNode struct {
	view      autodiff.NodeView
	precision int
}

func (n dataNode) ID() int64 { return 2 * int64(n.view.ID) }
func (n dataNode) DOTID() string { return fmt.Sprintf("n%d", n.view.ID) }
func (n dataNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{
		{Key: "shape", Value: "plain"},
		{Key: "label", Value: fmt.Sprintf(
			`<<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0"><TR><TD>%s</TD><TD>data %s</TD><TD>grad %s</TD></TR></TABLE>>`,
			html.EscapeString(n.view.Name()),
			formatFloat(n.view.Value, n.precision),
			formatFloat(n.view.Grad, n.precision))},
	}
}

// opNode is the operation producing a non-leaf node.
type opNode struct {
	view autodiff.NodeView
}

func (n opNode) ID() int64 { return 2*int64(n.view.ID) + 1 }
func (n opNode) DOTID() string { return fmt.Sprintf("op%d", n.view.ID) }
func (n opNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: n.view.Op.Symbol()}}
}

// newDiagram lays out t as data nodes and operation nodes. Data nodes
// are tables of name, data and grad cells; every non-leaf node gets a
// separate operation node with edges from each operand to the operation
// and from the operation to its result. Repeated operands collapse into
// one edge.
func newDiagram(t *Trace, opts DOTOptions) *diagram {
	d := &diagram{DirectedGraph: simple.NewDirectedGraph()}
	if opts.LeftRight {
		d.attrs = encoding.Attributes{{Key: "rankdir", Value: "LR"}}
	}

	data := make(map[int]dataNode, len(t.Nodes))
	for _, n := range t.Nodes {
		dn := dataNode{view: n, precision: opts.Precision}
		data[n.ID] = dn
		d.AddNode(dn)
		if n.IsLeaf() {
			continue
		}
		op := opNode{view: n}
		d.AddNode(op)
		d.SetEdge(simple.Edge{F: op, T: dn})
	}
	for _, e := range t.Edges() {
		d.SetEdge(simple.Edge{F: data[e.From], T: opNode{view: data[e.To].view}})
	}
	return d
}

// MarshalDOT renders t as a strict Graphviz digraph.
func MarshalDOT(t *Trace, opts DOTOptions) ([]byte, error) {
	opts = opts.withDefaults()
	b, err := dot.Marshal(newDiagram(t, opts), opts.Name, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("viz: %w", err)
	}
	return append(b, '\n'), nil
}

// WriteDOT writes the MarshalDOT encoding of t to w.
func WriteDOT(w io.Writer, t *Trace, opts DOTOptions) error {
	b, err := MarshalDOT(t, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func formatFloat(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}
