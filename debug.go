package portico

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// PrintGraph writes an ASCII rendering of the graph to stdout, one adapter
// per line with its lifetime and resolution status.
func (c *Container) PrintGraph() {
	c.FprintGraph(os.Stdout)
}

func (c *Container) FprintGraph(w io.Writer) {
	adapters := c.graph.Adapters()
	if len(adapters) == 0 {
		_, _ = fmt.Fprintln(w, "(empty graph)")
		return
	}

	for _, a := range adapters {
		status := "○"
		if c.IsResolved(portName(a.Provides())) == StateResolved {
			status = "●"
		}

		if reqs := a.Requires(); len(reqs) > 0 {
			_, _ = fmt.Fprintf(w, "%s %s [%s] ← %s\n", status, a.Provides(), a.Lifetime(), strings.Join(reqs, ", "))
		} else {
			_, _ = fmt.Fprintf(w, "%s %s [%s]\n", status, a.Provides(), a.Lifetime())
		}
	}
}

func (c *Container) SprintGraph() string {
	var sb strings.Builder
	c.FprintGraph(&sb)
	return sb.String()
}

// PrintGraphDOT writes the graph in Graphviz DOT format to stdout.
func (c *Container) PrintGraphDOT() {
	c.FprintGraphDOT(os.Stdout)
}

func (c *Container) FprintGraphDOT(w io.Writer) {
	_, _ = fmt.Fprintln(w, "digraph ports {")
	_, _ = fmt.Fprintln(w, "  rankdir=LR;")
	_, _ = fmt.Fprintln(w, "  node [shape=box];")

	for _, a := range c.graph.Adapters() {
		style := ""
		if c.IsResolved(portName(a.Provides())) == StateResolved {
			style = ", style=filled, fillcolor=lightblue"
		}
		label := fmt.Sprintf("%s\\n%s", a.Provides(), a.Lifetime())
		_, _ = fmt.Fprintf(w, "  %q [label=%q%s];\n", a.Provides(), label, style)
	}

	_, _ = fmt.Fprintln(w)

	for _, a := range c.graph.Adapters() {
		for _, req := range a.Requires() {
			_, _ = fmt.Fprintf(w, "  %q -> %q;\n", a.Provides(), req)
		}
	}

	_, _ = fmt.Fprintln(w, "}")
}

func (c *Container) SprintGraphDOT() string {
	var sb strings.Builder
	c.FprintGraphDOT(&sb)
	return sb.String()
}

// PrintScopeTree writes the scope hierarchy to stdout, one resolver per
// line with its status and cache occupancy.
func (c *Container) PrintScopeTree() {
	c.FprintScopeTree(os.Stdout)
}

func (c *Container) FprintScopeTree(w io.Writer) {
	fprintScopeNode(w, c.ScopeTree(), 0)
}

func (c *Container) SprintScopeTree() string {
	var sb strings.Builder
	c.FprintScopeTree(&sb)
	return sb.String()
}

func fprintScopeNode(w io.Writer, node ScopeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	kind := "scope"
	if node.Root {
		kind = "container"
	}
	_, _ = fmt.Fprintf(w, "%s%s %s (%s, %d/%d resolved)\n",
		indent, kind, node.ID, node.Status, node.ResolvedCount, node.TotalCount)

	for _, child := range node.Children {
		fprintScopeNode(w, child, depth+1)
	}
}

// portName adapts a bare string to PortRef for internal lookups.
type portName string

func (p portName) Name() string {
	return string(p)
}
