package graph

// Cycles returns the strongly connected components of the dependency graph
// that form cycles, for inspection tooling. Build does not reject cycles;
// they surface as resolution failures when a port inside one is resolved.
func (g *Graph) Cycles() [][]string {
	d := &cycleDetector{
		graph:   g,
		onStack: make(map[string]bool),
		indices: make(map[string]int),
		lowlink: make(map[string]int),
	}

	for _, a := range g.adapters {
		if _, visited := d.indices[a.Provides]; !visited {
			d.strongConnect(a.Provides)
		}
	}

	var cycles [][]string
	for _, scc := range d.sccs {
		if len(scc) > 1 {
			cycles = append(cycles, scc)
			continue
		}
		port := scc[0]
		for _, req := range g.index[port].Requires {
			if req == port {
				cycles = append(cycles, scc)
				break
			}
		}
	}

	return cycles
}

type cycleDetector struct {
	graph   *Graph
	index   int
	stack   []string
	onStack map[string]bool
	indices map[string]int
	lowlink map[string]int
	sccs    [][]string
}

func (d *cycleDetector) strongConnect(port string) {
	d.indices[port] = d.index
	d.lowlink[port] = d.index
	d.index++
	d.stack = append(d.stack, port)
	d.onStack[port] = true

	for _, req := range d.graph.index[port].Requires {
		if _, exists := d.graph.index[req]; !exists {
			continue
		}

		if _, visited := d.indices[req]; !visited {
			d.strongConnect(req)
			d.lowlink[port] = min(d.lowlink[port], d.lowlink[req])
		} else if d.onStack[req] {
			d.lowlink[port] = min(d.lowlink[port], d.indices[req])
		}
	}

	if d.lowlink[port] == d.indices[port] {
		var scc []string
		for {
			n := len(d.stack) - 1
			w := d.stack[n]
			d.stack = d.stack[:n]
			d.onStack[w] = false
			scc = append(scc, w)
			if w == port {
				break
			}
		}
		d.sccs = append(d.sccs, scc)
	}
}
