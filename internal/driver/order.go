package driver

import (
	"keelc/internal/depgraph"
)

// DepOrder is the order in which modules can be verified so that every
// specification dependency comes before the module that needs it.
type DepOrder struct {
	Batches [][]string
	// Cycle lists modules caught in (or blocked by) a dependency cycle.
	Cycle []string
}

// DependencyOrder merges the specification edges of all results. Owners and
// dependencies from different files are joined by module name.
func DependencyOrder(results []*FileResult) DepOrder {
	var nodes []depgraph.Node
	for _, r := range results {
		if r == nil || r.Err != nil {
			continue
		}
		for _, md := range r.Deps {
			n := depgraph.Node{Name: md.Owner, Deps: make([]string, 0, len(md.Deps))}
			for _, d := range md.Deps {
				n.Deps = append(n.Deps, d.Module.String())
			}
			nodes = append(nodes, n)
		}
	}
	if len(nodes) == 0 {
		return DepOrder{}
	}
	idx := depgraph.BuildIndex(nodes)
	topo := depgraph.ToposortKahn(depgraph.BuildGraph(idx, nodes))

	out := DepOrder{Batches: make([][]string, 0, len(topo.Batches))}
	for _, batch := range topo.Batches {
		out.Batches = append(out.Batches, idx.Names(batch))
	}
	if topo.Cyclic {
		out.Cycle = idx.Names(topo.Cycles)
	}
	return out
}
