// Package depgraph orders modules by the dependency edges that name
// resolution collects from specification blocks.
package depgraph

import (
	"fmt"
	"slices"
	"sort"

	"fortio.org/safecast"
)

type ModuleID uint32

// Node is a module (or script) and the modules it depends on.
type Node struct {
	Name string
	Deps []string
}

type Index struct {
	NameToID map[string]ModuleID
	IDToName []string
}

type Graph struct {
	Edges [][]ModuleID // Edges[dep] = модули, зависящие от dep
	Indeg []int        // число зависимостей модуля
}

// BuildIndex collects every named module, owners and dependencies alike,
// and assigns ids in sorted order.
func BuildIndex(nodes []Node) Index {
	uniq := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if n.Name != "" {
			uniq[n.Name] = struct{}{}
		}
		for _, dep := range n.Deps {
			if dep != "" {
				uniq[dep] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(uniq))
	for name := range uniq {
		names = append(names, name)
	}
	sort.Strings(names)

	nameToID := make(map[string]ModuleID, len(names))
	for i, name := range names {
		id, err := safecast.Conv[ModuleID](i)
		if err != nil {
			panic(fmt.Errorf("module id overflow: %w", err))
		}
		nameToID[name] = id
	}
	return Index{NameToID: nameToID, IDToName: names}
}

// BuildGraph turns nodes into edges pointing from a dependency to its
// dependents. Self edges and repeated edges are dropped. Nodes sharing a name
// contribute all their dependencies.
func BuildGraph(idx Index, nodes []Node) Graph {
	count := len(idx.IDToName)
	g := Graph{
		Edges: make([][]ModuleID, count),
		Indeg: make([]int, count),
	}
	seen := make(map[[2]ModuleID]struct{})
	for _, n := range nodes {
		owner, ok := idx.NameToID[n.Name]
		if !ok {
			continue
		}
		for _, dep := range n.Deps {
			depID, ok := idx.NameToID[dep]
			if !ok || depID == owner {
				continue
			}
			key := [2]ModuleID{depID, owner}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			g.Edges[depID] = append(g.Edges[depID], owner)
			g.Indeg[owner]++
		}
	}
	for i := range g.Edges {
		if len(g.Edges[i]) > 1 {
			slices.Sort(g.Edges[i])
		}
	}
	return g
}

// Names maps ids back to module names.
func (idx Index) Names(ids []ModuleID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}
