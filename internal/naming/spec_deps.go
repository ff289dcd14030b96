package naming

import (
	"slices"

	"keelc/internal/expansion"
	"keelc/internal/source"
)

// Neighbor is the kind of a module dependency edge.
type Neighbor uint8

const (
	NeighborDependency Neighbor = iota
	NeighborFriend
)

func (n Neighbor) String() string {
	if n == NeighborFriend {
		return "friend"
	}
	return "dependency"
}

// SpecDep is one module edge found in specification blocks.
type SpecDep struct {
	Module   expansion.ModuleIdent `msgpack:"module"`
	Neighbor Neighbor              `msgpack:"neighbor"`
	Span     source.Span           `msgpack:"span"`
}

type specDepKey struct {
	module   expansion.ModuleIdent
	neighbor Neighbor
}

// SpecDeps is a set of edges keyed by module and kind. The first location
// seen for an edge is kept.
type SpecDeps struct {
	edges map[specDepKey]source.Span
}

func (s *SpecDeps) Add(m expansion.ModuleIdent, n Neighbor, sp source.Span) {
	if s.edges == nil {
		s.edges = make(map[specDepKey]source.Span)
	}
	k := specDepKey{module: m, neighbor: n}
	if _, ok := s.edges[k]; !ok {
		s.edges[k] = sp
	}
}

func (s *SpecDeps) Len() int { return len(s.edges) }

func (s *SpecDeps) Has(m expansion.ModuleIdent, n Neighbor) bool {
	_, ok := s.edges[specDepKey{module: m, neighbor: n}]
	return ok
}

// Sorted lists the edges ordered by module, then kind.
func (s *SpecDeps) Sorted() []SpecDep {
	out := make([]SpecDep, 0, len(s.edges))
	for k, sp := range s.edges {
		out = append(out, SpecDep{Module: k.module, Neighbor: k.neighbor, Span: sp})
	}
	slices.SortFunc(out, func(a, b SpecDep) int {
		switch {
		case expansion.IdentLess(a.Module, b.Module):
			return -1
		case expansion.IdentLess(b.Module, a.Module):
			return 1
		}
		return int(a.Neighbor) - int(b.Neighbor)
	})
	return out
}

// specBlocks collects the module edges of blocks. It walks the unresolved
// form and never reports.
func specBlocks(deps *SpecDeps, blocks []*expansion.SpecBlock) {
	w := specWalker{deps: deps}
	for _, b := range blocks {
		for _, m := range b.Members {
			w.member(m)
		}
	}
}

type specWalker struct {
	deps *SpecDeps
}

func (w specWalker) member(m *expansion.SpecMember) {
	switch m.Kind {
	case expansion.SpecCondition:
		w.exp(m.Exp)
		w.exps(m.Additional)
	case expansion.SpecFunction:
		if m.Body != nil && !m.Body.Native {
			w.seq(m.Body.Seq)
		}
	case expansion.SpecLet, expansion.SpecInclude, expansion.SpecApply:
		w.exp(m.Exp)
	case expansion.SpecUpdate:
		w.exp(m.Lhs)
		w.exp(m.Rhs)
	case expansion.SpecPragma:
		// `pragma friend = m::f` declares a friend that is not a real
		// friend declaration
		for _, p := range m.Properties {
			if p.Name.Value != "friend" || p.Value == nil || p.Value.Ident == nil {
				continue
			}
			if acc := p.Value.Ident; !acc.IsName() {
				w.deps.Add(*acc.Module, NeighborFriend, acc.Span)
			}
		}
	case expansion.SpecVariable:
	}
}

func (w specWalker) access(acc expansion.ModuleAccess) {
	if !acc.IsName() {
		w.deps.Add(*acc.Module, NeighborDependency, acc.Span)
	}
}

func (w specWalker) typeArgs(targs expansion.TypeArgs) {
	if targs.Present {
		w.types(targs.Types)
	}
}

func (w specWalker) types(tys []*expansion.Type) {
	for _, t := range tys {
		w.type_(t)
	}
}

func (w specWalker) type_(t *expansion.Type) {
	switch data := t.Data.(type) {
	case expansion.MultipleType:
		w.types(data.Types)
	case expansion.ApplyType:
		w.access(data.Access)
		w.types(data.Args)
	case expansion.RefType:
		w.type_(data.Inner)
	case expansion.FunType:
		w.types(data.Params)
		w.type_(data.Ret)
	}
}

func (w specWalker) seq(seq expansion.Sequence) {
	for _, item := range seq {
		switch item.Kind {
		case expansion.SeqDeclare:
			w.lvalues(item.Binds)
		case expansion.SeqBind:
			w.lvalues(item.Binds)
			w.exp(item.Exp)
		case expansion.SeqExp:
			w.exp(item.Exp)
		}
	}
}

func (w specWalker) lvalues(ls *expansion.LValueList) {
	for _, l := range ls.Items {
		w.lvalue(l)
	}
}

func (w specWalker) lvalue(l *expansion.LValue) {
	w.access(l.Access)
	w.typeArgs(l.TypeArgs)
	for _, f := range l.Fields {
		w.lvalue(f.Value)
	}
}

func (w specWalker) exps(es []*expansion.Expr) {
	for _, e := range es {
		w.exp(e)
	}
}

func (w specWalker) exp(e *expansion.Expr) {
	if e == nil {
		return
	}
	switch data := e.Data.(type) {
	case expansion.InnerData:
		w.exp(data.Inner)
	case expansion.UnaryData:
		w.exp(data.Operand)
	case expansion.BorrowData:
		w.exp(data.Inner)
	case expansion.MutateData:
		w.exp(data.Target)
		w.exp(data.Value)
	case expansion.BinopData:
		w.exp(data.Left)
		w.exp(data.Right)
	case expansion.IndexData:
		w.exp(data.Value)
		w.exp(data.Index)
	case expansion.NameData:
		w.access(data.Access)
		w.typeArgs(data.TypeArgs)
	case expansion.CallData:
		w.access(data.Access)
		w.typeArgs(data.TypeArgs)
		w.exps(data.Args)
	case expansion.PackData:
		w.access(data.Access)
		w.typeArgs(data.TypeArgs)
		for _, f := range data.Fields {
			w.exp(f.Value)
		}
	case expansion.VectorData:
		w.typeArgs(data.TypeArgs)
		w.exps(data.Args)
	case expansion.IfElseData:
		w.exp(data.Cond)
		w.exp(data.Then)
		w.exp(data.Else)
	case expansion.WhileData:
		w.exp(data.Cond)
		w.exp(data.Body)
	case expansion.BlockData:
		w.seq(data.Seq)
	case expansion.LambdaData:
		w.lvalues(data.Binds)
		w.exp(data.Body)
	case expansion.QuantData:
		for _, r := range data.Ranges {
			w.lvalue(r.Bind)
			w.exp(r.Range)
		}
		for _, trig := range data.Triggers {
			w.exps(trig)
		}
		w.exp(data.Where)
		w.exp(data.Body)
	case expansion.AssignData:
		w.lvalues(data.Targets)
		w.exp(data.Value)
	case expansion.FieldMutateData:
		w.dotted(data.Target)
		w.exp(data.Value)
	case expansion.ListData:
		w.exps(data.Exprs)
	case expansion.DottedData:
		w.dotted(data.Dotted)
	case expansion.CastData:
		w.exp(data.Value)
		w.type_(data.Type)
	}
}

func (w specWalker) dotted(d *expansion.ExpDotted) {
	if d.Kind == expansion.DottedDot {
		w.dotted(d.Inner)
		return
	}
	w.exp(d.Exp)
}
