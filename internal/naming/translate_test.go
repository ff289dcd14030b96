package naming

import (
	"maps"
	"testing"

	"keelc/internal/diag"
	"keelc/internal/expansion"
)

func TestResolveCleanModuleKeepsShape(t *testing.T) {
	b := &expansion.Builder{}
	m := b.Module(modM)
	m.Structs = append(m.Structs, b.Struct("S", key(),
		[]expansion.StructTypeParameter{b.StructTParam("T", false)},
		b.StructField("f", b.TName("T"))))
	m.Functions = append(m.Functions,
		b.Fun("f", tparams(b.TParam("T")),
			params(b.Param("x", b.TName("u64")), b.Param("v", b.TName("vector", b.TName("T")))),
			b.TName("u64"),
			b.Let(b.Binds(b.LVar("y")), nil, b.Binop(b.Var("x"), expansion.BinAdd, b.Num("1"))),
			b.Let(b.Binds(b.LVar("a"), b.LVar("c")), nil, b.List(b.Var("y"), b.Num("2"))),
			b.Do(b.Call(b.QAccess(modM, "g"), expansion.Targs(b.TName("T")), b.Var("v"))),
			b.Do(b.Binop(b.Var("a"), expansion.BinAdd, b.Var("c"))),
		),
		b.Fun("g", tparams(b.TParam("T")),
			params(b.Param("v", b.TName("vector", b.TName("T")))),
			nil,
			b.Let(b.Binds(b.LVar("_")), nil, b.Var("v")),
		),
	)
	r := resolveModules(t, m)
	r.expectClean(t)

	if len(r.prog.Modules) != 1 || len(r.prog.Modules[0].Structs) != 1 || len(r.prog.Modules[0].Functions) != 2 {
		t.Fatalf("module shape changed")
	}
	field := r.prog.Modules[0].Structs[0].Fields[0]
	if field.Type.Kind != TypeParam {
		t.Fatalf("expected struct field of type parameter, got %s", field.Type.Kind)
	}

	f := r.fun(t, 0, 0)
	if got := f.Signature.Params[0].Var.Var; got != (Var{Name: "x", ID: 0}) {
		t.Fatalf("unexpected parameter identity %s", got)
	}
	vty := f.Signature.Params[1].Type
	if vty.Kind != TypeBuiltin || vty.Data.(BuiltinType).Name != BuiltinVector {
		t.Fatalf("expected vector parameter, got %s", vty.Kind)
	}
	if arg := vty.Data.(BuiltinType).Args[0]; arg.Kind != TypeParam || arg.Data.(ParamType).Param.ID != f.Signature.TypeParams[0].ID {
		t.Fatalf("vector element should be the function type parameter")
	}
	seq := f.Body.Seq
	if len(seq) != 4 {
		t.Fatalf("expected 4 sequence items, got %d", len(seq))
	}
	if seq[0].Kind != SeqBind || seq[0].Binds.Items[0].Var.Var != (Var{Name: "y", ID: 1}) {
		t.Fatalf("unexpected first binding %+v", seq[0])
	}
	if seq[1].Exp.Kind != ExprList || len(seq[1].Binds.Items) != 2 {
		t.Fatalf("expected tuple binding")
	}
	call := seq[2].Exp
	if call.Kind != ExprModuleCall {
		t.Fatalf("expected module call, got %s", call.Kind)
	}
	cd := call.Data.(ModuleCallData)
	if cd.Module != modM || cd.Function.Value != "g" || !cd.TypeArgs.Present || len(cd.Args) != 1 {
		t.Fatalf("unexpected call %+v", cd)
	}
	if cd.Args[0].Kind != ExprUse {
		t.Fatalf("bare local should resolve to a use, got %s", cd.Args[0].Kind)
	}
	if ign := r.fun(t, 0, 1).Body.Seq[0].Binds.Items[0]; ign.Kind != LValueIgnore {
		t.Fatalf("wildcard should be ignored, got %d", ign.Kind)
	}
}

func TestShadowedLocalResolvesToOuterAfterBlock(t *testing.T) {
	b := &expansion.Builder{}
	m := b.Module(modM)
	m.Functions = append(m.Functions, b.Fun("f", nil, nil, b.TName("u64"),
		b.Let(b.Binds(b.LVar("x")), nil, b.Num("1")),
		b.Do(b.Block(
			b.Let(b.Binds(b.LVar("x")), nil, b.Num("2")),
			b.Do(b.Var("x")),
		)),
		b.Do(b.Var("x")),
	))
	r := resolveModules(t, m)
	r.expectClean(t)

	seq := r.fun(t, 0, 0).Body.Seq
	outer := seq[0].Binds.Items[0].Var.Var
	inner := seq[1].Exp.Data.(BlockData).Seq
	innerDecl := inner[0].Binds.Items[0].Var.Var
	innerUse := inner[1].Exp.Data.(VarData).Var.Var
	after := seq[2].Exp.Data.(VarData).Var.Var
	if outer == innerDecl {
		t.Fatalf("shadowing declaration must get a fresh identity")
	}
	if innerUse != innerDecl {
		t.Fatalf("inner use resolved to %s, want %s", innerUse, innerDecl)
	}
	if after != outer {
		t.Fatalf("use after block resolved to %s, want %s", after, outer)
	}
	if after.Color != 0 || innerUse.Color != 0 {
		t.Fatalf("colors must stay zero")
	}
}

func TestTypeArgumentArityIsCorrected(t *testing.T) {
	b := &expansion.Builder{}
	m := b.Module(modM)
	m.Structs = append(m.Structs, b.Struct("Pair", 0,
		[]expansion.StructTypeParameter{b.StructTParam("A", false), b.StructTParam("B", false)}))
	m.Functions = append(m.Functions,
		b.Fun("many", nil,
			params(b.Param("p", b.TQual(modM, "Pair", b.TName("u64"), b.TName("u64"), b.TName("bool")))),
			nil, b.Do(b.Var("p"))),
		b.Fun("few", nil,
			params(b.Param("p", b.TQual(modM, "Pair", b.TName("u8")))),
			nil, b.Do(b.Var("p"))),
	)
	r := resolveModules(t, m)
	if r.count(diag.NameTooManyTypeArguments) != 1 || r.count(diag.NameTooFewTypeArguments) != 1 || r.bag.Len() != 2 {
		t.Fatalf("unexpected diagnostics:\n%s", r.dump())
	}
	d := r.only(t, diag.NameTooManyTypeArguments)
	if d.Message != "Invalid instantiation of '0x1::M::Pair'. Expected 2 type argument(s) but got 3" {
		t.Fatalf("unexpected message %q", d.Message)
	}

	many := r.fun(t, 0, 0).Signature.Params[0].Type.Data.(UserType)
	if len(many.Args) != 2 || many.Args[0].Kind != TypeBuiltin || many.Args[1].Kind != TypeBuiltin {
		t.Fatalf("expected the third argument dropped, got %d args", len(many.Args))
	}
	few := r.fun(t, 0, 1).Signature.Params[0].Type.Data.(UserType)
	if len(few.Args) != 2 || few.Args[1].Kind != TypeUnresolved {
		t.Fatalf("expected padding with an error type, got %+v", few.Args)
	}
}

func TestDuplicateParameterKeepsBothSlots(t *testing.T) {
	b := &expansion.Builder{}
	m := b.Module(modM)
	m.Functions = append(m.Functions, b.Fun("f", nil,
		params(b.Param("a", b.TName("u64")), b.Param("a", b.TName("u64"))),
		nil, b.Do(b.Var("a"))))
	r := resolveModules(t, m)

	d := r.only(t, diag.DeclDuplicateItem)
	if d.Message != "Duplicate parameter with name 'a'" || len(d.Notes) != 1 || d.Notes[0].Msg != "Previously declared here" {
		t.Fatalf("unexpected duplicate diagnostic %+v", d)
	}
	ps := r.fun(t, 0, 0).Signature.Params
	if len(ps) != 2 || ps[0].Var.Var == ps[1].Var.Var {
		t.Fatalf("expected two distinct parameter slots, got %+v", ps)
	}
}

func TestDuplicateWildcardParameterIsAllowed(t *testing.T) {
	b := &expansion.Builder{}
	m := b.Module(modM)
	m.Functions = append(m.Functions, b.Fun("f", nil,
		params(b.Param("_", b.TName("u64")), b.Param("_", b.TName("u64"))), nil))
	r := resolveModules(t, m)
	r.expectClean(t)
}

func TestUnusedParameterConvention(t *testing.T) {
	b := &expansion.Builder{}
	m := b.Module(modM)
	x := b.Param("x", b.TName("u64"))
	m.Functions = append(m.Functions,
		b.Fun("f", nil, params(x), b.TName("u64"),
			b.Let(b.Binds(b.LVar("y")), nil, b.Num("1")),
			b.Do(b.Var("y")),
		),
		b.Fun("g", nil, params(b.Param("_x", b.TName("u64")), b.Param("X", b.TName("u64"))), nil),
	)
	r := resolveModules(t, m)
	d := r.only(t, diag.UnusedVariable)
	if r.bag.Len() != 1 {
		t.Fatalf("expected a single diagnostic, got:\n%s", r.dump())
	}
	if d.Primary != x.Name.Span {
		t.Fatalf("warning at %s, want the parameter %s", d.Primary, x.Name.Span)
	}
	if d.Message != "Unused parameter 'x'. Consider removing or prefixing with an underscore: '_x'" {
		t.Fatalf("unexpected message %q", d.Message)
	}
	if d.Severity != diag.SevWarning {
		t.Fatalf("unused parameter should be a warning")
	}
}

func TestUnusedLocalIsFlagged(t *testing.T) {
	b := &expansion.Builder{}
	m := b.Module(modM)
	m.Functions = append(m.Functions, b.Fun("f", nil, nil, nil,
		b.Let(b.Binds(b.LVar("y")), nil, b.Num("1")),
		b.Let(b.Binds(b.LVar("Z")), nil, b.Num("2")),
		b.Let(b.Binds(b.LVar("w")), b.TName("u64"), nil),
	))
	r := resolveModules(t, m)
	if r.count(diag.UnusedVariable) != 2 {
		t.Fatalf("expected warnings for y and w only:\n%s", r.dump())
	}
	seq := r.fun(t, 0, 0).Body.Seq
	for i, item := range seq {
		if !item.Binds.Items[0].Unused {
			t.Fatalf("binding %d should be flagged unused", i)
		}
	}
	if r.bag.Items()[0].Message != "Unused local variable 'y'. Consider removing or prefixing with an underscore: '_y'" {
		t.Fatalf("unexpected message %q", r.bag.Items()[0].Message)
	}
}

func TestAssignmentTargetsAreNotReported(t *testing.T) {
	b := &expansion.Builder{}
	m := b.Module(modM)
	m.Functions = append(m.Functions, b.Fun("f", nil, nil, nil,
		b.Let(b.Binds(b.LVar("x")), b.TName("u64"), nil),
		b.Do(b.Assign(b.Binds(b.LVar("x")), b.Num("1"))),
	))
	r := resolveModules(t, m)
	// the assignment resolves x, so the declaration counts as used
	r.expectClean(t)
	assign := r.fun(t, 0, 0).Body.Seq[1].Exp
	if assign.Kind != ExprAssign || assign.Data.(AssignData).Targets.Items[0].Unused {
		t.Fatalf("assignment target must not be flagged")
	}
}

func TestNativeFunctionSkipsUnusedChecks(t *testing.T) {
	b := &expansion.Builder{}
	m := b.Module(modM)
	m.Functions = append(m.Functions, b.NativeFun("f", tparams(b.TParam("T")), params(b.Param("x", b.TName("u64"))), nil))
	r := resolveModules(t, m)
	r.expectClean(t)
	if !r.fun(t, 0, 0).Body.Native {
		t.Fatalf("native body lost")
	}
}

func TestFriendRejection(t *testing.T) {
	b := &expansion.Builder{}
	k := b.Module(modK)
	m := b.Module(modM)
	m.Friends = append(m.Friends,
		b.Friend(modX),
		b.Friend(modM),
		b.Friend(modK),
		b.Friend(expansion.ModuleIdent{Address: "0x1", Module: "Missing"}),
	)
	r := resolveModules(t, k, m)

	if r.count(diag.DeclInvalidFriendDeclaration) != 2 || r.count(diag.NameUnboundModule) != 1 || r.bag.Len() != 3 {
		t.Fatalf("unexpected diagnostics:\n%s", r.dump())
	}
	friends := r.prog.Modules[1].Friends
	if len(friends) != 1 || friends[0].Ident != modK {
		t.Fatalf("only the valid friend should survive, got %d", len(friends))
	}
	first := r.bag.Items()[0]
	if first.Message != "Invalid friend declaration" || first.Notes[0].Msg != "Cannot declare modules out of the current address as a friend" {
		t.Fatalf("unexpected friend diagnostic %+v", first)
	}
	if first.Primary != m.Friends[0].Span || first.Notes[0].Span != m.Friends[0].IdentSpan {
		t.Fatalf("friend diagnostic at the wrong location")
	}
	if r.bag.Items()[1].Notes[0].Msg != "Cannot declare the module itself as a friend" {
		t.Fatalf("unexpected self friend note %q", r.bag.Items()[1].Notes[0].Msg)
	}
}

func TestSiblingDeclarationsDoNotShareTypeParameters(t *testing.T) {
	b := &expansion.Builder{}
	m := b.Module(modM)
	m.Structs = append(m.Structs, b.Struct("S", 0,
		[]expansion.StructTypeParameter{b.StructTParam("T", true)},
		b.StructField("f", b.TName("u64"))))
	m.Functions = append(m.Functions,
		b.Fun("f", tparams(b.TParam("T")), params(b.Param("x", b.TName("T"))), nil, b.Do(b.Var("x"))),
		b.Fun("g", nil, params(b.Param("y", b.TName("T"))), nil, b.Do(b.Var("y"))),
	)
	r := resolveModules(t, m)
	d := r.only(t, diag.NameUnboundType)
	if d.Message != "Unbound type 'T' in current scope" {
		t.Fatalf("unexpected message %q", d.Message)
	}
	if r.fun(t, 0, 1).Signature.Params[0].Type.Kind != TypeUnresolved {
		t.Fatalf("g must not see f's type parameter")
	}
	if !r.prog.Modules[0].Structs[0].TypeParams[0].IsPhantom {
		t.Fatalf("phantom flag lost")
	}
}

func TestModuleRestoresUnscopedBaseline(t *testing.T) {
	b := &expansion.Builder{}
	m := b.Module(modM)
	m.Structs = append(m.Structs, b.Struct("S", 0, []expansion.StructTypeParameter{b.StructTParam("T", false)}))
	m.Functions = append(m.Functions, b.Fun("f", tparams(b.TParam("U")), nil, nil))
	m.Seal()
	prog := &expansion.Program{Modules: []*expansion.ModuleDefinition{m}}

	sink := diag.NewSink(diag.BagReporter{Bag: diag.NewBag(10)}, nil)
	c := newContext(sink, nil, prog, Options{})
	before := c.saveUnscoped()
	c.module(m)
	if !maps.Equal(before.types, c.unscoped.types) || !maps.Equal(before.constants, c.unscoped.constants) {
		t.Fatalf("module left bindings in the unscoped environment")
	}
	if !c.locals.empty() || c.translatingFun || c.currentModule != nil {
		t.Fatalf("function state leaked out of the module")
	}
}

func TestModuleWarningFilterSuppressesWarnings(t *testing.T) {
	b := &expansion.Builder{}
	m := b.Module(modM)
	m.Warnings = diag.AllWarningsFilter()
	m.Functions = append(m.Functions, b.Fun("f", tparams(b.TParam("T")), params(b.Param("x", b.TName("u64"))), nil))
	r := resolveModules(t, m)
	r.expectClean(t)
	if r.sink.FilteredCount() != 2 {
		t.Fatalf("expected 2 filtered warnings, got %d", r.sink.FilteredCount())
	}
}

func TestProgramModulesWinOverLibrary(t *testing.T) {
	lib := testLib{
		{Ident: modK, Structs: []expansion.StructSummary{{Name: "Old"}}},
		{Ident: modX, Functions: []expansion.MemberSummary{{Name: "ext"}}},
	}
	b := &expansion.Builder{}
	k := b.Module(modK)
	k.Structs = append(k.Structs, b.Struct("New", 0, nil))
	m := b.Module(modM)
	m.Functions = append(m.Functions, b.Fun("f", nil,
		params(b.Param("a", b.TQual(modK, "New")), b.Param("b", b.TQual(modK, "Old"))), nil,
		b.Do(b.Var("a")),
		b.Do(b.Var("b")),
		b.Do(b.Call(b.QAccess(modX, "ext"), expansion.TypeArgs{})),
	))
	k.Seal()
	m.Seal()
	r := resolveProgram(t, lib, &expansion.Program{Modules: []*expansion.ModuleDefinition{k, m}})
	d := r.only(t, diag.NameUnboundModuleMember)
	if d.Message != "Invalid module access. Unbound struct 'Old' in module '0x1::K'" {
		t.Fatalf("unexpected message %q", d.Message)
	}
	if r.bag.Len() != 1 {
		t.Fatalf("library function should resolve:\n%s", r.dump())
	}
}

func TestUnresolvedInputRequiresPriorError(t *testing.T) {
	b := &expansion.Builder{}
	m := b.Module(modM)
	m.Functions = append(m.Functions, b.Fun("f", nil, nil, nil,
		b.Do(&expansion.Expr{Kind: expansion.ExprUnresolved, Span: b.Span()})))
	m.Seal()
	prog := &expansion.Program{Modules: []*expansion.ModuleDefinition{m}}

	mustPanic(t, "ICE", func() {
		sink := diag.NewSink(nil, nil)
		Resolve(sink, nil, prog, Options{})
	})

	sink := diag.NewSink(nil, nil)
	diag.ReportError(sink, diag.NameUnboundType, b.Span(), "earlier error").Emit()
	out := Resolve(sink, nil, prog, Options{})
	if out.Modules[0].Functions[0].Body.Seq[0].Exp.Kind != ExprUnresolved {
		t.Fatalf("error node should pass through")
	}
}
