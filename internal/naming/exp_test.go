package naming

import (
	"testing"

	"keelc/internal/diag"
	"keelc/internal/expansion"
)

// resolveBody resolves a single function f(s: signer, a: address) with the
// given body inside module M, which also declares `struct R has key {}`,
// `struct P {}`, `fun g()` and `const C: u64`.
func resolveBody(t *testing.T, b *expansion.Builder, body ...*expansion.SequenceItem) (run, *Function) {
	t.Helper()
	m := b.Module(modM)
	m.Structs = append(m.Structs, b.Struct("R", key(), nil), b.Struct("P", 0, nil))
	m.Constants = append(m.Constants, b.Constant("C", b.TName("u64"), b.Num("0")))
	m.Functions = append(m.Functions,
		b.Fun("f", nil, params(b.Param("_s", b.TName("signer")), b.Param("_a", b.TName("address"))), nil, body...),
		b.Fun("g", nil, nil, nil),
	)
	r := resolveModules(t, m)
	return r, r.fun(t, 0, 0)
}

func TestBuiltinFunctions(t *testing.T) {
	b := &expansion.Builder{}
	r, f := resolveBody(t, b,
		b.Do(b.Call(b.Access("move_to"), expansion.Targs(b.TQual(modM, "R")), b.Var("_s"))),
		b.Do(b.Call(b.Access("borrow_global_mut"), expansion.Targs(b.TQual(modM, "R")), b.Var("_a"))),
		b.Do(b.Call(b.Access("exists"), expansion.TypeArgs{}, b.Var("_a"))),
		b.Do(b.Macro("assert", b.Bool(true), b.Num("1"))),
	)
	r.expectClean(t)
	want := []struct {
		kind BuiltinKind
		mut  bool
		typ  bool
	}{
		{BuiltinMoveTo, false, true},
		{BuiltinBorrowGlobal, true, true},
		{BuiltinExists, false, false},
		{BuiltinAssert, false, false},
	}
	for i, w := range want {
		e := f.Body.Seq[i].Exp
		if e.Kind != ExprBuiltin {
			t.Fatalf("item %d: expected builtin, got %s", i, e.Kind)
		}
		fn := e.Data.(BuiltinData).Function
		if fn.Kind != w.kind || fn.Mut != w.mut || (fn.Type != nil) != w.typ {
			t.Fatalf("item %d: unexpected builtin %+v", i, fn)
		}
	}
	if !f.Body.Seq[3].Exp.Data.(BuiltinData).Function.Macro {
		t.Fatalf("assert! should be the macro form")
	}
}

func TestBuiltinTypeArgumentArity(t *testing.T) {
	b := &expansion.Builder{}
	call := b.Call(b.Access("exists"), expansion.Targs(b.TQual(modM, "R"), b.TName("u64")), b.Var("_a"))
	r, f := resolveBody(t, b, b.Do(call))
	d := r.only(t, diag.NameTooManyTypeArguments)
	if d.Message != "Invalid call to builtin function: 'exists'" {
		t.Fatalf("unexpected message %q", d.Message)
	}
	name := call.Data.(expansion.CallData).Access.Name
	if d.Primary != name.Span || len(d.Notes) != 1 || d.Notes[0].Span != call.Span {
		t.Fatalf("primary should be the builtin name and the note the call")
	}
	if d.Notes[0].Msg != "Expected 1 type argument(s) but got 2" {
		t.Fatalf("unexpected note %q", d.Notes[0].Msg)
	}
	if fn := f.Body.Seq[0].Exp.Data.(BuiltinData).Function; fn.Type == nil || fn.Type.Kind != TypeUser {
		t.Fatalf("type argument should be kept after truncation")
	}
}

func TestDeprecatedAssertCall(t *testing.T) {
	b := &expansion.Builder{}
	call := b.Call(b.Access("assert"), expansion.TypeArgs{}, b.Bool(true), b.Num("1"))
	r, f := resolveBody(t, b, b.Do(call))
	d := r.only(t, diag.UncatDeprecatedWillBeRemoved)
	if d.Severity != diag.SevWarning || d.Message != "'assert' function syntax has been deprecated and will be removed" {
		t.Fatalf("unexpected deprecation %+v", d)
	}
	fn := f.Body.Seq[0].Exp.Data.(BuiltinData).Function
	if fn.Kind != BuiltinAssert || fn.Macro {
		t.Fatalf("expected the call form of assert, got %+v", fn)
	}
}

func TestDeprecatedAssertWithTypeArguments(t *testing.T) {
	b := &expansion.Builder{}
	r, _ := resolveBody(t, b, b.Do(b.Call(b.Access("assert"), expansion.Targs(b.TName("u64")), b.Bool(true), b.Num("1"))))
	if r.count(diag.UncatDeprecatedWillBeRemoved) != 1 || r.count(diag.NameTooManyTypeArguments) != 1 {
		t.Fatalf("expected deprecation and arity diagnostics:\n%s", r.dump())
	}
}

func TestVectorLiteral(t *testing.T) {
	b := &expansion.Builder{}
	r, f := resolveBody(t, b,
		b.Do(b.Vector(expansion.Targs(b.TName("u64"), b.TName("bool")), b.Num("1"))),
		b.Do(b.Vector(expansion.TypeArgs{})),
	)
	d := r.only(t, diag.NameTooManyTypeArguments)
	if d.Message != "Invalid 'vector' instantiation" {
		t.Fatalf("unexpected message %q", d.Message)
	}
	first := f.Body.Seq[0].Exp.Data.(VectorData)
	if first.ElemType == nil || first.ElemType.Kind != TypeBuiltin || len(first.Args) != 1 {
		t.Fatalf("unexpected vector %+v", first)
	}
	if f.Body.Seq[1].Exp.Data.(VectorData).ElemType != nil {
		t.Fatalf("omitted element type must stay omitted")
	}
}

func TestCallResolutionFailures(t *testing.T) {
	b := &expansion.Builder{}
	r, f := resolveBody(t, b,
		b.Do(b.Call(b.Access("foo"), expansion.TypeArgs{}, b.Var("missing"))),
		b.Do(b.Call(b.QAccess(modM, "h"), expansion.TypeArgs{})),
		b.Do(b.Call(b.QAccess(modK, "g"), expansion.TypeArgs{})),
		b.Do(b.Macro("debug")),
		b.Do(b.Call(b.QAccess(modM, "g"), expansion.TypeArgs{})),
	)
	if d := r.only(t, diag.NameUnboundUnscopedName); d.Message != "Unbound function 'foo' in current scope" {
		t.Fatalf("unexpected message %q", d.Message)
	}
	// arguments are resolved even when the callee is not
	if r.only(t, diag.NameUnboundVariable).Message != "Invalid variable usage. Unbound variable 'missing'" {
		t.Fatalf("argument of a failed call should still be resolved")
	}
	if d := r.only(t, diag.NameUnboundModuleMember); d.Message != "Invalid module access. Unbound function 'h' in module '0x1::M'" {
		t.Fatalf("unexpected message %q", d.Message)
	}
	if d := r.only(t, diag.NameUnboundModule); d.Message != "Unbound module '0x1::K'" {
		t.Fatalf("unexpected message %q", d.Message)
	}
	if d := r.only(t, diag.NameUnboundMacro); d.Message != "Unbound macro 'debug'" {
		t.Fatalf("unexpected message %q", d.Message)
	}
	for i := 0; i < 4; i++ {
		if k := f.Body.Seq[i].Exp.Kind; k != ExprUnresolved {
			t.Fatalf("item %d: expected error node, got %s", i, k)
		}
	}
	if f.Body.Seq[4].Exp.Kind != ExprModuleCall {
		t.Fatalf("valid call lost")
	}
}

func TestConstantAccess(t *testing.T) {
	b := &expansion.Builder{}
	r, f := resolveBody(t, b,
		b.Do(b.NameExpr(b.QAccess(modM, "C"))),
		b.Do(b.Var("C")),
		b.Do(b.NameExpr(b.QAccess(modM, "D"))),
	)
	if d := r.only(t, diag.NameUnboundUnscopedName); d.Message != "Unbound constant 'C'" {
		t.Fatalf("unexpected message %q", d.Message)
	}
	r.only(t, diag.NameUnboundModuleMember)
	cd := f.Body.Seq[0].Exp.Data.(ConstantData)
	if cd.Module == nil || *cd.Module != modM || cd.Name.Value != "C" {
		t.Fatalf("unexpected constant %+v", cd)
	}
	if f.Body.Seq[0].Exp.Span.Empty() {
		t.Fatalf("constant lost its location")
	}
}

func TestPackAndUnpack(t *testing.T) {
	b := &expansion.Builder{}
	r, f := resolveBody(t, b,
		b.Let(b.Binds(b.LUnpack(b.QAccess(modM, "P"), expansion.TypeArgs{},
			b.LField("x", b.LVar("a")),
			b.LField("x", b.LVar("b")),
		)), nil, b.Pack(b.QAccess(modM, "P"), expansion.TypeArgs{}, b.Field("x", b.Num("1")))),
		b.Do(b.Var("a")),
		b.Do(b.Pack(b.Access("T"), expansion.TypeArgs{})),
		b.Do(b.Pack(b.Access("u64"), expansion.TypeArgs{})),
	)
	if r.count(diag.NamePositionMismatch) != 1 || r.count(diag.NameUnboundType) != 1 {
		t.Fatalf("unexpected diagnostics:\n%s", r.dump())
	}
	d := r.only(t, diag.NamePositionMismatch)
	if d.Message != "Invalid construction. Expected a struct name" || d.Notes[0].Msg != "But 'u64' is a builtin type" {
		t.Fatalf("unexpected mismatch %+v", d)
	}
	unpack := f.Body.Seq[0].Binds.Items[0]
	if unpack.Kind != LValueUnpack || len(unpack.Fields) != 1 || unpack.Fields[0].Value.Var.Var.Name != "a" {
		t.Fatalf("duplicate field must be kept once, got %+v", unpack.Fields)
	}
	if n := r.count(diag.DeclDuplicateItem); n != 0 {
		t.Fatalf("repeated unpack field is dropped without a diagnostic, got %d:\n%s", n, r.dump())
	}
	pack := f.Body.Seq[0].Exp.Data.(PackData)
	if pack.Module != modM || pack.Struct.Value != "P" || pack.TypeArgs.Present {
		t.Fatalf("unexpected pack %+v", pack)
	}
}

func TestStructNameTypeParameterNote(t *testing.T) {
	b := &expansion.Builder{}
	tp := b.TParam("T")
	m := b.Module(modM)
	m.Functions = append(m.Functions, b.Fun("f", tparams(tp), params(b.Param("x", b.TName("T"))), nil,
		b.Let(b.Binds(b.LUnpack(b.Access("T"), expansion.TypeArgs{})), nil, b.Var("x")),
	))
	r := resolveModules(t, m)
	d := r.only(t, diag.NamePositionMismatch)
	if d.Message != "Invalid deconstructing binding. Expected a struct name" {
		t.Fatalf("unexpected message %q", d.Message)
	}
	if d.Notes[0].Span != tp.Name.Span || d.Notes[0].Msg != "But 'T' was declared as a type parameter here" {
		t.Fatalf("note should point at the type parameter, got %+v", d.Notes[0])
	}
	if item := r.fun(t, 0, 0).Body.Seq[0]; item.Kind != SeqExp || item.Exp.Kind != ExprUnresolved {
		t.Fatalf("failed binding should become an error expression")
	}
}

func TestDuplicateLocalsInOnePattern(t *testing.T) {
	b := &expansion.Builder{}
	r, _ := resolveBody(t, b,
		b.Let(b.Binds(b.LVar("x"), b.LVar("x")), nil, b.List(b.Num("1"), b.Num("2"))),
		b.Do(b.Assign(b.Binds(b.LVar("x"), b.LVar("x")), b.List(b.Num("1"), b.Num("2")))),
	)
	if r.count(diag.DeclDuplicateItem) != 2 {
		t.Fatalf("expected two duplicates:\n%s", r.dump())
	}
	items := r.bag.Items()
	if items[0].Message != "Duplicate declaration for local 'x' in a given 'let'" || items[0].Notes[0].Msg != "Previously declared here" {
		t.Fatalf("unexpected let duplicate %+v", items[0])
	}
	if items[1].Message != "Duplicate usage of local 'x' in a given assignment" || items[1].Notes[0].Msg != "Previously assigned here" {
		t.Fatalf("unexpected assignment duplicate %+v", items[1])
	}
}

func TestAssignToUnboundLocal(t *testing.T) {
	b := &expansion.Builder{}
	r, f := resolveBody(t, b, b.Do(b.Assign(b.Binds(b.LVar("y")), b.Num("1"))))
	if d := r.only(t, diag.NameUnboundVariable); d.Message != "Invalid assignment. Unbound variable 'y'" {
		t.Fatalf("unexpected message %q", d.Message)
	}
	if f.Body.Seq[0].Exp.Kind != ExprUnresolved {
		t.Fatalf("failed assignment should become an error node")
	}
}

func TestMoveCopyAndBorrow(t *testing.T) {
	b := &expansion.Builder{}
	r, f := resolveBody(t, b,
		b.Let(b.Binds(b.LVar("x")), nil, b.Num("1")),
		b.Do(b.Move("x")),
		b.Do(b.Copy("x")),
		b.Do(b.Borrow(true, b.Dotted(b.Dot(b.Var("x"), "f", "g")))),
		b.Do(b.Borrow(false, b.Var("x"))),
		b.Do(b.Dotted(b.Dot(b.Var("x"), "f"))),
		b.Do(b.Borrow(false, b.Dotted(b.Dot(b.Var("nope"), "f")))),
		b.Do(b.Move("gone")),
	)
	if r.count(diag.NameUnboundVariable) != 2 || r.bag.Len() != 2 {
		t.Fatalf("unexpected diagnostics:\n%s", r.dump())
	}
	if r.bag.Items()[1].Message != "Invalid move. Unbound variable 'gone'" {
		t.Fatalf("unexpected message %q", r.bag.Items()[1].Message)
	}
	seq := f.Body.Seq
	if seq[1].Exp.Kind != ExprMove || seq[2].Exp.Kind != ExprCopy {
		t.Fatalf("move/copy lost")
	}
	bd := seq[3].Exp.Data.(BorrowData)
	if !bd.Mut || bd.Dotted.Kind != DottedDot || bd.Dotted.Field.Value != "g" || bd.Dotted.Inner.Field.Value != "f" {
		t.Fatalf("dotted path not kept: %+v", bd.Dotted)
	}
	plain := seq[4].Exp.Data.(BorrowData).Dotted
	if plain.Kind != DottedExp || plain.Exp.Kind != ExprUse || plain.Span != plain.Exp.Span {
		t.Fatalf("plain borrow should wrap its operand")
	}
	if seq[5].Exp.Kind != ExprDerefBorrow {
		t.Fatalf("dotted read should become a deref borrow, got %s", seq[5].Exp.Kind)
	}
	if seq[6].Exp.Kind != ExprUnresolved || seq[7].Exp.Kind != ExprUnresolved {
		t.Fatalf("failed paths should become error nodes")
	}
}

func TestSpecBlockUsesOnlyLocalsInScope(t *testing.T) {
	b := &expansion.Builder{}
	r, f := resolveBody(t, b,
		b.Let(b.Binds(b.LVar("x")), nil, b.Num("1")),
		b.Do(b.SpecExpr(7, "x", "result")),
	)
	// x counts as used through the spec block
	r.expectClean(t)
	sd := f.Body.Seq[1].Exp.Data.(SpecData)
	if sd.ID != 7 || len(sd.Used) != 1 || sd.Used[0].Var != (Var{Name: "x", ID: 1}) {
		t.Fatalf("unexpected spec data %+v", sd)
	}
}

func TestControlFlowAndOperators(t *testing.T) {
	b := &expansion.Builder{}
	r, f := resolveBody(t, b,
		b.Let(b.Binds(b.LVar("i")), nil, b.Num("0")),
		b.Do(b.While(b.Binop(b.Var("i"), expansion.BinLt, b.Num("10")),
			b.Block(b.Do(b.Assign(b.Binds(b.LVar("i")), b.Binop(b.Var("i"), expansion.BinAdd, b.Num("1"))))))),
		b.Do(b.Inner(expansion.ExprLoop, b.Block(b.Do(&expansion.Expr{Kind: expansion.ExprBreak, Span: b.Span()})))),
		b.Do(b.IfElse(b.Not(b.Bool(false)), b.Unit(), b.Inner(expansion.ExprAbort, b.Num("1")))),
		b.Do(b.Cast(b.Var("i"), b.TName("u8"))),
		b.Do(b.Mutate(b.Inner(expansion.ExprDereference, b.Var("i")), b.Num("3"))),
		b.Do(b.Inner(expansion.ExprReturn, b.Unit())),
	)
	r.expectClean(t)
	kinds := []ExprKind{ExprWhile, ExprLoop, ExprIfElse, ExprCast, ExprMutate, ExprReturn}
	for i, k := range kinds {
		if got := f.Body.Seq[i+1].Exp.Kind; got != k {
			t.Fatalf("item %d: expected %s, got %s", i+1, k, got)
		}
	}
	cast := f.Body.Seq[4].Exp.Data.(CastData)
	if cast.Type.Kind != TypeBuiltin || cast.Type.Data.(BuiltinType).Name != BuiltinU8 {
		t.Fatalf("cast type not resolved")
	}
}

func TestSpecificationConstructsPanic(t *testing.T) {
	b := &expansion.Builder{}
	index := &expansion.Expr{Kind: expansion.ExprIndex, Span: b.Span(), Data: expansion.IndexData{Value: b.Num("1"), Index: b.Num("0")}}
	mustPanic(t, "ICE", func() { resolveBody(t, b, b.Do(index)) })

	named := &expansion.Expr{Kind: expansion.ExprName, Span: b.Span(), Data: expansion.NameData{
		Access: b.Access("x"), TypeArgs: expansion.Targs(b.TName("u64")),
	}}
	mustPanic(t, "ICE", func() { resolveBody(t, &expansion.Builder{}, b.Do(named)) })
}
