package naming

import (
	"strings"
	"testing"

	"keelc/internal/expansion"
)

func TestDumpProgram(t *testing.T) {
	b := &expansion.Builder{}
	m := b.Module(modM)
	m.Friends = append(m.Friends, b.Friend(modK))
	m.Structs = append(m.Structs, b.Struct("R", key(),
		[]expansion.StructTypeParameter{b.StructTParam("T", true)},
		b.StructField("v", b.TName("u64"))))
	f := b.Fun("f", nil,
		params(b.Param("x", b.TName("u64")), b.Param("s", b.TRef(false, b.TName("signer")))),
		b.TName("u64"),
		b.Let(b.Binds(b.LVar("y"), b.LVar("z")), nil, b.List(b.Binop(b.Var("x"), expansion.BinAdd, b.Num("1")), b.Num("2"))),
		b.Do(b.Call(b.Access("move_to"), expansion.TypeArgs{}, b.Var("s"), b.Pack(b.QAccess(modM, "R"), expansion.TypeArgs{}, b.Field("v", b.Var("y"))))),
		b.Do(b.Var("y")),
	)
	f.Visibility = expansion.VisibilityPublic
	f.Acquires = []expansion.ModuleAccess{b.QAccess(modM, "R")}
	m.Functions = append(m.Functions, f)
	m.Constants = append(m.Constants, b.Constant("C", b.TName("u64"), b.Num("7")))

	k := b.Module(modK)
	script := &expansion.Script{
		Span:         b.Span(),
		Name:         "main",
		Constants:    []*expansion.Constant{b.Constant("LIMIT", b.TName("u64"), b.Num("3"))},
		FunctionName: b.Name("main"),
		Function:     b.Fun("main", nil, nil, nil, b.Do(b.Var("LIMIT"))),
	}
	r := resolveProgram(t, nil, &expansion.Program{
		Modules: []*expansion.ModuleDefinition{m.Seal(), k.Seal()},
		Scripts: []*expansion.Script{script},
	})

	var sb strings.Builder
	if err := Dump(&sb, r.prog); err != nil {
		t.Fatalf("dump: %v", err)
	}
	want := strings.Join([]string{
		"module 0x1::M",
		"  friend 0x1::K",
		"  struct R<phantom T#1> has key",
		"    v: u64",
		"  public fun f(x#0: u64, s#0: &signer): u64 acquires R",
		"    let (y#1, z#1(unused)) = ((x#0 + 1u64), 2u64);",
		"    move_to(s#0, 0x1::M::R { v: y#1 });",
		"    y#1;",
		"  const C: u64 = 7u64",
		"module 0x1::K",
		"script main",
		"  const LIMIT: u64 = 3u64",
		"  fun main(): ()",
		"    LIMIT;",
		"",
	}, "\n")
	if got := sb.String(); got != want {
		t.Fatalf("unexpected dump:\n%s\nwant:\n%s", got, want)
	}
}
