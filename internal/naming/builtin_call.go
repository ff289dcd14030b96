package naming

import (
	"keelc/internal/diag"
	"keelc/internal/expansion"
	"keelc/internal/source"
)

const (
	assertDeprecated = "'assert' function syntax has been deprecated and will be removed"
	assertHelp       = "Replace with 'assert!'. 'assert' has been replaced with a 'assert!' built-in macro " +
		"so that arguments are no longer eagerly evaluated"
)

// resolveBuiltinFunction maps a reserved call name to its builtin. callSpan
// is the whole call expression.
func (c *Context) resolveBuiltinFunction(callSpan source.Span, b expansion.Name, targs TypeArgs) (BuiltinFunction, bool) {
	f := BuiltinFunction{Span: b.Span}
	switch source.CanonicalName(b.Value) {
	case MoveToName:
		f.Kind = BuiltinMoveTo
	case MoveFromName:
		f.Kind = BuiltinMoveFrom
	case BorrowGlobalName:
		f.Kind = BuiltinBorrowGlobal
	case BorrowGlobalMutName:
		f.Kind, f.Mut = BuiltinBorrowGlobal, true
	case ExistsName:
		f.Kind = BuiltinExists
	case FreezeName:
		f.Kind = BuiltinFreeze
	case AssertName:
		diag.Report(c.env, diag.UncatDeprecatedWillBeRemoved, b.Span, assertDeprecated).
			WithNote(b.Span, assertHelp).
			Emit()
		c.checkBuiltinCallTypeArgs(callSpan, b, 0, targs)
		f.Kind = BuiltinAssert
		return f, true
	default:
		c.errorf(diag.NameUnboundUnscopedName, b.Span, "Unbound function: '%s'", b.Value).Emit()
		return BuiltinFunction{}, false
	}
	f.Type = c.checkBuiltinTypeArg(callSpan, b, targs)
	return f, true
}

// checkBuiltinTypeArg checks the single type argument of a global storage
// builtin or freeze; the result is nil when none was written.
func (c *Context) checkBuiltinTypeArg(callSpan source.Span, b expansion.Name, targs TypeArgs) *Type {
	res := c.checkBuiltinCallTypeArgs(callSpan, b, 1, targs)
	if !res.Present {
		return nil
	}
	return res.Types[0]
}

func (c *Context) checkBuiltinCallTypeArgs(callSpan source.Span, b expansion.Name, arity int, targs TypeArgs) TypeArgs {
	msg := "Invalid call to builtin function: '" + b.Value + "'"
	return c.checkBuiltinTypeArgs(b.Span, msg, callSpan, arity, targs)
}

// vectorElemType checks the optional element type of a vector literal.
func (c *Context) vectorElemType(nameSpan, exprSpan source.Span, targs TypeArgs) *Type {
	res := c.checkBuiltinTypeArgs(nameSpan, "Invalid 'vector' instantiation", exprSpan, 1, targs)
	if !res.Present {
		return nil
	}
	return res.Types[0]
}
