package naming

import (
	"fmt"

	"keelc/internal/diag"
	"keelc/internal/expansion"
	"keelc/internal/source"
	"keelc/internal/trace"
)

// Env is the compilation environment the phase reports into. *diag.Sink
// implements it.
type Env interface {
	diag.Reporter
	// HasErrors reports whether an error diagnostic was recorded so far.
	HasErrors() bool
	PushWarningFilter(f *diag.WarningFilter)
	PopWarningFilter()
}

// Precompiled is an already compiled set of modules the program may refer
// to.
type Precompiled interface {
	ModuleSummaries() []expansion.ModuleSummary
}

// Options configures one run of the phase.
type Options struct {
	Tracer trace.Tracer
	// Parent is the trace span the pass span attaches to.
	Parent uint64
}

// Context holds the state of one naming run. It is not safe for concurrent
// use; independent programs get independent contexts.
type Context struct {
	env    Env
	tracer trace.Tracer
	parent uint64

	currentModule *expansion.ModuleIdent
	tables        *symbolTables
	unscoped      unscopedEnv
	nextTParam    TParamID

	// function-local state, empty between declarations
	translatingFun bool
	locals         localScopes
	usedLocals     map[Var]struct{}
	usedFunTParams map[TParamID]struct{}
}

func newContext(env Env, lib Precompiled, prog *expansion.Program, opts Options) *Context {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Context{
		env:            env,
		tracer:         tracer,
		parent:         opts.Parent,
		tables:         buildSymbolTables(lib, prog),
		unscoped:       newUnscopedEnv(),
		locals:         newLocalScopes(),
		usedLocals:     make(map[Var]struct{}),
		usedFunTParams: make(map[TParamID]struct{}),
	}
}

func (c *Context) errorf(code diag.Code, sp source.Span, format string, args ...any) *diag.ReportBuilder {
	return diag.Report(c.env, code, sp, fmt.Sprintf(format, args...))
}

// expectErrors is the recovery contract of every fallible lookup: a failed
// resolution has already reported.
func (c *Context) expectErrors() {
	if !c.env.HasErrors() {
		panic("ICE: unresolved reference without a recorded error")
	}
}

func (c *Context) newTParamID() TParamID {
	c.nextTParam++
	return c.nextTParam
}

// enterFunction guards against nested function translation.
func (c *Context) enterFunction() {
	c.assertNoFunctionState()
	c.locals.reset()
	c.translatingFun = true
}

func (c *Context) exitFunction() {
	c.locals.clear()
	clear(c.usedLocals)
	clear(c.usedFunTParams)
	c.translatingFun = false
}

// enterConstant is enterFunction without type parameter tracking.
func (c *Context) enterConstant() {
	c.assertNoFunctionState()
	c.locals.reset()
}

func (c *Context) exitConstant() {
	c.locals.clear()
	clear(c.usedLocals)
}

func (c *Context) assertNoFunctionState() {
	switch {
	case c.translatingFun:
		panic("ICE: nested function translation")
	case !c.locals.empty():
		panic("ICE: local scopes not empty at declaration entry")
	case len(c.usedLocals) != 0:
		panic("ICE: used locals not empty at declaration entry")
	case len(c.usedFunTParams) != 0:
		panic("ICE: used type parameters not empty at declaration entry")
	}
}

// withWarningFilter pushes f and returns the matching pop.
func (c *Context) withWarningFilter(f *diag.WarningFilter) func() {
	c.env.PushWarningFilter(f)
	return c.env.PopWarningFilter
}
