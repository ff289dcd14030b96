// Package naming resolves the names of an expanded program.
//
// Every type, function, constant and local reference of the input is bound
// to its declaration or replaced by an UnresolvedError node after a
// diagnostic is reported. Module members come from symbol tables built once
// per program; type parameters and script constants live in an unscoped
// environment that is saved and restored around each declaration; locals
// live in a block scope stack that exists only while one function or
// constant is being resolved.
//
// The phase never fails: callers check the Env for errors afterwards.
package naming
