// Package expansion defines the input of the naming phase: a program whose
// macros and attributes are already expanded but whose names are not yet
// resolved.
//
// Nodes with several shapes (Type, Expr) follow the Kind + Data layout: Data
// is a sealed interface implemented only by this package's payload structs
// and Kind selects which one is present. Smaller sum types (SequenceItem,
// LValue, ExpDotted, SpecMember) are flat structs whose Kind says which
// fields are meaningful.
//
// Programs travel between passes as msgpack files, see EncodeProgram and
// DecodeProgram. ModuleSummary is the part of a module other modules can
// see; a precompiled library stores only summaries.
package expansion
