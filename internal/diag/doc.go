// Package diag defines the diagnostic model shared by the naming phase, the
// driver and the CLI.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//     The thousands digit selects the category: NAM (name resolution),
//     DCL (declarations), UNU (unused items), UNC (uncategorized).
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//
// Notes should be used sparingly: each note must add new context (e.g. “type
// parameter declared here”) rather than repeating the diagnostic message.
//
// # Reporting
//
// Producers talk to a Reporter. ReportBuilder offers a fluent form:
//
//	diag.ReportError(r, diag.NameUnboundType, span, "Unbound type 'T'").
//		WithNote(other, "declared here").
//		Emit()
//
// Sink sits in front of the storage reporter. It keeps a stack of
// WarningFilter values (module and function attributes push and pop them)
// and counts what passes. Filters never hide errors, so Sink.HasErrors is a
// reliable "was an error reported" answer for recovery assertions.
//
// Bag is the default storage with a size limit, sorting and deduplication.
// Formatting for humans lives in internal/diagfmt; FormatShortDiagnostics and
// FormatGoldenDiagnostics provide the stable single-line form.
package diag
