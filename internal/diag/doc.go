// Package diag defines the diagnostic model shared by detectors, the fix
// engine and the renderers.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form
//     (DSN1001, NAM2002, STY3002, ...).
//   - Message – text produced from the Rule's positional template.
//   - Args – the raw template arguments, kept so fixers can read them back.
//   - Primary span – the anchor the diagnostic points at.
//   - Notes – optional secondary spans/messages for additional context.
//
// Rule is the static descriptor a detector declares for every code it can
// emit; Rule.New is the only way detectors construct diagnostics.
//
// # Emitting diagnostics
//
// Producers outside the detector engine (snapshot loading, the CLI) use a
// Reporter, usually through ReportBuilder. BagReporter aggregates into a Bag,
// which supports sorting, deduplication, filtering and transformation.
//
// Package diag does not render anything; see internal/diagfmt.
package diag
