// Package diag defines the diagnostic model shared by the pipeline.
//
// Diagnostic is the central record: a Severity, a stable numeric Code, a
// short message, the primary source.Span and optional notes. Producers emit
// through a Reporter so they are not coupled to storage; BagReporter collects
// into a Bag, which supports sorting and deduplication for deterministic
// output. Rendering for terminals lives in internal/diagfmt; FormatShort here
// gives the single-line form used by golden tests.
package diag
