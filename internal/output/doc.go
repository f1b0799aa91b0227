// Package output sorts aggregated review records and renders the report.
//
// Three styles are supported:
//   - oneline  — one compact line per record (default)
//   - indented — a multi-line human-readable block per record
//   - json     — a JSON array of record objects
//
// Use [GetFormatter] to obtain a [Formatter] for a given style string, or
// [Write] to sort and render a record slice in one call. Sorting is stable
// on record time so that equal timestamps keep their accumulation order.
package output
