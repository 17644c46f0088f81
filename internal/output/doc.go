// Package output formats kvcache command results for display or machine
// consumption.
//
// Three formats are supported:
//   - text: human-readable terminal output (default)
//   - json: indented JSON documents
//   - markdown: tables and fenced values for issues or docs
//
// Use [GetWriter] to obtain a [Writer] for a given format string.
package output
