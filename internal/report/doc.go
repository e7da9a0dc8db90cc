// Package report builds the run summary shown on the CI job page.
//
// A Report is an append-only buffer of HTML fragments. Each builder method
// appends exactly one fragment followed by a newline. The buffer is written
// to its Sink once, by Flush; a second Flush is an error. Reports are values
// owned by one top-level operation and passed explicitly to whatever appends
// to them.
//
// Alerts use the GitHub alert syntax ("> [!WARNING]") so they render as
// callouts in step summaries.
package report
