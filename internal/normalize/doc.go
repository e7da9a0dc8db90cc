// Package normalize implements the desktop and mobile icon pipelines.
//
// A pipeline reads one file, runs the optimizer rules, the formatter and the
// license stamper, and rewrites the file only when the result differs from
// what was read. Writes go through a temporary file and a rename, so a file
// is either untouched or fully replaced.
//
// Nothing is recovered here: optimizer, formatter and IO failures are
// returned to the caller as classified fault errors.
package normalize
