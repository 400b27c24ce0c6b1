// Package accounting derives attendance statistics and remaining purchased
// sessions from course, student and schedule event records.
//
// Every function is pure: inputs are never modified, nothing is read from
// storage, and identical inputs (including their order) yield identical
// output. Callers are expected to pass records that were decoded through the
// models package, so timestamps are already valid and statuses are known.
package accounting
