// Package ledger holds the rules and calculations of a loan file's ledger.
//
// Everything here is a pure function of its arguments: the file, its
// transactions, the calendar day to evaluate against and, for file creation,
// the principal ceiling. Nothing reads a clock, a config value or storage, so
// the same inputs always produce the same result and any number of callers may
// use the package concurrently.
//
// Validation follows a fixed order of checks. Every check is evaluated and the
// first failure in that order is returned, so callers always see the same error
// for the same input.
package ledger
