// Package core turns loosely formatted trading-card inventory input into
// normalized records.
//
// Two inputs are supported. Pasted card lists are parsed line by line with
// an explicitly chosen grammar (see [GameMode]). Spreadsheet exports arrive
// as a decoded [Table] and are mapped through a column [Profile], an ordered
// list of header aliases per logical field.
//
// # Partial failure
//
// A line or row that cannot be parsed is skipped and recorded as a
// [UnitOutcome] with a [UnitError]; it never aborts the batch. A missing
// field falls back to its default. Only request-level problems (unknown game
// mode, unknown profile, an undecodable file) are returned as errors.
//
// # Profiles
//
// Profiles are registered at init time with [RegisterProfile]. The
// profiles subpackage registers the built-in ones and can load more from
// YAML:
//
//	core.RegisterProfile(core.Profile{
//	    Key:      "binder-app",
//	    Name:     []string{"card"},
//	    Quantity: []string{"copies", "qty"},
//	})
//
// # Reference catalog
//
// [Reconcile] stores canonical cards from the reference catalog. Cards
// already present are never modified.
//
// # Service
//
// [Service] wires the parsers to persistence, bounds concurrent imports
// with an [ImportLimiter], and reports outcomes to a [Recorder]. Technical
// errors are mapped to coded user messages with [MapError].
//
// This package has no transport or database dependencies beyond the
// pgtype conversion helpers; callers supply storage through interfaces.
package core
