// Package pricing is the pricing and aggregation engine.
//
// It matches guests to room categories, groups regular prices into
// contiguous blocks, resolves the first applicable special offer per stay
// date, applies offer formulas and loyalty discounts, and collapses the
// resulting per-date records into date-range rows.
//
// Everything here is synchronous, deterministic computation over values
// passed in by the caller. The package performs no I/O, holds no shared
// state and never returns an error for odd input data: every path
// produces a well-formed, possibly empty, result.
package pricing
