// Package normalize turns raw feed rows into canonical vehicle records.
//
// Field names are resolved through a static alias table: each canonical key lists the
// feed field names it accepts, tried in order, each first as written and then
// lower-cased. Unknown feed fields are ignored and empty values are treated as absent.
// A YAML file can append extra field names per key (see Overrides).
//
// ResolveIdentity computes the stable identity (VIN, else STOCK-<stock number>) and is
// shared with the pruner so stored and incoming records always agree.
package normalize
