package normalize

import (
	"strings"

	"inventory-sync/core/feed"
	"inventory-sync/core/reconcile"
)

// Normalizer maps raw feed rows onto canonical records.
type Normalizer struct {
	table Table
}

// New creates a normalizer over the built-in table plus optional overrides.
func New(o *Overrides) *Normalizer {
	return &Normalizer{table: o.Apply(DefaultTable())}
}

// Normalize builds the canonical record of one feed row. Rows without a VIN or
// stock number yield reconcile.ErrNoIdentity.
func (n *Normalizer) Normalize(raw feed.RawRecord) (reconcile.Record, error) {
	rec := reconcile.Record{
		Attributes:      lookupAll(raw, n.table.Attributes),
		Classifications: lookupAll(raw, n.table.Classifications),
	}

	identity, ok := ResolveIdentity(rec.Attributes)
	if !ok {
		return reconcile.Record{}, reconcile.ErrNoIdentity
	}
	rec.Identity = identity

	rec.Description, _ = lookup(raw, n.table.Description)
	if list, ok := lookup(raw, n.table.Images); ok {
		rec.ImageRefs = splitList(list)
	}
	rec.Title = Title(rec.Attributes, rec.Classifications, identity)
	return rec, nil
}

// lookupAll resolves every canonical key of the table. Missing and empty values are absent.
func lookupAll(raw feed.RawRecord, table []Alias) map[string]string {
	out := make(map[string]string, len(table))
	for _, a := range table {
		if v, ok := lookup(raw, a.Fields); ok {
			out[a.Canonical] = v
		}
	}
	return out
}

// lookup tries each field name exactly, then lower-cased.
func lookup(raw feed.RawRecord, fields []string) (string, bool) {
	for _, name := range fields {
		if v, ok := raw.Get(name); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v, true
			}
		}
		lower := strings.ToLower(name)
		if lower == name {
			continue
		}
		if v, ok := raw.Get(lower); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// splitList splits a comma separated image list, dropping blanks and repeats.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Title joins year, make, model and badge. An empty result falls back to
// "Vehicle <stock number>" or "Vehicle <identity>".
func Title(attrs, classifications map[string]string, identity string) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{attrs[AttrYear], classifications["make"], classifications["model"], attrs[AttrBadge]} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	if stock := attrs[AttrStockNumber]; stock != "" {
		return "Vehicle " + stock
	}
	return "Vehicle " + identity
}
