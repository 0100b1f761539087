package normalize

import "strings"

// StockPrefix prefixes identities derived from a stock number.
const StockPrefix = "STOCK-"

// ResolveIdentity returns the VIN when present, else STOCK-<stock number>.
// It is used both for feed rows and for stored inventory attributes.
func ResolveIdentity(attrs map[string]string) (string, bool) {
	if vin := strings.TrimSpace(attrs[AttrVIN]); vin != "" {
		return vin, true
	}
	if stock := strings.TrimSpace(attrs[AttrStockNumber]); stock != "" {
		return StockPrefix + stock, true
	}
	return "", false
}

// StockIdentity returns the stock-derived identity, if a stock number is present.
func StockIdentity(attrs map[string]string) (string, bool) {
	if stock := strings.TrimSpace(attrs[AttrStockNumber]); stock != "" {
		return StockPrefix + stock, true
	}
	return "", false
}
