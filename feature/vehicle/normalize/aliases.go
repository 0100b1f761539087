package normalize

// Alias lists the feed field names accepted for one canonical key, in lookup order.
type Alias struct {
	Canonical string
	Fields    []string
}

// Canonical attribute names used outside this package.
const (
	AttrVIN         = "vin"
	AttrStockNumber = "stock_number"
	AttrYear        = "year"
	AttrBadge       = "badge"
	AttrStatusBadge = "status_badge"
)

var defaultAttributes = []Alias{
	{AttrStockNumber, []string{"StockNo", "StockNumber", "stock_number"}},
	{AttrYear, []string{"ManuYear", "Year"}},
	{"price", []string{"Retail", "Price"}},
	{"registration", []string{"Rego", "Registration"}},
	{"odometer", []string{"Odometer"}},
	{"cylinders", []string{"Cylinders"}},
	{"engine_size", []string{"EngineCapacity", "EngineSize", "engine_size"}},
	{AttrVIN, []string{"VINNumber", "VIN", "vin"}},
	{"doors", []string{"Doors"}},
	{"seats", []string{"Seats"}},
	{"features", []string{"Options", "Features"}},
	{"series", []string{"Series"}},
	{AttrBadge, []string{"Badge"}},
	{"price_type", []string{"PriceType", "price_type"}},
	{"dealership", []string{"Dealership"}},
	{"location", []string{"Location"}},
}

var defaultClassifications = []Alias{
	{"make", []string{"Make"}},
	{"model", []string{"Model"}},
	{"body_type", []string{"Body", "BodyType", "body_type"}},
	{"fuel_type", []string{"FuelType", "fuel_type"}},
	{"transmission", []string{"Gearbox", "Transmission"}},
	{"drive_type", []string{"DriveType", "drive_type"}},
	{"color", []string{"BodyColour", "Colour", "Color"}},
	{"condition", []string{"Condition"}},
}

var (
	defaultDescription = []string{"Description", "Comments"}
	defaultImages      = []string{"ImageList", "Images"}
)

// Table is the full alias configuration of a Normalizer.
type Table struct {
	Attributes      []Alias
	Classifications []Alias
	Description     []string
	Images          []string
}

// DefaultTable returns a copy of the built-in alias table.
func DefaultTable() Table {
	return Table{
		Attributes:      cloneAliases(defaultAttributes),
		Classifications: cloneAliases(defaultClassifications),
		Description:     append([]string(nil), defaultDescription...),
		Images:          append([]string(nil), defaultImages...),
	}
}

func cloneAliases(in []Alias) []Alias {
	out := make([]Alias, len(in))
	for i, a := range in {
		out[i] = Alias{Canonical: a.Canonical, Fields: append([]string(nil), a.Fields...)}
	}
	return out
}

// merge appends extra fields to a canonical key, adding the key when it is new.
func merge(table []Alias, canonical string, fields []string) []Alias {
	for i := range table {
		if table[i].Canonical == canonical {
			table[i].Fields = appendMissing(table[i].Fields, fields)
			return table
		}
	}
	return append(table, Alias{Canonical: canonical, Fields: appendMissing(nil, fields)})
}

func appendMissing(dst, fields []string) []string {
	for _, f := range fields {
		found := false
		for _, d := range dst {
			if d == f {
				found = true
				break
			}
		}
		if !found && f != "" {
			dst = append(dst, f)
		}
	}
	return dst
}
