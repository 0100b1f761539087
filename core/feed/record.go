package feed

// RawRecord is one feed row as field name to string value, in feed order.
type RawRecord struct {
	keys   []string
	values map[string]string
}

// NewRawRecord creates an empty record with room for n fields.
func NewRawRecord(n int) RawRecord {
	return RawRecord{
		keys:   make([]string, 0, n),
		values: make(map[string]string, n),
	}
}

// Set stores a field. A repeated name keeps its first position and takes the new value.
func (r *RawRecord) Set(name, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.values[name] = value
}

// Get returns the value of a field and whether it exists.
func (r RawRecord) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Keys returns the field names in feed order.
func (r RawRecord) Keys() []string {
	return r.keys
}

// Len returns the number of fields.
func (r RawRecord) Len() int {
	return len(r.keys)
}
