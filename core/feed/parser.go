package feed

import "fmt"

// Iterator walks the records of a feed once. Records are produced lazily;
// a fatal structural error stops iteration and is reported by Err.
type Iterator interface {
	Next() bool
	Record() RawRecord
	Err() error
}

// Parse returns an iterator over the records of data in the given format.
// Shapes that can be rejected up front (a JSON root that is neither an array nor
// a vehicles object) fail here with a *FormatError.
func Parse(data []byte, format Format) (Iterator, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFeed
	}
	switch format {
	case FormatCSV:
		return newCSVIterator(data), nil
	case FormatXML:
		return newXMLIterator(data), nil
	case FormatJSON:
		return newJSONIterator(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(format))
	}
}

// Collect drains an iterator. Only meant for small feeds and tests.
func Collect(it Iterator) ([]RawRecord, error) {
	var out []RawRecord
	for it.Next() {
		out = append(out, it.Record())
	}
	return out, it.Err()
}
