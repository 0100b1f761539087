package feed

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type csvIterator struct {
	reader  *csv.Reader
	header  []string
	current RawRecord
	done    bool
}

func newCSVIterator(data []byte) *csvIterator {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	// Rows with a different field count are filtered by the iterator, not the reader.
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true
	return &csvIterator{reader: r}
}

func (it *csvIterator) Next() bool {
	if it.done {
		return false
	}
	for {
		row, err := it.reader.Read()
		if errors.Is(err, io.EOF) {
			it.done = true
			return false
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			// A malformed row is skipped like a short one.
			continue
		}
		if err != nil {
			it.done = true
			return false
		}

		if it.header == nil {
			it.header = make([]string, len(row))
			for i, name := range row {
				it.header[i] = strings.TrimSpace(name)
			}
			continue
		}

		if len(row) != len(it.header) {
			continue
		}

		rec := NewRawRecord(len(row))
		for i, value := range row {
			rec.Set(it.header[i], value)
		}
		it.current = rec
		return true
	}
}

func (it *csvIterator) Record() RawRecord {
	return it.current
}

// Err is always nil: a CSV feed never fails structurally once fetched.
func (it *csvIterator) Err() error {
	return nil
}
