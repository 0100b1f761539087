package feed

import (
	"bytes"
	"errors"
	"strings"

	"github.com/goccy/go-json"
)

var errUnterminatedArray = errors.New("vehicle array is not terminated")

// jsonArrayKeys are the object keys that may hold the vehicle array.
var jsonArrayKeys = map[string]struct{}{"vehicles": {}, "Vehicles": {}}

type jsonIterator struct {
	dec     *json.Decoder
	current RawRecord
	err     error
	done    bool
}

// newJSONIterator positions the decoder inside the vehicle array.
func newJSONIterator(data []byte) (*jsonIterator, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, formatErr(FormatJSON, "invalid document", err)
	}

	switch tok {
	case json.Delim('['):
		return &jsonIterator{dec: dec}, nil
	case json.Delim('{'):
		if err := seekArrayKey(dec); err != nil {
			return nil, err
		}
		return &jsonIterator{dec: dec}, nil
	default:
		return nil, formatErr(FormatJSON, "root must be an array or an object with a vehicles array", nil)
	}
}

// seekArrayKey walks the root object until a vehicles key holding an array is found.
func seekArrayKey(dec *json.Decoder) error {
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return formatErr(FormatJSON, "invalid document", err)
		}
		key, _ := keyTok.(string)
		if _, ok := jsonArrayKeys[key]; !ok {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return formatErr(FormatJSON, "invalid document", err)
			}
			continue
		}
		tok, err := dec.Token()
		if err != nil {
			return formatErr(FormatJSON, "invalid document", err)
		}
		if tok != json.Delim('[') {
			return formatErr(FormatJSON, key+" is not an array", nil)
		}
		return nil
	}
	return formatErr(FormatJSON, "root must be an array or an object with a vehicles array", nil)
}

func (it *jsonIterator) Next() bool {
	if it.done {
		return false
	}
	for it.dec.More() {
		var raw json.RawMessage
		if err := it.dec.Decode(&raw); err != nil {
			return it.fail(err)
		}
		rec, ok, err := objectRecord(raw)
		if err != nil {
			return it.fail(err)
		}
		if !ok {
			// Scalars and nested arrays carry no fields.
			continue
		}
		it.current = rec
		return true
	}
	tok, err := it.dec.Token()
	if err != nil {
		return it.fail(err)
	}
	if tok != json.Delim(']') {
		return it.fail(errUnterminatedArray)
	}
	it.done = true
	return false
}

// objectRecord flattens one array element, keeping the key order of the document.
func objectRecord(raw json.RawMessage) (RawRecord, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return RawRecord{}, false, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if _, err := dec.Token(); err != nil {
		return RawRecord{}, false, err
	}

	rec := NewRawRecord(16)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return RawRecord{}, false, err
		}
		key, _ := keyTok.(string)
		var value any
		if err := dec.Decode(&value); err != nil {
			return RawRecord{}, false, err
		}
		rec.Set(key, flatten(value))
	}
	return rec, true, nil
}

// flatten renders a decoded JSON value as a field string.
func flatten(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			switch item.(type) {
			case map[string]any, []any:
				return encode(t)
			}
			if s := flatten(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	default:
		return encode(t)
	}
}

func encode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func (it *jsonIterator) fail(err error) bool {
	it.err = formatErr(FormatJSON, "invalid document", err)
	it.done = true
	return false
}

func (it *jsonIterator) Record() RawRecord {
	return it.current
}

func (it *jsonIterator) Err() error {
	return it.err
}
