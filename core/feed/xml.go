package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// containerNames are the element names, directly under the root, that hold one vehicle each.
var containerNames = []string{"vehicle", "Vehicle", "item"}

func isContainer(name string) bool {
	for _, c := range containerNames {
		if c == name {
			return true
		}
	}
	return false
}

type xmlIterator struct {
	dec        *xml.Decoder
	started    bool
	locked     string
	containers int
	current    RawRecord
	err        error
	done       bool
}

func newXMLIterator(data []byte) *xmlIterator {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	// Feeds declaring ISO-8859-1 or similar are read as is.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	return &xmlIterator{dec: dec}
}

func (it *xmlIterator) Next() bool {
	if it.done {
		return false
	}
	if !it.started {
		if err := it.enterRoot(); err != nil {
			return it.fail(err)
		}
		it.started = true
	}

	for {
		tok, err := it.dec.Token()
		if errors.Is(err, io.EOF) {
			return it.fail(formatErr(FormatXML, "unexpected end of document", nil))
		}
		if err != nil {
			return it.fail(formatErr(FormatXML, "invalid document", err))
		}

		switch t := tok.(type) {
		case xml.EndElement:
			// Root closed.
			if it.containers == 0 {
				return it.fail(formatErr(FormatXML, "no vehicle elements found", nil))
			}
			it.done = true
			return false
		case xml.StartElement:
			name := t.Name.Local
			if !isContainer(name) || (it.locked != "" && it.locked != name) {
				if err := it.dec.Skip(); err != nil {
					return it.fail(formatErr(FormatXML, "invalid document", err))
				}
				continue
			}
			if it.locked == "" {
				it.locked = name
			}
			rec, err := it.readContainer()
			if err != nil {
				return it.fail(formatErr(FormatXML, "invalid document", err))
			}
			it.containers++
			it.current = rec
			return true
		}
	}
}

// enterRoot advances past the prolog to the root element.
func (it *xmlIterator) enterRoot() error {
	for {
		tok, err := it.dec.Token()
		if errors.Is(err, io.EOF) {
			return formatErr(FormatXML, "no root element", nil)
		}
		if err != nil {
			return formatErr(FormatXML, "invalid document", err)
		}
		if _, ok := tok.(xml.StartElement); ok {
			return nil
		}
	}
}

// readContainer reads the direct children of a container element into a record.
func (it *xmlIterator) readContainer() (RawRecord, error) {
	rec := NewRawRecord(16)
	for {
		tok, err := it.dec.Token()
		if err != nil {
			return rec, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return rec, nil
		case xml.StartElement:
			value, err := it.readField()
			if err != nil {
				return rec, err
			}
			rec.Set(t.Name.Local, value)
		}
	}
}

// readField returns the text of a field element. Nested elements are flattened
// into the comma-joined text of their leaves.
func (it *xmlIterator) readField() (string, error) {
	var (
		text   strings.Builder
		parts  []string
		nested bool
		depth  = 1
		leaf   strings.Builder
	)
	for depth > 0 {
		tok, err := it.dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			nested = true
			depth++
			leaf.Reset()
		case xml.EndElement:
			depth--
			if depth > 0 {
				if s := strings.TrimSpace(leaf.String()); s != "" {
					parts = append(parts, s)
				}
				leaf.Reset()
			}
		case xml.CharData:
			if depth == 1 {
				text.Write(t)
			} else {
				leaf.Write(t)
			}
		}
	}
	if nested {
		return strings.Join(parts, ","), nil
	}
	return text.String(), nil
}

func (it *xmlIterator) fail(err error) bool {
	it.err = err
	it.done = true
	return false
}

func (it *xmlIterator) Record() RawRecord {
	return it.current
}

func (it *xmlIterator) Err() error {
	return it.err
}
