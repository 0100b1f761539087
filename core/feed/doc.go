// Package feed fetches inventory feeds and turns them into streams of raw records.
//
// A feed is a CSV, XML or JSON document listing vehicles. Parse returns an Iterator
// that walks the document once, producing one RawRecord per vehicle without
// materializing the whole feed.
//
// # Formats
//
// CSV: the first row is the header. Rows with a different field count, and rows the
// CSV reader cannot parse, are skipped.
//
// XML: children of the root named vehicle, Vehicle or item are vehicles. Their direct
// children become fields. A document with no such children fails with a *FormatError.
//
// JSON: the root is an array of objects, or an object whose vehicles (or Vehicles) key
// holds that array. Any other shape fails with a *FormatError.
//
// # Sources
//
// HTTPSource downloads feeds with a bounded timeout; FileSource reads local files.
// Both return ErrEmptyFeed for an empty body.
//
// # Usage
//
//	body, err := feed.NewHTTPSource(cfg.FetchTimeout, cfg.MaxBytes).Fetch(ctx, cfg.URL)
//	it, err := feed.Parse(body, feed.FormatCSV)
//	for it.Next() {
//	    rec := it.Record()
//	}
//	if err := it.Err(); err != nil { ... }
package feed
