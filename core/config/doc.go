// Package config loads the application configuration.
//
// Values come from environment variables, optionally seeded from a .env file, with
// defaults taken from the `default` struct tags of every section. Nested keys map to
// upper-case environment names joined by underscores, so feed.fetch_timeout is read
// from FEED_FETCH_TIMEOUT.
//
// # Sections
//
//   - server: HTTP port and API key
//   - storage: image bucket (MinIO or S3)
//   - log: level and encoder
//   - database: driver (mysql, sqlite) and connection settings
//   - feed: feed URL, format, timeouts, checkpoint cadence, history size, scheduler
//   - events: optional Kafka run event publisher
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
