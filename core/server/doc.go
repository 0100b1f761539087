// Package server holds the HTTP server configuration.
//
// The start command builds the fiber application; this package only defines the
// listen port, the API key guarding the sync endpoints and the read timeout.
package server
