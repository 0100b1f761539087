// Package middleware groups the HTTP middleware of the fiber application.
//
//   - auth: API key validation (X-API-Key header or api_key query parameter).
//   - rayid: per request id, stored in locals and echoed in the X-Ray-ID header.
package middleware
