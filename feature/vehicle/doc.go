// Package vehicle is the vehicle inventory sync feature.
//
// Service wires the gorm stores, the normalizer, the image importer and the engine, and
// exposes Sync, Logs and Status. Every trigger goes through Service.Sync:
//
//   - CLI: `inventory-sync sync`
//   - HTTP: POST /sync (async=true to return immediately), GET /sync/logs, GET /sync/status
//   - Scheduler: ticks at feed.sync_interval when feed.auto_sync is set
//
// Concurrent triggers for the same feed share a single run.
package vehicle
