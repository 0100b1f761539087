// Package integrity provides health checks of the sync engine's infrastructure.
//
// # Checks Provided
//
//   - Structure: the image folder exists in the storage bucket (fixable).
//   - Images: recorded images of active vehicles still exist as bucket objects.
//   - Schema: the database tables carry every column of the gorm models, with the declared types.
//   - Hierarchy: every attached model term points at an existing make, and at the make of its vehicle.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs structure, schema and hierarchy checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/images : Runs image check (supports ?limit=N).
//   - GET /integrity/schema : Runs schema check.
//   - GET /integrity/hierarchy : Runs hierarchy check.
package integrity
