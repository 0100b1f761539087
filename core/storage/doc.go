// Package storage wraps the MinIO client used for vehicle images.
//
// The Client interface covers the calls the image importer and the integrity checks
// make, so both can be tested against the mock in core/storage/mocks. It works with
// AWS S3 and self-hosted MinIO alike.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
//	    return err
//	}
package storage
