// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so that S3 and
// self-hosted MinIO work the same way and tests can use core/storage/mocks.
//
// The bucket holds three kinds of objects for the importer:
//   - import files uploaded out of band and imported by object name
//   - key=value settings blobs overlaid on an import type's defaults
//   - archived Markdown job reports
//
// # Helpers
//
//   - EnsureBucket: creates the bucket on first use.
//   - ReadObject: downloads an object into memory with a size limit.
//   - WriteObject: uploads a byte slice with a content type.
//   - ListNames: lists object names under a prefix filtered by extension.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	data, err := storage.ReadObject(ctx, client, cfg.Storage.Bucket, "incoming/products.csv", cfg.Storage.MaxObjectBytes)
package storage
