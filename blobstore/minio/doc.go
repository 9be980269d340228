// Package minio provides a BlobStore implementation using the MinIO client.
//
// MinIO is an S3-compatible object storage system. Locations of the form
// minio://bucket/prefix resolve to a Store built from the configured endpoint
// and credentials.
//
// # Basic Usage
//
//	store, err := minio.New(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	}, "embeddings", "2024-06/")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Listing returns the direct children of the prefix only, mirroring a local
// directory.
package minio
