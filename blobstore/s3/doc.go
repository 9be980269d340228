// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("embeddings/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
// Locations of the form s3://bucket/prefix resolve to a Store. Listing returns
// the direct children of the prefix only, mirroring a local directory.
//
// # Features
//
//   - Range reads for streaming inputs
//   - Multipart uploads for large artifacts, aborted on failure
//   - CRC32C integrity checksums on uploads
//   - Automatic pagination for listing
package s3
