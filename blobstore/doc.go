// Package blobstore provides the storage abstraction behind input and output
// locations.
//
// BlobStore is the interface for listing, reading and writing whole files
// (input JSONL files and safetensors artifacts). Implementations must be safe
// for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local directory, atomic writes, mmap reads
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)            // Open for reading
//	    Create(ctx, name) (WritableBlob, error)  // Create for writing
//	    Put(ctx, name, data) error               // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// A WritableBlob becomes visible under its name only after a successful Close.
// Writers that also implement Aborter discard everything written so far.
package blobstore
