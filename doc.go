// Package vecpack converts line-delimited JSON embeddings into safetensors files.
//
// Every input line holds one record with a floating-point "vector" and a string
// "docid". Each input file becomes a pair of artifacts in the output store:
//
//	<base>_vectors.safetensors  tensor "vectors", F64, shape [rows, dim]
//	<base>_docids.safetensors   tensor "docids",  I64, shape [rows, width]
//
// where <base> is the input name without its .gz, .zst, .lz4, .jsonl or .json
// suffixes. Docids are stored as one Unicode code point per column, right
// padded with zeros to the longest docid of the file.
//
// # Quick Start
//
//	in := blobstore.NewLocalStore("./embeddings")
//	out := blobstore.NewLocalStore("./tensors")
//
//	conv := vecpack.New(in, out,
//	    vecpack.WithWorkers(8),
//	    vecpack.WithLogger(vecpack.NewTextLogger(slog.LevelInfo)),
//	)
//	summary, err := conv.Run(ctx)
//
// Files are converted independently on a fixed worker pool. Invalid lines are
// logged and skipped; a file that cannot be converted is reported in the
// Summary and does not stop the others. Run returns the first file error.
//
// # Errors
//
// Per-file failures are typed and carry the input name:
//
//	var ae *vecpack.AlreadyExistsError
//	if errors.As(err, &ae) { ... }
//	if errors.Is(err, vecpack.ErrAlreadyExists) { ... }
//
// # Storage
//
// Input and output are blobstore.BlobStore implementations: local
// directories, Amazon S3 (blobstore/s3) or MinIO (blobstore/minio).
// Artifacts are written through temporary blobs and replace existing ones
// only when complete.
package vecpack
