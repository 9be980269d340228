// Package fs provides the filesystem seam used by the local blob store.
//
//   - [File]: an open file with read/write/sync capabilities
//   - [FileSystem]: open, remove, rename, stat, mkdir and list operations
//   - [LocalFS]: the production implementation on top of package os
//   - [FaultyFS]: fault injection for tests (failed writes, syncs, closes, renames)
//
// Production code uses fs.Default. Tests inject a [FaultyFS] to simulate a disk
// that fails halfway through writing a tensor file:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("_vectors.safetensors", fs.Fault{FailAfterBytes: 16})
//	store := blobstore.NewLocalStore(dir, blobstore.WithFileSystem(ffs))
//
// Operations take no context.Context. Local file operations are not
// interruptible at the syscall level; remote storage goes through blobstore.
package fs
