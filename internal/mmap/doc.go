// Package mmap provides read-only memory-mapped file access.
//
// The local blob store maps freshly written tensor files to decode them in place
// during verification instead of copying them through a read buffer:
//
//	m, err := mmap.Open("part-0001_vectors.safetensors")
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes()
//
// Unix uses mmap(2) via golang.org/x/sys/unix; Windows uses
// CreateFileMapping/MapViewOfFile. Callers must not touch Bytes() after Close.
package mmap
