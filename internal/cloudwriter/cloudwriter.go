// Package cloudwriter uploads whole objects to cloud storage. Writers buffer
// everything in memory and upload once on Close.
package cloudwriter

import (
	"bytes"
	"fmt"
	"sync"
)

type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}

// MemoryFactory keeps uploaded objects in memory, keyed by "bucket/path".
type MemoryFactory struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryFactory() *MemoryFactory {
	return &MemoryFactory{objects: make(map[string][]byte)}
}

func (f *MemoryFactory) NewWriter(bucket, objectPath string) (CloudWriter, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	return &memoryWriter{factory: f, key: bucket + "/" + objectPath}, nil
}

// Object returns the bytes uploaded under key and whether the upload happened.
func (f *MemoryFactory) Object(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	return data, ok
}

// Keys lists uploaded object keys.
func (f *MemoryFactory) Keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	return keys
}

type memoryWriter struct {
	factory *MemoryFactory
	key     string
	buffer  bytes.Buffer
	closed  bool
}

func (w *memoryWriter) Write(data []byte) (int, error) {
	if w.closed {
		return 0, fmt.Errorf("write to closed object %s", w.key)
	}
	return w.buffer.Write(data)
}

func (w *memoryWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.factory.mu.Lock()
	w.factory.objects[w.key] = append([]byte(nil), w.buffer.Bytes()...)
	w.factory.mu.Unlock()
	return nil
}
