package store

import (
	"errors"
	"io/fs"

	"github.com/peterbourgon/diskv/v3"
)

// diskvBackend keeps one file per key in a flat directory.
type diskvBackend struct {
	d *diskv.Diskv
}

func openDiskv(dir string) *diskvBackend {
	return &diskvBackend{d: diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 1024 * 1024, // 1MB
	})}
}

func (b *diskvBackend) Read(key string) ([]byte, error) {
	val, err := b.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return val, err
}

func (b *diskvBackend) Write(key string, value []byte) error {
	return b.d.Write(key, value)
}

func (b *diskvBackend) Close() error {
	return nil
}
