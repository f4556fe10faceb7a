package storage

import (
	"context"
	"io"
)

// Driver names accepted by STORAGE_DRIVER.
const (
	DriverLocal = "local"
	DriverMinio = "minio"
)

// ImageStore persists uploaded image files. Save returns the public URL the
// material record will reference; Delete takes that URL back. A record must
// never point at a file this system failed to write, so callers Save before
// committing the record update.
type ImageStore interface {
	Save(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)
	Delete(ctx context.Context, url string) error
}
