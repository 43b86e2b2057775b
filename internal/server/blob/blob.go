package blob

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store holds attachment payloads under opaque keys. Implementations return a
// URL the payload can later be fetched from; for the local backend that is a
// file:// URL, for S3 a presigned GET.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// RandomStorageKey produces a date-partitioned key for a new attachment.
func RandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("attachments/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}
