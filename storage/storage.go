// Package storage holds the two interchangeable blob backends photos can be
// uploaded to: Supabase Storage (through its S3-compatible endpoint) and the
// ImageKit CDN. Both take a payload and a filename and hand back a publicly
// fetchable URL.
package storage

import (
	"context"
	"io"
)

type Uploader interface {
	// Upload stores the payload under fileName and returns its public URL.
	Upload(ctx context.Context, fileName string, contentType string, body io.Reader, size int64) (string, error)
	// Delete removes a previously uploaded object. Best-effort; callers may
	// ignore the error.
	Delete(ctx context.Context, fileName string) error
	// Name is the storage tag recorded on the photo row.
	Name() string
}
