package ports

import "context"

// IImageStore persists request attachments and returns a public URL.
type IImageStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}
