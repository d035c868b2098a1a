package service

import (
	"context"
	"io"
)

// MediaObject is a stored file opened for reading.
type MediaObject struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// MediaStore keeps uploaded product pictures.
type MediaStore interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader) error
	Open(ctx context.Context, key string) (*MediaObject, error)
	Delete(ctx context.Context, key string) error
}
