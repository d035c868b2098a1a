// Package storage keeps product pictures in a gocloud blob bucket.
package storage

import (
	"context"
	"io"
	"log/slog"

	"storefront/config"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"
)

type blobMediaStore struct {
	bucket *blob.Bucket
}

// NewBlobMediaStore wraps an opened bucket.
func NewBlobMediaStore(bucket *blob.Bucket) service.MediaStore {
	return &blobMediaStore{bucket: bucket}
}

func (s *blobMediaStore) Put(ctx context.Context, key string, contentType string, body io.Reader) error {
	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrapf(err, "failed to open writer for %s", key)
	}

	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()

		return errors.Wrapf(err, "failed to write %s", key)
	}

	if err := w.Close(); err != nil {
		return errors.Wrapf(err, "failed to commit %s", key)
	}

	return nil
}

func (s *blobMediaStore) Open(ctx context.Context, key string) (*service.MediaObject, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, domainerrors.ErrMediaNotFound.WrapMessage(key)
		}

		return nil, errors.Wrapf(err, "failed to open %s", key)
	}

	return &service.MediaObject{
		Body:        r,
		ContentType: r.ContentType(),
		Size:        r.Size(),
	}, nil
}

func (s *blobMediaStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}

		return errors.Wrapf(err, "failed to delete %s", key)
	}

	return nil
}

// Params holds dependencies for the media store, injected by Fx
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewMediaStore opens the configured bucket URL (file://, mem:// or gs://).
func NewMediaStore(params Params) (service.MediaStore, error) {
	url := params.Config.Storage.BucketURL

	bucket, err := blob.OpenBucket(params.Ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", url)
	}

	params.Logger.Info("Media bucket opened", slog.String("url", url))

	params.Lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return bucket.Close()
		},
	})

	return NewBlobMediaStore(bucket), nil
}
