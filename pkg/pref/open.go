package pref

import (
	"context"

	"github.com/projectman/pmweb/internal/config"
	"github.com/projectman/pmweb/internal/errors"
)

// Open returns the Store selected by cfg.Client.Storage. ctx bounds the
// AWS configuration lookup of the s3 backend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	sc := cfg.Client.Storage
	switch sc.Backend {
	case "", config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendFile:
		return NewFileStore(cfg.StoragePath()), nil
	case config.BackendS3:
		client, err := NewS3Client(ctx, S3ClientOptions{
			Region:    sc.Region,
			Endpoint:  sc.Endpoint,
			PathStyle: sc.PathStyle,
		})
		if err != nil {
			return nil, errors.New("E122").
				WithDetail("s3 bucket " + sc.Bucket).
				WithSuggestion("Check AWS_REGION, AWS_PROFILE and the shared AWS config files").
				Wrap(err)
		}
		return NewS3Store(client, sc.Bucket, sc.Prefix), nil
	}
	return nil, errors.New("E103").
		WithDetail("unknown storage backend " + sc.Backend)
}
