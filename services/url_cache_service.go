package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
	"go.uber.org/zap"
)

// Read URLs are presigned for 15 minutes. Entries expire earlier so a URL
// handed to the agent or a client never runs out mid-request.
const readURLTTL = 12 * time.Minute

type URLCacheServiceProvider interface {
	GetReadURL(ctx context.Context, objectKey string) (string, error)
}

// URLCacheService resolves bucket object keys to presigned read URLs,
// presigning only on a miss.
type URLCacheService struct {
	urls       *cache.LoadableCache[string]
	signer     AWSServiceProvider
	bucketName string
	log        *zap.SugaredLogger
}

func NewURLCacheService(signer AWSServiceProvider, bucketName string, log *zap.SugaredLogger) (*URLCacheService, error) {
	// Product and generated image keys only; a small cache is plenty.
	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("creating url cache: %w", err)
	}

	s := &URLCacheService{signer: signer, bucketName: bucketName, log: log}
	s.urls = cache.NewLoadable[string](s.presign, cache.New[string](ristretto_store.NewRistretto(client)))
	return s, nil
}

func (s *URLCacheService) presign(ctx context.Context, key any) (string, []store.Option, error) {
	objectKey, ok := key.(string)
	if !ok {
		return "", nil, fmt.Errorf("url cache key must be a string, got %T", key)
	}
	s.log.Debugw("presigning read url", "bucket", s.bucketName, "key", objectKey)

	url, err := s.signer.GetPresignedR2FileReadURL(ctx, s.bucketName, objectKey)
	if err != nil {
		return "", nil, err
	}
	return url, []store.Option{store.WithExpiration(readURLTTL), store.WithCost(1)}, nil
}

// GetReadURL returns "" for an empty key.
func (s *URLCacheService) GetReadURL(ctx context.Context, objectKey string) (string, error) {
	if objectKey == "" {
		return "", nil
	}
	return s.urls.Get(ctx, objectKey)
}
