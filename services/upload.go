package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shootapi/models"
)

// UploadResult is what the asset service reports for one upload. AssetIDs
// are the references the agent resolves later.
type UploadResult struct {
	Success  bool     `json:"success"`
	AssetIDs []string `json:"asset_ids"`
	Error    string   `json:"error,omitempty"`
}

type UploadService interface {
	Upload(ctx context.Context, asset *models.UploadedAsset) (*UploadResult, error)
}

// R2UploadService stores product images in an R2 bucket through presigned
// PUT URLs. Storage rejections are reported in the result, not as errors.
type R2UploadService struct {
	AWS        AWSServiceProvider
	BucketName string
	Log        *zap.SugaredLogger
}

func (s *R2UploadService) Upload(ctx context.Context, asset *models.UploadedAsset) (*UploadResult, error) {
	if asset == nil {
		return nil, fmt.Errorf("%w: no asset", ErrUploadRejected)
	}
	key := fmt.Sprintf("products/%s%s", uuid.NewString(), ImageExtension(asset.ContentType))

	url, err := s.AWS.PresignLink(ctx, s.BucketName, key)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.Log.Errorw("presign failed", "key", key, "error", err)
		return &UploadResult{Success: false, Error: err.Error()}, nil
	}

	status, err := s.AWS.UploadToPresignedURL(ctx, url, asset.Data, asset.ContentType)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.Log.Errorw("upload failed", "key", key, "error", err)
		return &UploadResult{Success: false, Error: err.Error()}, nil
	}
	if status < 200 || status > 299 {
		s.Log.Warnw("storage rejected upload", "key", key, "status", status)
		return &UploadResult{Success: false, Error: fmt.Sprintf("storage responded with status %d", status)}, nil
	}

	s.Log.Infow("product image uploaded", "key", key, "size", asset.Size)
	return &UploadResult{Success: true, AssetIDs: []string{key}}, nil
}
