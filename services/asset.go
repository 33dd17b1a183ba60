package services

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"shootapi/models"
)

const MaxUploadSize = 10 << 20

var ErrUploadRejected = errors.New("upload rejected")

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageExtension returns the object key extension for an accepted type.
func ImageExtension(contentType string) string {
	return allowedImageTypes[contentType]
}

// NewUploadedAsset checks a picked file at the upload boundary. The declared
// type is trusted when it is one we accept, otherwise the content is sniffed.
func NewUploadedAsset(fileName, declaredType string, data []byte) (*models.UploadedAsset, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrUploadRejected)
	}
	if len(data) > MaxUploadSize {
		return nil, fmt.Errorf("%w: file is larger than 10MB", ErrUploadRejected)
	}

	contentType := normalizeContentType(declaredType)
	if _, ok := allowedImageTypes[contentType]; !ok {
		contentType = normalizeContentType(http.DetectContentType(data))
	}
	if _, ok := allowedImageTypes[contentType]; !ok {
		return nil, fmt.Errorf("%w: unsupported file type %s, use JPG, PNG or WEBP", ErrUploadRejected, contentType)
	}

	return &models.UploadedAsset{
		FileName:    fileName,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

func normalizeContentType(value string) string {
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(value))
	}
	return mediaType
}
