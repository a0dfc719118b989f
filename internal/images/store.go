package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// maxImageBytes caps downloads from third-party image hosts
const maxImageBytes = 10 << 20

// Store copies a third-party image into owned storage and returns the
// public URL it is served from. Only URLs returned by a Store are eligible
// for persistence; hot-linked third-party URLs never reach the database.
type Store interface {
	Upload(ctx context.Context, sourceURL, objectKey string) (string, error)
}

// BucketStore uploads into the hosted storage bucket over its REST API
type BucketStore struct {
	endpoint string // e.g. https://project.supabase.co/storage/v1
	bucket   string
	apiKey   string
	client   *http.Client
	log      zerolog.Logger
}

// NewBucketStore creates a bucket store. Returns nil when storage is not
// configured; callers treat a nil store as "cannot persist images".
func NewBucketStore(endpoint, bucket, apiKey string, timeout time.Duration, log zerolog.Logger) *BucketStore {
	if endpoint == "" || bucket == "" || apiKey == "" {
		return nil
	}
	return &BucketStore{
		endpoint: strings.TrimRight(endpoint, "/"),
		bucket:   bucket,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		log:      log.With().Str("component", "image_store").Logger(),
	}
}

// Upload downloads sourceURL and writes it to the bucket under objectKey,
// returning the public object URL.
func (s *BucketStore) Upload(ctx context.Context, sourceURL, objectKey string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image download failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read image body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	uploadURL := fmt.Sprintf("%s/object/%s/%s", s.endpoint, s.bucket, objectKey)
	up, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, strings.NewReader(string(data)))
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	up.Header.Set("Authorization", "Bearer "+s.apiKey)
	up.Header.Set("Content-Type", contentType)
	up.Header.Set("x-upsert", "true")

	upResp, err := s.client.Do(up)
	if err != nil {
		return "", fmt.Errorf("image upload failed: %w", err)
	}
	defer upResp.Body.Close()
	if upResp.StatusCode != http.StatusOK && upResp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("image upload returned status %d", upResp.StatusCode)
	}

	publicURL := fmt.Sprintf("%s/object/public/%s/%s", s.endpoint, s.bucket, objectKey)
	s.log.Debug().Str("object_key", objectKey).Msg("Image stored")
	return publicURL, nil
}
