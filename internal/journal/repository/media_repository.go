package repository

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"trading-journal/pkg/config"
	"trading-journal/pkg/logger"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// MediaRepository uploads chart screenshots to the external media store
// and returns their public URLs.
type MediaRepository interface {
	Upload(ctx context.Context, fileName string, file io.Reader) (string, error)
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

type mediaErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type mediaRepository struct {
	client       *resty.Client
	uploadPreset string
	folder       string
	logger       *logger.Logger
	limiter      *rate.Limiter
}

// NewMediaRepository creates a media store client for a Cloudinary-style
// upload endpoint.
func NewMediaRepository(cfg config.Media, log *logger.Logger) (MediaRepository, error) {
	client := resty.New().SetBaseURL(cfg.BaseURL)
	if cfg.Timeout != "" {
		timeout, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid media timeout: %w", err)
		}
		client.SetTimeout(timeout)
	}

	rateLimit := rate.Inf
	if cfg.RateLimit > 0 {
		rateLimit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &mediaRepository{
		client:       client,
		uploadPreset: cfg.UploadPreset,
		folder:       cfg.Folder,
		logger:       log,
		limiter:      rate.NewLimiter(rateLimit, burst),
	}, nil
}

// Upload sends the file as a multipart form together with the fixed
// upload preset and target folder.
func (r *mediaRepository) Upload(ctx context.Context, fileName string, file io.Reader) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var result uploadResponse
	var storeErr mediaErrorResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetFileReader("file", fileName, file).
		SetFormData(map[string]string{
			"upload_preset": r.uploadPreset,
			"folder":        r.folder,
		}).
		SetResult(&result).
		SetError(&storeErr).
		Post("/image/upload")
	if err != nil {
		return "", fmt.Errorf("media store request failed: %w", err)
	}
	if resp.IsError() {
		// The error body only decodes when the store sends a JSON
		// content type; otherwise fall back to the raw body.
		message := storeErr.Error.Message
		if message == "" {
			message = strings.TrimSpace(resp.String())
		}
		r.logger.Error("Media store rejected upload",
			logger.Field("status", resp.StatusCode()),
			logger.Field("message", message))
		return "", fmt.Errorf("media store returned status %d: %s", resp.StatusCode(), message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("media store response missing secure_url")
	}

	return result.SecureURL, nil
}
