package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/WorkEnrich-llc/wds-assignment-service/internal/config"
	"github.com/WorkEnrich-llc/wds-assignment-service/internal/draft"
	"github.com/WorkEnrich-llc/wds-assignment-service/internal/model"
)

// Sentinel errors for media uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// Allowed media MIME types and their canonical extensions.
var allowedMIMETypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"video/quicktime": ".mov",
}

// MediaService stores uploaded media on local disk and hands back the
// descriptor the draft engine attaches to questions. It implements
// draft.Uploader.
type MediaService struct {
	cfg *config.Config
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.Config) *MediaService {
	return &MediaService{cfg: cfg}
}

// Upload validates and saves a file with a UUID filename, returning the
// persisted descriptor: the stable asset path, a time-limited signed URL, and
// the file info block.
func (s *MediaService) Upload(ctx context.Context, f draft.File) (*model.FileDescriptor, error) {
	ext, ok := allowedMIMETypes[f.ContentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, f.ContentType, strings.Join(allowedTypes(), ", "))
	}

	if f.Size > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, f.Size, s.cfg.MaxUploadBytes)
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.New().String() + ext
	destPath := filepath.Join(s.cfg.UploadDir, filename)

	dst, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, f.Content)
	if err != nil {
		os.Remove(destPath)
		return nil, fmt.Errorf("write file: %w", err)
	}

	if err := ctx.Err(); err != nil {
		os.Remove(destPath)
		return nil, err
	}

	assetURL := "/uploads/" + filename
	return &model.FileDescriptor{
		AssetURL:  assetURL,
		SignedURL: s.SignURL(assetURL, time.Now().Add(s.cfg.SignedURLTTL)),
		Info: model.FileInfo{
			FileName:   f.Name,
			FileSizeKb: written / 1024,
			FileExt:    ext,
			FileType:   f.ContentType,
		},
	}, nil
}

// SignURL appends an HMAC signature with an expiry timestamp so the UI can
// fetch the asset without an Authorization header.
func (s *MediaService) SignURL(assetURL string, expires time.Time) string {
	exp := strconv.FormatInt(expires.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(s.cfg.MediaSignSecret))
	mac.Write([]byte(assetURL + "|" + exp))
	sig := hex.EncodeToString(mac.Sum(nil))
	return fmt.Sprintf("%s?exp=%s&sig=%s", assetURL, exp, sig)
}

// VerifySignedURL checks the signature and expiry produced by SignURL.
func (s *MediaService) VerifySignedURL(assetURL, exp, sig string) bool {
	expUnix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil || time.Now().Unix() > expUnix {
		return false
	}
	mac := hmac.New(sha256.New, []byte(s.cfg.MediaSignSecret))
	mac.Write([]byte(assetURL + "|" + exp))
	want := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(want), []byte(sig))
}

func allowedTypes() []string {
	types := make([]string, 0, len(allowedMIMETypes))
	for t := range allowedMIMETypes {
		types = append(types, t)
	}
	return types
}
