package service

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/coursebook-api/internal/models"
	appErrors "github.com/noah-isme/coursebook-api/pkg/errors"
	"github.com/noah-isme/coursebook-api/pkg/storage"
)

type streamStorage interface {
	SaveStream(name string, r io.Reader, limit int64) (int64, error)
	Open(name string) (*os.File, error)
	Delete(name string) error
}

// UploadConfig tunes the upload endpoint.
type UploadConfig struct {
	APIPrefix   string
	MaxFileSize int64
}

// UploadedFile is an opened stored upload.
type UploadedFile struct {
	File      *os.File
	Filename  string
	ExpiresAt time.Time
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// UploadService stores attachments and hands out signed links to them.
type UploadService struct {
	storage streamStorage
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     UploadConfig
	newID   func() string
}

// NewUploadService constructs the upload service.
func NewUploadService(files streamStorage, signer *storage.SignedURLSigner, cfg UploadConfig, logger *zap.Logger) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 5 * 1024 * 1024
	}
	return &UploadService{storage: files, signer: signer, logger: logger, cfg: cfg, newID: uuid.NewString}
}

// MaxFileSize returns the per-file byte limit.
func (s *UploadService) MaxFileSize() int64 {
	return s.cfg.MaxFileSize
}

// Upload stores r under a generated name and returns a signed download link.
// Files larger than the configured limit are rejected and removed.
func (s *UploadService) Upload(ctx context.Context, filename string, r io.Reader) (*models.Upload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := cleanFilename(filename)
	id := s.newID()
	rel := filepath.ToSlash(filepath.Join("uploads", id[:2], id+"_"+clean))

	size, err := s.storage.SaveStream(rel, r, s.cfg.MaxFileSize+1)
	if err != nil {
		return nil, internalError(err, "failed to store upload")
	}
	if size > s.cfg.MaxFileSize {
		_ = s.storage.Delete(rel)
		return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, "file exceeds upload limit")
	}
	if size == 0 {
		_ = s.storage.Delete(rel)
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is empty")
	}

	token, expiresAt, err := s.signer.Generate(id, rel)
	if err != nil {
		_ = s.storage.Delete(rel)
		return nil, internalError(err, "failed to sign upload url")
	}
	s.logger.Info("file uploaded", zap.String("upload_id", id), zap.Int64("size", size))
	return &models.Upload{
		Filename:  clean,
		Size:      size,
		URL:       downloadURL(s.cfg.APIPrefix, "files", token),
		ExpiresAt: expiresAt,
	}, nil
}

// Open resolves a signed token to the stored file.
func (s *UploadService) Open(ctx context.Context, token string) (*UploadedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id, rel, expiresAt, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired file token")
	}
	file, err := s.storage.Open(rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "file not found")
		}
		return nil, internalError(err, "failed to open upload")
	}
	return &UploadedFile{
		File:      file,
		Filename:  strings.TrimPrefix(filepath.Base(rel), id+"_"),
		ExpiresAt: expiresAt,
	}, nil
}

func cleanFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = unsafeFilenameChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		return "file"
	}
	if len(base) > 120 {
		base = base[len(base)-120:]
	}
	return base
}
