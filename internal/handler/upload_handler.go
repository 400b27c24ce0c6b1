package handler

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/coursebook-api/internal/models"
	"github.com/noah-isme/coursebook-api/internal/service"
	appErrors "github.com/noah-isme/coursebook-api/pkg/errors"
	"github.com/noah-isme/coursebook-api/pkg/response"
)

type uploadService interface {
	MaxFileSize() int64
	Upload(ctx context.Context, filename string, r io.Reader) (*models.Upload, error)
	Open(ctx context.Context, token string) (*service.UploadedFile, error)
}

// multipartOverhead leaves room for form boundaries around the file part.
const multipartOverhead = 64 * 1024

// UploadHandler exposes attachment upload and download endpoints.
type UploadHandler struct {
	service uploadService
}

// NewUploadHandler constructs the handler.
func NewUploadHandler(service uploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

// Upload godoc
// @Summary Upload an attachment
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File"
// @Success 201 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.service.MaxFileSize()+multipartOverhead)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, appErrors.Clone(appErrors.ErrPayloadTooLarge, "file exceeds upload limit"))
			return
		}
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		return
	}
	defer src.Close()

	upload, err := h.service.Upload(c.Request.Context(), fileHeader.Filename, src)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, upload)
}

// Download godoc
// @Summary Download an attachment
// @Tags Files
// @Produce octet-stream
// @Param token path string true "Signed file token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /files/{token} [get]
func (h *UploadHandler) Download(c *gin.Context) {
	file, err := h.service.Open(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.File, file.Filename, mime.TypeByExtension(filepath.Ext(file.Filename)))
}
