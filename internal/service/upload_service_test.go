package service

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursebook-api/pkg/storage"
)

func newUploadService(t *testing.T, maxSize int64) (*UploadService, *storage.LocalStorage) {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("upload-secret", time.Hour)
	svc := NewUploadService(files, signer, UploadConfig{APIPrefix: "/api/v1/", MaxFileSize: maxSize}, nil)
	svc.newID = func() string { return "ab12cd34-0000-0000-0000-000000000000" }
	return svc, files
}

func TestUploadServiceStoresAndOpens(t *testing.T) {
	svc, _ := newUploadService(t, 1024)
	ctx := context.Background()

	upload, err := svc.Upload(ctx, `C:\tmp\lesson plan (v2).pdf`, strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "lesson_plan_v2_.pdf", upload.Filename)
	assert.Equal(t, int64(5), upload.Size)
	assert.True(t, strings.HasPrefix(upload.URL, "/api/v1/files/"))

	token := extractToken(upload.URL)
	opened, err := svc.Open(ctx, token)
	require.NoError(t, err)
	defer opened.File.Close()
	assert.Equal(t, "lesson_plan_v2_.pdf", opened.Filename)
	assert.Equal(t, "hello", string(readAll(t, opened.File)))
}

func TestUploadServiceRejectsOversizedAndEmpty(t *testing.T) {
	svc, files := newUploadService(t, 4)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "big.txt", bytes.NewReader([]byte("too large")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, errorStatus(err))
	_, err = files.Open("uploads/ab/ab12cd34-0000-0000-0000-000000000000_big.txt")
	assert.Error(t, err)

	_, err = svc.Upload(ctx, "empty.txt", strings.NewReader(""))
	assert.Equal(t, http.StatusBadRequest, errorStatus(err))
}

func TestUploadServiceOpenErrors(t *testing.T) {
	svc, files := newUploadService(t, 1024)
	ctx := context.Background()

	_, err := svc.Open(ctx, "not-a-token")
	assert.Equal(t, http.StatusForbidden, errorStatus(err))

	upload, err := svc.Upload(ctx, "notes.txt", strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, files.Delete("uploads/ab/ab12cd34-0000-0000-0000-000000000000_notes.txt"))

	_, err = svc.Open(ctx, extractToken(upload.URL))
	assert.Equal(t, http.StatusNotFound, errorStatus(err))
}

func TestCleanFilename(t *testing.T) {
	assert.Equal(t, "file", cleanFilename(""))
	assert.Equal(t, "file", cleanFilename("../.."))
	assert.Equal(t, "passwd", cleanFilename("../../etc/passwd"))
	assert.Equal(t, "a_b.txt", cleanFilename("a b.txt"))
}
