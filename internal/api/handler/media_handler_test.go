package handler

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/pkg/consts"
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMediaService struct {
	userID   uint64
	filename string
	body     []byte
}

func (s *stubMediaService) Upload(ctx context.Context, userID uint64, filename string, size int64, r io.Reader) (*dto.MediaUploadDTO, error) {
	s.userID, s.filename = userID, filename
	s.body, _ = io.ReadAll(r)
	return &dto.MediaUploadDTO{URL: "http://media/x.png", Type: "image", Status: "ready", Size: size}, nil
}

func (s *stubMediaService) ClaimURLs(ctx context.Context, urls ...string) error { return nil }

func (s *stubMediaService) CleanupExpired(ctx context.Context, before time.Time) (int, error) {
	return 0, nil
}

func mediaRouter(svc *stubMediaService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/upload", func(c *gin.Context) {
		c.Set(consts.UserIDKey, uint64(7))
		c.Next()
	}, NewMediaHandler(svc).Upload)
	return r
}

func TestMediaUpload(t *testing.T) {
	svc := &stubMediaService{}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "cat.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("png-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	mediaRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Success bool               `json:"success"`
		Data    dto.MediaUploadDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "ready", res.Data.Status)
	assert.Equal(t, uint64(7), svc.userID)
	assert.Equal(t, "cat.png", svc.filename)
	assert.Equal(t, "png-bytes", string(svc.body))
}

func TestMediaUploadMissingFile(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	w := httptest.NewRecorder()
	mediaRouter(&stubMediaService{}).ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
