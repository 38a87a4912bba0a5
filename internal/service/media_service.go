package service

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/pkg/consts"
	"Zuno/internal/pkg/util"
	"bytes"
	"context"
	"errors"
	"io"
	log "log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectStore 媒体文件存储
type ObjectStore interface {
	Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, objectName string) error
	ObjectKey(url string) (string, bool)
}

// UploadTracker 记录上传后尚未被内容引用的文件
type UploadTracker interface {
	Track(ctx context.Context, objectKey, mimeType string, size int64) error
	Claim(ctx context.Context, objectKeys ...string) error
	Expired(ctx context.Context, before time.Time) ([]string, error)
}

type MediaService interface {
	Upload(ctx context.Context, userID uint64, filename string, size int64, reader io.Reader) (*dto.MediaUploadDTO, error)
	ClaimURLs(ctx context.Context, urls ...string) error
	CleanupExpired(ctx context.Context, before time.Time) (int, error)
}

type mediaServiceImpl struct {
	store   ObjectStore
	tracker UploadTracker
	now     func() time.Time
}

func NewMediaService(store ObjectStore, tracker UploadTracker) MediaService {
	return &mediaServiceImpl{store: store, tracker: tracker, now: time.Now}
}

func (s *mediaServiceImpl) Upload(ctx context.Context, userID uint64, filename string, size int64, reader io.Reader) (*dto.MediaUploadDTO, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, ErrParamInvalid
	}
	head = head[:n]
	if n == 0 {
		return nil, ErrFileNotSupported
	}

	mimeType := util.SniffContentType(head)
	mediaType := mediaTypeOf(mimeType)
	if mediaType == "" {
		return nil, ErrFileNotSupported
	}

	objectName := s.now().Format("2006/01/02/") + uuid.NewString() + strings.ToLower(path.Ext(filename))
	url, err := s.store.Put(ctx, objectName, io.MultiReader(bytes.NewReader(head), reader), size, mimeType)
	if err != nil {
		log.ErrorContext(ctx, "media upload failed", "user_id", userID, "err", err)
		return nil, UnExpectedError
	}

	if err := s.tracker.Track(ctx, objectName, mimeType, size); err != nil {
		log.WarnContext(ctx, "failed to track temp media", "key", objectName, "err", err)
	}

	log.InfoContext(ctx, "media uploaded", "user_id", userID, "key", objectName, "type", mimeType)
	return &dto.MediaUploadDTO{
		URL:      url,
		Type:     mediaType,
		Status:   "ready",
		MimeType: mimeType,
		Size:     size,
	}, nil
}

// ClaimURLs 内容引用了上传文件，清理任务不再处理
func (s *mediaServiceImpl) ClaimURLs(ctx context.Context, urls ...string) error {
	keys := make([]string, 0, len(urls))
	for _, url := range urls {
		if key, ok := s.store.ObjectKey(url); ok {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return s.tracker.Claim(ctx, keys...)
}

// CleanupExpired 删除早于 before 且未被引用的上传文件
func (s *mediaServiceImpl) CleanupExpired(ctx context.Context, before time.Time) (int, error) {
	keys, err := s.tracker.Expired(ctx, before)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, key := range keys {
		if err := s.store.Remove(ctx, key); err != nil {
			log.WarnContext(ctx, "failed to remove temp media", "key", key, "err", err)
			continue
		}
		if err := s.tracker.Claim(ctx, key); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func mediaTypeOf(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, consts.MimePrefixImage):
		return "image"
	case strings.HasPrefix(mimeType, consts.MimePrefixVideo):
		return "video"
	case strings.HasPrefix(mimeType, consts.MimePrefixAudio):
		return "audio"
	}
	return ""
}
