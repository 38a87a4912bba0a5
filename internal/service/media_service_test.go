package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMediaBase = "https://media.test/zuno"

type memoryObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newMemoryObjectStore() *memoryObjectStore {
	return &memoryObjectStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryObjectStore) Put(_ context.Context, objectName string, reader io.Reader, _ int64, contentType string) (string, error) {
	b, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectName] = b
	m.types[objectName] = contentType
	return testMediaBase + "/" + objectName, nil
}

func (m *memoryObjectStore) Remove(_ context.Context, objectName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, objectName)
	return nil
}

func (m *memoryObjectStore) ObjectKey(url string) (string, bool) {
	if !strings.HasPrefix(url, testMediaBase+"/") {
		return "", false
	}
	return strings.TrimPrefix(url, testMediaBase+"/"), true
}

type memoryTracker struct {
	mu      sync.Mutex
	tracked map[string]time.Time
	now     time.Time
}

func (m *memoryTracker) Track(_ context.Context, objectKey, _ string, _ int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracked[objectKey] = m.now
	return nil
}

func (m *memoryTracker) Claim(_ context.Context, objectKeys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range objectKeys {
		delete(m.tracked, k)
	}
	return nil
}

func (m *memoryTracker) Expired(_ context.Context, before time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k, at := range m.tracked {
		if at.Before(before) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newMediaFixture() (*mediaServiceImpl, *memoryObjectStore, *memoryTracker) {
	store := newMemoryObjectStore()
	tracker := &memoryTracker{tracked: map[string]time.Time{}, now: time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)}
	svc := NewMediaService(store, tracker).(*mediaServiceImpl)
	svc.now = func() time.Time { return tracker.now }
	return svc, store, tracker
}

func TestMediaUpload(t *testing.T) {
	svc, store, tracker := newMediaFixture()
	ctx := context.Background()

	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 1024)...)
	out, err := svc.Upload(ctx, 1, "Cat.PNG", int64(len(body)), bytes.NewReader(body))
	require.NoError(t, err)

	assert.Equal(t, "image", out.Type)
	assert.Equal(t, "ready", out.Status)
	assert.Equal(t, "image/png", out.MimeType)
	assert.True(t, strings.HasPrefix(out.URL, testMediaBase+"/2026/03/04/"))
	assert.True(t, strings.HasSuffix(out.URL, ".png"))

	key, ok := store.ObjectKey(out.URL)
	require.True(t, ok)
	assert.Equal(t, body, store.objects[key], "sniffed header must be written back")
	assert.Contains(t, tracker.tracked, key)
}

func TestMediaUploadRejectsUnsupported(t *testing.T) {
	svc, store, tracker := newMediaFixture()

	_, err := svc.Upload(context.Background(), 1, "notes.txt", 11, strings.NewReader("hello world"))
	assert.ErrorIs(t, err, ErrFileNotSupported)

	_, err = svc.Upload(context.Background(), 1, "empty.png", 0, bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrFileNotSupported)

	assert.Empty(t, store.objects)
	assert.Empty(t, tracker.tracked)
}

func TestMediaClaimAndCleanup(t *testing.T) {
	svc, store, tracker := newMediaFixture()
	ctx := context.Background()

	kept, err := svc.Upload(ctx, 1, "a.png", int64(len(pngHeader)), bytes.NewReader(pngHeader))
	require.NoError(t, err)
	orphan, err := svc.Upload(ctx, 1, "b.png", int64(len(pngHeader)), bytes.NewReader(pngHeader))
	require.NoError(t, err)

	require.NoError(t, svc.ClaimURLs(ctx, kept.URL, "https://elsewhere.example/x.png"))

	removed, err := svc.CleanupExpired(ctx, tracker.now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	keptKey, _ := store.ObjectKey(kept.URL)
	orphanKey, _ := store.ObjectKey(orphan.URL)
	assert.Contains(t, store.objects, keptKey)
	assert.NotContains(t, store.objects, orphanKey)
	assert.Empty(t, tracker.tracked)
}
