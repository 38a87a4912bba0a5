package service

import (
	"context"
	"time"
)

// DirtyMarker 记录需要对账的内容
type DirtyMarker interface {
	MarkDirty(ctx context.Context, contentIDs ...uint64) error
}

// DirtySource 对账任务读取脏集合
type DirtySource interface {
	Drain(ctx context.Context) ([]uint64, error)
	Ack(ctx context.Context) error
}

// ConfigCache 配置缓存，Load 未命中时返回 nil
type ConfigCache interface {
	Load(ctx context.Context) (map[string]string, error)
	Store(ctx context.Context, values map[string]string) error
	Invalidate(ctx context.Context) error
}

// TokenRevoker 登出时吊销 token
type TokenRevoker interface {
	Revoke(ctx context.Context, signature string, ttl time.Duration) error
}

// MediaClaimer 内容引用媒体后取消临时标记
type MediaClaimer interface {
	ClaimURLs(ctx context.Context, urls ...string) error
}

type noopDirtyMarker struct{}

func (noopDirtyMarker) MarkDirty(context.Context, ...uint64) error { return nil }

type noopMediaClaimer struct{}

func (noopMediaClaimer) ClaimURLs(context.Context, ...string) error { return nil }
