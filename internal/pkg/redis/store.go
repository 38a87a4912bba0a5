package redis

import (
	"Zuno/internal/pkg/consts"
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// DirtySet 待对账内容集合
type DirtySet struct {
	rdb *redis.Client
	key string
}

func NewDirtySet(rdb *redis.Client) *DirtySet {
	return &DirtySet{rdb: rdb, key: consts.ContentDirtyKey}
}

// MarkDirty 标记内容计数需要对账
func (s *DirtySet) MarkDirty(ctx context.Context, contentIDs ...uint64) error {
	if len(contentIDs) == 0 {
		return nil
	}
	members := make([]interface{}, len(contentIDs))
	for i, id := range contentIDs {
		members[i] = strconv.FormatUint(id, 10)
	}
	return s.rdb.SAdd(ctx, s.key, members...).Err()
}

// Drain 将集合转移到 processing 键并返回其成员
// 上一轮未 Ack 的 processing 集合会与本轮合并
func (s *DirtySet) Drain(ctx context.Context) ([]uint64, error) {
	processingKey := s.key + consts.ProcessingKeySuffix
	if err := s.rdb.SUnionStore(ctx, processingKey, processingKey, s.key).Err(); err != nil {
		return nil, err
	}
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return nil, err
	}
	return SetMembersUint64(ctx, s.rdb, processingKey)
}

// Ack 对账完成后删除 processing 键
func (s *DirtySet) Ack(ctx context.Context) error {
	return s.rdb.Del(ctx, s.key+consts.ProcessingKeySuffix).Err()
}

// TokenBlacklist 注销后的 token 签名
type TokenBlacklist struct {
	rdb *redis.Client
}

func NewTokenBlacklist(rdb *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{rdb: rdb}
}

func (s *TokenBlacklist) Revoke(ctx context.Context, signature string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, consts.TokenBlacklistKey+signature, "1", ttl).Err()
}

func (s *TokenBlacklist) IsRevoked(ctx context.Context, signature string) (bool, error) {
	n, err := s.rdb.Exists(ctx, consts.TokenBlacklistKey+signature).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ConfigCache admin 配置的 hash 缓存
type ConfigCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewConfigCache(rdb *redis.Client) *ConfigCache {
	return &ConfigCache{rdb: rdb, ttl: 10 * time.Minute}
}

// Load 未命中返回 nil map
func (s *ConfigCache) Load(ctx context.Context) (map[string]string, error) {
	values, err := s.rdb.HGetAll(ctx, consts.AdminConfigKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}

func (s *ConfigCache) Store(ctx context.Context, values map[string]string) error {
	fields := make(map[string]interface{}, len(values))
	for k, v := range values {
		fields[k] = v
	}
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, consts.AdminConfigKey)
	pipe.HSet(ctx, consts.AdminConfigKey, fields)
	pipe.Expire(ctx, consts.AdminConfigKey, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *ConfigCache) Invalidate(ctx context.Context) error {
	return s.rdb.Del(ctx, consts.AdminConfigKey).Err()
}

// MediaTempMeta 未绑定内容的上传记录
type MediaTempMeta struct {
	MimeType  string `json:"mime_type"`
	Size      int64  `json:"size"`
	CreatedAt int64  `json:"created_at"`
}

// MediaTracker 记录尚未被内容引用的上传文件
type MediaTracker struct {
	rdb *redis.Client
}

func NewMediaTracker(rdb *redis.Client) *MediaTracker {
	return &MediaTracker{rdb: rdb}
}

func (s *MediaTracker) Track(ctx context.Context, objectKey, mimeType string, size int64) error {
	b, err := json.Marshal(MediaTempMeta{MimeType: mimeType, Size: size, CreatedAt: time.Now().Unix()})
	if err != nil {
		return err
	}
	return s.rdb.HSet(ctx, consts.MediaTempKey, objectKey, string(b)).Err()
}

// Claim 内容引用后不再清理
func (s *MediaTracker) Claim(ctx context.Context, objectKeys ...string) error {
	if len(objectKeys) == 0 {
		return nil
	}
	return s.rdb.HDel(ctx, consts.MediaTempKey, objectKeys...).Err()
}

// Expired 返回创建早于 before 的对象 key
func (s *MediaTracker) Expired(ctx context.Context, before time.Time) ([]string, error) {
	all, err := s.rdb.HGetAll(ctx, consts.MediaTempKey).Result()
	if err != nil {
		return nil, err
	}
	var keys []string
	for key, val := range all {
		var meta MediaTempMeta
		if err := json.Unmarshal([]byte(val), &meta); err != nil {
			// 格式损坏的记录直接视为过期
			keys = append(keys, key)
			continue
		}
		if meta.CreatedAt < before.Unix() {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Locker 基于 SetNX 的任务锁
type Locker struct {
	rdb *redis.Client
}

func NewLocker(rdb *redis.Client) *Locker {
	return &Locker{rdb: rdb}
}

// Acquire 获取失败时 release 为 nil
func (s *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := strconv.FormatInt(time.Now().UnixNano(), 10)
	ok, err := TryLock(ctx, s.rdb, key, token, ttl, 1)
	if err != nil || !ok {
		return nil, err
	}
	return func() { UnLock(context.Background(), s.rdb, key, token) }, nil
}
