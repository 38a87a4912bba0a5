package service

import (
	"Zuno/internal/api/dto"
	"Zuno/internal/model"
	"Zuno/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"sort"
	"strconv"
	"time"
)

const (
	FlagAutoApproveEnabled   = "auto_approve_enabled"
	FlagAutoApproveThreshold = "auto_approve_threshold"
	FlagReportHideThreshold  = "report_hide_threshold"
	FlagStoryTTLHours        = "story_ttl_hours"
	FlagMediaPollMaxAttempts = "media_poll_max_attempts"
)

const (
	flagTypeBool = "bool"
	flagTypeInt  = "int"
)

type flagDef struct {
	Type    string
	Default string
	Min     int64
}

var flagDefs = map[string]flagDef{
	FlagAutoApproveEnabled:   {Type: flagTypeBool, Default: "true"},
	FlagAutoApproveThreshold: {Type: flagTypeInt, Default: "0", Min: 0},
	FlagReportHideThreshold:  {Type: flagTypeInt, Default: "10", Min: 1},
	FlagStoryTTLHours:        {Type: flagTypeInt, Default: "24", Min: 1},
	FlagMediaPollMaxAttempts: {Type: flagTypeInt, Default: "10", Min: 1},
}

// Flags 类型化的配置快照
type Flags struct {
	AutoApproveEnabled   bool
	AutoApproveThreshold int64
	ReportHideThreshold  int64
	StoryTTLHours        int
	MediaPollMaxAttempts int
}

// DefaultFlags 全部取默认值
func DefaultFlags() *Flags {
	flags, _ := parseFlags(map[string]string{})
	return flags
}

type AdminConfigService interface {
	List(ctx context.Context) ([]*dto.ConfigEntryDTO, error)
	Get(ctx context.Context, key string) (*dto.ConfigEntryDTO, error)
	Set(ctx context.Context, key, value string, adminID uint64) (*dto.ConfigEntryDTO, error)
	Flags(ctx context.Context) (*Flags, error)
	Public(ctx context.Context) (*dto.PublicConfigDTO, error)
}

type AdminConfigServiceImpl struct {
	repo           repository.AdminConfigRepo
	cache          ConfigCache
	pollIntervalMs int
}

func NewAdminConfigService(repo repository.AdminConfigRepo, cache ConfigCache, pollIntervalMs int) AdminConfigService {
	return &AdminConfigServiceImpl{repo: repo, cache: cache, pollIntervalMs: pollIntervalMs}
}

func (s *AdminConfigServiceImpl) List(ctx context.Context) ([]*dto.ConfigEntryDTO, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	stored := make(map[string]*model.AdminConfig, len(rows))
	for _, row := range rows {
		stored[row.Key] = row
	}

	keys := make([]string, 0, len(flagDefs))
	for k := range flagDefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*dto.ConfigEntryDTO, 0, len(keys))
	for _, k := range keys {
		out = append(out, toConfigEntry(k, stored[k]))
	}
	return out, nil
}

func (s *AdminConfigServiceImpl) Get(ctx context.Context, key string) (*dto.ConfigEntryDTO, error) {
	if _, ok := flagDefs[key]; !ok {
		return nil, ErrUnknownConfigKey
	}
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row.Key == key {
			return toConfigEntry(key, row), nil
		}
	}
	return toConfigEntry(key, nil), nil
}

func (s *AdminConfigServiceImpl) Set(ctx context.Context, key, value string, adminID uint64) (*dto.ConfigEntryDTO, error) {
	def, ok := flagDefs[key]
	if !ok {
		return nil, ErrUnknownConfigKey
	}
	normalized, err := normalizeFlag(def, value)
	if err != nil {
		return nil, err
	}

	row := &model.AdminConfig{
		Key:       key,
		Value:     normalized,
		UpdatedBy: adminID,
		UpdatedAt: time.Now(),
	}
	if err = s.repo.Upsert(ctx, row); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err = s.cache.Invalidate(ctx); err != nil {
			log.WarnContext(ctx, "failed to invalidate config cache", "err", err)
		}
	}
	log.InfoContext(ctx, "admin config updated", "key", key, "value", normalized, "admin_id", adminID)
	return toConfigEntry(key, row), nil
}

// Flags 优先读缓存，未命中回源数据库并回填
func (s *AdminConfigServiceImpl) Flags(ctx context.Context) (*Flags, error) {
	values, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return parseFlags(values)
}

func (s *AdminConfigServiceImpl) Public(ctx context.Context) (*dto.PublicConfigDTO, error) {
	flags, err := s.Flags(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.PublicConfigDTO{
		MediaPollIntervalMs:  s.pollIntervalMs,
		MediaPollMaxAttempts: flags.MediaPollMaxAttempts,
		StoryTTLHours:        flags.StoryTTLHours,
	}, nil
}

func (s *AdminConfigServiceImpl) load(ctx context.Context) (map[string]string, error) {
	if s.cache != nil {
		values, err := s.cache.Load(ctx)
		if err != nil {
			log.WarnContext(ctx, "failed to load config cache", "err", err)
		} else if values != nil {
			return values, nil
		}
	}

	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(flagDefs))
	for k, def := range flagDefs {
		values[k] = def.Default
	}
	for _, row := range rows {
		if _, ok := flagDefs[row.Key]; ok {
			values[row.Key] = row.Value
		}
	}

	if s.cache != nil {
		if err = s.cache.Store(ctx, values); err != nil {
			log.WarnContext(ctx, "failed to store config cache", "err", err)
		}
	}
	return values, nil
}

func normalizeFlag(def flagDef, value string) (string, error) {
	switch def.Type {
	case flagTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", fmt.Errorf("%w: expected bool", ErrInvalidConfigValue)
		}
		return strconv.FormatBool(b), nil
	case flagTypeInt:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return "", fmt.Errorf("%w: expected integer", ErrInvalidConfigValue)
		}
		if n < def.Min {
			return "", fmt.Errorf("%w: must be >= %d", ErrInvalidConfigValue, def.Min)
		}
		return strconv.FormatInt(n, 10), nil
	}
	return "", ErrInvalidConfigValue
}

func parseFlags(values map[string]string) (*Flags, error) {
	get := func(key string) string {
		if v, ok := values[key]; ok {
			if _, err := normalizeFlag(flagDefs[key], v); err == nil {
				return v
			}
		}
		return flagDefs[key].Default
	}
	enabled, _ := strconv.ParseBool(get(FlagAutoApproveEnabled))
	threshold, _ := strconv.ParseInt(get(FlagAutoApproveThreshold), 10, 64)
	hide, _ := strconv.ParseInt(get(FlagReportHideThreshold), 10, 64)
	ttl, _ := strconv.Atoi(get(FlagStoryTTLHours))
	attempts, _ := strconv.Atoi(get(FlagMediaPollMaxAttempts))
	return &Flags{
		AutoApproveEnabled:   enabled,
		AutoApproveThreshold: threshold,
		ReportHideThreshold:  hide,
		StoryTTLHours:        ttl,
		MediaPollMaxAttempts: attempts,
	}, nil
}

func toConfigEntry(key string, row *model.AdminConfig) *dto.ConfigEntryDTO {
	def := flagDefs[key]
	entry := &dto.ConfigEntryDTO{
		Key:     key,
		Value:   def.Default,
		Default: def.Default,
		Type:    def.Type,
	}
	if row != nil {
		entry.Value = row.Value
		updatedAt := row.UpdatedAt
		entry.UpdatedAt = &updatedAt
	}
	return entry
}
