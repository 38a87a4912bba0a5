package config

import (
	"errors"
	"fmt"
	log "log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg，ZUNO_ 前缀的环境变量优先
func LoadConfig() error {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded", "err", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.SetEnvPrefix("ZUNO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		log.Warn("config file not found, using defaults and environment")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 50)
	v.SetDefault("database.max_lifetime", 30)
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("jwt.issuer", "zuno")
	v.SetDefault("feed.default_page_size", 10)
	v.SetDefault("feed.max_page_size", 50)
	v.SetDefault("rate_limit.share_rps", 2)
	v.SetDefault("rate_limit.share_burst", 5)
	v.SetDefault("media.poll_interval_ms", 2000)
	v.SetDefault("media.temp_ttl_hours", 24)
	v.SetDefault("elastic.content_index", "zuno_content")
	v.SetDefault("logstash.index", "logstash-zuno")
	v.SetDefault("cron.content_reconcile", "0 */1 * * * *")
	v.SetDefault("cron.story_expiry", "0 */5 * * * *")
	v.SetDefault("cron.media_cleanup", "@hourly")
}

// Default 返回仅包含默认值的配置，供命令行与测试使用
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}
