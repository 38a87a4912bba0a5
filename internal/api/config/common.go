package config

// Config 配置主体
type Config struct {
	Server                   ServerConfig       `mapstructure:"server"`
	DB                       DBConfig           `mapstructure:"database"`
	Redis                    RedisConfig        `mapstructure:"redis"`
	Mongo                    MongoConfig        `mapstructure:"mongo"`
	MinIO                    MinIOConfig        `mapstructure:"minio"`
	Elastic                  ElasticConfig      `mapstructure:"elastic"`
	Logstash                 LogstashConfig     `mapstructure:"logstash"`
	JWT                      JWTConfig          `mapstructure:"jwt"`
	Feed                     FeedConfig         `mapstructure:"feed"`
	RateLimit                RateLimitConfig    `mapstructure:"rate_limit"`
	Media                    MediaConfig        `mapstructure:"media"`
	Cron                     CronConfig         `mapstructure:"cron"`
	Kafka                    KafkaConfig        `mapstructure:"kafka"`
	KafkaContentConsumer     KafkaConsumerTopic `mapstructure:"kafka_content_consumer"`
	KafkaInteractionConsumer KafkaConsumerTopic `mapstructure:"kafka_interaction_consumer"`
	KafkaFollowConsumer      KafkaConsumerTopic `mapstructure:"kafka_follow_consumer"`
	KafkaUserConsumer        KafkaConsumerTopic `mapstructure:"kafka_user_consumer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port         int      `mapstructure:"port"`
	Mode         string   `mapstructure:"mode"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	MainBucket       string `mapstructure:"main_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
	ExternalUseSSL   bool   `mapstructure:"external_use_ssl"`
}

// ElasticConfig Elastic配置，Address 为空时搜索退化为 SQL
type ElasticConfig struct {
	Address      string `mapstructure:"address"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	ContentIndex string `mapstructure:"content_index"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
	Issuer      string `mapstructure:"issuer"`
}

// FeedConfig 信息流分页
type FeedConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size"`
	MaxPageSize     int `mapstructure:"max_page_size"`
}

// RateLimitConfig 匿名分享接口限流
type RateLimitConfig struct {
	ShareRPS   float64 `mapstructure:"share_rps"`
	ShareBurst int     `mapstructure:"share_burst"`
}

// MediaConfig 客户端轮询媒体状态的间隔
type MediaConfig struct {
	PollIntervalMs int `mapstructure:"poll_interval_ms"`
	TempTTLHours   int `mapstructure:"temp_ttl_hours"`
}

type CronConfig struct {
	ContentReconcile string `mapstructure:"content_reconcile"`
	StoryExpiry      string `mapstructure:"story_expiry"`
	MediaCleanup     string `mapstructure:"media_cleanup"`
}

type KafkaConfig struct {
	Enable   bool           `mapstructure:"enable"`
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

// KafkaConsumerTopic Canal 表级 topic 与消费组
type KafkaConsumerTopic struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}
