package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Vendor   VendorConfig   `mapstructure:"vendor"`
	Exchange ExchangeConfig `mapstructure:"exchange"`
	Security SecurityConfig `mapstructure:"security"`
	Business BusinessConfig `mapstructure:"business"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers []string         `mapstructure:"brokers"`
	Topic   KafkaTopicConfig `mapstructure:"topic"`
}

type KafkaTopicConfig struct {
	ApprovalNotice string `mapstructure:"approval_notice"`
	BookingResult  string `mapstructure:"booking_result"`
}

// VendorConfig 第三方票务平台 API 接入配置
type VendorConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Timeout 请求超时时间，默认 30 秒
func (c *VendorConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ExchangeConfig 汇率源配置
type ExchangeConfig struct {
	BaseURL      string  `mapstructure:"base_url"`
	AccessKey    string  `mapstructure:"access_key"`
	FeeRate      float64 `mapstructure:"fee_rate"`      // 加价比例，默认 0.02
	CacheSeconds int     `mapstructure:"cache_seconds"` // 汇率缓存时长，默认 3600
}

type SecurityConfig struct {
	JWTSecret       string `mapstructure:"jwt_secret"`
	TokenExpireHour int    `mapstructure:"token_expire_hour"`
	// ApprovalSecretKey 审批令牌加密密钥（64 位 hex，即 32 字节 secretbox key）
	ApprovalSecretKey string `mapstructure:"approval_secret_key"`
	ApprovalLinkBase  string `mapstructure:"approval_link_base"`
}

type BusinessConfig struct {
	DefaultCurrency      string `mapstructure:"default_currency"`
	ApprovalCacheMinutes int    `mapstructure:"approval_cache_minutes"`
	WalletLockSeconds    int    `mapstructure:"wallet_lock_seconds"`
	OutboxMaxRetryCount  int    `mapstructure:"outbox_max_retry_count"`
	SupportEmail         string `mapstructure:"support_email"`
	SupportName          string `mapstructure:"support_name"`
}

var GlobalConfig *Config

// LoadConfig 加载配置文件
func LoadConfig(configPath string) *Config {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("读取配置文件失败: %v", err)
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	GlobalConfig = config
	return config
}
