// Ininicializing common application configuration
package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	App    AppConfig    `mapstructure:"app"`
	Log    LogConfig    `mapstructure:"log"`
	Store  StoreConfig  `mapstructure:"store"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Kafka  KafkaConfig  `mapstructure:"kafka"`
}

type ServerConfig struct {
	AppVersion    string        `mapstructure:"app_version"`
	Host          string        `mapstructure:"host"`
	Port          string        `mapstructure:"port"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Idle_timeout  time.Duration `mapstructure:"idle_timeout"`
	Env           string        `mapstructure:"environment"`
	Mode          string        `mapstructure:"mode"`
	MaxUploadSize int64         `mapstructure:"max_upload_size"` // bytes, 0 = unlimited
}

type AppConfig struct {
	OutputSize   int           `mapstructure:"output_size"`
	AssetsDir    string        `mapstructure:"assets_dir"`
	OverlayPath  string        `mapstructure:"overlay_path"`
	CacheOverlay bool          `mapstructure:"cache_overlay"`
	DownloadName string        `mapstructure:"download_name"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// StoreConfig selects where session state lives: "memory" or "redis".
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type KafkaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.app_version", "1.0.0")
	v.SetDefault("server.host", "")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.max_upload_size", 0)

	v.SetDefault("app.output_size", 300)
	v.SetDefault("app.assets_dir", "./assets")
	v.SetDefault("app.overlay_path", "overlay.png")
	v.SetDefault("app.cache_overlay", true)
	v.SetDefault("app.download_name", "mushroom-avatar.png")
	v.SetDefault("app.session_ttl", 24*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 2)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("store.driver", "memory")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", "localhost:9094")
	v.SetDefault("kafka.topic", "avatar-published")
}

func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()
	setDefaults(viperInstance)

	viperInstance.AddConfigPath(GetEnv("CONFIG_DIR", "./config"))
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	viperInstance.SetEnvPrefix("AVATAR")
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	err := viperInstance.ReadInConfig()

	if err != nil {
		return nil, err
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Default returns the configuration used when no config file is present.
func Default() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	return ParseConfig(v)
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
