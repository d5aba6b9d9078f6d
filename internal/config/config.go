package config

import (
	"errors"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/spf13/viper"
)

// 用于管理应用配置

var (
	// 使用 atomic.Value 存储 *Config，实现无锁读取
	appConfig atomic.Value
	configMu  sync.Mutex // 仅用于写操作互斥
	configDir = "config"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Session   SessionConfig   `mapstructure:"session"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Security  SecurityConfig  `mapstructure:"security"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// BackendConfig 描述远端 PocketBase 兼容后端
type BackendConfig struct {
	URL              string `mapstructure:"url"`
	PhotosCollection string `mapstructure:"photos_collection"`
	UsersCollection  string `mapstructure:"users_collection"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds"`
}

type UploadConfig struct {
	MaxBatchFiles   int    `mapstructure:"max_batch_files"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb"`
	ThumbSize       string `mapstructure:"thumb_size"`
	DetailThumbSize string `mapstructure:"detail_thumb_size"`
	BatchTTLMinutes int    `mapstructure:"batch_ttl_minutes"`
}

type SessionConfig struct {
	CookieName string `mapstructure:"cookie_name"`
	TTLHours   int    `mapstructure:"ttl_hours"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type RateLimitConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	AuthRPS     float64 `mapstructure:"auth_rps"`
	AuthBurst   int     `mapstructure:"auth_burst"`
	UploadRPS   float64 `mapstructure:"upload_rps"`
	UploadBurst int     `mapstructure:"upload_burst"`
}

type SecurityConfig struct {
	MaxRequestBodyMB   int    `mapstructure:"max_request_body_mb"`
	StaticCacheControl string `mapstructure:"static_cache_control"`
}

// Get 获取当前配置的快照（高性能无锁）
func Get() Config {
	val := appConfig.Load()
	if val == nil {
		return Config{}
	}
	c, ok := val.(*Config)
	if !ok {
		return Config{}
	}
	return *c
}

func GetConfigDir() string {
	return configDir
}

func InitConfig(customConfigDir string) {
	v := initViper(customConfigDir)
	loadAndStore(v)
	log.Println("✅ 配置加载成功")
}

func initViper(customConfigDir string) *viper.Viper {
	v := viper.New()

	customConfigDir = strings.TrimSpace(customConfigDir)
	if customConfigDir == "" {
		customConfigDir = "config"
	}
	configDir = customConfigDir

	// 设置配置文件路径
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// 设置默认值
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("backend.url", "http://localhost:8070")
	v.SetDefault("backend.photos_collection", "photos")
	v.SetDefault("backend.users_collection", "users")
	v.SetDefault("backend.timeout_seconds", 30)
	v.SetDefault("upload.max_batch_files", 100)
	v.SetDefault("upload.max_upload_mb", 10)
	v.SetDefault("upload.thumb_size", "300x300")
	v.SetDefault("upload.detail_thumb_size", "400x400")
	v.SetDefault("upload.batch_ttl_minutes", 30)
	v.SetDefault("session.cookie_name", "pocketpic_sid")
	v.SetDefault("session.ttl_hours", 336)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "pocket_pic")
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.auth_rps", 1)
	v.SetDefault("ratelimit.auth_burst", 5)
	v.SetDefault("ratelimit.upload_rps", 2)
	v.SetDefault("ratelimit.upload_burst", 10)
	v.SetDefault("security.max_request_body_mb", 2)
	v.SetDefault("security.static_cache_control", "public, max-age=86400")

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			log.Println("⚠️  未找到配置文件，将仅使用环境变量或默认值")
		} else {
			log.Fatalf("❌ 读取配置文件失败: %v", err)
		}
	}

	// 配置环境变量覆盖
	// 规则：所有环境变量必须以 POCKET_PIC_ 开头
	// 例如：yaml 中的 backend.url 对应环境变量 POCKET_PIC_BACKEND_URL
	v.SetEnvPrefix("POCKET_PIC")

	// 允许自动查找环境变量
	v.AutomaticEnv()

	// 解决层级分隔符问题：将 key 中的 "." 替换为 "_"
	// 这样 backend.url 才能匹配 BACKEND_URL
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return v
}

// loadAndStore 解析并原子更新配置
func loadAndStore(v *viper.Viper) {
	// 加写锁，防止并发重载时的竞争
	configMu.Lock()
	defer configMu.Unlock()

	var tempConfig Config
	// 将配置映射到结构体
	if err := v.Unmarshal(&tempConfig); err != nil {
		log.Printf("❌ 配置解析失败: %v", err)
		return
	}

	// 后端地址是唯一硬依赖，缺失时回退默认值
	if strings.TrimSpace(tempConfig.Backend.URL) == "" {
		log.Println("⚠️ 未设置后端地址，将使用默认 http://localhost:8070")
		tempConfig.Backend.URL = "http://localhost:8070"
	}
	tempConfig.Backend.URL = strings.TrimRight(tempConfig.Backend.URL, "/")

	if tempConfig.Upload.MaxBatchFiles <= 0 {
		tempConfig.Upload.MaxBatchFiles = 100
	}

	// 原子替换全局配置
	appConfig.Store(&tempConfig)
	log.Println("✅ 配置已更新")
}
