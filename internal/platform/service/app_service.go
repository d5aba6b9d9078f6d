package service

import (
	"sync"

	"github.com/toughbox/pocketpic/internal/config"
	"github.com/toughbox/pocketpic/internal/consts"
)

// AppService 提供运行时设置的统一读取入口
// 设置项在启动时从配置快照预填充，测试可以用 Set 覆盖单个键
type AppService struct {
	settings sync.Map
}

func NewAppService(cfg config.Config) *AppService {
	s := &AppService{}
	s.seed(cfg)
	return s
}

func (s *AppService) seed(cfg config.Config) {
	s.settings.Store(consts.SettingMaxRequestBodyMB, cfg.Security.MaxRequestBodyMB)
	s.settings.Store(consts.SettingMaxUploadMB, cfg.Upload.MaxUploadMB)
	s.settings.Store(consts.SettingMaxBatchFiles, cfg.Upload.MaxBatchFiles)
	s.settings.Store(consts.SettingThumbSize, cfg.Upload.ThumbSize)
	s.settings.Store(consts.SettingDetailThumbSize, cfg.Upload.DetailThumbSize)
	s.settings.Store(consts.SettingBatchTTLMinutes, cfg.Upload.BatchTTLMinutes)
	s.settings.Store(consts.SettingStaticCacheControl, cfg.Security.StaticCacheControl)
	s.settings.Store(consts.SettingSessionTTLHours, cfg.Session.TTLHours)
	s.settings.Store(consts.SettingRateLimitEnabled, cfg.RateLimit.Enabled)
	s.settings.Store(consts.SettingRateLimitAuthRPS, cfg.RateLimit.AuthRPS)
	s.settings.Store(consts.SettingRateLimitAuthBurst, cfg.RateLimit.AuthBurst)
	s.settings.Store(consts.SettingRateLimitUploadRPS, cfg.RateLimit.UploadRPS)
	s.settings.Store(consts.SettingRateLimitUploadBurst, cfg.RateLimit.UploadBurst)
}

// Set 覆盖单个设置项（测试以及将来可能的热更新入口）
func (s *AppService) Set(key string, value any) {
	s.settings.Store(key, value)
}

func (s *AppService) GetString(key string) string {
	if v, ok := s.settings.Load(key); ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

func (s *AppService) GetInt(key string) int {
	if v, ok := s.settings.Load(key); ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return 0
}

func (s *AppService) GetFloat64(key string) float64 {
	if v, ok := s.settings.Load(key); ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case int64:
			return float64(n)
		}
	}
	return 0
}

func (s *AppService) GetBool(key string) bool {
	if v, ok := s.settings.Load(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}
