package consts

// 运行时设置键名（AppService 从配置快照中预填充）
const (
	SettingMaxRequestBodyMB     = "max_request_body_mb"
	SettingMaxUploadMB          = "max_upload_mb"
	SettingMaxBatchFiles        = "max_batch_files"
	SettingThumbSize            = "thumb_size"
	SettingDetailThumbSize      = "detail_thumb_size"
	SettingBatchTTLMinutes      = "batch_ttl_minutes"
	SettingStaticCacheControl   = "static_cache_control"
	SettingSessionTTLHours      = "session_ttl_hours"
	SettingRateLimitEnabled     = "rate_limit_enabled"
	SettingRateLimitAuthRPS     = "rate_limit_auth_rps"
	SettingRateLimitAuthBurst   = "rate_limit_auth_burst"
	SettingRateLimitUploadRPS   = "rate_limit_upload_rps"
	SettingRateLimitUploadBurst = "rate_limit_upload_burst"
)
