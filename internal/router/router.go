package router

import (
	"github.com/gin-gonic/gin"

	"github.com/toughbox/pocketpic/internal/config"
	"github.com/toughbox/pocketpic/internal/consts"
	"github.com/toughbox/pocketpic/internal/middleware"
	"github.com/toughbox/pocketpic/internal/modules"
	"github.com/toughbox/pocketpic/internal/platform/service"
)

type Router struct {
	modules *modules.AppModules
	service *service.AppService
}

func NewRouter(appModules *modules.AppModules, appService *service.AppService) *Router {
	return &Router{
		modules: appModules,
		service: appService,
	}
}

func (rt *Router) Init(r *gin.Engine) {
	cfg := config.Get()

	// 注册全局安全标头中间件
	r.Use(middleware.SecurityHeaders(cfg.Backend.URL))

	api := r.Group("/api")
	// 应用请求体大小限制中间件
	api.Use(middleware.BodyLimitMiddleware(rt.service))

	// 会话校验：读取 Cookie 并把后端令牌注入上下文
	sessionAuth := middleware.SessionAuth(cfg.Session.CookieName, rt.modules.Auth.Service)

	// 认证限流：多个路由复用同一个实例，保持行为一致
	authLimiter := middleware.RateLimitMiddleware(rt.service, consts.SettingRateLimitAuthRPS, consts.SettingRateLimitAuthBurst)
	uploadLimiter := middleware.RateLimitMiddleware(rt.service, consts.SettingRateLimitUploadRPS, consts.SettingRateLimitUploadBurst)

	registerPublicRoutes(api, rt.service)
	registerAuthRoutes(api, authLimiter, rt.modules.Auth.Handler)
	registerPhotoRoutes(api, sessionAuth, rt.modules.Photo.Handler)
	registerUploadRoutes(api, sessionAuth, uploadLimiter, rt.service, rt.modules.Upload.Handler)
}
