package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/toughbox/pocketpic/internal/consts"
	moduledto "github.com/toughbox/pocketpic/internal/modules/auth/dto"
	"github.com/toughbox/pocketpic/internal/modules/common/httpx"
)

// Login 密码登录，成功后写入会话 Cookie
func (h *Handler) Login(c *gin.Context) {
	var req moduledto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请输入邮箱和密码"})
		return
	}

	sid := h.sessionID(c)
	user, token, err := h.authService.Login(c.Request.Context(), sid, req.Email, req.Password)
	if err != nil {
		httpx.WriteServiceError(c, err, "登录失败，请稍后重试")
		return
	}

	h.setSessionCookie(c, sid)
	c.JSON(http.StatusOK, moduledto.AuthResponse{User: user, Token: token})
}

// Register 注册新用户，成功后立即处于登录态
func (h *Handler) Register(c *gin.Context) {
	var req moduledto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请完整填写注册信息"})
		return
	}

	sid := h.sessionID(c)
	user, token, err := h.authService.Register(c.Request.Context(), sid, req.Email, req.Password, req.PasswordConfirm, req.Name)
	if err != nil {
		httpx.WriteServiceError(c, err, "注册失败，请稍后重试")
		return
	}

	h.setSessionCookie(c, sid)
	c.JSON(http.StatusOK, moduledto.AuthResponse{User: user, Token: token})
}

// Logout 清空会话并移除 Cookie
func (h *Handler) Logout(c *gin.Context) {
	if sid, err := c.Cookie(h.cookieName); err == nil && sid != "" {
		h.authService.Logout(sid)
	}
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "已登出"})
}

// Me 返回当前登录用户快照；未登录返回 401，前端据此弹出登录框
func (h *Handler) Me(c *gin.Context) {
	sid, err := c.Cookie(h.cookieName)
	if err != nil || !h.authService.IsAuthenticated(sid) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "需要登录才能访问"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": h.authService.CurrentUser(sid)})
}

// sessionID 复用已有会话 Cookie，否则生成新会话
func (h *Handler) sessionID(c *gin.Context) string {
	if sid, err := c.Cookie(h.cookieName); err == nil && sid != "" {
		return sid
	}
	return h.authService.NewSessionID()
}

func (h *Handler) setSessionCookie(c *gin.Context, sid string) {
	ttlHours := h.authService.GetInt(consts.SettingSessionTTLHours)
	if ttlHours <= 0 {
		ttlHours = 336
	}
	c.SetCookie(h.cookieName, sid, ttlHours*3600, "/", "", false, true)
}
