package dto

import "github.com/toughbox/pocketpic/internal/model"

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
	Name            string `json:"name"`
}

// AuthResponse 与原接口保持一致：登录/注册成功返回用户与令牌
type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}
