package handler

import "github.com/toughbox/pocketpic/internal/modules/auth/service"

type Handler struct {
	authService *service.Service
	cookieName  string
}

func New(authService *service.Service, cookieName string) *Handler {
	if cookieName == "" {
		cookieName = "pocketpic_sid"
	}
	return &Handler{authService: authService, cookieName: cookieName}
}
