package handler

import (
	"github.com/toughbox/pocketpic/internal/modules/upload/service"
	"github.com/toughbox/pocketpic/internal/ws"
)

type Handler struct {
	uploadService *service.Service
	hub           *ws.Hub
}

func New(uploadService *service.Service, hub *ws.Hub) *Handler {
	return &Handler{uploadService: uploadService, hub: hub}
}
