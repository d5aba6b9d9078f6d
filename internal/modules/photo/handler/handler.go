package handler

import "github.com/toughbox/pocketpic/internal/modules/photo/service"

type Handler struct {
	photoService *service.Service
}

func New(photoService *service.Service) *Handler {
	return &Handler{photoService: photoService}
}
