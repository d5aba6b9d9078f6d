package upload

import (
	photoservice "github.com/toughbox/pocketpic/internal/modules/photo/service"
	"github.com/toughbox/pocketpic/internal/modules/upload/handler"
	"github.com/toughbox/pocketpic/internal/modules/upload/service"
	platformservice "github.com/toughbox/pocketpic/internal/platform/service"
	"github.com/toughbox/pocketpic/internal/ws"
)

type Module struct {
	Service *service.Service
	Handler *handler.Handler
}

func New(appService *platformservice.AppService, photoService *photoservice.Service, hub *ws.Hub) *Module {
	moduleService := service.New(appService, photoService, hub)
	moduleHandler := handler.New(moduleService, hub)

	return &Module{
		Service: moduleService,
		Handler: moduleHandler,
	}
}
