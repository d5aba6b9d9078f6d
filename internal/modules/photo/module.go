package photo

import (
	"github.com/toughbox/pocketpic/internal/modules/photo/handler"
	"github.com/toughbox/pocketpic/internal/modules/photo/repo"
	"github.com/toughbox/pocketpic/internal/modules/photo/service"
	platformservice "github.com/toughbox/pocketpic/internal/platform/service"
)

type Module struct {
	Service *service.Service
	Handler *handler.Handler
}

func New(appService *platformservice.AppService, photoStore repo.PhotoStore) *Module {
	moduleService := service.New(appService, photoStore)
	moduleHandler := handler.New(moduleService)

	return &Module{
		Service: moduleService,
		Handler: moduleHandler,
	}
}
