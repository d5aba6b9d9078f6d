package auth

import (
	"github.com/toughbox/pocketpic/internal/modules/auth/handler"
	"github.com/toughbox/pocketpic/internal/modules/auth/service"
	"github.com/toughbox/pocketpic/internal/pocketbase"
	platformservice "github.com/toughbox/pocketpic/internal/platform/service"
)

type Module struct {
	Service *service.Service
	Handler *handler.Handler
}

func New(appService *platformservice.AppService, client *pocketbase.Client, usersCollection, cookieName string) *Module {
	moduleService := service.New(appService, client, usersCollection)
	moduleHandler := handler.New(moduleService, cookieName)

	return &Module{
		Service: moduleService,
		Handler: moduleHandler,
	}
}
