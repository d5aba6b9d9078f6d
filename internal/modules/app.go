package modules

import (
	"github.com/toughbox/pocketpic/internal/config"
	"github.com/toughbox/pocketpic/internal/modules/auth"
	"github.com/toughbox/pocketpic/internal/modules/photo"
	photorepo "github.com/toughbox/pocketpic/internal/modules/photo/repo"
	"github.com/toughbox/pocketpic/internal/modules/upload"
	"github.com/toughbox/pocketpic/internal/pocketbase"
	platformservice "github.com/toughbox/pocketpic/internal/platform/service"
	"github.com/toughbox/pocketpic/internal/ws"
)

type AppModules struct {
	Auth   *auth.Module
	Photo  *photo.Module
	Upload *upload.Module
	Hub    *ws.Hub
}

func New(
	appService *platformservice.AppService,
	client *pocketbase.Client,
	photoStore photorepo.PhotoStore,
	cfg config.Config,
) *AppModules {
	hub := ws.NewHub()
	go hub.Run()

	photoModule := photo.New(appService, photoStore)
	authModule := auth.New(appService, client, cfg.Backend.UsersCollection, cfg.Session.CookieName)
	uploadModule := upload.New(appService, photoModule.Service, hub)

	return &AppModules{
		Auth:   authModule,
		Photo:  photoModule,
		Upload: uploadModule,
		Hub:    hub,
	}
}
