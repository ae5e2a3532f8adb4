package setup

import (
	"context"
	"net/http"

	"github.com/folio-desk/folio/frontend/internal/desk"
	"github.com/folio-desk/folio/frontend/internal/handler"
	"github.com/folio-desk/folio/frontend/internal/router"
	"github.com/folio-desk/folio/frontend/internal/session"
	"github.com/folio-desk/folio/shared/config"
	"github.com/folio-desk/folio/shared/logger"
)

type Dependencies struct {
	Desk   *desk.Desk
	Router http.Handler
	Public config.Public
}

// SetupDependencies initializes logging from cfg, builds the desk and resumes
// any session a previous run left behind.
func SetupDependencies(ctx context.Context, cfg *config.Config) *Dependencies {
	logger.Initialize(cfg.Public.Log.Level, cfg.Public.Log.JSON)

	creds := session.FileCredentials{Path: cfg.Public.CredentialPath}
	d := desk.New(&cfg.Public, creds)
	if _, ok := d.Start(ctx); !ok {
		logger.Log.Info("no stored session, showing login", "api", cfg.Public.Api.BaseURL)
	}

	return &Dependencies{
		Desk:   d,
		Router: router.New(handler.New(d), d, cfg.Public),
		Public: cfg.Public,
	}
}
