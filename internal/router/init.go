package router

import (
	"github.com/habbitapp/habbit/internal/application"
	"github.com/habbitapp/habbit/internal/container"
	pginfra "github.com/habbitapp/habbit/internal/infrastructure/postgres"
	"github.com/habbitapp/habbit/internal/infrastructure/redisstore"
	handlers "github.com/habbitapp/habbit/internal/interface/http"
	"github.com/habbitapp/habbit/internal/router/modules"
	"github.com/habbitapp/habbit/pkg/helpers"
	"github.com/habbitapp/habbit/pkg/mailer"
)

type AuthModuleDeps struct {
	Auth     *application.AuthService
	Sessions *application.SessionService
	Handler  *handlers.AuthHandler
}

func buildAuthDeps() AuthModuleDeps {
	cfg := container.GetConfig()

	users := pginfra.NewUserRepository(container.GetPGPool())
	tokens := pginfra.NewTokenRepository(container.GetPGPool())
	store := redisstore.NewSessionStore(container.GetRedis())

	sessions := application.NewSessionService(container.GetJWT(), store, container.GetLogger())

	var outbound application.Mailer
	switch {
	case !cfg.MailSendEnabled:
		outbound = &mailer.LogMailer{Logger: container.GetLogger()}
	case container.GetRabbitPub() != nil:
		outbound = mailer.NewQueueMailer(container.GetRabbitPub())
	default:
		outbound = container.GetMailgun()
	}

	auth := application.NewAuthService(
		users,
		tokens,
		sessions,
		outbound,
		container.GetLogger(),
		cfg.VerifyURL,
		cfg.VerifyTokenTTL,
	)

	handler := handlers.NewAuthHandler(
		auth,
		helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
		container.GetLogger(),
	)

	return AuthModuleDeps{Auth: auth, Sessions: sessions, Handler: handler}
}

// InitModules initializes all application modules and registers them with
// the router registry. Called once during startup.
func InitModules(r *Registry) {
	deps := buildAuthDeps()
	r.Add(modules.NewAuthModule(deps.Handler, deps.Sessions))
}
