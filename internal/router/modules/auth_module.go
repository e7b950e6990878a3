package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/habbitapp/habbit/internal/application"
	handlers "github.com/habbitapp/habbit/internal/interface/http"
	"github.com/habbitapp/habbit/internal/interface/middleware"
)

// AuthModule wires the account endpoints.
// Public: register, login, resend, verify, logout.
// Protected: /me, the contract the habit domain consumes.
type AuthModule struct {
	Handler  *handlers.AuthHandler
	Sessions *application.SessionService
}

func NewAuthModule(h *handlers.AuthHandler, sessions *application.SessionService) *AuthModule {
	return &AuthModule{Handler: h, Sessions: sessions}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/register", m.Handler.Register)
	rg.POST("/auth/login", m.Handler.Login)
	rg.POST("/auth/resend", m.Handler.Resend)
	rg.GET("/auth/verify", m.Handler.Verify)
	rg.POST("/auth/logout", m.Handler.Logout)

	auth := rg.Group("/")
	auth.Use(middleware.SessionAuth(m.Sessions))
	{
		auth.GET("/me", m.Handler.Me)
	}
}
