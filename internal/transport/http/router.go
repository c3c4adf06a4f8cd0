package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"

	"github.com/mkalykov/startup-benefits/internal/repository"
	"github.com/mkalykov/startup-benefits/internal/token"
	"github.com/mkalykov/startup-benefits/internal/transport/http/handler"
	"github.com/mkalykov/startup-benefits/internal/transport/http/middleware"
)

type RouterDeps struct {
	Auth   *handler.AuthHandler
	Deals  *handler.DealHandler
	Claims *handler.ClaimHandler
	Tokens *token.Service
	Users  repository.UserRepository
	Logger *slog.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Security(),
		sloggin.New(deps.Logger.With("component", "http")),
		middleware.Metrics(),
	)

	auth := r.Group("/auth")
	{
		auth.POST("/register", deps.Auth.Register)
		auth.POST("/magic-link", deps.Auth.RequestMagicLink)
		auth.POST("/verify", deps.Auth.Verify)
		auth.POST("/refresh", deps.Auth.Refresh)
		auth.POST("/logout", deps.Auth.Logout)
	}

	r.GET("/deals", deps.Deals.List)
	r.GET("/deals/:id", deps.Deals.GetByID)

	gate := middleware.Auth(deps.Tokens, deps.Users)

	profile := r.Group("/auth/profile", gate)
	{
		profile.GET("", deps.Auth.GetProfile)
		profile.PATCH("", deps.Auth.UpdateProfile)
	}

	claims := r.Group("/claims", gate)
	{
		claims.POST("", deps.Claims.Create)
		claims.GET("/my", deps.Claims.ListMy)
	}

	return r
}
