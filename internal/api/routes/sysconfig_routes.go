package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/masthead-press/masthead/internal/api/dto"
	"github.com/masthead-press/masthead/internal/api/handlers"
	"github.com/masthead-press/masthead/internal/api/middleware"
)

type SysconfigRoutes struct {
	handler   *handlers.SysconfigHandler
	jwtSecret string
	jwtIssuer string
}

func NewSysconfigRoutes(handler *handlers.SysconfigHandler, jwtSecret, jwtIssuer string) *SysconfigRoutes {
	return &SysconfigRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
		jwtIssuer: jwtIssuer,
	}
}

// RegisterRoutes registers all runtime configuration routes
func (r *SysconfigRoutes) RegisterRoutes(router *gin.Engine) {
	validation := middleware.NewValidationMiddleware()

	config := router.Group("/api/config")
	config.Use(middleware.NewAuthMiddleware(r.jwtSecret, r.jwtIssuer))

	config.GET("", r.handler.ListConfig)
	config.GET("/:key", r.handler.GetConfig)
	config.PUT("/:key", validation.ValidateRequest(&dto.SetConfigRequest{}), r.handler.SetConfig)
}
