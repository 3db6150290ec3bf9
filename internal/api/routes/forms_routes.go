package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/masthead-press/masthead/internal/api/dto"
	"github.com/masthead-press/masthead/internal/api/handlers"
	"github.com/masthead-press/masthead/internal/api/middleware"
)

type FormsRoutes struct {
	handler   *handlers.FormsHandler
	jwtSecret string
	jwtIssuer string
}

func NewFormsRoutes(handler *handlers.FormsHandler, jwtSecret, jwtIssuer string) *FormsRoutes {
	return &FormsRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
		jwtIssuer: jwtIssuer,
	}
}

// RegisterRoutes registers all form definition routes
func (r *FormsRoutes) RegisterRoutes(router *gin.Engine) {
	validation := middleware.NewValidationMiddleware()

	forms := router.Group("/api/forms")
	forms.Use(middleware.NewAuthMiddleware(r.jwtSecret, r.jwtIssuer))

	forms.GET("", r.handler.ListGroups)
	forms.POST("/definitions", validation.ValidateRequest(&dto.CreateDefinitionRequest{}), r.handler.CreateDefinition)
	forms.GET("/:name", r.handler.GetGroup)
	forms.POST("/:name/generate", r.handler.GenerateForm)
	forms.POST("/:name/update", r.handler.UpdateForm)
}
