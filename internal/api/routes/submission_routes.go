package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/masthead-press/masthead/internal/api/dto"
	"github.com/masthead-press/masthead/internal/api/handlers"
	"github.com/masthead-press/masthead/internal/api/middleware"
)

type SubmissionRoutes struct {
	handler       *handlers.SubmissionHandler
	jwtSecret     string
	jwtIssuer     string
	webhookSecret string
}

func NewSubmissionRoutes(handler *handlers.SubmissionHandler, jwtSecret, jwtIssuer, webhookSecret string) *SubmissionRoutes {
	return &SubmissionRoutes{
		handler:       handler,
		jwtSecret:     jwtSecret,
		jwtIssuer:     jwtIssuer,
		webhookSecret: webhookSecret,
	}
}

// RegisterRoutes registers the webhook and audit log routes. The
// webhook is authenticated by shared secret, not JWT, because it is
// called by the form provider rather than a staff client.
func (r *SubmissionRoutes) RegisterRoutes(router *gin.Engine) {
	validation := middleware.NewValidationMiddleware()

	router.POST("/webhooks/submissions",
		middleware.NewWebhookAuthMiddleware(r.webhookSecret),
		validation.ValidateRequest(&dto.SubmissionWebhookRequest{}),
		r.handler.ReceiveWebhook)

	submissions := router.Group("/api/submissions")
	submissions.Use(middleware.NewAuthMiddleware(r.jwtSecret, r.jwtIssuer))
	submissions.GET("", r.handler.ListSubmissions)
}
