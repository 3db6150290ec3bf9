package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/masthead-press/masthead/internal/api/dto"
	"github.com/masthead-press/masthead/internal/api/handlers"
	"github.com/masthead-press/masthead/internal/api/middleware"
)

type AttendanceRoutes struct {
	handler   *handlers.AttendanceHandler
	jwtSecret string
	jwtIssuer string
}

func NewAttendanceRoutes(handler *handlers.AttendanceHandler, jwtSecret, jwtIssuer string) *AttendanceRoutes {
	return &AttendanceRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
		jwtIssuer: jwtIssuer,
	}
}

// RegisterRoutes registers all attendance routes
func (r *AttendanceRoutes) RegisterRoutes(router *gin.Engine) {
	validation := middleware.NewValidationMiddleware()

	attendance := router.Group("/api/attendance")
	attendance.Use(middleware.NewAuthMiddleware(r.jwtSecret, r.jwtIssuer))

	attendance.POST("/invitations", validation.ValidateRequest(&dto.InviteRosterRequest{}), r.handler.InviteRoster)
	attendance.PUT("/members/:member_id", r.handler.MarkAttended)
	attendance.GET("/members/:member_id", r.handler.ListByMember)
	attendance.GET("/events/:event_id", r.handler.ListByEvent)
}
