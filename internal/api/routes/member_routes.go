package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/masthead-press/masthead/internal/api/dto"
	"github.com/masthead-press/masthead/internal/api/handlers"
	"github.com/masthead-press/masthead/internal/api/middleware"
)

type MemberRoutes struct {
	handler   *handlers.MemberHandler
	jwtSecret string
	jwtIssuer string
}

func NewMemberRoutes(handler *handlers.MemberHandler, jwtSecret, jwtIssuer string) *MemberRoutes {
	return &MemberRoutes{
		handler:   handler,
		jwtSecret: jwtSecret,
		jwtIssuer: jwtIssuer,
	}
}

// RegisterRoutes registers all member-related routes
func (r *MemberRoutes) RegisterRoutes(router *gin.Engine) {
	validation := middleware.NewValidationMiddleware()

	members := router.Group("/api/members")
	members.Use(middleware.NewAuthMiddleware(r.jwtSecret, r.jwtIssuer))

	members.GET("", validation.ValidateQuery(&dto.ListMembersQuery{}), r.handler.ListMembers)
	members.POST("", validation.ValidateRequest(&dto.CreateMemberRequest{}), r.handler.CreateMember)
	members.GET("/:id", r.handler.GetMember)
	members.PUT("/:id/role", validation.ValidateRequest(&dto.ChangeRoleRequest{}), r.handler.ChangeRole)
	members.DELETE("/:id", r.handler.ArchiveMember)
}
