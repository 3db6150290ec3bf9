package routes

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/masthead-press/masthead/internal/api/dto"
	"github.com/masthead-press/masthead/internal/api/handlers"
	"github.com/masthead-press/masthead/internal/api/middleware"
)

type TaskRoutes struct {
	handler   *handlers.TaskHandler
	export    *handlers.ExportHandler
	jwtSecret string
	jwtIssuer string
}

func NewTaskRoutes(handler *handlers.TaskHandler, export *handlers.ExportHandler, jwtSecret, jwtIssuer string) *TaskRoutes {
	return &TaskRoutes{
		handler:   handler,
		export:    export,
		jwtSecret: jwtSecret,
		jwtIssuer: jwtIssuer,
	}
}

// RegisterRoutes registers all task and assignment routes
func (r *TaskRoutes) RegisterRoutes(router *gin.Engine) {
	validation := middleware.NewValidationMiddleware()
	auth := middleware.NewAuthMiddleware(r.jwtSecret, r.jwtIssuer)

	tasks := router.Group("/api/tasks")
	tasks.Use(auth)

	tasks.GET("", gzip.Gzip(gzip.DefaultCompression), r.handler.ListTasks)
	tasks.POST("", validation.ValidateRequest(&dto.CreateTaskRequest{}), r.handler.CreateTask)
	tasks.GET("/:id", r.handler.GetTask)
	tasks.POST("/:id/form", validation.ValidateRequest(&dto.AttachFormRequest{}), r.handler.AttachForm)
	tasks.POST("/:id/assign", validation.ValidateRequest(&dto.AssignRequest{}), r.handler.AssignTask)

	assignments := router.Group("/api/assignments")
	assignments.Use(auth)

	assignments.GET("", gzip.Gzip(gzip.DefaultCompression), r.handler.ListAssignments)
	assignments.PUT("/:id/status", validation.ValidateRequest(&dto.UpdateAssignmentStatusRequest{}), r.handler.UpdateAssignmentStatus)
	assignments.GET("/report", r.export.AssignmentReport)
}
