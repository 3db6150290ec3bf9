package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/masthead-press/masthead/internal/api/dto"
	"github.com/masthead-press/masthead/internal/domain/member"
	"github.com/masthead-press/masthead/internal/domain/task"
)

// TaskHandler handles HTTP requests for task and assignment operations
type TaskHandler struct {
	service task.Service
}

// NewTaskHandler creates a new TaskHandler instance
func NewTaskHandler(service task.Service) *TaskHandler {
	return &TaskHandler{service: service}
}

// CreateTask creates a task. When assignee_email is present the
// composite create-and-assign path runs instead, and a failed
// assignment write is reported alongside the created task rather than
// rolling it back.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if validatedModel, exists := c.Get("validated_model"); exists {
		if validatedPtr, ok := validatedModel.(*dto.CreateTaskRequest); ok {
			req = *validatedPtr
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model type from validation"})
			return
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	input := task.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}

	if req.AssigneeEmail == "" {
		t, err := h.service.CreateTask(c.Request.Context(), input)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": TaskToResponse(t)})
		return
	}

	result, err := h.service.CreateAndAssign(c.Request.Context(), input, req.AssigneeEmail)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, task.ErrAssigneeNotFound) || errors.Is(err, member.ErrMemberNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	resp := dto.CreateAndAssignResponse{Task: *TaskToResponse(result.Task)}
	if result.Assignment != nil {
		resp.Assignment = AssignmentToResponse(result.Assignment)
	}
	if result.AssignmentErr != nil {
		resp.AssignmentError = result.AssignmentErr.Error()
	}
	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

// GetTask returns one task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	t, err := h.service.GetTask(c.Request.Context(), id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, task.ErrTaskNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": TaskToResponse(t)})
}

// ListTasks returns all tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	tasks, err := h.service.ListTasks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]*dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		resp = append(resp, TaskToResponse(&tasks[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "total": len(resp)})
}

// AttachForm links a task to a generated form group so submissions can
// auto-complete assignments
func (h *TaskHandler) AttachForm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	var req dto.AttachFormRequest
	if validatedModel, exists := c.Get("validated_model"); exists {
		if validatedPtr, ok := validatedModel.(*dto.AttachFormRequest); ok {
			req = *validatedPtr
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model type from validation"})
			return
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := h.service.AttachForm(c.Request.Context(), id, req.FormName); err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, task.ErrTaskNotFound):
			statusCode = http.StatusNotFound
		case errors.Is(err, task.ErrFormNotGenerated):
			statusCode = http.StatusConflict
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "form attached"})
}

// AssignTask creates an assignment for the task, by member ID or email
func (h *TaskHandler) AssignTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	var req dto.AssignRequest
	if validatedModel, exists := c.Get("validated_model"); exists {
		if validatedPtr, ok := validatedModel.(*dto.AssignRequest); ok {
			req = *validatedPtr
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model type from validation"})
			return
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var a *task.Assignment
	switch {
	case req.Email != "":
		a, err = h.service.AssignByEmail(c.Request.Context(), taskID, req.Email)
	case req.MemberID != "":
		var memberID uuid.UUID
		memberID, err = uuid.Parse(req.MemberID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member ID"})
			return
		}
		a, err = h.service.Assign(c.Request.Context(), taskID, memberID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "member_id or email is required"})
		return
	}

	if err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, task.ErrTaskNotFound),
			errors.Is(err, task.ErrAssigneeNotFound),
			errors.Is(err, member.ErrMemberNotFound):
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": AssignmentToResponse(a)})
}

// ListAssignments returns all assignments
func (h *TaskHandler) ListAssignments(c *gin.Context) {
	assignments, err := h.service.ListAssignments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]*dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		resp = append(resp, AssignmentToResponse(&assignments[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "total": len(resp)})
}

// UpdateAssignmentStatus transitions an assignment's status
func (h *TaskHandler) UpdateAssignmentStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignment ID"})
		return
	}

	var req dto.UpdateAssignmentStatusRequest
	if validatedModel, exists := c.Get("validated_model"); exists {
		if validatedPtr, ok := validatedModel.(*dto.UpdateAssignmentStatusRequest); ok {
			req = *validatedPtr
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model type from validation"})
			return
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	a, err := h.service.UpdateAssignmentStatus(c.Request.Context(), id, task.AssignmentStatus(req.Status))
	if err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, task.ErrAssignmentNotFound):
			statusCode = http.StatusNotFound
		case errors.Is(err, task.ErrInvalidStatus):
			statusCode = http.StatusBadRequest
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": AssignmentToResponse(a)})
}
