package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/masthead-press/masthead/internal/api/dto"
	"github.com/masthead-press/masthead/internal/domain/member"
	"github.com/masthead-press/masthead/pkg/logger"
)

var log = logger.NewLogger()

// MemberHandler handles HTTP requests for staff member operations
type MemberHandler struct {
	service member.Service
}

// NewMemberHandler creates a new MemberHandler instance
func NewMemberHandler(service member.Service) *MemberHandler {
	return &MemberHandler{service: service}
}

// CreateMember registers a new staff member
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req dto.CreateMemberRequest
	if validatedModel, exists := c.Get("validated_model"); exists {
		if validatedPtr, ok := validatedModel.(*dto.CreateMemberRequest); ok {
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

	m, err := h.service.Create(c.Request.Context(), req.FullName, req.Email, req.Role)
	if err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, member.ErrInvalidRole):
			statusCode = http.StatusBadRequest
		case errors.Is(err, member.ErrEmailTaken):
			statusCode = http.StatusConflict
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": MemberToResponse(m)})
}

// GetMember returns one member by ID
func (h *MemberHandler) GetMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member ID"})
		return
	}

	m, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, member.ErrMemberNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": MemberToResponse(m)})
}

// ListMembers returns the roster. Archived members are excluded unless
// ?include_archived=true.
func (h *MemberHandler) ListMembers(c *gin.Context) {
	query := &dto.ListMembersQuery{}
	if validated, exists := c.Get("validated_query"); exists {
		query = validated.(*dto.ListMembersQuery)
	} else if err := c.ShouldBindQuery(query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	members, err := h.service.List(c.Request.Context(), query.IncludeArchived)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]*dto.MemberResponse, 0, len(members))
	for i := range members {
		resp = append(resp, MemberToResponse(&members[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "total": len(resp)})
}

// ChangeRole updates a member's role
func (h *MemberHandler) ChangeRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member ID"})
		return
	}

	var req dto.ChangeRoleRequest
	if validatedModel, exists := c.Get("validated_model"); exists {
		if validatedPtr, ok := validatedModel.(*dto.ChangeRoleRequest); ok {
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

	if err := h.service.ChangeRole(c.Request.Context(), id, req.Role); err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, member.ErrMemberNotFound):
			statusCode = http.StatusNotFound
		case errors.Is(err, member.ErrInvalidRole):
			statusCode = http.StatusBadRequest
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}

// ArchiveMember soft-removes a member from the active roster
func (h *MemberHandler) ArchiveMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member ID"})
		return
	}

	if err := h.service.Archive(c.Request.Context(), id); err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, member.ErrMemberNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "member archived"})
}
