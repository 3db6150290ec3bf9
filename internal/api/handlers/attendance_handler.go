package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/masthead-press/masthead/internal/api/dto"
	"github.com/masthead-press/masthead/internal/domain/attendance"
)

// AttendanceHandler handles HTTP requests for event attendance
type AttendanceHandler struct {
	service attendance.Service
}

// NewAttendanceHandler creates a new AttendanceHandler instance
func NewAttendanceHandler(service attendance.Service) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// InviteRoster creates one Invited entry per member for an event
func (h *AttendanceHandler) InviteRoster(c *gin.Context) {
	var req dto.InviteRosterRequest
	if validatedModel, exists := c.Get("validated_model"); exists {
		if validatedPtr, ok := validatedModel.(*dto.InviteRosterRequest); ok {
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

	memberIDs := make([]uuid.UUID, 0, len(req.MemberIDs))
	for _, raw := range req.MemberIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member ID: " + raw})
			return
		}
		memberIDs = append(memberIDs, id)
	}

	eventID, err := h.service.InviteRoster(c.Request.Context(), req.EventName, req.Date, memberIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{
		"event_id": eventID.String(),
		"invited":  len(memberIDs),
	}})
}

// MarkAttended flips a member's first matching entry to Attended
func (h *AttendanceHandler) MarkAttended(c *gin.Context) {
	memberID, err := uuid.Parse(c.Param("member_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member ID"})
		return
	}
	eventName := c.Query("event_name")
	if eventName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_name is required"})
		return
	}

	if err := h.service.MarkAttended(c.Request.Context(), memberID, eventName); err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, attendance.ErrEntryNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "attendance confirmed"})
}

// ListByMember returns a member's attendance log
func (h *AttendanceHandler) ListByMember(c *gin.Context) {
	memberID, err := uuid.Parse(c.Param("member_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member ID"})
		return
	}

	entries, err := h.service.ListByMember(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]*dto.AttendanceEntryResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, AttendanceEntryToResponse(&entries[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "total": len(resp)})
}

// ListByEvent returns every entry for one event invitation
func (h *AttendanceHandler) ListByEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("event_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event ID"})
		return
	}

	entries, err := h.service.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]*dto.AttendanceEntryResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, AttendanceEntryToResponse(&entries[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "total": len(resp)})
}
