package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/masthead-press/masthead/internal/api/dto"
	"github.com/masthead-press/masthead/internal/domain/sysconfig"
)

// SysconfigHandler handles HTTP requests for runtime configuration
type SysconfigHandler struct {
	service sysconfig.Service
}

// NewSysconfigHandler creates a new SysconfigHandler instance
func NewSysconfigHandler(service sysconfig.Service) *SysconfigHandler {
	return &SysconfigHandler{service: service}
}

// ListConfig returns every configuration key with defaults applied
func (h *SysconfigHandler) ListConfig(c *gin.Context) {
	all, err := h.service.All(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": all})
}

// GetConfig returns one configuration value
func (h *SysconfigHandler) GetConfig(c *gin.Context) {
	key := c.Param("key")

	value, err := h.service.Get(c.Request.Context(), key)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, sysconfig.ErrKeyNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"key": key, "value": value}})
}

// SetConfig writes one configuration value
func (h *SysconfigHandler) SetConfig(c *gin.Context) {
	key := c.Param("key")

	var req dto.SetConfigRequest
	if validatedModel, exists := c.Get("validated_model"); exists {
		if validatedPtr, ok := validatedModel.(*dto.SetConfigRequest); ok {
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

	if err := h.service.Set(c.Request.Context(), key, req.Value); err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, sysconfig.ErrKeyNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "config updated"})
}
