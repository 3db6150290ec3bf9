package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/masthead-press/masthead/internal/api/dto"
	"github.com/masthead-press/masthead/internal/domain/forms"
)

// FormsHandler handles HTTP requests for form definition operations
type FormsHandler struct {
	repo   forms.Repository
	syncer *forms.Syncer
}

// NewFormsHandler creates a new FormsHandler instance
func NewFormsHandler(repo forms.Repository, syncer *forms.Syncer) *FormsHandler {
	return &FormsHandler{repo: repo, syncer: syncer}
}

// CreateDefinition appends one field row to a named form group
func (h *FormsHandler) CreateDefinition(c *gin.Context) {
	var req dto.CreateDefinitionRequest
	if validatedModel, exists := c.Get("validated_model"); exists {
		if validatedPtr, ok := validatedModel.(*dto.CreateDefinitionRequest); ok {
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

	kind, err := forms.ParseItemKind(req.Kind)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d := &forms.Definition{
		FormName:      req.FormName,
		QuestionTitle: req.QuestionTitle,
		Kind:          kind,
		Options:       req.Options,
	}
	if err := h.repo.CreateDefinition(c.Request.Context(), d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": DefinitionToResponse(d)})
}

// ListGroups returns every distinct form group name
func (h *FormsHandler) ListGroups(c *gin.Context) {
	names, err := h.repo.ListGroupNames(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": names, "total": len(names)})
}

// GetGroup returns a group's field rows in definition order
func (h *FormsHandler) GetGroup(c *gin.Context) {
	name := c.Param("name")

	defs, err := h.repo.ListGroup(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(defs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": forms.ErrGroupNotFound.Error()})
		return
	}

	resp := make([]*dto.DefinitionResponse, 0, len(defs))
	for i := range defs {
		resp = append(resp, DefinitionToResponse(&defs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "total": len(resp)})
}

// GenerateForm creates the external artifact for a group that has none
func (h *FormsHandler) GenerateForm(c *gin.Context) {
	name := c.Param("name")

	artifactID, err := h.syncer.Generate(c.Request.Context(), name)
	if err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, forms.ErrGroupNotFound):
			statusCode = http.StatusNotFound
		case errors.Is(err, forms.ErrAlreadyGenerated):
			statusCode = http.StatusConflict
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": dto.GenerateFormResponse{
		FormName:   name,
		ArtifactID: artifactID,
	}})
}

// UpdateForm rebuilds the live artifact's fields from the stored rows
func (h *FormsHandler) UpdateForm(c *gin.Context) {
	name := c.Param("name")

	if err := h.syncer.Update(c.Request.Context(), name); err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, forms.ErrGroupNotFound):
			statusCode = http.StatusNotFound
		case errors.Is(err, forms.ErrNotGenerated):
			statusCode = http.StatusConflict
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "form updated"})
}
