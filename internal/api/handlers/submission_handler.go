package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/masthead-press/masthead/internal/api/dto"
	"github.com/masthead-press/masthead/internal/domain/events"
	"github.com/masthead-press/masthead/internal/domain/submission"
	"github.com/masthead-press/masthead/pkg/broker"
)

// SubmissionHandler accepts form-provider webhook callbacks and serves
// the submission audit log. The webhook only validates and publishes;
// all routing happens asynchronously on the broker consumer, so the
// provider gets a fast 202 and retries never block on downstream work.
type SubmissionHandler struct {
	messageBroker broker.MessageBroker
	repo          submission.Repository
}

// NewSubmissionHandler creates a new SubmissionHandler instance
func NewSubmissionHandler(messageBroker broker.MessageBroker, repo submission.Repository) *SubmissionHandler {
	return &SubmissionHandler{messageBroker: messageBroker, repo: repo}
}

// ReceiveWebhook validates a provider callback and publishes it for routing
func (h *SubmissionHandler) ReceiveWebhook(c *gin.Context) {
	var req dto.SubmissionWebhookRequest
	if validatedModel, exists := c.Get("validated_model"); exists {
		if validatedPtr, ok := validatedModel.(*dto.SubmissionWebhookRequest); ok {
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

	receivedAt := time.Now().UTC()
	if req.ReceivedAt != nil {
		receivedAt = req.ReceivedAt.UTC()
	}

	ev := events.SubmissionReceived{
		FormArtifactID:  req.FormArtifactID,
		RespondentEmail: req.RespondentEmail,
		ReceivedAt:      receivedAt,
	}
	for _, item := range req.Items {
		ev.Items = append(ev.Items, events.ItemResponse{
			Title:  item.Title,
			Answer: item.Answer,
		})
	}

	payload, err := json.Marshal(&ev)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode submission"})
		return
	}

	attrs := map[string]string{"form_artifact_id": ev.FormArtifactID}
	if err := h.messageBroker.Publish(c.Request.Context(), events.TopicSubmissions, payload, attrs); err != nil {
		log.Error("Failed to publish submission event",
			zap.Error(err),
			zap.String("form_artifact_id", ev.FormArtifactID))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "submission could not be queued"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "submission accepted"})
}

// ListSubmissions returns the audit log, optionally filtered by artifact
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	var (
		records []submission.Record
		err     error
	)
	if artifactID := c.Query("form_artifact_id"); artifactID != "" {
		records, err = h.repo.FindByArtifact(c.Request.Context(), artifactID)
	} else {
		records, err = h.repo.FindAll(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]*dto.SubmissionResponse, 0, len(records))
	for i := range records {
		resp = append(resp, SubmissionToResponse(&records[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp, "total": len(resp)})
}
