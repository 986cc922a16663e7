package shim

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portal-client/internal/notion"
	"portal-client/internal/shared/server/respond"
	"portal-client/internal/shared/telemetry"
)

// PageCreator is the slice of the Notion client the shim needs.
type PageCreator interface {
	CreateSubmission(ctx context.Context, sub notion.Submission) error
}

// Handler serves the contact endpoints backed by a Notion database.
type Handler struct {
	notion PageCreator
}

// NewHandler constructs a contact handler.
func NewHandler(pages PageCreator) *Handler {
	return &Handler{notion: pages}
}

// contactRequest mirrors the frontend form payload.
type contactRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Subject       string `json:"subject"`
	Message       string `json:"message"`
	WeChat        string `json:"wechat"`
	SelectedMedia string `json:"selectedMedia"`
	HasAttachment string `json:"hasAttachment"`
}

// RegisterRoutes attaches the shim's routes to the router group. Any
// throttle handlers apply to the contact endpoint only; health stays
// unthrottled for probes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, throttle ...gin.HandlerFunc) {
	rg.GET("/health", h.health)
	rg.POST("/contact", append(throttle, h.submitContact)...)
}

func (h *Handler) health(c *gin.Context) {
	respond.OK(c, gin.H{"status": "ok", "message": "Notion Contact API is running"})
}

func (h *Handler) submitContact(c *gin.Context) {
	if h.notion == nil {
		respond.Error(c, http.StatusInternalServerError, "config", "Notion database ID not set.", nil)
		return
	}

	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "Invalid request body.", nil)
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		respond.Error(c, http.StatusBadRequest, "bad_request", "Name and email are required.", nil)
		return
	}

	sub := notion.Submission{
		Name:          req.Name,
		Email:         req.Email,
		Subject:       req.Subject,
		Message:       req.Message,
		WeChat:        req.WeChat,
		SelectedMedia: req.SelectedMedia,
		HasAttachment: req.HasAttachment,
	}
	if err := h.notion.CreateSubmission(c.Request.Context(), sub); err != nil {
		telemetry.Error("contact.submit_failed", map[string]any{"error": err.Error()})
		respond.Error(c, http.StatusInternalServerError, "notion", "Failed to submit to Notion.", err.Error())
		return
	}

	respond.OK(c, gin.H{"message": "Form submitted to Notion successfully!"})
}
