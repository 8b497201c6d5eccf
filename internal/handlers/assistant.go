package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinic-scheduling-server/internal/assistant"
	"clinic-scheduling-server/internal/utils"
)

// AssistantHandler exposes the AI diagnosis helper.
type AssistantHandler struct {
	Client *assistant.Client
}

// NewAssistantHandler creates a new AssistantHandler. Client may be nil
// when the assistant is not configured.
func NewAssistantHandler(client *assistant.Client) *AssistantHandler {
	return &AssistantHandler{Client: client}
}

// DiagnosisRequest carries the free-text symptoms.
type DiagnosisRequest struct {
	Symptoms string `json:"symptoms" binding:"required"`
}

// Diagnose returns an advisory diagnosis suggestion for the symptoms.
func (h *AssistantHandler) Diagnose(c *gin.Context) {
	if h.Client == nil {
		utils.Error(c, http.StatusServiceUnavailable, "Diagnosis assistant is not configured.")
		return
	}

	var req DiagnosisRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	suggestion, err := h.Client.Suggest(c.Request.Context(), req.Symptoms)
	if err != nil {
		utils.InternalServerError(c, "Assistant request failed: "+err.Error())
		return
	}

	utils.Success(c, "Diagnosis suggestion generated", gin.H{
		"suggestion": suggestion,
		"disclaimer": "Suggestion générée automatiquement, à confirmer par un médecin.",
	})
}
