package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/gazelab-backend/internal/domain"
	"github.com/yungbote/gazelab-backend/internal/http/response"
	"github.com/yungbote/gazelab-backend/internal/platform/logger"
	"github.com/yungbote/gazelab-backend/internal/services"
)

type ChatbotHandler struct {
	log          *logger.Logger
	conversation services.ConversationService
}

func NewChatbotHandler(log *logger.Logger, conversation services.ConversationService) *ChatbotHandler {
	return &ChatbotHandler{
		log:          log.With("handler", "ChatbotHandler"),
		conversation: conversation,
	}
}

type chatbotRequest struct {
	ExperimentID int    `json:"experiment_id"`
	Audio        string `json:"audio"`
}

type chatbotResponse struct {
	Response string `json:"response"`
}

// Ask answers a spoken question about the experiment in progress.
func (h *ChatbotHandler) Ask(c *gin.Context) {
	var req chatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondDomainError(c, domain.NewValidationError("invalid request body: %v", err))
		return
	}
	if req.ExperimentID <= 0 {
		response.RespondDomainError(c, domain.NewValidationError("experiment_id must be a positive integer"))
		return
	}

	answer, err := h.conversation.Ask(c.Request.Context(), req.ExperimentID, req.Audio)
	if err != nil {
		h.log.Error("Chatbot request failed", "experiment_id", req.ExperimentID, "error", err)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, chatbotResponse{Response: answer})
}
