package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/gazelab-backend/internal/domain"
	"github.com/yungbote/gazelab-backend/internal/http/response"
	"github.com/yungbote/gazelab-backend/internal/platform/logger"
	"github.com/yungbote/gazelab-backend/internal/services"
)

type ActionHandler struct {
	log         *logger.Logger
	progression services.ProgressionService
}

func NewActionHandler(log *logger.Logger, progression services.ProgressionService) *ActionHandler {
	return &ActionHandler{
		log:         log.With("handler", "ActionHandler"),
		progression: progression,
	}
}

type submitActionRequest struct {
	ExperimentID int    `json:"experiment_id"`
	Action       string `json:"action"`
}

// Submit judges a student's described action against the current step.
func (h *ActionHandler) Submit(c *gin.Context) {
	var req submitActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondDomainError(c, domain.NewValidationError("invalid request body: %v", err))
		return
	}
	if req.ExperimentID <= 0 {
		response.RespondDomainError(c, domain.NewValidationError("experiment_id must be a positive integer"))
		return
	}
	if req.Action == "" {
		response.RespondDomainError(c, domain.NewValidationError("action must not be empty"))
		return
	}

	evaluation, err := h.progression.SubmitAction(c.Request.Context(), req.ExperimentID, req.Action)
	if err != nil {
		h.log.Error("Action evaluation failed", "experiment_id", req.ExperimentID, "error", err)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, evaluation)
}
