package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/gazelab-backend/internal/domain"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondDomainError maps the error taxonomy onto HTTP statuses. Every
// failure carries a human-readable detail; nothing is swallowed.
func RespondDomainError(c *gin.Context, err error) {
	var (
		validationErr    *domain.ValidationError
		upstreamErr      *domain.UpstreamError
		malformedErr     *domain.MalformedResponseError
		transcriptionErr *domain.TranscriptionError
	)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, domain.ErrDuplicateExperiment):
		RespondError(c, http.StatusConflict, "duplicate_experiment", err)
	case errors.Is(err, domain.ErrExperimentComplete):
		RespondError(c, http.StatusConflict, "experiment_complete", err)
	case errors.As(err, &validationErr):
		RespondError(c, http.StatusUnprocessableEntity, "validation_failed", err)
	case errors.As(err, &transcriptionErr):
		RespondError(c, http.StatusBadRequest, "transcription_failed", err)
	case errors.As(err, &malformedErr):
		RespondError(c, http.StatusBadGateway, "malformed_model_response", err)
	case errors.As(err, &upstreamErr):
		if upstreamErr.Kind == domain.UpstreamTimeout {
			RespondError(c, http.StatusGatewayTimeout, "upstream_timeout", err)
			return
		}
		RespondError(c, http.StatusBadGateway, "upstream_failed", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}
