package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/gazelab-backend/internal/domain"
)

func respond(t *testing.T, err error) (int, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondDomainError(c, err)

	var envelope ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return rec.Code, envelope
}

func TestRespondDomainError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"duplicate", domain.ErrDuplicateExperiment, http.StatusConflict, "duplicate_experiment"},
		{"complete", domain.ErrExperimentComplete, http.StatusConflict, "experiment_complete"},
		{"validation", domain.NewValidationError("bad step numbering"), http.StatusUnprocessableEntity, "validation_failed"},
		{"transcription", &domain.TranscriptionError{Message: "bad base64"}, http.StatusBadRequest, "transcription_failed"},
		{"malformed", &domain.MalformedResponseError{Message: "drifted"}, http.StatusBadGateway, "malformed_model_response"},
		{"rate limited", &domain.UpstreamError{Kind: domain.UpstreamRateLimited, Message: "slow down"}, http.StatusBadGateway, "upstream_failed"},
		{"unavailable", &domain.UpstreamError{Kind: domain.UpstreamUnavailable, Message: "down"}, http.StatusBadGateway, "upstream_failed"},
		{"timeout", &domain.UpstreamError{Kind: domain.UpstreamTimeout, Message: "slow"}, http.StatusGatewayTimeout, "upstream_timeout"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, envelope := respond(t, tc.err)
			if status != tc.wantStatus {
				t.Fatalf("status=%d, want %d", status, tc.wantStatus)
			}
			if envelope.Error.Code != tc.wantCode {
				t.Fatalf("code=%q, want %q", envelope.Error.Code, tc.wantCode)
			}
			if envelope.Error.Message == "" {
				t.Fatalf("message empty for %v", tc.err)
			}
		})
	}
}
