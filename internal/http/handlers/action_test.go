package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/gazelab-backend/internal/domain"
	"github.com/yungbote/gazelab-backend/internal/platform/logger"
)

type fakeProgression struct {
	eval *domain.ActionEvaluation
	err  error

	gotExperimentID int
	gotAction       string
}

func (f *fakeProgression) SubmitAction(_ context.Context, experimentID int, action string) (*domain.ActionEvaluation, error) {
	f.gotExperimentID = experimentID
	f.gotAction = action
	if f.err != nil {
		return nil, f.err
	}
	return f.eval, nil
}

func postAction(t *testing.T, svc *fakeProgression, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}

	router := gin.New()
	router.POST("/action", NewActionHandler(log, svc).Submit)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/action", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	return rec
}

func TestActionSubmit(t *testing.T) {
	svc := &fakeProgression{eval: &domain.ActionEvaluation{IsCorrect: true, Observation: "The liquid drains"}}
	rec := postAction(t, svc, `{"experiment_id": 7, "action": "opened the tap"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if svc.gotExperimentID != 7 || svc.gotAction != "opened the tap" {
		t.Fatalf("service got id=%d action=%q", svc.gotExperimentID, svc.gotAction)
	}

	var eval domain.ActionEvaluation
	if err := json.Unmarshal(rec.Body.Bytes(), &eval); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if !eval.IsCorrect || eval.Observation != "The liquid drains" {
		t.Fatalf("eval: %+v", eval)
	}
}

func TestActionSubmitRejectsBadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", `not json`},
		{"missing experiment_id", `{"action": "x"}`},
		{"empty action", `{"experiment_id": 7, "action": ""}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postAction(t, &fakeProgression{}, tc.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status=%d, want 422", rec.Code)
			}
		})
	}
}

func TestActionSubmitExperimentComplete(t *testing.T) {
	rec := postAction(t, &fakeProgression{err: domain.ErrExperimentComplete}, `{"experiment_id": 7, "action": "x"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status=%d, want 409", rec.Code)
	}
}
