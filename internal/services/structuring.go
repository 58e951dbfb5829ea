package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/yungbote/gazelab-backend/internal/domain"
	"github.com/yungbote/gazelab-backend/internal/platform/logger"
)

// StructuringService turns raw extracted manual text into the structured
// experiment shape via one schema-constrained language-model call.
type StructuringService interface {
	Structure(ctx context.Context, manualText string) (*domain.StructuredManual, error)
}

type structuringService struct {
	log *logger.Logger
	llm LLMClient
}

func NewStructuringService(log *logger.Logger, llm LLMClient) StructuringService {
	return &structuringService{
		log: log.With("service", "StructuringService"),
		llm: llm,
	}
}

func (s *structuringService) Structure(ctx context.Context, manualText string) (*domain.StructuredManual, error) {
	raw, err := s.llm.GenerateJSON(ctx, buildStructuringPrompt(manualText), "lab_manual", StructuredManualSchema())
	if err != nil {
		return nil, err
	}

	var manual domain.StructuredManual
	if err := decodeStrict(raw, &manual); err != nil {
		return nil, err
	}

	if len(manual.Procedure) == 0 {
		return nil, domain.NewValidationError("structured manual has no procedure steps")
	}
	for i, step := range manual.Procedure {
		if step.StepNumber != i+1 {
			return nil, domain.NewValidationError(
				"step numbers must be contiguous from 1, got %d at position %d", step.StepNumber, i+1)
		}
		if strings.TrimSpace(step.Instruction) == "" {
			return nil, domain.NewValidationError("step %d has an empty instruction", step.StepNumber)
		}
	}

	s.log.Debug("manual structured",
		"experiment_id", manual.ExperimentMetadata.ExperimentID,
		"steps", len(manual.Procedure),
	)
	return &manual, nil
}

// decodeStrict parses a model reply into the expected shape. Unknown
// fields and truncated JSON both mean the service drifted from the schema,
// which in practice signals rate limiting or a cut-off reply.
func decodeStrict(raw json.RawMessage, out any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return &domain.MalformedResponseError{
			Message: "language service reply did not match the expected shape, try again in a few minutes",
			Cause:   err,
		}
	}
	return nil
}
