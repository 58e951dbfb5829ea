package services

import (
	"context"
	"strings"

	"github.com/yungbote/gazelab-backend/internal/domain"
	"github.com/yungbote/gazelab-backend/internal/platform/logger"
)

// AdaptationService rewrites a structured manual for eye-gaze interaction:
// instructions become gaze actions, chemicals flatten to tokens, each step
// gains an equipment_used list. The model does the rewriting; the
// deterministic pass below enforces the token and cross-reference
// invariants instead of trusting it.
type AdaptationService interface {
	Adapt(ctx context.Context, manual *domain.StructuredManual) (*domain.AdaptedManual, error)
}

type adaptationService struct {
	log *logger.Logger
	llm LLMClient
}

func NewAdaptationService(log *logger.Logger, llm LLMClient) AdaptationService {
	return &adaptationService{
		log: log.With("service", "AdaptationService"),
		llm: llm,
	}
}

func (s *adaptationService) Adapt(ctx context.Context, manual *domain.StructuredManual) (*domain.AdaptedManual, error) {
	prompt, err := buildAdaptationPrompt(manual)
	if err != nil {
		return nil, err
	}

	raw, err := s.llm.GenerateJSON(ctx, prompt, "gaze_adapted_manual", AdaptedManualSchema())
	if err != nil {
		return nil, err
	}

	var adapted domain.AdaptedManual
	if err := decodeStrict(raw, &adapted); err != nil {
		return nil, err
	}

	if adapted.ExperimentMetadata.ExperimentID != manual.ExperimentMetadata.ExperimentID {
		return nil, domain.NewValidationError(
			"adaptation changed experiment_id from %d to %d",
			manual.ExperimentMetadata.ExperimentID, adapted.ExperimentMetadata.ExperimentID)
	}
	if len(adapted.Procedure) != len(manual.Procedure) {
		return nil, domain.NewValidationError(
			"adaptation changed step count from %d to %d",
			len(manual.Procedure), len(adapted.Procedure))
	}

	adapted.MaterialsRequired.Apparatus = CanonicalTokens(adapted.MaterialsRequired.Apparatus)
	adapted.MaterialsRequired.Chemicals = CanonicalTokens(adapted.MaterialsRequired.Chemicals)

	apparatus := map[string]bool{}
	for _, a := range adapted.MaterialsRequired.Apparatus {
		apparatus[a] = true
	}

	for i := range adapted.Procedure {
		step := &adapted.Procedure[i]
		if step.StepNumber != i+1 {
			return nil, domain.NewValidationError(
				"adapted step numbers must be contiguous from 1, got %d at position %d", step.StepNumber, i+1)
		}
		step.EquipmentUsed = CanonicalTokens(step.EquipmentUsed)
		for _, eq := range step.EquipmentUsed {
			if !apparatus[eq] {
				return nil, domain.NewValidationError(
					"step %d uses equipment %q not present in the apparatus list", step.StepNumber, eq)
			}
		}
	}

	s.log.Debug("manual adapted",
		"experiment_id", adapted.ExperimentMetadata.ExperimentID,
		"precautions_kept", len(adapted.Precautions),
	)
	return &adapted, nil
}

// CanonicalToken normalizes an equipment or chemical name to the
// lowercase_with_underscores form used everywhere downstream. Idempotent:
// an already-canonical token passes through unchanged.
func CanonicalToken(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), "_")
}

func CanonicalTokens(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if t := CanonicalToken(r); t != "" {
			out = append(out, t)
		}
	}
	return out
}
