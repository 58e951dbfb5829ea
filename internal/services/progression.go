package services

import (
	"context"
	"errors"

	"github.com/yungbote/gazelab-backend/internal/data/repos"
	"github.com/yungbote/gazelab-backend/internal/domain"
	"github.com/yungbote/gazelab-backend/internal/platform/logger"
)

// ProgressionService judges one attempted student action against the
// experiment's current step and advances progress when the action is
// correct. The advance is a guarded increment on the step value read at
// the start of the call, so two concurrent correct submissions for the
// same step move the experiment forward exactly once.
type ProgressionService interface {
	SubmitAction(ctx context.Context, experimentID int, action string) (*domain.ActionEvaluation, error)
}

type progressionService struct {
	log         *logger.Logger
	llm         LLMClient
	experiments repos.ExperimentRepo
	steps       repos.StepRepo
	precautions repos.PrecautionRepo
}

func NewProgressionService(
	log *logger.Logger,
	llm LLMClient,
	experiments repos.ExperimentRepo,
	steps repos.StepRepo,
	precautions repos.PrecautionRepo,
) ProgressionService {
	return &progressionService{
		log:         log.With("service", "ProgressionService"),
		llm:         llm,
		experiments: experiments,
		steps:       steps,
		precautions: precautions,
	}
}

func (s *progressionService) SubmitAction(ctx context.Context, experimentID int, action string) (*domain.ActionEvaluation, error) {
	exp, err := s.experiments.GetByID(ctx, nil, experimentID)
	if err != nil {
		return nil, err
	}

	total, err := s.steps.CountByExperiment(ctx, nil, experimentID)
	if err != nil {
		return nil, err
	}
	if int64(exp.CurrentStep) > total {
		return nil, domain.ErrExperimentComplete
	}

	row, err := s.steps.GetByNumber(ctx, nil, experimentID, exp.CurrentStep)
	if err != nil {
		return nil, err
	}
	step := stepView(row)

	var precautions []string
	if pr, err := s.precautions.GetByExperiment(ctx, nil, experimentID); err == nil {
		precautions = precautionList(pr)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	eval, err := s.evaluate(ctx, step, action, precautions)
	if err != nil {
		return nil, err
	}

	if eval.IsCorrect {
		advanced, err := s.experiments.AdvanceStep(ctx, nil, experimentID, exp.CurrentStep)
		if err != nil {
			return nil, err
		}
		if !advanced {
			// A concurrent submission won the race; the step was already
			// judged once, so no second advance.
			s.log.Warn("step already advanced by concurrent submission",
				"experiment_id", experimentID,
				"step_number", exp.CurrentStep,
			)
		} else {
			s.log.Info("step advanced",
				"experiment_id", experimentID,
				"from_step", exp.CurrentStep,
			)
		}
	}

	return eval, nil
}

type actionEvaluationWire struct {
	IsCorrect   bool   `json:"is_correct"`
	IsDangerous bool   `json:"is_dangerous"`
	Observation string `json:"observation"`
	Message     string `json:"message"`
}

func (s *progressionService) evaluate(ctx context.Context, step *domain.AdaptedStep, action string, precautions []string) (*domain.ActionEvaluation, error) {
	raw, err := s.llm.GenerateJSON(ctx,
		buildEvaluationPrompt(step, action, precautions),
		"action_evaluation", ActionEvaluationSchema())
	if err != nil {
		return nil, err
	}

	var wire actionEvaluationWire
	if err := decodeStrict(raw, &wire); err != nil {
		return nil, err
	}

	// Only three shapes are acceptable: correct, incorrect-safe,
	// incorrect-dangerous. Anything else means the model drifted.
	switch {
	case wire.IsCorrect && wire.IsDangerous:
		return nil, &domain.MalformedResponseError{
			Message: "evaluation marked the action both correct and dangerous",
		}
	case wire.IsCorrect && wire.Observation == "":
		return nil, &domain.MalformedResponseError{
			Message: "correct evaluation is missing its observation",
		}
	case !wire.IsCorrect && wire.Message == "":
		return nil, &domain.MalformedResponseError{
			Message: "incorrect evaluation is missing its message",
		}
	}

	eval := &domain.ActionEvaluation{
		IsCorrect:   wire.IsCorrect,
		IsDangerous: wire.IsDangerous,
	}
	if wire.IsCorrect {
		eval.Observation = wire.Observation
	} else {
		eval.Message = wire.Message
	}
	return eval, nil
}
