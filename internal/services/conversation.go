package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/gazelab-backend/internal/data/repos"
	"github.com/yungbote/gazelab-backend/internal/domain"
	"github.com/yungbote/gazelab-backend/internal/platform/logger"
)

// ConversationService answers a spoken student question with the full
// experiment context folded into a single free-text prompt. Plain text in,
// plain text out; no JSON contract on this path.
type ConversationService interface {
	Ask(ctx context.Context, experimentID int, base64Audio string) (string, error)
}

type conversationService struct {
	log           *logger.Logger
	llm           LLMClient
	transcription TranscriptionService
	experiments   repos.ExperimentRepo
	steps         repos.StepRepo
	precautions   repos.PrecautionRepo
}

func NewConversationService(
	log *logger.Logger,
	llm LLMClient,
	transcription TranscriptionService,
	experiments repos.ExperimentRepo,
	steps repos.StepRepo,
	precautions repos.PrecautionRepo,
) ConversationService {
	return &conversationService{
		log:           log.With("service", "ConversationService"),
		llm:           llm,
		transcription: transcription,
		experiments:   experiments,
		steps:         steps,
		precautions:   precautions,
	}
}

func (s *conversationService) Ask(ctx context.Context, experimentID int, base64Audio string) (string, error) {
	question, err := s.transcription.Transcribe(ctx, base64Audio)
	if err != nil {
		return "", err
	}

	exp, err := s.experiments.GetByID(ctx, nil, experimentID)
	if err != nil {
		return "", err
	}

	rows, err := s.steps.ListByExperiment(ctx, nil, experimentID)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", domain.ErrNotFound
	}

	// A finished experiment still answers questions, anchored to the
	// final step's context.
	currentIdx := exp.CurrentStep - 1
	if currentIdx >= len(rows) {
		currentIdx = len(rows) - 1
	}
	current := stepView(rows[currentIdx])

	allSteps := make([]string, 0, len(rows))
	for _, row := range rows {
		allSteps = append(allSteps, fmt.Sprintf("Step %d: %s", row.StepNumber, row.Instruction))
	}

	var precautions []string
	if pr, err := s.precautions.GetByExperiment(ctx, nil, experimentID); err == nil {
		precautions = precautionList(pr)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	reply, err := s.llm.GenerateText(ctx, buildChatPrompt(exp, current, allSteps, precautions, question))
	if err != nil {
		return "", err
	}

	s.log.Debug("chat answered", "experiment_id", experimentID)
	return reply, nil
}
