package services

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/yungbote/gazelab-backend/internal/clients/gcp"
	"github.com/yungbote/gazelab-backend/internal/domain"
	"github.com/yungbote/gazelab-backend/internal/platform/logger"
)

// TranscriptionService decodes a browser-recorded base64 audio clip and
// hands the bytes to the speech service. Browsers send data URLs with
// unpadded base64, so both quirks are normalized before decoding.
type TranscriptionService interface {
	// Transcribe returns the transcript, or "" for empty input (a student
	// who recorded nothing is not an error).
	Transcribe(ctx context.Context, base64Audio string) (string, error)
}

type transcriptionService struct {
	log    *logger.Logger
	speech gcp.Speech
}

func NewTranscriptionService(log *logger.Logger, speech gcp.Speech) TranscriptionService {
	return &transcriptionService{
		log:    log.With("service", "TranscriptionService"),
		speech: speech,
	}
}

func (s *transcriptionService) Transcribe(ctx context.Context, base64Audio string) (string, error) {
	payload := strings.TrimSpace(base64Audio)
	if payload == "" {
		return "", nil
	}

	mimeType := "audio/webm"
	if idx := strings.Index(payload, ","); idx >= 0 {
		// data:audio/webm;base64,<payload>
		header := payload[:idx]
		payload = payload[idx+1:]
		if m := parseDataURLMime(header); m != "" {
			mimeType = m
		}
	}
	if pad := len(payload) % 4; pad != 0 {
		payload += strings.Repeat("=", 4-pad)
	}

	audio, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", &domain.TranscriptionError{Message: "audio is not valid base64", Cause: err}
	}
	if len(audio) == 0 {
		return "", nil
	}

	text, err := s.speech.TranscribeAudio(ctx, audio, mimeType)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func parseDataURLMime(header string) string {
	header = strings.TrimPrefix(strings.TrimSpace(header), "data:")
	if idx := strings.IndexAny(header, ";,"); idx >= 0 {
		header = header[:idx]
	}
	return strings.TrimSpace(header)
}
