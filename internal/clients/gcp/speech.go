package gcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yungbote/gazelab-backend/internal/domain"
	"github.com/yungbote/gazelab-backend/internal/platform/envutil"
	"github.com/yungbote/gazelab-backend/internal/platform/logger"
)

// Speech turns a short recorded student question into text. Clips are a
// few seconds of browser-recorded audio, so the synchronous Recognize API
// is enough; no long-running operation handling.
type Speech interface {
	TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error)
	Close() error
}

type speechClient struct {
	log          *logger.Logger
	client       *speech.Client
	languageCode string
}

func NewSpeech(log *logger.Logger) (Speech, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("service", "gcp.Speech")

	c, err := speech.NewClient(context.Background(), ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}

	return &speechClient{
		log:          slog,
		client:       c,
		languageCode: envutil.Str("SPEECH_LANGUAGE_CODE", "en-US"),
	}, nil
}

func (s *speechClient) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *speechClient) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(envutil.Int("SPEECH_TIMEOUT_SECONDS", 60))*time.Second)
	defer cancel()

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			LanguageCode:               s.languageCode,
			Encoding:                   inferEncoding(mimeType),
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}

	resp, err := s.client.Recognize(ctx, req)
	if err != nil {
		return "", classifyRecognize(err)
	}

	var full strings.Builder
	for _, r := range resp.GetResults() {
		if r == nil || len(r.Alternatives) == 0 || r.Alternatives[0] == nil {
			continue
		}
		t := strings.TrimSpace(r.Alternatives[0].Transcript)
		if t == "" {
			continue
		}
		if full.Len() > 0 {
			full.WriteString(" ")
		}
		full.WriteString(t)
	}
	return strings.TrimSpace(full.String()), nil
}

func inferEncoding(mimeType string) speechpb.RecognitionConfig_AudioEncoding {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.Contains(m, "wav"):
		return speechpb.RecognitionConfig_LINEAR16
	case strings.Contains(m, "flac"):
		return speechpb.RecognitionConfig_FLAC
	case strings.Contains(m, "mp3"):
		return speechpb.RecognitionConfig_MP3
	case strings.Contains(m, "ogg"), strings.Contains(m, "opus"), strings.Contains(m, "webm"):
		return speechpb.RecognitionConfig_WEBM_OPUS
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}

// classifyRecognize maps Recognize failures. Invalid or unsupported audio
// content is rejected with InvalidArgument/FailedPrecondition: that is the
// student's clip, not the service, so it surfaces as a TranscriptionError
// rather than an upstream failure.
func classifyRecognize(err error) error {
	switch status.Code(err) {
	case codes.InvalidArgument, codes.FailedPrecondition:
		return &domain.TranscriptionError{
			Message: "audio could not be transcribed, record the question again",
			Cause:   err,
		}
	default:
		return classifyGRPC("speech recognize", err)
	}
}

// classifyGRPC maps a gRPC failure onto the upstream taxonomy. There is no
// client-side retry: the student is in the loop and decides whether to try
// again.
func classifyGRPC(op string, err error) error {
	switch status.Code(err) {
	case codes.ResourceExhausted:
		return &domain.UpstreamError{
			Kind:    domain.UpstreamRateLimited,
			Message: "speech service rate limit exceeded, wait a few minutes and try again",
			Cause:   err,
		}
	case codes.Unavailable:
		return &domain.UpstreamError{
			Kind:    domain.UpstreamUnavailable,
			Message: "speech service temporarily unavailable, try again shortly",
			Cause:   err,
		}
	case codes.DeadlineExceeded:
		return &domain.UpstreamError{
			Kind:    domain.UpstreamTimeout,
			Message: "speech service timed out",
			Cause:   err,
		}
	default:
		return &domain.UpstreamError{
			Kind:    domain.UpstreamOther,
			Message: op + " failed",
			Cause:   err,
		}
	}
}
