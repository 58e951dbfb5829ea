package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/yungbote/gazelab-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

// fakeLLM plays back canned replies and records the prompts it saw.
type fakeLLM struct {
	mu sync.Mutex

	jsonOut json.RawMessage
	jsonErr error
	textOut string
	textErr error

	// Per-call overrides keyed by schema name, for tests that drive two
	// different structured calls through one fake.
	jsonBySchema map[string]json.RawMessage

	prompts     []string
	schemaNames []string
}

func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string, schemaName string, _ map[string]any) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	f.schemaNames = append(f.schemaNames, schemaName)
	if f.jsonErr != nil {
		return nil, f.jsonErr
	}
	if out, ok := f.jsonBySchema[schemaName]; ok {
		return out, nil
	}
	return f.jsonOut, nil
}

func (f *fakeLLM) GenerateText(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.textErr != nil {
		return "", f.textErr
	}
	return f.textOut, nil
}

func (f *fakeLLM) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

// fakeSpeech satisfies gcp.Speech without a network round-trip.
type fakeSpeech struct {
	text string
	err  error

	lastAudio []byte
	lastMime  string
}

func (f *fakeSpeech) TranscribeAudio(_ context.Context, audio []byte, mimeType string) (string, error) {
	f.lastAudio = audio
	f.lastMime = mimeType
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeSpeech) Close() error { return nil }

// fakeDocument satisfies gcp.Document for ingestion tests.
type fakeDocument struct {
	text string
	err  error
}

func (f *fakeDocument) ExtractText(_ context.Context, _ []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeDocument) Close() error { return nil }
