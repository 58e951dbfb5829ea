package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/gazelab-backend/internal/data/repos"
	"github.com/yungbote/gazelab-backend/internal/data/repos/testutil"
	"github.com/yungbote/gazelab-backend/internal/domain"
)

func manualReplies(experimentID int) map[string]json.RawMessage {
	structured := fmt.Sprintf(`{
		"experiment_metadata": {"experiment_id": %d, "title": "Titration", "objective": "Find the concentration of HCl"},
		"materials_required": {"apparatus": ["Burette"], "chemicals": [{"name": "HCl", "concentration": "unknown"}]},
		"procedure": [
			{"step_number": 1, "instruction": "Rinse the burette", "expected_outcome": "Burette is clean"},
			{"step_number": 2, "instruction": "Fill the burette", "expected_outcome": "Filled to zero"}
		],
		"precautions": ["Wear safety goggles"]
	}`, experimentID)
	adapted := fmt.Sprintf(`{
		"experiment_metadata": {"experiment_id": %d, "title": "Titration", "objective": "Find the concentration of HCl"},
		"materials_required": {"apparatus": ["burette"], "chemicals": ["hcl"]},
		"procedure": [
			{"step_number": 1, "instruction": "Gaze at the burette to rinse it", "expected_outcome": "Burette is clean", "equipment_used": ["burette"]},
			{"step_number": 2, "instruction": "Gaze at the burette to fill it", "expected_outcome": "Filled to zero", "equipment_used": ["burette"]}
		],
		"precautions": ["Wear safety goggles"]
	}`, experimentID)
	return map[string]json.RawMessage{
		"lab_manual":          json.RawMessage(structured),
		"gaze_adapted_manual": json.RawMessage(adapted),
	}
}

func newIngest(t *testing.T, db *gorm.DB, document *fakeDocument, llm LLMClient) IngestService {
	t.Helper()
	log := testutil.Logger(t)
	return NewIngestService(log, db, document,
		NewStructuringService(log, llm),
		NewAdaptationService(log, llm),
		repos.NewExperimentRepo(db, log),
		repos.NewStepRepo(db, log),
		repos.NewPrecautionRepo(db, log))
}

func TestIngestManual(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	llm := &fakeLLM{jsonBySchema: manualReplies(501)}
	svc := newIngest(t, db, &fakeDocument{text: "extracted manual text"}, llm)

	adapted, err := svc.IngestManual(ctx, []byte("%PDF-1.4"), "application/pdf")
	if err != nil {
		t.Fatalf("IngestManual: %v", err)
	}
	if adapted.ExperimentMetadata.ExperimentID != 501 || len(adapted.Procedure) != 2 {
		t.Fatalf("adapted: %+v", adapted.ExperimentMetadata)
	}

	exp, err := repos.NewExperimentRepo(db, log).GetByID(ctx, nil, 501)
	if err != nil {
		t.Fatalf("persisted experiment: %v", err)
	}
	if exp.CurrentStep != 1 || exp.Title != "Titration" {
		t.Fatalf("experiment row: %+v", exp)
	}

	count, err := repos.NewStepRepo(db, log).CountByExperiment(ctx, nil, 501)
	if err != nil || count != 2 {
		t.Fatalf("persisted steps: count=%d err=%v", count, err)
	}
	if _, err := repos.NewPrecautionRepo(db, log).GetByExperiment(ctx, nil, 501); err != nil {
		t.Fatalf("persisted precautions: %v", err)
	}
}

func TestIngestManualEmptyExtraction(t *testing.T) {
	db := testutil.DB(t)
	svc := newIngest(t, db, &fakeDocument{text: "   \n"}, &fakeLLM{})

	_, err := svc.IngestManual(context.Background(), []byte("%PDF-1.4"), "application/pdf")
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err=%v, want ValidationError for empty extraction", err)
	}
}

func TestIngestManualDuplicateRollsBack(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	seedExperiment(t, db, 502, 1)
	before, _ := repos.NewStepRepo(db, log).CountByExperiment(ctx, nil, 502)

	llm := &fakeLLM{jsonBySchema: manualReplies(502)}
	svc := newIngest(t, db, &fakeDocument{text: "extracted manual text"}, llm)

	_, err := svc.IngestManual(ctx, []byte("%PDF-1.4"), "application/pdf")
	if !errors.Is(err, domain.ErrDuplicateExperiment) {
		t.Fatalf("err=%v, want ErrDuplicateExperiment", err)
	}

	// The failed ingestion must not leave step rows from its transaction.
	after, _ := repos.NewStepRepo(db, log).CountByExperiment(ctx, nil, 502)
	if after != before {
		t.Fatalf("step rows leaked from a rolled-back ingestion: before=%d after=%d", before, after)
	}
}

// failingStepRepo breaks the persistence sequence after the experiment
// row is already written inside the transaction.
type failingStepRepo struct {
	repos.StepRepo
}

func (f *failingStepRepo) CreateMany(_ context.Context, _ *gorm.DB, _ []*domain.Step) error {
	return errors.New("disk full")
}

func TestIngestManualMidSequenceFailureRollsBack(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	llm := &fakeLLM{jsonBySchema: manualReplies(503)}
	svc := NewIngestService(log, db, &fakeDocument{text: "extracted manual text"},
		NewStructuringService(log, llm),
		NewAdaptationService(log, llm),
		repos.NewExperimentRepo(db, log),
		&failingStepRepo{StepRepo: repos.NewStepRepo(db, log)},
		repos.NewPrecautionRepo(db, log))

	if _, err := svc.IngestManual(ctx, []byte("%PDF-1.4"), "application/pdf"); err == nil {
		t.Fatalf("expected step persistence failure")
	}

	// The experiment row was written before the step failure; the
	// transaction must have taken it back out.
	if _, err := repos.NewExperimentRepo(db, log).GetByID(ctx, nil, 503); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("experiment row survived a failed ingestion: err=%v, want ErrNotFound", err)
	}
	if _, err := repos.NewPrecautionRepo(db, log).GetByExperiment(ctx, nil, 503); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("precaution row survived a failed ingestion: err=%v, want ErrNotFound", err)
	}
}

func TestIngestManualExtractionFailure(t *testing.T) {
	db := testutil.DB(t)
	upstream := &domain.UpstreamError{Kind: domain.UpstreamUnavailable, Message: "document service down"}
	svc := newIngest(t, db, &fakeDocument{err: upstream}, &fakeLLM{})

	_, err := svc.IngestManual(context.Background(), []byte("%PDF-1.4"), "application/pdf")
	var ue *domain.UpstreamError
	if !errors.As(err, &ue) || ue.Kind != domain.UpstreamUnavailable {
		t.Fatalf("err=%v, want unavailable UpstreamError", err)
	}
}
