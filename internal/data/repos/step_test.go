package repos

import (
	"context"
	"errors"
	"testing"

	"gorm.io/datatypes"

	"github.com/yungbote/gazelab-backend/internal/data/repos/testutil"
	"github.com/yungbote/gazelab-backend/internal/domain"
)

func TestStepRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewStepRepo(db, testutil.Logger(t))

	steps := []*domain.Step{
		{ExperimentID: 201, StepNumber: 2, Instruction: "heat the solution", ExpectedOutcome: "solution boils", EquipmentUsed: datatypes.JSON([]byte(`["bunsen_burner"]`))},
		{ExperimentID: 201, StepNumber: 1, Instruction: "fill the beaker", ExpectedOutcome: "beaker half full", EquipmentUsed: datatypes.JSON([]byte(`["beaker"]`))},
		{ExperimentID: 201, StepNumber: 3, Instruction: "record the temperature", ExpectedOutcome: "reading noted", EquipmentUsed: datatypes.JSON([]byte(`["thermometer"]`))},
	}
	if err := repo.CreateMany(ctx, tx, steps); err != nil {
		t.Fatalf("CreateMany: %v", err)
	}
	if err := repo.CreateMany(ctx, tx, nil); err != nil {
		t.Fatalf("CreateMany empty: %v", err)
	}

	got, err := repo.GetByNumber(ctx, tx, 201, 2)
	if err != nil {
		t.Fatalf("GetByNumber: %v", err)
	}
	if got.Instruction != "heat the solution" {
		t.Fatalf("GetByNumber: got %+v", got)
	}
	if _, err := repo.GetByNumber(ctx, tx, 201, 9); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetByNumber missing: err=%v, want ErrNotFound", err)
	}

	list, err := repo.ListByExperiment(ctx, tx, 201)
	if err != nil {
		t.Fatalf("ListByExperiment: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("ListByExperiment: len=%d, want 3", len(list))
	}
	for i, s := range list {
		if s.StepNumber != i+1 {
			t.Fatalf("ListByExperiment order: index %d has step_number %d", i, s.StepNumber)
		}
	}

	count, err := repo.CountByExperiment(ctx, tx, 201)
	if err != nil || count != 3 {
		t.Fatalf("CountByExperiment: count=%d err=%v", count, err)
	}
	count, err = repo.CountByExperiment(ctx, tx, 999)
	if err != nil || count != 0 {
		t.Fatalf("CountByExperiment missing: count=%d err=%v", count, err)
	}
}

func TestStepRepoCreateManyRejectsNonContiguous(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewStepRepo(db, testutil.Logger(t))

	cases := []struct {
		name  string
		steps []*domain.Step
	}{
		{"gap", []*domain.Step{
			{ExperimentID: 202, StepNumber: 1, Instruction: "a"},
			{ExperimentID: 202, StepNumber: 3, Instruction: "b"},
		}},
		{"duplicate", []*domain.Step{
			{ExperimentID: 202, StepNumber: 1, Instruction: "a"},
			{ExperimentID: 202, StepNumber: 1, Instruction: "b"},
		}},
		{"starts at zero", []*domain.Step{
			{ExperimentID: 202, StepNumber: 0, Instruction: "a"},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := repo.CreateMany(ctx, tx, tc.steps)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("CreateMany: err=%v, want ValidationError", err)
			}
		})
	}

	count, err := repo.CountByExperiment(ctx, tx, 202)
	if err != nil || count != 0 {
		t.Fatalf("rejected batches left rows: count=%d err=%v", count, err)
	}
}
