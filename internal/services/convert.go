package services

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/yungbote/gazelab-backend/internal/domain"
)

func stepRecord(experimentID int, step domain.AdaptedStep) (*domain.Step, error) {
	equipment, err := json.Marshal(step.EquipmentUsed)
	if err != nil {
		return nil, err
	}
	return &domain.Step{
		ExperimentID:    experimentID,
		StepNumber:      step.StepNumber,
		Instruction:     step.Instruction,
		ExpectedOutcome: step.ExpectedOutcome,
		EquipmentUsed:   datatypes.JSON(equipment),
	}, nil
}

func stepView(row *domain.Step) *domain.AdaptedStep {
	var equipment []string
	if len(row.EquipmentUsed) > 0 {
		_ = json.Unmarshal(row.EquipmentUsed, &equipment)
	}
	return &domain.AdaptedStep{
		StepNumber:      row.StepNumber,
		Instruction:     row.Instruction,
		ExpectedOutcome: row.ExpectedOutcome,
		EquipmentUsed:   equipment,
	}
}

func precautionList(row *domain.Precaution) []string {
	if row == nil || len(row.Precautions) == 0 {
		return nil
	}
	var out []string
	_ = json.Unmarshal(row.Precautions, &out)
	return out
}
