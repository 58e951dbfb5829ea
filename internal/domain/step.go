package domain

import (
	"gorm.io/datatypes"
)

// Step is one gaze-adapted procedure step. Steps for an experiment form a
// contiguous sequence starting at 1 and are immutable after ingestion.
// EquipmentUsed holds canonical lowercase_underscore tokens that match the
// experiment's apparatus list.
type Step struct {
	ExperimentID    int            `gorm:"column:experiment_id;primaryKey" json:"experiment_id"`
	StepNumber      int            `gorm:"column:step_number;primaryKey" json:"step_number"`
	Instruction     string         `gorm:"column:instruction;type:text;not null" json:"instruction"`
	ExpectedOutcome string         `gorm:"column:expected_outcome;type:text" json:"expected_outcome"`
	EquipmentUsed   datatypes.JSON `gorm:"column:equipment_used" json:"equipment_used"`
}

func (Step) TableName() string { return "steps" }
