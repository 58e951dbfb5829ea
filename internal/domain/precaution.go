package domain

import (
	"gorm.io/datatypes"
)

// Precaution holds the ordered safety-precaution list for one experiment,
// already filtered to gaze-relevant concerns during adaptation.
type Precaution struct {
	ExperimentID int            `gorm:"column:experiment_id;primaryKey" json:"experiment_id"`
	Precautions  datatypes.JSON `gorm:"column:precautions" json:"precautions"`
}

func (Precaution) TableName() string { return "precautions" }
