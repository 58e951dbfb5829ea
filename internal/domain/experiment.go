package domain

import (
	"time"
)

// Experiment is the root record for one ingested lab manual. The manual
// supplies experiment_id, so it is not generated server side.
// CurrentStep starts at 1 and only the progression flow moves it.
type Experiment struct {
	ExperimentID int    `gorm:"column:experiment_id;primaryKey" json:"experiment_id"`
	Title        string `gorm:"column:title;not null" json:"title"`
	Objective    string `gorm:"column:objective;type:text" json:"objective"`
	CurrentStep  int    `gorm:"column:current_step;not null;default:1" json:"current_step"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Experiment) TableName() string { return "experiments" }
