package domain

// ActionEvaluation is the verdict on one attempted student action. It is
// returned to the caller and never persisted. Observation is set only on a
// correct action; Message only on an incorrect one.
type ActionEvaluation struct {
	IsCorrect   bool   `json:"is_correct"`
	IsDangerous bool   `json:"is_dangerous"`
	Observation string `json:"observation,omitempty"`
	Message     string `json:"message,omitempty"`
}
