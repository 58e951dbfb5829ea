package domain

// Wire shapes for the two structuring passes over a lab manual. The
// structured form is what the parser model emits from raw manual text; the
// adapted form is the gaze-adapted version that gets persisted and returned
// to the frontend. They differ only in the chemical representation and the
// per-step equipment list.

type ManualMetadata struct {
	ExperimentID int    `json:"experiment_id"`
	Title        string `json:"title"`
	Objective    string `json:"objective"`
}

type ChemicalSpec struct {
	Name          string `json:"name"`
	Concentration string `json:"concentration"`
}

type StructuredMaterials struct {
	Apparatus []string       `json:"apparatus"`
	Chemicals []ChemicalSpec `json:"chemicals"`
}

type StructuredStep struct {
	StepNumber      int    `json:"step_number"`
	Instruction     string `json:"instruction"`
	ExpectedOutcome string `json:"expected_outcome"`
}

type StructuredManual struct {
	ExperimentMetadata ManualMetadata      `json:"experiment_metadata"`
	MaterialsRequired  StructuredMaterials `json:"materials_required"`
	Procedure          []StructuredStep    `json:"procedure"`
	Precautions        []string            `json:"precautions"`
}

type AdaptedMaterials struct {
	Apparatus []string `json:"apparatus"`
	Chemicals []string `json:"chemicals"`
}

type AdaptedStep struct {
	StepNumber      int      `json:"step_number"`
	Instruction     string   `json:"instruction"`
	ExpectedOutcome string   `json:"expected_outcome"`
	EquipmentUsed   []string `json:"equipment_used"`
}

type AdaptedManual struct {
	ExperimentMetadata ManualMetadata   `json:"experiment_metadata"`
	MaterialsRequired  AdaptedMaterials `json:"materials_required"`
	Procedure          []AdaptedStep    `json:"procedure"`
	Precautions        []string         `json:"precautions"`
}
