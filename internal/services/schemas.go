package services

// Strict JSON schemas for the structured-completion calls. The OpenAI
// strict mode requires additionalProperties:false and every property
// listed in required, so optional evaluation fields allow empty strings
// and are enforced in code instead.

func stringSchema() map[string]any {
	return map[string]any{"type": "string"}
}

func intSchema() map[string]any {
	return map[string]any{"type": "integer"}
}

func stringArraySchema() map[string]any {
	return map[string]any{"type": "array", "items": stringSchema()}
}

func objectSchema(properties map[string]any, required []string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

func metadataSchema() map[string]any {
	return objectSchema(map[string]any{
		"experiment_id": intSchema(),
		"title":         stringSchema(),
		"objective":     stringSchema(),
	}, []string{"experiment_id", "title", "objective"})
}

// StructuredManualSchema constrains the first parsing pass: chemicals keep
// their name/concentration pairs and steps carry no equipment yet.
func StructuredManualSchema() map[string]any {
	chemical := objectSchema(map[string]any{
		"name":          stringSchema(),
		"concentration": stringSchema(),
	}, []string{"name", "concentration"})

	step := objectSchema(map[string]any{
		"step_number":      intSchema(),
		"instruction":      stringSchema(),
		"expected_outcome": stringSchema(),
	}, []string{"step_number", "instruction", "expected_outcome"})

	return objectSchema(map[string]any{
		"experiment_metadata": metadataSchema(),
		"materials_required": objectSchema(map[string]any{
			"apparatus": stringArraySchema(),
			"chemicals": map[string]any{"type": "array", "items": chemical},
		}, []string{"apparatus", "chemicals"}),
		"procedure":   map[string]any{"type": "array", "items": step},
		"precautions": stringArraySchema(),
	}, []string{"experiment_metadata", "materials_required", "procedure", "precautions"})
}

// AdaptedManualSchema constrains the gaze-adaptation pass: flat chemical
// tokens and per-step equipment_used.
func AdaptedManualSchema() map[string]any {
	step := objectSchema(map[string]any{
		"step_number":      intSchema(),
		"instruction":      stringSchema(),
		"expected_outcome": stringSchema(),
		"equipment_used":   stringArraySchema(),
	}, []string{"step_number", "instruction", "expected_outcome", "equipment_used"})

	return objectSchema(map[string]any{
		"experiment_metadata": metadataSchema(),
		"materials_required": objectSchema(map[string]any{
			"apparatus": stringArraySchema(),
			"chemicals": stringArraySchema(),
		}, []string{"apparatus", "chemicals"}),
		"procedure":   map[string]any{"type": "array", "items": step},
		"precautions": stringArraySchema(),
	}, []string{"experiment_metadata", "materials_required", "procedure", "precautions"})
}

// ActionEvaluationSchema allows exactly the three reply shapes: correct,
// incorrect-safe, incorrect-dangerous.
func ActionEvaluationSchema() map[string]any {
	return objectSchema(map[string]any{
		"is_correct":   map[string]any{"type": "boolean"},
		"is_dangerous": map[string]any{"type": "boolean"},
		"observation":  stringSchema(),
		"message":      stringSchema(),
	}, []string{"is_correct", "is_dangerous", "observation", "message"})
}
