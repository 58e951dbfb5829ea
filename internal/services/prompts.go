package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/gazelab-backend/internal/domain"
)

const structuringPromptTmpl = `You are a lab manual parser.
Extract the experiment metadata, required materials, procedure and precautions from the lab manual text below.
Preserve the procedure's original step order. Return only the structured data.

LAB MANUAL TEXT:
%s`

const adaptationPromptTmpl = `You are a lab assistant helping motor-disabled students perform experiments virtually using an eye tracker.

You will receive a lab manual as structured JSON.
Your job is to:
1. Adapt every instruction so all physical hand actions are replaced with eye gaze actions
   (e.g. "pour using hands" -> "Gaze at beaker to select, gaze at test tube to pour")
2. Add an equipment_used list per step (lowercase with underscores, must match the apparatus list exactly)
3. Simplify the chemicals list to a flat list of lowercase strings with underscores
4. Keep equipment names in apparatus as lowercase with underscores
5. Keep experiment_id exactly as received
6. Remove any precautions that are only relevant to physical handling
7. Keep expected_outcome as a simple one line observation

Here is the lab manual:
%s`

const evaluationPromptTmpl = `You are evaluating a motor-disabled student performing a virtual lab experiment using an eye tracker.

Current step instruction: %s
Correct equipment for this step: %s
What the student did: %s
Experiment precautions: %s

Your job:
1. Determine if the student's action matches the instruction in meaning
   (do NOT require exact wording, understand intent)
2. If correct: set is_correct true, is_dangerous false, and echo this expected outcome as the observation: %s
3. If wrong: use the precautions and equipment list to decide whether the action would be dangerous in a real lab
4. If wrong but safe: set a gentle hint as the message without giving the answer away
5. If wrong and dangerous: set a dramatic but educational warning about the real life consequence as the message
Leave observation empty when the action is wrong, and message empty when it is correct.`

const chatPromptTmpl = `You are a friendly lab assistant for a motor-disabled student doing a virtual chemistry experiment with an eye tracker.

Experiment: %s
Objective: %s
The student is on step %d: %s

All steps:
%s

Precautions:
%s

Student's question: %s

Answer briefly and clearly. If the question is about the current step, explain what to gaze at.`

func buildStructuringPrompt(manualText string) string {
	return fmt.Sprintf(structuringPromptTmpl, manualText)
}

func buildAdaptationPrompt(manual *domain.StructuredManual) (string, error) {
	raw, err := json.Marshal(manual)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(adaptationPromptTmpl, string(raw)), nil
}

func buildEvaluationPrompt(step *domain.AdaptedStep, action string, precautions []string) string {
	return fmt.Sprintf(evaluationPromptTmpl,
		step.Instruction,
		strings.Join(step.EquipmentUsed, ", "),
		action,
		strings.Join(precautions, "; "),
		step.ExpectedOutcome,
	)
}

func buildChatPrompt(exp *domain.Experiment, current *domain.AdaptedStep, allSteps []string, precautions []string, question string) string {
	return fmt.Sprintf(chatPromptTmpl,
		exp.Title,
		exp.Objective,
		current.StepNumber,
		current.Instruction,
		strings.Join(allSteps, "\n"),
		strings.Join(precautions, "\n"),
		question,
	)
}
