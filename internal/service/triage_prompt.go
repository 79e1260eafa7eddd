package service

import (
	"fmt"
	"strings"

	"triage-assist/internal/domain"
)

// answerMarker cierra el prompt; el modelo a veces lo repite en su salida.
const answerMarker = "Your Answer:"

// departmentHints mapea sintomas tipicos a cada especialidad de la taxonomia.
var departmentHints = map[domain.Department]string{
	domain.DepartmentCardiology:       "Chest pain, breathlessness",
	domain.DepartmentDermatology:      "Rashes, acne",
	domain.DepartmentNeurology:        "Headaches, dizziness",
	domain.DepartmentGeneralMedicine:  "Fever, sore throat",
	domain.DepartmentGastroenterology: "Stomach issues",
	domain.DepartmentOrthopedics:      "Joint pain",
	domain.DepartmentOphthalmology:    "Eye problems",
}

func buildTriagePrompt(symptoms string) string {
	var sb strings.Builder
	sb.WriteString("You are a medical assistant. Based on the user's symptoms, recommend the correct medical department.\n")
	sb.WriteString("Respond in 2-3 short sentences with friendly, clear advice and name the department explicitly.\n\n")
	sb.WriteString("Mapping:\n")
	for _, d := range domain.Departments() {
		hint := departmentHints[d]
		if hint == "" {
			fmt.Fprintf(&sb, "- %s\n", d)
			continue
		}
		fmt.Fprintf(&sb, "- %s → %s\n", hint, d)
	}
	fmt.Fprintf(&sb, "\nUser Symptoms: %s\n%s\n", symptoms, answerMarker)
	return sb.String()
}
