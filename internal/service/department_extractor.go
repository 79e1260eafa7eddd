package service

import (
	"strings"

	"triage-assist/internal/domain"
)

// ExtractDepartment devuelve la primera especialidad de la taxonomia contenida
// en el texto. Ante varias coincidencias gana la declarada antes, no la mas
// relevante.
func ExtractDepartment(responseText string) (domain.Department, bool) {
	lowered := strings.ToLower(responseText)
	for _, d := range domain.Departments() {
		if strings.Contains(lowered, strings.ToLower(string(d))) {
			return d, true
		}
	}
	return "", false
}
