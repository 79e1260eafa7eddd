package main

import (
	"fmt"
	"strings"
	"time"

	"triage-assist/internal/domain"
)

const (
	ansiReset = "\033[0m"
	ansiDim   = "\033[2m"
	ansiGray  = "\033[38;5;245m"
)

var departmentIcons = map[domain.Department]string{
	domain.DepartmentCardiology:       "♥",
	domain.DepartmentDermatology:      "✚",
	domain.DepartmentNeurology:        "◉",
	domain.DepartmentGeneralMedicine:  "⚕",
	domain.DepartmentGastroenterology: "✚",
	domain.DepartmentOrthopedics:      "🦴",
	domain.DepartmentOphthalmology:    "👁",
}

// Colores ANSI de 256 tonos, uno por especialidad.
var departmentColors = map[domain.Department]string{
	domain.DepartmentCardiology:       "\033[38;5;160m",
	domain.DepartmentDermatology:      "\033[38;5;208m",
	domain.DepartmentNeurology:        "\033[38;5;129m",
	domain.DepartmentGeneralMedicine:  "\033[38;5;33m",
	domain.DepartmentGastroenterology: "\033[38;5;34m",
	domain.DepartmentOrthopedics:      "\033[38;5;178m",
	domain.DepartmentOphthalmology:    "\033[38;5;61m",
}

func departmentIcon(d domain.Department) string {
	if icon, ok := departmentIcons[d]; ok {
		return icon
	}
	return "✚"
}

func departmentColor(d domain.Department) string {
	if color, ok := departmentColors[d]; ok {
		return color
	}
	return ansiGray
}

func renderMessage(m domain.Message) string {
	var sb strings.Builder
	speaker := "MedAssist"
	if m.Role == domain.RoleUser {
		speaker = "Tu"
	}
	fmt.Fprintf(&sb, "%s > %s\n", speaker, m.Text)
	if m.Department != nil {
		d := *m.Department
		fmt.Fprintf(&sb, "    Recommended Department: %s%s %s%s\n", departmentColor(d), departmentIcon(d), d, ansiReset)
	}
	fmt.Fprintf(&sb, "    %s%s%s\n", ansiDim, m.CreatedAt.Local().Format(time.Kitchen), ansiReset)
	return sb.String()
}

func renderLog(msgs []domain.Message) string {
	var sb strings.Builder
	for _, m := range msgs {
		sb.WriteString(renderMessage(m))
	}
	return sb.String()
}
