package domain

import "time"

// TriageEvent es el registro anonimo de un turno completado. No guarda texto
// del usuario ni de la respuesta.
type TriageEvent struct {
	ID         string      `json:"id"`
	SessionRef string      `json:"session_ref"`
	Department *Department `json:"department,omitempty"`
	Failed     bool        `json:"failed"`
	LatencyMS  int64       `json:"latency_ms"`
	CreatedAt  time.Time   `json:"created_at"`
}

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int64  `json:"count"`
}
