package service

import (
	"regexp"
	"strings"
)

var (
	reFenceStart = regexp.MustCompile("(?is)^\\s*```(?:\\w+)?\\s*")
	reFenceEnd   = regexp.MustCompile("(?is)\\s*```\\s*$")
)

// cleanTriageAnswer quita BOM, fences y todo lo anterior al ultimo marcador de
// respuesta que el modelo haya repetido.
func cleanTriageAnswer(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	s = strings.TrimPrefix(s, "\uFEFF")
	s = reFenceStart.ReplaceAllString(s, "")
	s = reFenceEnd.ReplaceAllString(s, "")

	if idx := strings.LastIndex(s, answerMarker); idx >= 0 {
		s = s[idx+len(answerMarker):]
	}
	return strings.TrimSpace(s)
}
