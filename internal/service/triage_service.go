package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"triage-assist/internal/llm"
)

var (
	ErrEmptyQuestion       = errors.New("question cannot be empty")
	ErrTriageNotConfigured = errors.New("triage service not configured")
	ErrTriageEmptyAnswer   = errors.New("triage produced an empty answer")
)

// TriageService es el backend del oraculo: convierte sintomas en una
// recomendacion en texto libre usando el LLM.
type TriageService struct {
	llmClient llm.LLMClient
	logger    *zap.Logger
}

func NewTriageService(llmClient llm.LLMClient, logger *zap.Logger) *TriageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TriageService{llmClient: llmClient, logger: logger}
}

func (s *TriageService) Advise(ctx context.Context, question string) (string, error) {
	if s == nil || s.llmClient == nil {
		return "", ErrTriageNotConfigured
	}
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}

	raw, err := s.llmClient.Generate(ctx, buildTriagePrompt(question))
	if err != nil {
		return "", fmt.Errorf("llm generate: %w", err)
	}

	answer := cleanTriageAnswer(raw)
	if answer == "" {
		return "", ErrTriageEmptyAnswer
	}
	s.logger.Info("triage answer generated", zap.Int("answer_len", len(answer)))
	return answer, nil
}
