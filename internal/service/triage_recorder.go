package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"triage-assist/internal/domain"
	"triage-assist/internal/repository"
)

var ErrStatsUnavailable = errors.New("triage stats unavailable")

// TriageRecorder guarda un registro anonimo por turno completado. Los errores
// de almacenamiento se registran y se ignoran: la conversacion no depende de
// este registro.
type TriageRecorder struct {
	repo    repository.TriageEventRepository
	anon    *Anonymizer
	logger  *zap.Logger
	timeout time.Duration
}

func NewTriageRecorder(repo repository.TriageEventRepository, anon *Anonymizer, logger *zap.Logger) *TriageRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if anon == nil {
		anon = NewAnonymizer("")
	}
	return &TriageRecorder{
		repo:    repo,
		anon:    anon,
		logger:  logger,
		timeout: 2 * time.Second,
	}
}

func (r *TriageRecorder) TurnCompleted(ctx context.Context, outcome TurnOutcome) {
	if r == nil || r.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	event := domain.TriageEvent{
		ID:         uuid.NewString(),
		SessionRef: r.anon.Ref(outcome.SessionID),
		Department: outcome.Department,
		Failed:     outcome.Failed,
		LatencyMS:  outcome.Latency.Milliseconds(),
		CreatedAt:  outcome.CompletedAt.UTC(),
	}
	if err := r.repo.Create(ctx, event); err != nil {
		r.logger.Warn("record triage event failed", zap.Error(err))
	}
}

// DepartmentStats expone los conteos por especialidad.
func (r *TriageRecorder) DepartmentStats(ctx context.Context, since time.Time) ([]domain.DepartmentCount, error) {
	if r == nil || r.repo == nil {
		return nil, ErrStatsUnavailable
	}
	return r.repo.CountByDepartment(ctx, since)
}
