package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"triage-assist/internal/domain"
)

type TriageEventRepository interface {
	Create(ctx context.Context, event domain.TriageEvent) error
	CountByDepartment(ctx context.Context, since time.Time) ([]domain.DepartmentCount, error)
}

type PgTriageEventRepository struct {
	pool *pgxpool.Pool
}

func NewPgTriageEventRepository(pool *pgxpool.Pool) *PgTriageEventRepository {
	return &PgTriageEventRepository{pool: pool}
}

func (r *PgTriageEventRepository) Create(ctx context.Context, event domain.TriageEvent) error {
	const query = `
		INSERT INTO triage_events (id, session_ref, department, failed, latency_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	var department interface{}
	if event.Department != nil {
		department = string(*event.Department)
	}

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.SessionRef,
		department,
		event.Failed,
		event.LatencyMS,
		event.CreatedAt,
	)
	return err
}

// CountByDepartment agrupa los turnos resueltos desde since. Los turnos sin
// especialidad, o con un valor fuera de la taxonomia, se informan juntos con
// department vacio.
func (r *PgTriageEventRepository) CountByDepartment(ctx context.Context, since time.Time) ([]domain.DepartmentCount, error) {
	const query = `
		SELECT COALESCE(department, ''), COUNT(*)
		FROM triage_events
		WHERE created_at >= $1 AND failed = FALSE
		GROUP BY department
		ORDER BY COUNT(*) DESC
	`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scanned []domain.DepartmentCount
	for rows.Next() {
		var c domain.DepartmentCount
		if err := rows.Scan(&c.Department, &c.Count); err != nil {
			return nil, err
		}
		scanned = append(scanned, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return normalizeDepartmentCounts(scanned), nil
}

// normalizeDepartmentCounts usa el nombre canonico de la taxonomia y funde lo
// desconocido en la entrada vacia, conservando el orden de llegada.
func normalizeDepartmentCounts(in []domain.DepartmentCount) []domain.DepartmentCount {
	counts := []domain.DepartmentCount{}
	index := make(map[string]int, len(in))
	for _, c := range in {
		name := ""
		if d, ok := domain.ParseDepartment(c.Department); ok {
			name = d.String()
		}
		if i, seen := index[name]; seen {
			counts[i].Count += c.Count
			continue
		}
		index[name] = len(counts)
		counts = append(counts, domain.DepartmentCount{Department: name, Count: c.Count})
	}
	return counts
}
