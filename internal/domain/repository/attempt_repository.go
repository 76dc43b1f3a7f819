package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"spidyleet/internal/common"
	"spidyleet/internal/domain/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type AttemptRepository interface {
	// Create assigns ID and CreatedAt when they are empty.
	Create(ctx context.Context, attempt *model.Attempt) error
	// ListByProblem returns the newest attempts first. limit <= 0 means all.
	ListByProblem(ctx context.Context, userID, problemID string, limit int) ([]model.Attempt, error)
	AttemptedProblemIDs(ctx context.Context, userID string) (map[string]struct{}, error)
}

func prepare(a *model.Attempt) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
}

type pgAttemptRepository struct {
	db *sql.DB
}

func NewPgAttemptRepository(db *sql.DB) AttemptRepository {
	return &pgAttemptRepository{db: db}
}

func (r *pgAttemptRepository) Create(ctx context.Context, a *model.Attempt) error {
	prepare(a)
	query := `INSERT INTO attempts (id, user_id, problem_id, kind, language, verdict, passed, total, runtime, memory, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.UserID, a.ProblemID, string(a.Kind), a.Language, a.Verdict,
		a.Passed, a.Total, a.Runtime, a.Memory, a.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("attempt %s already recorded: %w", a.ID, common.ErrConflict)
		}
		return fmt.Errorf("pgAttemptRepository.Create: %w", err)
	}
	return nil
}

func (r *pgAttemptRepository) ListByProblem(ctx context.Context, userID, problemID string, limit int) ([]model.Attempt, error) {
	query := `SELECT id, user_id, problem_id, kind, language, verdict, passed, total, runtime, memory, created_at
	          FROM attempts WHERE user_id = $1 AND problem_id = $2
	          ORDER BY created_at DESC`
	args := []any{userID, problemID}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgAttemptRepository.ListByProblem: %w", err)
	}
	defer rows.Close()

	attempts := []model.Attempt{}
	for rows.Next() {
		var a model.Attempt
		var kind string
		if err := rows.Scan(&a.ID, &a.UserID, &a.ProblemID, &kind, &a.Language, &a.Verdict,
			&a.Passed, &a.Total, &a.Runtime, &a.Memory, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgAttemptRepository.ListByProblem scan: %w", err)
		}
		a.Kind = model.OperationKind(kind)
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgAttemptRepository.ListByProblem rows: %w", err)
	}
	return attempts, nil
}

func (r *pgAttemptRepository) AttemptedProblemIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT problem_id FROM attempts WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("pgAttemptRepository.AttemptedProblemIDs: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("pgAttemptRepository.AttemptedProblemIDs scan: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// memoryAttemptRepository keeps history for the life of the process.
type memoryAttemptRepository struct {
	mu       sync.RWMutex
	attempts []model.Attempt
}

func NewMemoryAttemptRepository() AttemptRepository {
	return &memoryAttemptRepository{}
}

func (r *memoryAttemptRepository) Create(_ context.Context, a *model.Attempt) error {
	prepare(a)
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.attempts {
		if existing.ID == a.ID {
			return fmt.Errorf("attempt %s already recorded: %w", a.ID, common.ErrConflict)
		}
	}
	r.attempts = append(r.attempts, *a)
	return nil
}

func (r *memoryAttemptRepository) ListByProblem(_ context.Context, userID, problemID string, limit int) ([]model.Attempt, error) {
	r.mu.RLock()
	out := []model.Attempt{}
	for _, a := range r.attempts {
		if a.UserID == userID && a.ProblemID == problemID {
			out = append(out, a)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryAttemptRepository) AttemptedProblemIDs(_ context.Context, userID string) (map[string]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make(map[string]struct{})
	for _, a := range r.attempts {
		if a.UserID == userID {
			ids[a.ProblemID] = struct{}{}
		}
	}
	return ids, nil
}
