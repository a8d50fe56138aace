package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"pmhscreen/internal/model"
	"pmhscreen/internal/platform/logger"
)

type sqliteScreeningRepo struct {
	db  *sql.DB
	log *logger.Logger
}

// NewSQLiteScreeningRepo stores screenings in the screening_responses table
func NewSQLiteScreeningRepo(db *sql.DB, log *logger.Logger) ScreeningRepo {
	return &sqliteScreeningRepo{db: db, log: log}
}

const screeningColumns = `id, owner_id, responses, risk_result, routing, created_at`

func (r *sqliteScreeningRepo) Save(ctx context.Context, rec *model.StoredScreening) (string, error) {
	if err := prepareScreening(rec); err != nil {
		return "", err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	responses, err := json.Marshal(rec.Responses)
	if err != nil {
		return "", fmt.Errorf("marshal responses: %w", err)
	}
	risk, err := json.Marshal(rec.RiskResult)
	if err != nil {
		return "", fmt.Errorf("marshal risk result: %w", err)
	}
	routing, err := json.Marshal(rec.Routing)
	if err != nil {
		return "", fmt.Errorf("marshal routing: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO screening_responses (`+screeningColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.OwnerID, string(responses), string(risk), string(routing), formatTime(rec.CreatedAt),
	)
	if err != nil {
		return "", fmt.Errorf("insert screening: %w", err)
	}
	return rec.ID, nil
}

func (r *sqliteScreeningRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.StoredScreening, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+screeningColumns+` FROM screening_responses
		WHERE owner_id = ? ORDER BY created_at DESC, seq DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query screenings: %w", err)
	}
	defer rows.Close()

	var records []*model.StoredScreening
	for rows.Next() {
		rec, err := scanScreening(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *sqliteScreeningRepo) Latest(ctx context.Context, ownerID string) (*model.StoredScreening, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+screeningColumns+` FROM screening_responses
		WHERE owner_id = ? ORDER BY created_at DESC, seq DESC LIMIT 1`, ownerID)

	rec, err := scanScreening(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *sqliteScreeningRepo) ListAll(ctx context.Context) ([]*model.StoredScreening, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+screeningColumns+` FROM screening_responses ORDER BY created_at, seq`)
	if err != nil {
		return nil, fmt.Errorf("query screenings: %w", err)
	}
	defer rows.Close()

	var records []*model.StoredScreening
	skipped := 0
	for rows.Next() {
		rec, err := scanScreening(rows)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if skipped > 0 {
		r.log.Warn("skipped undecodable screenings", "skipped", skipped, "read", len(records))
	}
	return records, nil
}

func (r *sqliteScreeningRepo) OwnerStats(ctx context.Context, ownerID string) (*model.OwnerStats, error) {
	var (
		total       int
		first, last sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(created_at), MAX(created_at) FROM screening_responses WHERE owner_id = ?`,
		ownerID,
	).Scan(&total, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}

	stats := &model.OwnerStats{TotalScreenings: total}
	if stats.FirstScreening, err = parseNullTime(first); err != nil {
		return nil, fmt.Errorf("parse first screening: %w", err)
	}
	if stats.LastScreening, err = parseNullTime(last); err != nil {
		return nil, fmt.Errorf("parse last screening: %w", err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScreening(row rowScanner) (*model.StoredScreening, error) {
	var (
		rec                      model.StoredScreening
		responses, risk, routing string
		createdAt                string
	)
	if err := row.Scan(&rec.ID, &rec.OwnerID, &responses, &risk, &routing, &createdAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(responses), &rec.Responses); err != nil {
		return nil, fmt.Errorf("screening %s responses: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(risk), &rec.RiskResult); err != nil {
		return nil, fmt.Errorf("screening %s risk result: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(routing), &rec.Routing); err != nil {
		return nil, fmt.Errorf("screening %s routing: %w", rec.ID, err)
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("screening %s created_at: %w", rec.ID, err)
	}
	rec.CreatedAt = t
	return &rec, nil
}
