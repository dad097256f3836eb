package record

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore implements Store with PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed record store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the transactions table.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS transactions (
			id          VARCHAR(36) PRIMARY KEY,
			user_id     VARCHAR(100) NOT NULL,
			amount      NUMERIC(12,2) NOT NULL,
			location    VARCHAR(100),
			device      VARCHAR(50),
			ts          TIMESTAMPTZ NOT NULL,
			verdict     VARCHAR(10) NOT NULL,
			probability DOUBLE PRECISION NOT NULL,
			risk_score  DOUBLE PRECISION NOT NULL,
			created_at  TIMESTAMPTZ DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions(user_id);
		CREATE INDEX IF NOT EXISTS idx_transactions_created ON transactions(created_at DESC);
	`)
	return err
}

func (p *PostgresStore) Append(ctx context.Context, r *Record) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, amount, location, device, ts, verdict, probability, risk_score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`, r.ID, r.UserID, r.Amount, r.Location, r.Device, r.Timestamp, r.Verdict, r.Probability, r.RiskScore)
	if err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

func (p *PostgresStore) QueryRecent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, amount, location, device, ts, verdict, probability, risk_score, created_at
		FROM transactions
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		r := &Record{}
		if err := rows.Scan(&r.ID, &r.UserID, &r.Amount, &r.Location, &r.Device,
			&r.Timestamp, &r.Verdict, &r.Probability, &r.RiskScore, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
