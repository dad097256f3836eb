package profile

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore implements Store with PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed profile store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the user_profiles table.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS user_profiles (
			user_id     VARCHAR(100) PRIMARY KEY,
			txn_count   BIGINT NOT NULL DEFAULT 0,
			mean_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			m2_amount   DOUBLE PRECISION NOT NULL DEFAULT 0,
			updated_at  TIMESTAMPTZ DEFAULT NOW()
		);
	`)
	return err
}

func (p *PostgresStore) Get(ctx context.Context, userID string) (*Profile, error) {
	prof := &Profile{UserID: userID}

	err := p.db.QueryRowContext(ctx, `
		SELECT txn_count, mean_amount, m2_amount
		FROM user_profiles WHERE user_id = $1
	`, userID).Scan(&prof.Count, &prof.Mean, &prof.M2)

	if err == sql.ErrNoRows {
		return &Profile{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return prof, nil
}

// Update applies one Welford step under a row lock so concurrent updates for
// the same user serialize at the database even if the caller's per-user lock
// is bypassed (e.g. a second service instance).
func (p *PostgresStore) Update(ctx context.Context, userID string, amount float64) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	prof := &Profile{UserID: userID}
	err = tx.QueryRowContext(ctx, `
		SELECT txn_count, mean_amount, m2_amount
		FROM user_profiles WHERE user_id = $1
		FOR UPDATE
	`, userID).Scan(&prof.Count, &prof.Mean, &prof.M2)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("lock profile: %w", err)
	}

	prof.Observe(amount)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_profiles (user_id, txn_count, mean_amount, m2_amount, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			txn_count   = $2,
			mean_amount = $3,
			m2_amount   = $4,
			updated_at  = NOW()
	`, userID, prof.Count, prof.Mean, prof.M2)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	return tx.Commit()
}
