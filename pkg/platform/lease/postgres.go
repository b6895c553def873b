package lease

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Postgres stores leases in the cluster_leases table. Acquisition is a single
// upsert that only overwrites an expired row, so concurrent instances race on
// the row lock and at most one sees a row affected.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) TryLock(ctx context.Context, l Lock) (bool, error) {
	res, err := p.db.ExecContext(ctx, `
		INSERT INTO cluster_leases (name, lock_until, locked_at, locked_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET lock_until = EXCLUDED.lock_until,
			locked_at = EXCLUDED.locked_at,
			locked_by = EXCLUDED.locked_by
		WHERE cluster_leases.lock_until <= EXCLUDED.locked_at
	`, l.Name, l.Until(), l.LockedAt, l.Token)
	if err != nil {
		return false, fmt.Errorf("upsert lease: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("upsert lease rows: %w", err)
	}
	return n == 1, nil
}

func (p *Postgres) Unlock(ctx context.Context, l Lock, now time.Time) error {
	var err error
	if !now.Before(l.ReleaseAt()) {
		_, err = p.db.ExecContext(ctx, `DELETE FROM cluster_leases WHERE name = $1 AND locked_by = $2`, l.Name, l.Token)
	} else {
		_, err = p.db.ExecContext(ctx, `UPDATE cluster_leases SET lock_until = $3 WHERE name = $1 AND locked_by = $2`,
			l.Name, l.Token, l.ReleaseAt())
	}
	if err != nil {
		return fmt.Errorf("release lease: %w", err)
	}
	return nil
}
