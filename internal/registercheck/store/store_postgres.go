package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"regcheck/internal/registercheck/models"
	id "regcheck/pkg/domain"
	"regcheck/pkg/platform/sentinel"
	"regcheck/pkg/platform/tx"
)

const pgUniqueViolation = "23505"

// DBPicker returns the pool matching the operation's declared intent.
type DBPicker interface {
	DB(ctx context.Context) *sql.DB
}

// PostgresStore persists register checks in PostgreSQL. Statements run in the
// transaction carried by ctx when present, otherwise on the pool picked for
// the operation's intent.
type PostgresStore struct {
	dbs DBPicker
}

func NewPostgres(dbs DBPicker) *PostgresStore {
	return &PostgresStore{dbs: dbs}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if sqlTx, ok := tx.From(ctx); ok {
		return sqlTx
	}
	return s.dbs.DB(ctx)
}

const checkColumns = `id, correlation_id, source_reference, source_correlation_id, source_type,
	jurisdiction_code, status, match_count, match_result_sent_at, personal_detail,
	version, created_by, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, c *models.RegisterCheck) error {
	detail, err := json.Marshal(c.PersonalDetail)
	if err != nil {
		return fmt.Errorf("marshal personal detail: %w", err)
	}
	_, err = s.execer(ctx).ExecContext(ctx, `
		INSERT INTO register_checks (`+checkColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		uuid.UUID(c.ID), uuid.UUID(c.CorrelationID), c.SourceReference, c.SourceCorrelationID, string(c.SourceType),
		string(c.JurisdictionCode), string(c.Status), c.MatchCount, c.MatchResultSentAt, detail,
		c.Version, c.CreatedBy, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert register check: %w", err)
	}
	return nil
}

// Save is the conditional versioned write. Zero rows affected means either the
// row is gone or another writer advanced the version first.
func (s *PostgresStore) Save(ctx context.Context, c *models.RegisterCheck) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE register_checks
		SET status = $3,
			match_count = $4,
			match_result_sent_at = $5,
			updated_at = $6,
			version = version + 1
		WHERE correlation_id = $1 AND version = $2
	`, uuid.UUID(c.CorrelationID), c.Version, string(c.Status), c.MatchCount, c.MatchResultSentAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update register check: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update register check rows: %w", err)
	}
	if n == 0 {
		var exists bool
		if err := s.execer(ctx).QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM register_checks WHERE correlation_id = $1)`,
			uuid.UUID(c.CorrelationID),
		).Scan(&exists); err != nil {
			return fmt.Errorf("check register check existence: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrStaleVersion
	}
	c.Version++
	return nil
}

func (s *PostgresStore) FindByCorrelationID(ctx context.Context, cid id.CorrelationID) (*models.RegisterCheck, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+checkColumns+` FROM register_checks WHERE correlation_id = $1`,
		uuid.UUID(cid),
	)
	c, err := scanCheck(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find register check: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) FindBySourceCorrelationID(ctx context.Context, st models.SourceType, sourceCorrelationID string) (*models.RegisterCheck, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		SELECT `+checkColumns+` FROM register_checks
		WHERE source_type = $1 AND source_correlation_id = $2
		ORDER BY created_at
		LIMIT 1
	`, string(st), sourceCorrelationID)
	c, err := scanCheck(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find register check by source: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) FindPending(ctx context.Context, codes []id.JurisdictionCode, limit int) ([]*models.RegisterCheck, error) {
	// LIMIT NULL is no limit
	var lim sql.NullInt64
	if limit > 0 {
		lim = sql.NullInt64{Int64: int64(limit), Valid: true}
	}
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT `+checkColumns+` FROM register_checks
		WHERE status = $1 AND jurisdiction_code = ANY($2)
		ORDER BY created_at, id
		LIMIT $3
	`, string(models.StatusPending), pq.Array(codeStrings(codes)), lim)
	if err != nil {
		return nil, fmt.Errorf("find pending register checks: %w", err)
	}
	defer rows.Close()

	out := make([]*models.RegisterCheck, 0)
	for rows.Next() {
		c, err := scanCheck(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pending register check: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending register checks: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindStaleSince(ctx context.Context, cutoff time.Time, excluded []id.JurisdictionCode) ([]models.JurisdictionStaleness, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT jurisdiction_code, COUNT(*), MIN(created_at)
		FROM register_checks
		WHERE status = $1 AND created_at < $2 AND NOT (jurisdiction_code = ANY($3))
		GROUP BY jurisdiction_code
		ORDER BY COUNT(*) DESC, jurisdiction_code
	`, string(models.StatusPending), cutoff, pq.Array(codeStrings(excluded)))
	if err != nil {
		return nil, fmt.Errorf("find stale register checks: %w", err)
	}
	defer rows.Close()

	out := make([]models.JurisdictionStaleness, 0)
	for rows.Next() {
		var (
			row  models.JurisdictionStaleness
			code string
		)
		if err := rows.Scan(&code, &row.StaleCount, &row.OldestPendingAt); err != nil {
			return nil, fmt.Errorf("scan stale register checks: %w", err)
		}
		row.JurisdictionCode = id.JurisdictionCode(code)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stale register checks: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) LastTerminalByJurisdiction(ctx context.Context, excluded []id.JurisdictionCode) (map[id.JurisdictionCode]time.Time, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT jurisdiction_code, MAX(match_result_sent_at)
		FROM register_checks
		WHERE match_result_sent_at IS NOT NULL AND NOT (jurisdiction_code = ANY($1))
		GROUP BY jurisdiction_code
	`, pq.Array(codeStrings(excluded)))
	if err != nil {
		return nil, fmt.Errorf("find last terminal register checks: %w", err)
	}
	defer rows.Close()

	out := make(map[id.JurisdictionCode]time.Time)
	for rows.Next() {
		var (
			code string
			last time.Time
		)
		if err := rows.Scan(&code, &last); err != nil {
			return nil, fmt.Errorf("scan last terminal register check: %w", err)
		}
		out[id.JurisdictionCode(code)] = last
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate last terminal register checks: %w", err)
	}
	return out, nil
}

// DeleteBySourceReference removes the matching checks, then the result
// payloads of exactly those checks. Run it inside a ReadWrite operation so
// both statements commit together.
func (s *PostgresStore) DeleteBySourceReference(ctx context.Context, st models.SourceType, ref string, code id.JurisdictionCode) (int, error) {
	exec := s.execer(ctx)
	rows, err := exec.QueryContext(ctx, `
		DELETE FROM register_checks
		WHERE source_type = $1 AND source_reference = $2 AND jurisdiction_code = $3
		RETURNING correlation_id
	`, string(st), ref, string(code))
	if err != nil {
		return 0, fmt.Errorf("delete register checks: %w", err)
	}
	var deleted []string
	for rows.Next() {
		var cid uuid.UUID
		if err := rows.Scan(&cid); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan deleted register check: %w", err)
		}
		deleted = append(deleted, cid.String())
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate deleted register checks: %w", err)
	}
	if len(deleted) == 0 {
		return 0, nil
	}

	if _, err := exec.ExecContext(ctx,
		`DELETE FROM register_check_result_data WHERE correlation_id = ANY($1::uuid[])`,
		pq.Array(deleted),
	); err != nil {
		return 0, fmt.Errorf("delete register check result data: %w", err)
	}
	return len(deleted), nil
}

func (s *PostgresStore) SaveResultData(ctx context.Context, cid id.CorrelationID, payload []byte, now time.Time) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO register_check_result_data (correlation_id, request_body, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (correlation_id) DO UPDATE SET
			request_body = EXCLUDED.request_body,
			created_at = EXCLUDED.created_at
	`, uuid.UUID(cid), payload, now)
	if err != nil {
		return fmt.Errorf("save register check result data: %w", err)
	}
	return nil
}

func (s *PostgresStore) ArchiveBefore(ctx context.Context, cutoff, now time.Time) (int, error) {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE register_checks
		SET status = $1, updated_at = $2, version = version + 1
		WHERE status <> ALL($3) AND match_result_sent_at < $4
	`, string(models.StatusArchived), now,
		pq.Array([]string{string(models.StatusPending), string(models.StatusArchived)}), cutoff)
	if err != nil {
		return 0, fmt.Errorf("archive register checks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("archive register checks rows: %w", err)
	}
	return int(n), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheck(row rowScanner) (*models.RegisterCheck, error) {
	var (
		c          models.RegisterCheck
		checkID    uuid.UUID
		corrID     uuid.UUID
		sourceType string
		code       string
		status     string
		sentAt     sql.NullTime
		detail     []byte
	)
	if err := row.Scan(
		&checkID, &corrID, &c.SourceReference, &c.SourceCorrelationID, &sourceType,
		&code, &status, &c.MatchCount, &sentAt, &detail,
		&c.Version, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(detail, &c.PersonalDetail); err != nil {
		return nil, fmt.Errorf("unmarshal personal detail: %w", err)
	}
	c.ID = id.CheckID(checkID)
	c.CorrelationID = id.CorrelationID(corrID)
	c.SourceType = models.SourceType(sourceType)
	c.JurisdictionCode = id.JurisdictionCode(code)
	c.Status = models.Status(status)
	if sentAt.Valid {
		t := sentAt.Time
		c.MatchResultSentAt = &t
	}
	return &c, nil
}

func codeStrings(codes []id.JurisdictionCode) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}
