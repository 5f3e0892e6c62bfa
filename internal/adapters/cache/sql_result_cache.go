package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"trip-route-service/internal/platform/obs"
	"trip-route-service/internal/ports"
)

// SQLResultCache is a Postgres-backed cache for optimization results.
// Payloads are stored as JSONB in the result_cache table.
type SQLResultCache struct {
	DB  *sql.DB
	TTL time.Duration

	now func() time.Time
}

func NewSQLResultCache(db *sql.DB, ttl time.Duration) *SQLResultCache {
	return &SQLResultCache{DB: db, TTL: ttl, now: time.Now}
}

func (s *SQLResultCache) Get(ctx context.Context, key string) (_ ports.CachedResult, _ bool, err error) {
	defer obs.Time(ctx, "result.cache.sql.Get")(&err)

	if s.DB == nil {
		return ports.CachedResult{}, false, errors.New("result cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return ports.CachedResult{}, false, errors.New("get result cache: key must not be empty")
	}

	var payload []byte
	err = s.DB.QueryRowContext(ctx, `
	SELECT payload
	FROM result_cache
	WHERE cache_key = $1
		AND (expires_at IS NULL OR expires_at > $2);
	`, key, s.clock()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.CachedResult{}, false, nil
	}
	if err != nil {
		return ports.CachedResult{}, false, fmt.Errorf("get result cache: query result_cache table: %w", err)
	}

	var out ports.CachedResult
	if err := json.Unmarshal(payload, &out); err != nil {
		return ports.CachedResult{}, false, fmt.Errorf("get result cache: decode key=%s: %w", key, err)
	}

	return out, true, nil
}

func (s *SQLResultCache) Put(ctx context.Context, key string, result ports.CachedResult) (err error) {
	defer obs.Time(ctx, "result.cache.sql.Put")(&err)

	if s.DB == nil {
		return errors.New("result cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("insert result cache: key must not be empty")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("insert result cache: encode key=%s: %w", key, err)
	}

	var expiresAt *time.Time
	if s.TTL > 0 {
		t := s.clock().Add(s.TTL)
		expiresAt = &t
	}

	if _, err := s.DB.ExecContext(ctx, `
	INSERT INTO result_cache (cache_key, payload, expires_at)
	VALUES ($1, $2::jsonb, $3)
	ON CONFLICT (cache_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		expires_at = EXCLUDED.expires_at;
	`, key, string(payload), expiresAt); err != nil {
		return fmt.Errorf("insert result cache key=%s: %w", key, err)
	}

	return nil
}

func (s *SQLResultCache) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
