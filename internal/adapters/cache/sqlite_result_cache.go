package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"trip-route-service/internal/ports"
)

// SQLite backed cache for optimization results. Rows live in the
// result_cache table created by repositories.InitSchema.
type SqliteResultCache struct {
	DB  *sql.DB
	TTL time.Duration

	now func() time.Time
}

func NewSqliteResultCache(db *sql.DB, ttl time.Duration) *SqliteResultCache {
	return &SqliteResultCache{DB: db, TTL: ttl, now: time.Now}
}

// Fetch a cached result. Expired rows count as a miss.
func (s *SqliteResultCache) Get(ctx context.Context, key string) (ports.CachedResult, bool, error) {
	if s.DB == nil {
		return ports.CachedResult{}, false, errors.New("result cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return ports.CachedResult{}, false, errors.New("get result cache: key must not be empty")
	}

	var (
		payload   string
		expiresAt int64
	)
	err := s.DB.QueryRowContext(ctx, `
	SELECT
		payload,
		expires_at
	FROM result_cache
	WHERE cache_key = ?;
	`, key).Scan(&payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.CachedResult{}, false, nil
	}
	if err != nil {
		return ports.CachedResult{}, false, fmt.Errorf("get result cache: query result_cache table: %w", err)
	}

	// expires_at 0 means no expiry
	if expiresAt != 0 && s.now().Unix() >= expiresAt {
		return ports.CachedResult{}, false, nil
	}

	var out ports.CachedResult
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return ports.CachedResult{}, false, fmt.Errorf("get result cache: decode key=%s: %w", key, err)
	}

	return out, true, nil
}

// Store a result, replacing any previous row for key.
func (s *SqliteResultCache) Put(ctx context.Context, key string, result ports.CachedResult) error {
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

	var expiresAt int64
	if s.TTL > 0 {
		expiresAt = s.now().Add(s.TTL).Unix()
	}

	if _, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO result_cache (
		cache_key,
		payload,
		expires_at
	)
	VALUES (?, ?, ?);
	`, key, string(payload), expiresAt); err != nil {
		return fmt.Errorf("insert result cache key=%s: %w", key, err)
	}

	return nil
}
