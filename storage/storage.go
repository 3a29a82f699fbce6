package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"set-game-server/session"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS round_history (
	id          UUID PRIMARY KEY,
	played_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	session_id  TEXT NOT NULL,
	user_id     TEXT NOT NULL DEFAULT '',
	skin        TEXT NOT NULL,
	seed        BIGINT NOT NULL,
	board_rows  INT NOT NULL,
	board_cols  INT NOT NULL,
	score       INT NOT NULL,
	duration_ms BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_round_history_user_id ON round_history(user_id);
CREATE INDEX IF NOT EXISTS idx_round_history_score ON round_history(score DESC);
`

// Store persists finished rounds. Rounds are never read back into a game.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and ensures the round_history table exists.
// If databaseURL is empty, NewStore returns (nil, nil) and no persistence occurs.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("connected to Postgres", "tag", "storage")
	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// durationMS is the round length in milliseconds, never negative.
func durationMS(r session.Round) int64 {
	d := r.EndedAt.Sub(r.StartedAt).Milliseconds()
	if d < 0 {
		return 0
	}
	return d
}

// clampPage normalizes limit/offset query parameters.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// RecordRound inserts one finished round.
func (s *Store) RecordRound(ctx context.Context, r session.Round) error {
	if s == nil || s.pool == nil {
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO round_history (id, played_at, session_id, user_id, skin, seed, board_rows, board_cols, score, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.ID.String(), r.EndedAt, r.SessionID, r.UserID, r.Skin, r.Seed, r.Rows, r.Cols, r.Score, durationMS(r))
	return err
}

// RoundRecord is a single row returned for the history API.
type RoundRecord struct {
	ID         string `json:"id"`
	PlayedAt   string `json:"played_at"` // ISO8601
	SessionID  string `json:"session_id"`
	Skin       string `json:"skin"`
	Seed       int64  `json:"seed"`
	Rows       int    `json:"rows"`
	Cols       int    `json:"cols"`
	Score      int    `json:"score"`
	DurationMS int64  `json:"duration_ms"`
}

// ListByUserID returns the user's rounds ordered by played_at DESC.
func (s *Store) ListByUserID(ctx context.Context, userID string) ([]RoundRecord, error) {
	if s == nil || s.pool == nil || userID == "" {
		return []RoundRecord{}, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, played_at, session_id, skin, seed, board_rows, board_cols, score, duration_ms
		FROM round_history
		WHERE user_id = $1
		ORDER BY played_at DESC
		LIMIT $2`,
		userID, maxPageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []RoundRecord{}
	for rows.Next() {
		var r RoundRecord
		var playedAt time.Time
		if err := rows.Scan(&r.ID, &playedAt, &r.SessionID, &r.Skin, &r.Seed, &r.Rows, &r.Cols, &r.Score, &r.DurationMS); err != nil {
			return nil, err
		}
		r.PlayedAt = playedAt.UTC().Format(time.RFC3339)
		out = append(out, r)
	}
	return out, rows.Err()
}

// LeaderboardEntry is a single row for the leaderboard API.
type LeaderboardEntry struct {
	UserID        string `json:"user_id"`
	BestScore     int    `json:"best_score"`
	Rounds        int    `json:"rounds"`
	IsCurrentUser bool   `json:"is_current_user,omitempty"`
}

const leaderboardSelect = `
	SELECT user_id, MAX(score), COUNT(*)
	FROM round_history
	WHERE user_id <> ''`

// ListLeaderboard returns each signed-in player's best score, highest first.
func (s *Store) ListLeaderboard(ctx context.Context, limit, offset int) ([]LeaderboardEntry, error) {
	if s == nil || s.pool == nil {
		return []LeaderboardEntry{}, nil
	}
	limit, offset = clampPage(limit, offset)
	rows, err := s.pool.Query(ctx, leaderboardSelect+`
		GROUP BY user_id
		ORDER BY MAX(score) DESC, COUNT(*) ASC, user_id
		LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LeaderboardEntry{}
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.BestScore, &e.Rounds); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetLeaderboardEntryByUserID returns one player's entry, or (nil, nil) if they have no rounds.
func (s *Store) GetLeaderboardEntryByUserID(ctx context.Context, userID string) (*LeaderboardEntry, error) {
	if s == nil || s.pool == nil || userID == "" {
		return nil, nil
	}
	var e LeaderboardEntry
	err := s.pool.QueryRow(ctx, leaderboardSelect+` AND user_id = $1
		GROUP BY user_id`,
		userID).Scan(&e.UserID, &e.BestScore, &e.Rounds)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
