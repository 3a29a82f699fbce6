package storage

import (
	"context"

	"set-game-server/session"
)

// RoundStore abstracts persistence for round history and the leaderboard.
// Implementations can be swapped for testing (mocks) or different backends.
type RoundStore interface {
	// Read
	ListByUserID(ctx context.Context, userID string) ([]RoundRecord, error)
	ListLeaderboard(ctx context.Context, limit, offset int) ([]LeaderboardEntry, error)
	GetLeaderboardEntryByUserID(ctx context.Context, userID string) (*LeaderboardEntry, error)

	// Write
	session.RoundSink

	// Lifecycle
	Close()
}

// Ensure *Store implements RoundStore at compile time.
var _ RoundStore = (*Store)(nil)
