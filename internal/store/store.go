package store

import (
	"context"
	"errors"
	"time"

	"github.com/sudo-paoo/math-game/internal/domain/game"
)

var (
	ErrNotFound = errors.New("not found")
)

// GameRecord is a stored game snapshot.
type GameRecord struct {
	ID        string
	Snapshot  game.Snapshot
	UpdatedAt time.Time
}

// Store keeps game snapshots between transitions.
type Store interface {
	SaveGame(ctx context.Context, rec GameRecord) error
	GetGame(ctx context.Context, gameID string) (GameRecord, error)
	DeleteGame(ctx context.Context, gameID string) error
	// ListIdleGames returns the IDs of games not updated since before.
	ListIdleGames(ctx context.Context, before time.Time) ([]string, error)
	Close() error
}
