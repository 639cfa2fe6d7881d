// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sudo-paoo/math-game/internal/domain/arithmetic"
	"github.com/sudo-paoo/math-game/internal/domain/game"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
    id TEXT PRIMARY KEY,
    state TEXT NOT NULL,
    difficulty TEXT NOT NULL DEFAULT '',
    operations TEXT NOT NULL DEFAULT '[]',
    score INTEGER NOT NULL DEFAULT 0,
    mistakes INTEGER NOT NULL DEFAULT 0,
    time_remaining INTEGER NOT NULL,
    problem_operation TEXT,
    problem_left INTEGER,
    problem_right INTEGER,
    problem_answer INTEGER,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_games_updated_at ON games(updated_at);
`

// MemoryPath keeps the database in process memory; it is discarded on exit.
const MemoryPath = ":memory:"

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dbPath, err)
	}

	// Every connection to :memory: is a separate database.
	if isMemory(dbPath) {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func isMemory(dbPath string) bool {
	return dbPath == MemoryPath || strings.Contains(dbPath, "mode=memory")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Games
// ============================================================================

func (s *SQLiteStore) SaveGame(ctx context.Context, rec GameRecord) error {
	snap := rec.Snapshot

	ops, err := json.Marshal(snap.Operations.Names())
	if err != nil {
		return fmt.Errorf("encode operations: %w", err)
	}

	var (
		problemOp           sql.NullString
		left, right, answer sql.NullInt64
	)
	if p := snap.Problem; p != nil {
		problemOp = sql.NullString{String: p.Operation.String(), Valid: true}
		left = sql.NullInt64{Int64: int64(p.Left), Valid: true}
		right = sql.NullInt64{Int64: int64(p.Right), Valid: true}
		answer = sql.NullInt64{Int64: int64(p.Answer), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO games (id, state, difficulty, operations, score, mistakes, time_remaining,
		                   problem_operation, problem_left, problem_right, problem_answer, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			difficulty = excluded.difficulty,
			operations = excluded.operations,
			score = excluded.score,
			mistakes = excluded.mistakes,
			time_remaining = excluded.time_remaining,
			problem_operation = excluded.problem_operation,
			problem_left = excluded.problem_left,
			problem_right = excluded.problem_right,
			problem_answer = excluded.problem_answer,
			updated_at = excluded.updated_at`,
		rec.ID, string(snap.State), snap.Difficulty.String(), string(ops),
		snap.Score, snap.Mistakes, snap.TimeRemaining,
		problemOp, left, right, answer, rec.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save game %s: %w", rec.ID, err)
	}
	return nil
}

func (s *SQLiteStore) GetGame(ctx context.Context, gameID string) (GameRecord, error) {
	var (
		state, difficulty, opsJSON string
		score, mistakes, remaining int
		problemOp                  sql.NullString
		left, right, answer        sql.NullInt64
		updatedAt                  int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT state, difficulty, operations, score, mistakes, time_remaining,
		       problem_operation, problem_left, problem_right, problem_answer, updated_at
		FROM games WHERE id = ?`, gameID,
	).Scan(&state, &difficulty, &opsJSON, &score, &mistakes, &remaining,
		&problemOp, &left, &right, &answer, &updatedAt)
	if err == sql.ErrNoRows {
		return GameRecord{}, ErrNotFound
	}
	if err != nil {
		return GameRecord{}, fmt.Errorf("load game %s: %w", gameID, err)
	}

	snap := game.Snapshot{
		State:         game.State(state),
		Score:         score,
		Mistakes:      mistakes,
		TimeRemaining: remaining,
	}

	if difficulty != "" {
		if snap.Difficulty, err = arithmetic.ParseDifficulty(difficulty); err != nil {
			return GameRecord{}, fmt.Errorf("load game %s: %w", gameID, err)
		}
	}

	var names []string
	if err := json.Unmarshal([]byte(opsJSON), &names); err != nil {
		return GameRecord{}, fmt.Errorf("decode operations for game %s: %w", gameID, err)
	}
	if snap.Operations, err = arithmetic.ParseOperationSet(names); err != nil {
		return GameRecord{}, fmt.Errorf("load game %s: %w", gameID, err)
	}

	if problemOp.Valid {
		op, err := arithmetic.ParseOperation(problemOp.String)
		if err != nil {
			return GameRecord{}, fmt.Errorf("load game %s: %w", gameID, err)
		}
		snap.Problem = &arithmetic.Problem{
			Operation: op,
			Left:      int(left.Int64),
			Right:     int(right.Int64),
			Answer:    int(answer.Int64),
		}
	}

	return GameRecord{
		ID:        gameID,
		Snapshot:  snap,
		UpdatedAt: time.Unix(0, updatedAt),
	}, nil
}

func (s *SQLiteStore) DeleteGame(ctx context.Context, gameID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM games WHERE id = ?", gameID)
	if err != nil {
		return fmt.Errorf("delete game %s: %w", gameID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListIdleGames(ctx context.Context, before time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM games WHERE updated_at < ? ORDER BY updated_at", before.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("list idle games: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var gameID string
		if err := rows.Scan(&gameID); err != nil {
			return nil, err
		}
		ids = append(ids, gameID)
	}
	return ids, rows.Err()
}
