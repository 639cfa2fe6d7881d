// internal/service/game.go
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sudo-paoo/math-game/internal/countdown"
	"github.com/sudo-paoo/math-game/internal/domain/arithmetic"
	"github.com/sudo-paoo/math-game/internal/domain/game"
	"github.com/sudo-paoo/math-game/internal/id"
	"github.com/sudo-paoo/math-game/internal/store"
	"github.com/sudo-paoo/math-game/internal/worker"
)

// Options tunes a GameService. Zero values select the defaults.
type Options struct {
	TickPeriod time.Duration    // countdown.DefaultPeriod
	QueueSize  int              // 64
	Now        func() time.Time // time.Now
}

// GameService owns every live game. Each transition loads the stored
// snapshot, applies one state-machine operation and saves the result, all
// on a single worker loop, so ticks and player actions never interleave.
// The service also owns the countdown timers: one per active game.
type GameService struct {
	store    store.Store
	problems game.ProblemSource
	logger   *slog.Logger
	loop     *worker.Loop

	tickPeriod time.Duration
	now        func() time.Time

	// timers is only read or written from loop jobs.
	timers map[string]*countdown.Timer
}

// NewGameService creates a GameService. problems is only called from the
// loop goroutine and need not be safe for concurrent use.
func NewGameService(s store.Store, problems game.ProblemSource, logger *slog.Logger, opts Options) *GameService {
	if opts.TickPeriod <= 0 {
		opts.TickPeriod = countdown.DefaultPeriod
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &GameService{
		store:      s,
		problems:   problems,
		logger:     logger,
		loop:       worker.NewLoop(opts.QueueSize),
		tickPeriod: opts.TickPeriod,
		now:        opts.Now,
		timers:     make(map[string]*countdown.Timer),
	}
}

// ── Player operations ───────────────────────────────────────────────────────

// Create stores a fresh Idle game.
func (gs *GameService) Create(ctx context.Context) (store.GameRecord, error) {
	return worker.Call(ctx, gs.loop, func() (store.GameRecord, error) {
		rec := store.GameRecord{
			ID:        id.NewGameID(),
			Snapshot:  game.New(gs.problems).Snapshot(),
			UpdatedAt: gs.now(),
		}
		if err := gs.store.SaveGame(ctx, rec); err != nil {
			return store.GameRecord{}, err
		}
		gs.logger.Info("game created", "game_id", rec.ID)
		return rec, nil
	})
}

// Get returns the current snapshot of a game.
func (gs *GameService) Get(ctx context.Context, gameID string) (store.GameRecord, error) {
	if !id.Valid(gameID) {
		return store.GameRecord{}, store.ErrNotFound
	}
	return worker.Call(ctx, gs.loop, func() (store.GameRecord, error) {
		rec, err := gs.store.GetGame(ctx, gameID)
		if err != nil {
			return store.GameRecord{}, err
		}
		// Revives the countdown for an active game loaded from a file
		// database after a restart.
		gs.syncTimer(gameID, rec.Snapshot.State)
		return rec, nil
	})
}

func (gs *GameService) SetDifficulty(ctx context.Context, gameID string, d arithmetic.Difficulty) (store.GameRecord, error) {
	return gs.transition(ctx, gameID, func(s *game.Session) { s.SetDifficulty(d) })
}

func (gs *GameService) ToggleOperation(ctx context.Context, gameID string, op arithmetic.Operation) (store.GameRecord, error) {
	return gs.transition(ctx, gameID, func(s *game.Session) { s.ToggleOperation(op) })
}

// Start begins the round when the game is configured; otherwise the game
// is returned unchanged.
func (gs *GameService) Start(ctx context.Context, gameID string) (store.GameRecord, error) {
	return gs.transition(ctx, gameID, func(s *game.Session) {
		if s.Start() {
			gs.logger.Info("game started", "game_id", gameID)
		}
	})
}

// SubmitAnswer scores input against the current problem. The returned
// feedback is nil when the game was not accepting answers.
func (gs *GameService) SubmitAnswer(ctx context.Context, gameID, input string) (store.GameRecord, *game.Feedback, error) {
	var feedback *game.Feedback
	rec, err := gs.transition(ctx, gameID, func(s *game.Session) {
		if fb, ok := s.SubmitAnswer(input); ok {
			feedback = &fb
		}
	})
	if err != nil {
		return store.GameRecord{}, nil, err
	}
	return rec, feedback, nil
}

func (gs *GameService) End(ctx context.Context, gameID string) (store.GameRecord, error) {
	return gs.transition(ctx, gameID, func(s *game.Session) { s.End() })
}

func (gs *GameService) Reset(ctx context.Context, gameID string) (store.GameRecord, error) {
	return gs.transition(ctx, gameID, func(s *game.Session) { s.Reset() })
}

// ── Lifecycle ───────────────────────────────────────────────────────────────

// Sweep deletes games untouched for idleFor, stopping their timers first.
// It returns how many games were removed.
func (gs *GameService) Sweep(ctx context.Context, idleFor time.Duration) (int, error) {
	return worker.Call(ctx, gs.loop, func() (int, error) {
		ids, err := gs.store.ListIdleGames(ctx, gs.now().Add(-idleFor))
		if err != nil {
			return 0, err
		}
		removed := 0
		for _, gameID := range ids {
			gs.stopTimer(gameID)
			if err := gs.store.DeleteGame(ctx, gameID); err != nil && !errors.Is(err, store.ErrNotFound) {
				return removed, err
			}
			removed++
		}
		if removed > 0 {
			gs.logger.Info("idle games evicted", "count", removed)
		}
		return removed, nil
	})
}

// RunSweeper calls Sweep every interval until ctx ends.
func (gs *GameService) RunSweeper(ctx context.Context, interval, idleFor time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := gs.Sweep(ctx, idleFor); err != nil && ctx.Err() == nil {
				gs.logger.Error("sweep failed", "error", err)
			}
		}
	}
}

// ActiveTimers reports how many countdowns are running.
func (gs *GameService) ActiveTimers(ctx context.Context) (int, error) {
	return worker.Call(ctx, gs.loop, func() (int, error) {
		return len(gs.timers), nil
	})
}

// Close stops every countdown and the worker loop. Further calls fail with
// worker.ErrClosed.
func (gs *GameService) Close() {
	err := gs.loop.Do(context.Background(), func() {
		for gameID := range gs.timers {
			gs.stopTimer(gameID)
		}
	})
	if err != nil && !errors.Is(err, worker.ErrClosed) {
		gs.logger.Error("stop timers", "error", err)
	}
	gs.loop.Close()
}

// ── Internals (loop goroutine only) ─────────────────────────────────────────

func (gs *GameService) transition(ctx context.Context, gameID string, fn func(*game.Session)) (store.GameRecord, error) {
	if !id.Valid(gameID) {
		return store.GameRecord{}, store.ErrNotFound
	}
	return worker.Call(ctx, gs.loop, func() (store.GameRecord, error) {
		return gs.apply(ctx, gameID, fn)
	})
}

func (gs *GameService) apply(ctx context.Context, gameID string, fn func(*game.Session)) (store.GameRecord, error) {
	rec, err := gs.store.GetGame(ctx, gameID)
	if err != nil {
		return store.GameRecord{}, err
	}

	before := rec.Snapshot.State
	sess := game.Restore(rec.Snapshot, gs.problems)
	fn(sess)

	rec = store.GameRecord{ID: gameID, Snapshot: sess.Snapshot(), UpdatedAt: gs.now()}
	if err := gs.store.SaveGame(ctx, rec); err != nil {
		return store.GameRecord{}, err
	}

	if before == game.StateActive && rec.Snapshot.State == game.StateFinished {
		gs.logger.Info("game finished",
			"game_id", gameID,
			"score", rec.Snapshot.Score,
			"mistakes", rec.Snapshot.Mistakes,
			"time_remaining", rec.Snapshot.TimeRemaining,
		)
	}
	gs.syncTimer(gameID, rec.Snapshot.State)
	return rec, nil
}

// syncTimer keeps exactly one running timer for an active game and none
// otherwise. It is the only place timers are created.
func (gs *GameService) syncTimer(gameID string, state game.State) {
	_, running := gs.timers[gameID]
	switch {
	case state == game.StateActive && !running:
		var timer *countdown.Timer
		timer = countdown.New(gs.tickPeriod, func(ctx context.Context) {
			gs.tick(ctx, gameID, timer)
		})
		gs.timers[gameID] = timer
		timer.Start()
	case state != game.StateActive && running:
		gs.stopTimer(gameID)
	}
}

func (gs *GameService) stopTimer(gameID string) {
	if timer, ok := gs.timers[gameID]; ok {
		timer.Stop()
		delete(gs.timers, gameID)
	}
}

// tick runs on the timer goroutine and hands the decrement to the loop.
// A tick from a timer the service no longer owns is dropped.
func (gs *GameService) tick(ctx context.Context, gameID string, timer *countdown.Timer) {
	err := gs.loop.Do(ctx, func() {
		if gs.timers[gameID] != timer {
			return
		}
		if _, err := gs.apply(ctx, gameID, func(s *game.Session) { s.Tick() }); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				gs.stopTimer(gameID)
				return
			}
			if ctx.Err() == nil {
				gs.logger.Error("tick failed", "game_id", gameID, "error", err)
			}
		}
	})
	if err != nil && ctx.Err() == nil && !errors.Is(err, worker.ErrClosed) {
		gs.logger.Error("tick not delivered", "game_id", gameID, "error", err)
	}
}
