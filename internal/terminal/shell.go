// Package terminal plays the game in a line-edited terminal prompt.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/shlex"

	"github.com/sudo-paoo/math-game/internal/countdown"
	"github.com/sudo-paoo/math-game/internal/domain/arithmetic"
	"github.com/sudo-paoo/math-game/internal/domain/game"
)

// LineReader is the part of *readline.Instance the shell uses.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Refresh()
}

const helpText = `Setup:
  easy | medium | hard          choose the difficulty
  add | sub | mul | div | mixed toggle an operation (names and + - x / work too)
  start                         begin the 60 second round
  several commands may share a line, e.g. "easy add mul start"
During a round:
  <number>                      answer the question
  end                           stop the round early
Any time:
  help                          show this text
  quit                          leave
`

// Shell holds one session and renders it as text. HandleLine and HandleTick
// must be called from a single goroutine; Run does that.
type Shell struct {
	session    *game.Session
	out        io.Writer
	logger     *slog.Logger
	tickPeriod time.Duration
}

func NewShell(problems game.ProblemSource, out io.Writer, logger *slog.Logger) *Shell {
	return &Shell{
		session:    game.New(problems),
		out:        out,
		logger:     logger,
		tickPeriod: countdown.DefaultPeriod,
	}
}

// SetTickPeriod overrides the countdown period. Used by tests.
func (s *Shell) SetTickPeriod(d time.Duration) { s.tickPeriod = d }

func (s *Shell) Snapshot() game.Snapshot { return s.session.Snapshot() }

// Prompt reflects the current state: the setup summary, the remaining time
// with the question, or the play-again hint.
func (s *Shell) Prompt() string {
	snap := s.session.Snapshot()
	switch snap.State {
	case game.StateActive:
		question := ""
		if snap.Problem != nil {
			question = snap.Problem.Question()
		}
		return fmt.Sprintf("[%2ds] %s ", snap.TimeRemaining, question)
	case game.StateFinished:
		return "press enter to play again> "
	default:
		difficulty := snap.Difficulty.String()
		if difficulty == "" {
			difficulty = "no difficulty"
		}
		ops := snap.Operations.Label()
		if ops == "" {
			ops = "no operations"
		}
		return fmt.Sprintf("math (%s; %s)> ", difficulty, ops)
	}
}

// HandleLine applies one line of input and reports whether the player asked
// to quit.
func (s *Shell) HandleLine(line string) (quit bool) {
	cmd := strings.ToLower(strings.TrimSpace(line))
	switch cmd {
	case "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprint(s.out, helpText)
		return false
	}

	switch s.session.State() {
	case game.StateFinished:
		s.session.Reset()
		fmt.Fprintln(s.out, "New game. Pick a difficulty and operations, then type start.")
	case game.StateActive:
		s.handleRoundLine(cmd, line)
	default:
		s.handleSetupLine(line)
	}
	return false
}

// handleSetupLine runs each word of the line as a setup command, so
// "easy add mul start" configures and starts in one go.
func (s *Shell) handleSetupLine(line string) {
	words, err := shlex.Split(line)
	if err != nil {
		fmt.Fprintf(s.out, "Could not read that line: %v\n", err)
		return
	}
	for _, word := range words {
		if !s.setupCommand(strings.ToLower(word)) {
			return
		}
	}
}

// setupCommand applies one word and reports whether to keep reading the
// rest of the line.
func (s *Shell) setupCommand(cmd string) bool {
	if cmd == "start" {
		if !s.session.Start() {
			fmt.Fprintln(s.out, "Pick a difficulty and at least one operation first.")
			return false
		}
		fmt.Fprintln(s.out, "Go! You have 60 seconds.")
		return false
	}
	if d, err := arithmetic.ParseDifficulty(cmd); err == nil {
		s.session.SetDifficulty(d)
		fmt.Fprintf(s.out, "Difficulty: %s\n", d)
		return true
	}
	if op, err := arithmetic.ParseOperation(cmd); err == nil {
		s.session.ToggleOperation(op)
		label := s.session.Snapshot().Operations.Label()
		if label == "" {
			label = "none"
		}
		fmt.Fprintf(s.out, "Operations: %s\n", label)
		return true
	}
	fmt.Fprintf(s.out, "Unknown command %q. Type help.\n", cmd)
	return false
}

func (s *Shell) handleRoundLine(cmd, raw string) {
	if cmd == "end" {
		s.session.End()
		s.printResults()
		return
	}
	fb, ok := s.session.SubmitAnswer(raw)
	if !ok {
		return
	}
	fmt.Fprintln(s.out, fb.Message())
}

// HandleTick consumes one second of the round.
func (s *Shell) HandleTick() {
	if s.session.State() != game.StateActive {
		return
	}
	s.session.Tick()
	if s.session.State() == game.StateFinished {
		fmt.Fprintln(s.out, "\nTime's up!")
		s.printResults()
	}
}

func (s *Shell) printResults() {
	snap := s.session.Snapshot()
	fmt.Fprintf(s.out, "Results\n  Difficulty: %s\n  Operations: %s\n  Score:      %d\n  Mistakes:   %d\n",
		snap.Difficulty, snap.Operations.Label(), snap.Score, snap.Mistakes)
}

type tickEvent struct {
	timer *countdown.Timer
}

type lineEvent struct {
	line string
	err  error
}

// Run reads lines from rl until the player quits, input ends or ctx is
// cancelled. Input and countdown ticks are handled on this goroutine only.
func (s *Shell) Run(ctx context.Context, rl LineReader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan lineEvent)
	go func() {
		for {
			line, err := rl.Readline()
			select {
			case lines <- lineEvent{line: line, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil && !errors.Is(err, readline.ErrInterrupt) {
				return
			}
		}
	}()

	ticks := make(chan tickEvent)
	var timer *countdown.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	syncTimer := func() {
		active := s.session.State() == game.StateActive
		switch {
		case active && timer == nil:
			var t *countdown.Timer
			t = countdown.New(s.tickPeriod, func(tickCtx context.Context) {
				select {
				case ticks <- tickEvent{timer: t}:
				case <-tickCtx.Done():
				}
			})
			timer = t
			t.Start()
		case !active && timer != nil:
			timer.Stop()
			timer = nil
		}
		rl.SetPrompt(s.Prompt())
	}

	fmt.Fprintln(s.out, "Math Game. Type help for commands.")
	syncTimer()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-lines:
			if ev.err != nil {
				if errors.Is(ev.err, readline.ErrInterrupt) {
					rl.SetPrompt(s.Prompt())
					continue
				}
				if errors.Is(ev.err, io.EOF) {
					return nil
				}
				return fmt.Errorf("read line: %w", ev.err)
			}
			if s.HandleLine(ev.line) {
				return nil
			}
			syncTimer()

		case ev := <-ticks:
			if ev.timer != timer {
				s.logger.Debug("stale tick dropped")
				continue
			}
			s.HandleTick()
			syncTimer()
			rl.Refresh()
		}
	}
}
