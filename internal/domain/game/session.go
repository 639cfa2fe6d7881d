// Package game holds the play-through state machine: configuration,
// counters, the current problem and the Idle → Configuring → Active →
// Finished lifecycle. It is synchronous; the owner drives Tick once per
// second while the session is Active.
package game

import (
	"slices"

	"github.com/sudo-paoo/math-game/internal/domain/arithmetic"
)

// RoundSeconds is the length of one play-through.
const RoundSeconds = 60

// State is the lifecycle position of a Session.
type State string

const (
	StateIdle        State = "idle"
	StateConfiguring State = "configuring"
	StateActive      State = "active"
	StateFinished    State = "finished"
)

// ProblemSource produces problems for a session.
// *arithmetic.Generator satisfies it.
type ProblemSource interface {
	Generate(d arithmetic.Difficulty, ops arithmetic.OperationSet) (arithmetic.Problem, bool)
}

// Session is one play-through. It is not safe for concurrent use.
type Session struct {
	problems ProblemSource

	state         State
	difficulty    arithmetic.Difficulty
	operations    arithmetic.OperationSet
	score         int
	mistakes      int
	timeRemaining int
	problem       *arithmetic.Problem
}

// New creates an Idle session drawing problems from src.
func New(src ProblemSource) *Session {
	return &Session{
		problems:      src,
		state:         StateIdle,
		timeRemaining: RoundSeconds,
	}
}

func (s *Session) State() State { return s.state }

// CanStart reports whether Start would begin the round.
func (s *Session) CanStart() bool {
	return s.configurable() && s.difficulty.IsSet() && len(s.operations) > 0
}

func (s *Session) configurable() bool {
	return s.state == StateIdle || s.state == StateConfiguring
}

// SetDifficulty chooses the operand range. Ignored outside setup.
func (s *Session) SetDifficulty(d arithmetic.Difficulty) {
	if !s.configurable() || !d.IsSet() {
		return
	}
	s.difficulty = d
	s.settleSetupState()
}

// ToggleOperation selects or deselects op. Ignored outside setup.
func (s *Session) ToggleOperation(op arithmetic.Operation) {
	if !s.configurable() {
		return
	}
	s.operations = s.operations.Toggle(op)
	s.settleSetupState()
}

func (s *Session) settleSetupState() {
	if !s.difficulty.IsSet() && len(s.operations) == 0 {
		s.state = StateIdle
		return
	}
	s.state = StateConfiguring
}

// Start begins the round and reports whether it did. It does nothing
// unless a difficulty and at least one operation are selected.
func (s *Session) Start() bool {
	if !s.CanStart() {
		return false
	}
	p, ok := s.problems.Generate(s.difficulty, s.operations)
	if !ok {
		return false
	}

	s.score = 0
	s.mistakes = 0
	s.timeRemaining = RoundSeconds
	s.problem = &p
	s.state = StateActive
	return true
}

// Tick consumes one second. The round ends when the clock reaches zero.
func (s *Session) Tick() {
	if s.state != StateActive {
		return
	}
	if s.timeRemaining <= 1 {
		s.timeRemaining = 0
		s.End()
		return
	}
	s.timeRemaining--
}

// SubmitAnswer scores raw player input against the current problem and
// moves on to a new one. accepted is false outside an active round.
func (s *Session) SubmitAnswer(input string) (fb Feedback, accepted bool) {
	if s.state != StateActive || s.problem == nil {
		return Feedback{}, false
	}

	fb = Check(*s.problem, input)
	if fb.Correct {
		s.score++
	} else {
		s.mistakes++
	}

	if p, ok := s.problems.Generate(s.difficulty, s.operations); ok {
		s.problem = &p
	}
	return fb, true
}

// End stops the round and shows the results.
func (s *Session) End() {
	if s.state != StateActive {
		return
	}
	s.problem = nil
	s.state = StateFinished
}

// Reset clears the finished session back to Idle.
func (s *Session) Reset() {
	if s.state != StateFinished {
		return
	}
	s.difficulty = arithmetic.DifficultyUnset
	s.operations = nil
	s.score = 0
	s.mistakes = 0
	s.timeRemaining = RoundSeconds
	s.problem = nil
	s.state = StateIdle
}

// Snapshot is a value copy of a session for rendering and storage.
type Snapshot struct {
	State         State
	Difficulty    arithmetic.Difficulty
	Operations    arithmetic.OperationSet
	Score         int
	Mistakes      int
	TimeRemaining int
	Problem       *arithmetic.Problem
}

// CanStart mirrors Session.CanStart for the captured state.
func (snap Snapshot) CanStart() bool {
	return (snap.State == StateIdle || snap.State == StateConfiguring) &&
		snap.Difficulty.IsSet() && len(snap.Operations) > 0
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:         s.state,
		Difficulty:    s.difficulty,
		Operations:    slices.Clone(s.operations),
		Score:         s.score,
		Mistakes:      s.mistakes,
		TimeRemaining: s.timeRemaining,
	}
	if s.problem != nil {
		p := *s.problem
		snap.Problem = &p
	}
	return snap
}

// Restore rebuilds a session from a snapshot. A snapshot that claims to be
// Active without a problem is given a fresh one so the session stays
// playable.
func Restore(snap Snapshot, src ProblemSource) *Session {
	s := &Session{
		problems:      src,
		state:         snap.State,
		difficulty:    snap.Difficulty,
		operations:    slices.Clone(snap.Operations),
		score:         snap.Score,
		mistakes:      snap.Mistakes,
		timeRemaining: snap.TimeRemaining,
	}
	if s.state == "" {
		s.state = StateIdle
	}

	switch s.state {
	case StateActive:
		if snap.Problem != nil {
			p := *snap.Problem
			s.problem = &p
		} else if p, ok := src.Generate(s.difficulty, s.operations); ok {
			s.problem = &p
		} else {
			s.state = StateFinished
		}
	default:
		s.problem = nil
	}
	return s
}
