package terminal_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sudo-paoo/math-game/internal/domain/arithmetic"
	"github.com/sudo-paoo/math-game/internal/domain/game"
	"github.com/sudo-paoo/math-game/internal/terminal"
)

type fixed struct{ p arithmetic.Problem }

func (f fixed) Generate(d arithmetic.Difficulty, ops arithmetic.OperationSet) (arithmetic.Problem, bool) {
	if !d.IsSet() || len(ops.Effective()) == 0 {
		return arithmetic.Problem{}, false
	}
	return f.p, true
}

var threePlusFour = arithmetic.Problem{Operation: arithmetic.Addition, Left: 3, Right: 4, Answer: 7}

func newShell() (*terminal.Shell, *bytes.Buffer) {
	var out bytes.Buffer
	sh := terminal.NewShell(fixed{threePlusFour}, &out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return sh, &out
}

func feed(sh *terminal.Shell, lines ...string) {
	for _, l := range lines {
		sh.HandleLine(l)
	}
}

func TestSetupCommands(t *testing.T) {
	sh, out := newShell()

	feed(sh, "start")
	if !strings.Contains(out.String(), "Pick a difficulty") {
		t.Errorf("expected a hint when starting unconfigured, got %q", out)
	}

	feed(sh, "Medium", "+", "div")
	snap := sh.Snapshot()
	if snap.State != game.StateConfiguring || snap.Difficulty != arithmetic.Medium {
		t.Errorf("unexpected setup %+v", snap)
	}
	if got := snap.Operations.Label(); got != "Addition, Division" {
		t.Errorf("expected Addition, Division, got %q", got)
	}
	if got := sh.Prompt(); got != "math (Medium; Addition, Division)> " {
		t.Errorf("unexpected prompt %q", got)
	}

	feed(sh, "bogus")
	if !strings.Contains(out.String(), `Unknown command "bogus"`) {
		t.Errorf("expected unknown command message, got %q", out)
	}
}

func TestSetupLine_SeveralCommands(t *testing.T) {
	sh, out := newShell()

	feed(sh, "hard sub mul start")
	snap := sh.Snapshot()
	if snap.State != game.StateActive || snap.Difficulty != arithmetic.Hard {
		t.Fatalf("expected an active Hard round, got %+v", snap)
	}
	if got := snap.Operations.Label(); got != "Subtraction, Multiplication" {
		t.Errorf("unexpected operations %q", got)
	}

	sh, out = newShell()
	feed(sh, "easy nonsense add")
	if sh.Snapshot().Operations.Contains(arithmetic.Addition) {
		t.Error("expected words after an unknown command to be skipped")
	}
	if !strings.Contains(out.String(), `Unknown command "nonsense"`) {
		t.Errorf("expected unknown command message, got %q", out)
	}

	sh, out = newShell()
	feed(sh, `easy "add`)
	if !strings.Contains(out.String(), "Could not read that line") {
		t.Errorf("expected a parse error for an unbalanced quote, got %q", out)
	}
}

func TestRound(t *testing.T) {
	sh, out := newShell()
	feed(sh, "easy", "add", "start")

	if sh.Snapshot().State != game.StateActive {
		t.Fatalf("expected active, got %s", sh.Snapshot().State)
	}
	if got := sh.Prompt(); got != "[60s] 3 + 4 = ? " {
		t.Errorf("unexpected prompt %q", got)
	}

	out.Reset()
	feed(sh, "7", " 7.0 ", "8", "")
	want := "Correct!\nCorrect!\nWrong! The correct answer is 7\nWrong! The correct answer is 7\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}

	feed(sh, "easy", "mixed")
	snap := sh.Snapshot()
	if snap.Score != 2 || snap.Mistakes != 4 {
		t.Errorf("expected setup words to be scored as answers, got %+v", snap)
	}

	feed(sh, "end")
	if sh.Snapshot().State != game.StateFinished {
		t.Fatalf("expected finished, got %s", sh.Snapshot().State)
	}
	if !strings.Contains(out.String(), "Results") || !strings.Contains(out.String(), "Score:      2") {
		t.Errorf("expected results, got %q", out)
	}

	feed(sh, "anything")
	if snap := sh.Snapshot(); snap.State != game.StateIdle || snap.Difficulty.IsSet() {
		t.Errorf("expected reset to idle, got %+v", snap)
	}
}

func TestHandleTick_FinishesRound(t *testing.T) {
	sh, out := newShell()
	sh.HandleTick()
	if sh.Snapshot().TimeRemaining != game.RoundSeconds {
		t.Error("tick outside a round must not consume time")
	}

	feed(sh, "hard", "mul", "start")
	for range game.RoundSeconds {
		sh.HandleTick()
	}
	if sh.Snapshot().State != game.StateFinished {
		t.Fatalf("expected finished after %d ticks", game.RoundSeconds)
	}
	if !strings.Contains(out.String(), "Time's up!") {
		t.Errorf("expected time's up message, got %q", out)
	}
}

func TestQuitAndHelp(t *testing.T) {
	sh, out := newShell()

	if sh.HandleLine("help") {
		t.Error("help must not quit")
	}
	if !strings.Contains(out.String(), "start") {
		t.Errorf("expected help text, got %q", out)
	}
	if !sh.HandleLine(" QUIT ") {
		t.Error("expected quit")
	}
}

type fakeReader struct {
	lines chan string

	mu     sync.Mutex
	prompt string
}

func (f *fakeReader) Readline() (string, error) {
	line, ok := <-f.lines
	if !ok {
		return "", io.EOF
	}
	return line, nil
}

func (f *fakeReader) SetPrompt(p string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompt = p
}

func (f *fakeReader) Refresh() {}

func (f *fakeReader) Prompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prompt
}

func TestRun_CountdownEndsRound(t *testing.T) {
	sh, out := newShell()
	sh.SetTickPeriod(5 * time.Millisecond)
	rl := &fakeReader{lines: make(chan string)}

	done := make(chan error, 1)
	go func() { done <- sh.Run(context.Background(), rl) }()

	for _, l := range []string{"easy", "add", "start", strconv.Itoa(threePlusFour.Answer)} {
		rl.lines <- l
	}

	deadline := time.Now().Add(5 * time.Second)
	for rl.Prompt() != "press enter to play again> " {
		if time.Now().After(deadline) {
			t.Fatalf("round never finished, prompt %q", rl.Prompt())
		}
		time.Sleep(5 * time.Millisecond)
	}

	rl.lines <- "quit"
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return")
	}

	text := out.String()
	for _, want := range []string{"Correct!", "Time's up!", "Score:      1"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q: %q", want, text)
		}
	}
}

func TestRun_EOFAndCancel(t *testing.T) {
	sh, _ := newShell()
	rl := &fakeReader{lines: make(chan string)}
	close(rl.lines)

	if err := sh.Run(context.Background(), rl); err != nil {
		t.Errorf("expected nil on EOF, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sh, _ = newShell()
	if err := sh.Run(ctx, &fakeReader{lines: make(chan string)}); err == nil {
		t.Error("expected context error")
	}
}
