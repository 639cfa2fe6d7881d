package api

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sudo-paoo/math-game/internal/domain/arithmetic"
	"github.com/sudo-paoo/math-game/internal/domain/game"
	"github.com/sudo-paoo/math-game/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ── View model ──────────────────────────────────────────────────────────────

type choiceView struct {
	Value    string
	Label    string
	Selected bool
}

type toastView struct {
	Correct bool
	Message string
}

type gameView struct {
	BasePath string
	GameID   string
	State    string

	Setup    bool
	Active   bool
	Finished bool

	Difficulties []choiceView
	Operations   []choiceView
	CanStart     bool

	Score         int
	Mistakes      int
	TimeRemaining int
	Question      string

	DifficultyLabel string
	OperationsLabel string

	Toast *toastView
}

func (h *Handler) newGameView(rec store.GameRecord, fb *game.Feedback) gameView {
	snap := rec.Snapshot
	view := gameView{
		BasePath:        h.basePath,
		GameID:          rec.ID,
		State:           string(snap.State),
		Setup:           snap.State == game.StateIdle || snap.State == game.StateConfiguring,
		Active:          snap.State == game.StateActive,
		Finished:        snap.State == game.StateFinished,
		CanStart:        snap.CanStart(),
		Score:           snap.Score,
		Mistakes:        snap.Mistakes,
		TimeRemaining:   snap.TimeRemaining,
		DifficultyLabel: snap.Difficulty.String(),
		OperationsLabel: snap.Operations.Label(),
	}
	for _, d := range arithmetic.Difficulties {
		view.Difficulties = append(view.Difficulties, choiceView{
			Value:    d.String(),
			Label:    d.String(),
			Selected: snap.Difficulty == d,
		})
	}
	for _, op := range arithmetic.SelectableOperations {
		view.Operations = append(view.Operations, choiceView{
			Value:    op.String(),
			Label:    op.String(),
			Selected: snap.Operations.Contains(op),
		})
	}
	if snap.Problem != nil {
		view.Question = snap.Problem.Question()
	}
	if fb != nil && view.Active {
		view.Toast = &toastView{Correct: fb.Correct, Message: fb.Message()}
	}
	return view
}

// feedbackFromQuery reads back the result carried through the post/redirect.
func feedbackFromQuery(q url.Values) *game.Feedback {
	switch q.Get("result") {
	case "correct":
		return &game.Feedback{Correct: true}
	case "wrong":
		answer, err := strconv.Atoi(q.Get("answer"))
		if err != nil {
			return nil
		}
		return &game.Feedback{Correct: false, Answer: answer}
	default:
		return nil
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /
func (h *Handler) newGamePage(w http.ResponseWriter, r *http.Request) {
	rec, err := h.games.Create(r.Context())
	if h.handlePageError(w, err) {
		return
	}
	h.redirectToGame(w, r, rec.ID, nil)
}

// GET /games/{gameID}
func (h *Handler) gamePage(w http.ResponseWriter, r *http.Request) {
	rec, err := h.games.Get(r.Context(), r.PathValue("gameID"))
	if h.handlePageError(w, err) {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	view := h.newGameView(rec, feedbackFromQuery(r.URL.Query()))
	if err := pageTemplates.ExecuteTemplate(w, "game.html", view); err != nil {
		h.logger.Error("render game page", "error", err, "game_id", rec.ID)
	}
}

// POST /games/{gameID}/difficulty
func (h *Handler) pageSetDifficulty(w http.ResponseWriter, r *http.Request) {
	d, err := arithmetic.ParseDifficulty(r.FormValue("difficulty"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	gameID := r.PathValue("gameID")
	_, err = h.games.SetDifficulty(r.Context(), gameID, d)
	if h.handlePageError(w, err) {
		return
	}
	h.redirectToGame(w, r, gameID, nil)
}

// POST /games/{gameID}/operations
func (h *Handler) pageToggleOperation(w http.ResponseWriter, r *http.Request) {
	op, err := arithmetic.ParseOperation(r.FormValue("operation"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	gameID := r.PathValue("gameID")
	_, err = h.games.ToggleOperation(r.Context(), gameID, op)
	if h.handlePageError(w, err) {
		return
	}
	h.redirectToGame(w, r, gameID, nil)
}

// POST /games/{gameID}/start
func (h *Handler) pageStart(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("gameID")
	_, err := h.games.Start(r.Context(), gameID)
	if h.handlePageError(w, err) {
		return
	}
	h.redirectToGame(w, r, gameID, nil)
}

// POST /games/{gameID}/answers
func (h *Handler) pageSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("gameID")
	_, fb, err := h.games.SubmitAnswer(r.Context(), gameID, r.FormValue("answer"))
	if h.handlePageError(w, err) {
		return
	}

	var q url.Values
	if fb != nil {
		q = url.Values{}
		if fb.Correct {
			q.Set("result", "correct")
		} else {
			q.Set("result", "wrong")
			q.Set("answer", strconv.Itoa(fb.Answer))
		}
	}
	h.redirectToGame(w, r, gameID, q)
}

// POST /games/{gameID}/end
func (h *Handler) pageEnd(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("gameID")
	_, err := h.games.End(r.Context(), gameID)
	if h.handlePageError(w, err) {
		return
	}
	h.redirectToGame(w, r, gameID, nil)
}

// POST /games/{gameID}/reset
func (h *Handler) pageReset(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("gameID")
	_, err := h.games.Reset(r.Context(), gameID)
	if h.handlePageError(w, err) {
		return
	}
	h.redirectToGame(w, r, gameID, nil)
}

func (h *Handler) redirectToGame(w http.ResponseWriter, r *http.Request, gameID string, q url.Values) {
	target := h.basePath + "/games/" + url.PathEscape(gameID)
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handlePageError is handleStoreError for the HTML routes: plain-text bodies.
func (h *Handler) handlePageError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "game not found", http.StatusNotFound)
		return true
	}
	h.logger.Error("page error", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
	return true
}
