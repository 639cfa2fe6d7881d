package api

import (
	"errors"
	"net/http"

	"github.com/sudo-paoo/math-game/internal/domain/arithmetic"
	"github.com/sudo-paoo/math-game/internal/domain/game"
	"github.com/sudo-paoo/math-game/internal/store"
)

// ── Request / Response types ────────────────────────────────────────────────

type SetDifficultyRequest struct {
	Difficulty string `json:"difficulty" example:"Medium"`

	parsed arithmetic.Difficulty
}

func (r *SetDifficultyRequest) Validate() error {
	if r.Difficulty == "" {
		return errors.New("difficulty is required")
	}
	d, err := arithmetic.ParseDifficulty(r.Difficulty)
	if err != nil {
		return err
	}
	r.parsed = d
	return nil
}

type ToggleOperationRequest struct {
	Operation string `json:"operation" example:"Addition"`

	parsed arithmetic.Operation
}

func (r *ToggleOperationRequest) Validate() error {
	if r.Operation == "" {
		return errors.New("operation is required")
	}
	op, err := arithmetic.ParseOperation(r.Operation)
	if err != nil {
		return err
	}
	r.parsed = op
	return nil
}

// SubmitAnswerRequest carries the raw input. Anything that is not a finite
// number, including an empty string, is scored as a mistake.
type SubmitAnswerRequest struct {
	Answer string `json:"answer" example:"12"`
}

func (r *SubmitAnswerRequest) Validate() error { return nil }

type GameResponse struct {
	ID              string   `json:"id" example:"k3x9q2m7a1b8c4d6"`
	State           string   `json:"state" example:"active"`
	Difficulty      *string  `json:"difficulty" example:"Easy"`
	Operations      []string `json:"operations" example:"Addition,Division"`
	OperationsLabel string   `json:"operations_label" example:"Addition, Division"`
	Score           int      `json:"score" example:"7"`
	Mistakes        int      `json:"mistakes" example:"2"`
	TimeRemaining   int      `json:"time_remaining" example:"41"`
	CanStart        bool     `json:"can_start" example:"false"`
	Question        string   `json:"question,omitempty" example:"56 ÷ 7 = ?"`
}

type FeedbackResponse struct {
	Correct bool   `json:"correct" example:"false"`
	Message string `json:"message" example:"Wrong! The correct answer is 8"`
}

type SubmitAnswerResponse struct {
	Game GameResponse `json:"game"`
	// Feedback is null when the game was not accepting answers.
	Feedback *FeedbackResponse `json:"feedback"`
}

func toGameResponse(rec store.GameRecord) GameResponse {
	snap := rec.Snapshot
	resp := GameResponse{
		ID:              rec.ID,
		State:           string(snap.State),
		Operations:      snap.Operations.Names(),
		OperationsLabel: snap.Operations.Label(),
		Score:           snap.Score,
		Mistakes:        snap.Mistakes,
		TimeRemaining:   snap.TimeRemaining,
		CanStart:        snap.CanStart(),
	}
	if snap.Difficulty.IsSet() {
		name := snap.Difficulty.String()
		resp.Difficulty = &name
	}
	if snap.Problem != nil {
		resp.Question = snap.Problem.Question()
	}
	return resp
}

func toFeedbackResponse(fb *game.Feedback) *FeedbackResponse {
	if fb == nil {
		return nil
	}
	return &FeedbackResponse{Correct: fb.Correct, Message: fb.Message()}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// createGame starts a new game in the Idle state.
// @Summary      Create a game
// @Description  Creates a new game with no difficulty or operations selected.
// @Tags         Games
// @Produce      json
// @Success      201  {object}  GameResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/games [post]
func (h *Handler) createGame(w http.ResponseWriter, r *http.Request) {
	rec, err := h.games.Create(r.Context())
	if h.handleStoreError(w, err, "game") {
		return
	}
	respondJSON(w, http.StatusCreated, toGameResponse(rec))
}

// getGame returns the current state of a game.
// @Summary      Get a game
// @Description  Returns the counters, setup and current question. The answer is never included.
// @Tags         Games
// @Produce      json
// @Param        gameID  path      string  true  "Game ID"
// @Success      200     {object}  GameResponse
// @Failure      404     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /api/games/{gameID} [get]
func (h *Handler) getGame(w http.ResponseWriter, r *http.Request) {
	rec, err := h.games.Get(r.Context(), r.PathValue("gameID"))
	if h.handleStoreError(w, err, "game") {
		return
	}
	respondJSON(w, http.StatusOK, toGameResponse(rec))
}

// setDifficulty chooses the operand range.
// @Summary      Set difficulty
// @Description  Easy (1-10), Medium (1-50) or Hard (1-100). Ignored once the round has started.
// @Tags         Games
// @Accept       json
// @Produce      json
// @Param        gameID  path      string                true  "Game ID"
// @Param        body    body      SetDifficultyRequest  true  "Difficulty"
// @Success      200     {object}  GameResponse
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/games/{gameID}/difficulty [put]
func (h *Handler) setDifficulty(w http.ResponseWriter, r *http.Request) {
	var req SetDifficultyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rec, err := h.games.SetDifficulty(r.Context(), r.PathValue("gameID"), req.parsed)
	if h.handleStoreError(w, err, "game") {
		return
	}
	respondJSON(w, http.StatusOK, toGameResponse(rec))
}

// toggleOperation selects or deselects an operation.
// @Summary      Toggle an operation
// @Description  Mixed replaces the selection; selecting all four base operations collapses to Mixed.
// @Tags         Games
// @Accept       json
// @Produce      json
// @Param        gameID  path      string                  true  "Game ID"
// @Param        body    body      ToggleOperationRequest  true  "Operation"
// @Success      200     {object}  GameResponse
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/games/{gameID}/operations [post]
func (h *Handler) toggleOperation(w http.ResponseWriter, r *http.Request) {
	var req ToggleOperationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rec, err := h.games.ToggleOperation(r.Context(), r.PathValue("gameID"), req.parsed)
	if h.handleStoreError(w, err, "game") {
		return
	}
	respondJSON(w, http.StatusOK, toGameResponse(rec))
}

// startGame begins the 60-second round.
// @Summary      Start the round
// @Description  Does nothing unless a difficulty and at least one operation are selected.
// @Tags         Games
// @Produce      json
// @Param        gameID  path      string  true  "Game ID"
// @Success      200     {object}  GameResponse
// @Failure      404     {object}  map[string]string
// @Router       /api/games/{gameID}/start [post]
func (h *Handler) startGame(w http.ResponseWriter, r *http.Request) {
	rec, err := h.games.Start(r.Context(), r.PathValue("gameID"))
	if h.handleStoreError(w, err, "game") {
		return
	}
	respondJSON(w, http.StatusOK, toGameResponse(rec))
}

// submitAnswer scores an answer and moves on to the next problem.
// @Summary      Submit an answer
// @Tags         Games
// @Accept       json
// @Produce      json
// @Param        gameID  path      string               true  "Game ID"
// @Param        body    body      SubmitAnswerRequest  true  "Answer"
// @Success      200     {object}  SubmitAnswerResponse
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/games/{gameID}/answers [post]
func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req SubmitAnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rec, fb, err := h.games.SubmitAnswer(r.Context(), r.PathValue("gameID"), req.Answer)
	if h.handleStoreError(w, err, "game") {
		return
	}
	respondJSON(w, http.StatusOK, SubmitAnswerResponse{
		Game:     toGameResponse(rec),
		Feedback: toFeedbackResponse(fb),
	})
}

// endGame stops the round early.
// @Summary      End the round
// @Tags         Games
// @Produce      json
// @Param        gameID  path      string  true  "Game ID"
// @Success      200     {object}  GameResponse
// @Failure      404     {object}  map[string]string
// @Router       /api/games/{gameID}/end [post]
func (h *Handler) endGame(w http.ResponseWriter, r *http.Request) {
	rec, err := h.games.End(r.Context(), r.PathValue("gameID"))
	if h.handleStoreError(w, err, "game") {
		return
	}
	respondJSON(w, http.StatusOK, toGameResponse(rec))
}

// resetGame clears a finished game back to setup.
// @Summary      Reset a finished game
// @Tags         Games
// @Produce      json
// @Param        gameID  path      string  true  "Game ID"
// @Success      200     {object}  GameResponse
// @Failure      404     {object}  map[string]string
// @Router       /api/games/{gameID}/reset [post]
func (h *Handler) resetGame(w http.ResponseWriter, r *http.Request) {
	rec, err := h.games.Reset(r.Context(), r.PathValue("gameID"))
	if h.handleStoreError(w, err, "game") {
		return
	}
	respondJSON(w, http.StatusOK, toGameResponse(rec))
}
