// internal/api/router.go
package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Pages
	mux.HandleFunc("GET /{$}", h.newGamePage)
	mux.HandleFunc("GET /games/{gameID}", h.gamePage)
	mux.HandleFunc("POST /games/{gameID}/difficulty", h.pageSetDifficulty)
	mux.HandleFunc("POST /games/{gameID}/operations", h.pageToggleOperation)
	mux.HandleFunc("POST /games/{gameID}/start", h.pageStart)
	mux.HandleFunc("POST /games/{gameID}/answers", h.pageSubmitAnswer)
	mux.HandleFunc("POST /games/{gameID}/end", h.pageEnd)
	mux.HandleFunc("POST /games/{gameID}/reset", h.pageReset)

	// Games
	mux.HandleFunc("POST /api/games", h.createGame)
	mux.HandleFunc("GET /api/games/{gameID}", h.getGame)
	mux.HandleFunc("PUT /api/games/{gameID}/difficulty", h.setDifficulty)
	mux.HandleFunc("POST /api/games/{gameID}/operations", h.toggleOperation)
	mux.HandleFunc("POST /api/games/{gameID}/start", h.startGame)
	mux.HandleFunc("POST /api/games/{gameID}/answers", h.submitAnswer)
	mux.HandleFunc("POST /api/games/{gameID}/end", h.endGame)
	mux.HandleFunc("POST /api/games/{gameID}/reset", h.resetGame)
}

// Mount serves h under basePath. An empty basePath returns h unchanged.
func Mount(basePath string, h http.Handler) http.Handler {
	if basePath == "" {
		return h
	}
	outer := http.NewServeMux()
	outer.Handle(basePath+"/", http.StripPrefix(basePath, h))
	outer.Handle(basePath, http.RedirectHandler(basePath+"/", http.StatusMovedPermanently))
	return outer
}
