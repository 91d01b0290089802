package handlers

import "net/http"

func (h *MazeHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /maze", h.NewMaze)
	mux.HandleFunc("GET /maze", h.List)
	mux.HandleFunc("GET /maze/{id}", h.Fetch)
	mux.HandleFunc("GET /maze/{id}/wall", h.Wall)
	mux.HandleFunc("GET /maze/{id}/image.png", h.Image)
	mux.HandleFunc("GET /maze/{id}/solution", h.Solution)
	mux.HandleFunc("GET /maze/{id}/ascii", h.ASCII)
	mux.HandleFunc("GET /maze/{id}/connect", h.Connect)
}

func (a *Auth) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /auth/status", a.Status)
	mux.HandleFunc("POST /auth/register", a.Register)
	mux.HandleFunc("POST /auth/login", a.Login)
	mux.HandleFunc("POST /auth/logout", a.Logout)
}
