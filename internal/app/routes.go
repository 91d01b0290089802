package app

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/vancomm/maze-server/internal/handlers"
	"github.com/vancomm/maze-server/internal/repository"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	repo := repository.New(a.db)

	var images handlers.ImageCache
	if a.images != nil {
		images = a.images
	}

	mazes := handlers.NewMazeHandler(a.logger, repo, images, a.limits, a.ws, createRand())
	mazes.RegisterRoutes(a.router)

	auth := handlers.NewAuth(a.logger, repo, a.cookies, a.jwt)
	auth.RegisterRoutes(a.router)
}
