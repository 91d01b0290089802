package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vancomm/maze-server/internal/cache"
	"github.com/vancomm/maze-server/internal/config"
	"github.com/vancomm/maze-server/internal/maze"
	"github.com/vancomm/maze-server/internal/middleware"
	"github.com/vancomm/maze-server/internal/render"
	"github.com/vancomm/maze-server/internal/repository"
)

var (
	ErrMazeTooLarge = errors.New("maze too large")
	ErrBadMazeId    = errors.New("invalid maze id")
)

type MazeStore interface {
	CreateMaze(ctx context.Context, m *maze.Maze, params repository.CreateMazeParams) (*repository.MazeRecord, error)
	FetchMaze(ctx context.Context, mazeId uuid.UUID) (*repository.MazeRecord, error)
	ListPlayerMazes(ctx context.Context, playerId int64, limit int) ([]repository.MazeRecord, error)
}

type ImageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, b []byte) error
}

type MazeHandler struct {
	logger *slog.Logger
	repo   MazeStore
	images ImageCache // nil when caching is disabled
	limits config.Limits
	ws     *config.WebSocket

	mu  sync.Mutex
	rnd *rand.Rand // seeds for mazes created without one
}

func NewMazeHandler(
	logger *slog.Logger,
	repo MazeStore,
	images ImageCache,
	limits *config.Limits,
	ws *config.WebSocket,
	rnd *rand.Rand,
) *MazeHandler {
	handler := &MazeHandler{
		logger: logger,
		repo:   repo,
		images: images,
		limits: *limits,
		ws:     ws,
		rnd:    rnd,
	}
	return handler
}

func (h *MazeHandler) newSeed() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rnd.Uint64()
}

func (h *MazeHandler) NewMaze(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateMazeDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, h.logger, http.StatusBadRequest, err)
		return
	}

	params := maze.Params{Width: dto.Width, Height: dto.Height}
	if err := params.Validate(); err != nil {
		sendErrorOrLog(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if !h.limits.Allow(params.Width, params.Height) {
		sendErrorOrLog(w, h.logger, http.StatusBadRequest, fmt.Errorf(
			"%w: limit is %dx%d", ErrMazeTooLarge, h.limits.MaxWidth, h.limits.MaxHeight,
		))
		return
	}
	if dto.Seed != nil {
		params.Seed = *dto.Seed
	} else {
		params.Seed = h.newSeed()
	}

	m, err := maze.Generate(params)
	if err != nil {
		internalError(w, h.logger, "unable to generate maze", err)
		return
	}

	var createParams repository.CreateMazeParams
	if claims, ok := middleware.PlayerClaims(r.Context()); ok {
		h.logger.Debug("creating player maze", "player_id", claims.PlayerId)
		createParams.PlayerId = &claims.PlayerId
	}

	record, err := h.repo.CreateMaze(r.Context(), m, createParams)
	if err != nil {
		internalError(w, h.logger, "unable to save maze", err)
		return
	}

	sendJSONOrLog(w, h.logger, http.StatusCreated, NewMazeDTO(record, m))
}

func (h *MazeHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.PlayerClaims(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	dto, err := ParseListMazesDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, h.logger, http.StatusBadRequest, err)
		return
	}

	records, err := h.repo.ListPlayerMazes(r.Context(), claims.PlayerId, dto.Limit)
	if err != nil {
		internalError(w, h.logger, "unable to list mazes", err)
		return
	}

	summaries := make([]MazeSummaryDTO, len(records))
	for i, record := range records {
		summaries[i] = NewMazeSummaryDTO(record)
	}
	sendJSONOrLog(w, h.logger, http.StatusOK, summaries)
}

// load resolves the {id} path value to a stored maze. On failure it writes
// the response itself and returns ok == false.
func (h *MazeHandler) load(w http.ResponseWriter, r *http.Request) (
	record *repository.MazeRecord, m *maze.Maze, ok bool,
) {
	mazeId, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		sendErrorOrLog(w, h.logger, http.StatusBadRequest, ErrBadMazeId)
		return nil, nil, false
	}

	record, err = h.repo.FetchMaze(r.Context(), mazeId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return nil, nil, false
	}
	if err != nil {
		internalError(w, h.logger, "unable to fetch maze from db", err)
		return nil, nil, false
	}

	m, err = record.Maze()
	if err != nil {
		internalError(w, h.logger, "db returned invalid maze.state", err)
		return nil, nil, false
	}

	return record, m, true
}

func (h *MazeHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	record, m, ok := h.load(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, h.logger, http.StatusOK, NewMazeDTO(record, m))
}

func (h *MazeHandler) Wall(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseWallQueryDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, h.logger, http.StatusBadRequest, err)
		return
	}

	_, m, ok := h.load(w, r)
	if !ok {
		return
	}

	a, b := dto.Points()
	open, err := m.Grid.IsOpen(a, b)
	if errors.Is(err, maze.ErrNoSuchAdjacency) || errors.Is(err, maze.ErrOutOfBounds) {
		sendErrorOrLog(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		internalError(w, h.logger, "unable to query wall", err)
		return
	}

	sendJSONOrLog(w, h.logger, http.StatusOK, map[string]bool{"open": open})
}

func (h *MazeHandler) solve(m *maze.Maze) ([]maze.Point, error) {
	return m.Grid.Solve(
		maze.Point{X: 0, Y: 0},
		maze.Point{X: m.Width - 1, Y: m.Height - 1},
	)
}

func (h *MazeHandler) Solution(w http.ResponseWriter, r *http.Request) {
	_, m, ok := h.load(w, r)
	if !ok {
		return
	}

	path, err := h.solve(m)
	if err != nil {
		internalError(w, h.logger, "stored maze is not solvable", err)
		return
	}

	sendJSONOrLog(w, h.logger, http.StatusOK, SolutionDTO{Path: path, Length: len(path)})
}

func (h *MazeHandler) ASCII(w http.ResponseWriter, r *http.Request) {
	_, m, ok := h.load(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(m.Grid.String())); err != nil {
		h.logger.Error("unable to send ascii maze", slog.Any("error", err))
	}
}

func (h *MazeHandler) Image(w http.ResponseWriter, r *http.Request) {
	record, m, ok := h.load(w, r)
	if !ok {
		return
	}

	variant := ""
	opts := render.DefaultOptions()
	if r.URL.Query().Get("solution") == "1" {
		variant = "solution"
		path, err := h.solve(m)
		if err != nil {
			internalError(w, h.logger, "stored maze is not solvable", err)
			return
		}
		opts.Path = path
	}

	key := cache.Key(record.MazeId, variant)
	if h.images != nil {
		b, hit, err := h.images.Get(r.Context(), key)
		if err != nil {
			h.logger.Warn("image cache get failed", slog.String("key", key), slog.Any("error", err))
		} else if hit {
			h.sendPNG(w, b, "HIT")
			return
		}
	}

	var buf bytes.Buffer
	if err := render.Encode(&buf, m.Grid, opts); err != nil {
		internalError(w, h.logger, "unable to render maze", err)
		return
	}

	if h.images != nil {
		if err := h.images.Set(r.Context(), key, buf.Bytes()); err != nil {
			h.logger.Warn("image cache set failed", slog.String("key", key), slog.Any("error", err))
		}
	}

	h.sendPNG(w, buf.Bytes(), "MISS")
}

func (h *MazeHandler) sendPNG(w http.ResponseWriter, b []byte, cacheStatus string) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Cache", cacheStatus)
	if _, err := w.Write(b); err != nil {
		h.logger.Error("unable to send image", slog.Any("error", err))
	}
}
