package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/maze-server/internal/config"
	"github.com/vancomm/maze-server/internal/maze"
	"github.com/vancomm/maze-server/internal/middleware"
	"github.com/vancomm/maze-server/internal/repository"
)

type memoryStore struct {
	mu    sync.Mutex
	mazes map[uuid.UUID]*repository.MazeRecord
}

func newMemoryStore() *memoryStore {
	return &memoryStore{mazes: make(map[uuid.UUID]*repository.MazeRecord)}
}

func (s *memoryStore) CreateMaze(
	ctx context.Context, m *maze.Maze, params repository.CreateMazeParams,
) (*repository.MazeRecord, error) {
	state, err := m.Bytes()
	if err != nil {
		return nil, err
	}
	record := &repository.MazeRecord{
		MazeId:    uuid.New(),
		PlayerId:  params.PlayerId,
		Width:     m.Width,
		Height:    m.Height,
		Seed:      int64(m.Seed),
		StartX:    m.Start.X,
		StartY:    m.Start.Y,
		State:     state,
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mazes[record.MazeId] = record
	return record, nil
}

func (s *memoryStore) FetchMaze(ctx context.Context, mazeId uuid.UUID) (*repository.MazeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.mazes[mazeId]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return record, nil
}

func (s *memoryStore) ListPlayerMazes(
	ctx context.Context, playerId int64, limit int,
) ([]repository.MazeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var records []repository.MazeRecord
	for _, record := range s.mazes {
		if record.PlayerId != nil && *record.PlayerId == playerId && len(records) < limit {
			records = append(records, *record)
		}
	}
	return records, nil
}

type memoryCache struct {
	mu     sync.Mutex
	images map[string][]byte
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.images[key]
	return b, ok, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.images[key] = b
	return nil
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type testServer struct {
	store *memoryStore
	cache *memoryCache
	mux   *http.ServeMux
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ws, err := config.NewWebSocket()
	require.NoError(t, err)

	ts := &testServer{
		store: newMemoryStore(),
		cache: &memoryCache{images: make(map[string][]byte)},
		mux:   http.NewServeMux(),
	}
	limits := &config.Limits{MaxWidth: 20, MaxHeight: 20, CacheTTL: time.Minute}
	h := NewMazeHandler(discard, ts.store, ts.cache, limits, ws, maze.NewRand(1))
	h.RegisterRoutes(ts.mux)
	return ts
}

func (ts *testServer) do(r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.mux.ServeHTTP(rec, r)
	return rec
}

func (ts *testServer) create(t *testing.T, query string) MazeDTO {
	t.Helper()
	rec := ts.do(httptest.NewRequest(http.MethodPost, "/maze?"+query, nil))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var dto MazeDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	return dto
}

func countTrue(bs []bool) (n int) {
	for _, b := range bs {
		if b {
			n++
		}
	}
	return
}

func TestNewMaze(t *testing.T) {
	ts := newTestServer(t)
	dto := ts.create(t, "width=8&height=5&seed=42")

	assert.Equal(t, 8, dto.Width)
	assert.Equal(t, 5, dto.Height)
	assert.Equal(t, "42", dto.Seed)
	assert.Equal(t, 8*5-1, countTrue(dto.EastOpen)+countTrue(dto.SouthOpen))
	assert.Equal(t, maze.Stats{Pushes: 40, Pops: 40, Carved: 39}, dto.Stats)

	want, err := maze.Generate(maze.Params{Width: 8, Height: 5, Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, want.Start, dto.Start)
	for y := range 5 {
		for x := range 7 {
			open, err := want.Grid.IsOpen(maze.Point{X: x, Y: y}, maze.Point{X: x + 1, Y: y})
			require.NoError(t, err)
			assert.Equal(t, open, dto.EastOpen[y*8+x], "east of %d:%d", x, y)
		}
	}
	for x := range 8 {
		assert.False(t, dto.SouthOpen[4*8+x])
	}

	assert.Len(t, ts.store.mazes, 1)
}

func TestNewMazeRandomSeed(t *testing.T) {
	ts := newTestServer(t)
	a := ts.create(t, "width=6&height=6")
	b := ts.create(t, "width=6&height=6")
	assert.NotEqual(t, a.Seed, b.Seed)
	assert.NotEqual(t, a.MazeId, b.MazeId)
}

func TestNewMazeInvalid(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		query string
		error string
	}{
		{"width=0&height=5", "invalid maze dimensions"},
		{"width=5&height=-3", "invalid maze dimensions"},
		{"width=21&height=5", "maze too large"},
		{"width=5", "height"},
		{"width=five&height=5", "width"},
	}

	for _, test := range tests {
		t.Run(test.query, func(t *testing.T) {
			rec := ts.do(httptest.NewRequest(http.MethodPost, "/maze?"+test.query, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body["error"], test.error)
		})
	}

	assert.Empty(t, ts.store.mazes)
}

func TestFetchMaze(t *testing.T) {
	ts := newTestServer(t)
	created := ts.create(t, "width=4&height=4&seed=9")

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/maze/"+created.MazeId, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched MazeDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, created, fetched)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/maze/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/maze/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWall(t *testing.T) {
	ts := newTestServer(t)
	created := ts.create(t, "width=3&height=3&seed=5")

	query := func(x1, y1, x2, y2 int) *httptest.ResponseRecorder {
		url := fmt.Sprintf("/maze/%s/wall?x1=%d&y1=%d&x2=%d&y2=%d", created.MazeId, x1, y1, x2, y2)
		return ts.do(httptest.NewRequest(http.MethodGet, url, nil))
	}

	for y := range 3 {
		for x := range 2 {
			for _, rec := range []*httptest.ResponseRecorder{query(x, y, x+1, y), query(x+1, y, x, y)} {
				require.Equal(t, http.StatusOK, rec.Code)
				var body map[string]bool
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, created.EastOpen[y*3+x], body["open"])
			}
		}
	}

	rec := query(0, 0, 1, 1)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no such adjacency")

	rec = query(-1, 0, 0, 0)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/maze/"+created.MazeId+"/wall?x1=0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImage(t *testing.T) {
	ts := newTestServer(t)
	created := ts.create(t, "width=7&height=3")

	url := "/maze/" + created.MazeId + "/image.png"
	first := ts.do(httptest.NewRequest(http.MethodGet, url, nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "image/png", first.Header().Get("Content-Type"))
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	img, err := png.Decode(first.Body)
	require.NoError(t, err)
	assert.Equal(t, 71, img.Bounds().Dx())
	assert.Equal(t, 31, img.Bounds().Dy())

	second := ts.do(httptest.NewRequest(http.MethodGet, url, nil))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))

	solution := ts.do(httptest.NewRequest(http.MethodGet, url+"?solution=1", nil))
	assert.Equal(t, "MISS", solution.Header().Get("X-Cache"))
	assert.Len(t, ts.cache.images, 2)
}

func TestSolution(t *testing.T) {
	ts := newTestServer(t)
	created := ts.create(t, "width=6&height=4&seed=3")

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/maze/"+created.MazeId+"/solution", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var dto SolutionDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	require.Len(t, dto.Path, dto.Length)
	assert.Equal(t, maze.Point{X: 0, Y: 0}, dto.Path[0])
	assert.Equal(t, maze.Point{X: 5, Y: 3}, dto.Path[len(dto.Path)-1])
}

func TestASCII(t *testing.T) {
	ts := newTestServer(t)
	created := ts.create(t, "width=1&height=3")

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/maze/"+created.MazeId+"/ascii", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "+---+\n|   |\n+   +\n|   |\n+   +\n|   |\n+---+\n", rec.Body.String())
}

func TestList(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/maze", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	claims := config.NewPlayerClaims(3, "ariadne")
	withClaims := func(r *http.Request) *http.Request {
		return r.WithContext(middleware.WithPlayerClaims(r.Context(), claims))
	}

	rec = ts.do(withClaims(httptest.NewRequest(http.MethodPost, "/maze?width=2&height=2", nil)))
	require.Equal(t, http.StatusCreated, rec.Code)
	ts.create(t, "width=2&height=2")

	rec = ts.do(withClaims(httptest.NewRequest(http.MethodGet, "/maze", nil)))
	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []MazeSummaryDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	assert.Len(t, summaries, 1)
}

func TestConnectReplay(t *testing.T) {
	ts := newTestServer(t)
	created := ts.create(t, "width=9&height=7&seed=77")

	server := httptest.NewServer(ts.mux)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/maze/" + created.MazeId + "/connect"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var steps []maze.Step
	var done replayFrame
	for !done.Done {
		var frame struct {
			Steps []struct {
				Kind string     `json:"kind"`
				From maze.Point `json:"from"`
				To   maze.Point `json:"to"`
			} `json:"steps"`
			Done bool     `json:"done"`
			Maze *MazeDTO `json:"maze"`
		}
		require.NoError(t, conn.ReadJSON(&frame))
		for _, s := range frame.Steps {
			kind := maze.StepBacktrack
			switch s.Kind {
			case "start":
				kind = maze.StepStart
			case "carve":
				kind = maze.StepCarve
			}
			steps = append(steps, maze.Step{Kind: kind, From: s.From, To: s.To})
		}
		done = replayFrame{Done: frame.Done, Maze: frame.Maze}
	}

	require.Len(t, steps, 2*9*7)
	assert.Equal(t, created.Start, steps[0].From)
	require.NotNil(t, done.Maze)
	assert.Equal(t, created.EastOpen, done.Maze.EastOpen)

	east := make([]bool, 9*7)
	south := make([]bool, 9*7)
	for _, s := range steps {
		if s.Kind != maze.StepCarve {
			continue
		}
		a, b := s.From, s.To
		if b.Y < a.Y || (b.Y == a.Y && b.X < a.X) {
			a, b = b, a
		}
		if a.Y == b.Y {
			east[a.Y*9+a.X] = true
		} else {
			south[a.Y*9+a.X] = true
		}
	}
	assert.Equal(t, created.EastOpen, east)
	assert.Equal(t, created.SouthOpen, south)
}
