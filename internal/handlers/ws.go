package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vancomm/maze-server/internal/maze"
)

const (
	replayBatch  = 256
	writeTimeout = 10 * time.Second
)

type replayFrame struct {
	Steps []maze.Step `json:"steps,omitempty"`
	Done  bool        `json:"done,omitempty"`
	Maze  *MazeDTO    `json:"maze,omitempty"`
}

// stepWriter batches traversal steps into websocket frames. After the first
// failed write it drops everything.
type stepWriter struct {
	conn  *websocket.Conn
	batch []maze.Step
	err   error
}

func (sw *stepWriter) write(frame replayFrame) {
	if sw.err != nil {
		return
	}
	sw.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	sw.err = sw.conn.WriteJSON(frame)
}

func (sw *stepWriter) observe(s maze.Step) {
	sw.batch = append(sw.batch, s)
	if len(sw.batch) == replayBatch {
		sw.flush()
	}
}

func (sw *stepWriter) flush() {
	if len(sw.batch) == 0 {
		return
	}
	sw.write(replayFrame{Steps: sw.batch})
	sw.batch = sw.batch[:0]
}

// Connect replays the carving of a stored maze over a websocket. Generation
// is deterministic per seed, so rerunning the builder reproduces every step.
func (h *MazeHandler) Connect(w http.ResponseWriter, r *http.Request) {
	record, stored, ok := h.load(w, r)
	if !ok {
		return
	}

	conn, err := h.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("unable to upgrade connection", slog.Any("error", err))
		return
	}
	defer conn.Close()

	sw := &stepWriter{conn: conn, batch: make([]maze.Step, 0, replayBatch)}
	b := maze.NewBuilder(maze.NewRand(stored.Seed))
	b.Observe(sw.observe)

	replayed, err := maze.NewWithBuilder(record.Params(), b)
	if err != nil {
		h.logger.Error("unable to replay maze", slog.Any("error", err))
		return
	}
	sw.flush()

	if replayed.Start != stored.Start || replayed.Grid.String() != stored.Grid.String() {
		h.logger.Warn(
			"replay diverged from stored maze",
			slog.String("maze_id", record.MazeId.String()),
		)
	}

	sw.write(replayFrame{Done: true, Maze: NewMazeDTO(record, stored)})
	if sw.err != nil {
		h.logger.Debug("replay aborted", slog.Any("error", sw.err))
		return
	}

	conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeTimeout),
	)
}
