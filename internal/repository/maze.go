package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vancomm/maze-server/internal/maze"
)

type MazeRecord struct {
	MazeId    uuid.UUID `db:"maze_id"`
	PlayerId  *int64    `db:"player_id"`
	Width     int       `db:"width"`
	Height    int       `db:"height"`
	Seed      int64     `db:"seed"` /* bit pattern of maze.Params.Seed */
	StartX    int       `db:"start_x"`
	StartY    int       `db:"start_y"`
	State     []byte    `db:"state"`
	CreatedAt time.Time `db:"created_at"`
}

func (r MazeRecord) Params() maze.Params {
	return maze.Params{Width: r.Width, Height: r.Height, Seed: uint64(r.Seed)}
}

func (r MazeRecord) Maze() (*maze.Maze, error) {
	m, err := maze.DecodeMaze(r.State)
	if err != nil {
		return nil, fmt.Errorf("maze %s: %w", r.MazeId, err)
	}
	if m.Params != r.Params() {
		return nil, fmt.Errorf(
			"maze %s: state params %s do not match row %s", r.MazeId, m.Params, r.Params(),
		)
	}
	return m, nil
}

type CreateMazeParams struct {
	PlayerId *int64
}

func (p CreateMazeParams) UpdateArgs(args pgx.NamedArgs) pgx.NamedArgs {
	if p.PlayerId != nil {
		args["player_id"] = *p.PlayerId
	}
	return args
}

func mazeArgs(id uuid.UUID, m *maze.Maze) (pgx.NamedArgs, error) {
	state, err := m.Bytes()
	if err != nil {
		return nil, err
	}
	args := pgx.NamedArgs{
		"maze_id":   id,
		"player_id": nil,
		"width":     m.Width,
		"height":    m.Height,
		"seed":      int64(m.Seed),
		"start_x":   m.Start.X,
		"start_y":   m.Start.Y,
		"state":     state,
	}
	return args, nil
}

func (q Queries) CreateMaze(
	ctx context.Context, m *maze.Maze, params CreateMazeParams,
) (*MazeRecord, error) {
	args, err := mazeArgs(uuid.New(), m)
	if err != nil {
		return nil, err
	}
	params.UpdateArgs(args)

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO maze (
			maze_id, player_id, width, height, seed, start_x, start_y, state
		)
		VALUES (
			@maze_id, @player_id, @width, @height, @seed, @start_x, @start_y, @state
		)
		RETURNING *;`,
		args,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[MazeRecord])
}

func (q Queries) FetchMaze(ctx context.Context, mazeId uuid.UUID) (*MazeRecord, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT * FROM maze WHERE maze_id = $1", mazeId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[MazeRecord])
}

func (q Queries) ListPlayerMazes(
	ctx context.Context, playerId int64, limit int,
) ([]MazeRecord, error) {
	rows, err := q.db.Query(
		ctx,
		`SELECT * FROM maze
		WHERE player_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		playerId, limit,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[MazeRecord])
}
