package handlers

import (
	"strconv"

	"github.com/gorilla/schema"

	"github.com/vancomm/maze-server/internal/maze"
	"github.com/vancomm/maze-server/internal/repository"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type CreateMazeDTO struct {
	Width  int     `schema:"width,required"`
	Height int     `schema:"height,required"`
	Seed   *uint64 `schema:"seed"`
}

func ParseCreateMazeDTO(src map[string][]string) (CreateMazeDTO, error) {
	var dto CreateMazeDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

type WallQueryDTO struct {
	X1 int `schema:"x1,required"`
	Y1 int `schema:"y1,required"`
	X2 int `schema:"x2,required"`
	Y2 int `schema:"y2,required"`
}

func ParseWallQueryDTO(src map[string][]string) (WallQueryDTO, error) {
	var dto WallQueryDTO
	err := decoder.Decode(&dto, src)
	return dto, err
}

func (dto WallQueryDTO) Points() (maze.Point, maze.Point) {
	return maze.Point{X: dto.X1, Y: dto.Y1}, maze.Point{X: dto.X2, Y: dto.Y2}
}

type ListMazesDTO struct {
	Limit int `schema:"limit"`
}

func ParseListMazesDTO(src map[string][]string) (ListMazesDTO, error) {
	dto := ListMazesDTO{Limit: 50}
	err := decoder.Decode(&dto, src)
	if dto.Limit <= 0 || dto.Limit > 200 {
		dto.Limit = 50
	}
	return dto, err
}

// MazeDTO carries the open/closed state of every wall as two row-major
// bitmaps: EastOpen[y*width+x] for the wall between (x,y) and (x+1,y),
// SouthOpen[y*width+x] for the wall between (x,y) and (x,y+1). Entries on
// the outer border are always false.
type MazeDTO struct {
	MazeId    string     `json:"maze_id"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Seed      string     `json:"seed"`
	Start     maze.Point `json:"start"`
	Stats     maze.Stats `json:"stats"`
	EastOpen  []bool     `json:"east_open"`
	SouthOpen []bool     `json:"south_open"`
	CreatedAt int64      `json:"created_at"`
}

func NewMazeDTO(record *repository.MazeRecord, m *maze.Maze) *MazeDTO {
	w, h := m.Width, m.Height
	east := make([]bool, w*h)
	south := make([]bool, w*h)
	for _, wall := range m.Grid.Walls() {
		a := wall.Edge.A
		if wall.Edge.Vertical() {
			east[a.Y*w+a.X] = wall.Open
		} else {
			south[a.Y*w+a.X] = wall.Open
		}
	}
	dto := &MazeDTO{
		MazeId:    record.MazeId.String(),
		Width:     w,
		Height:    h,
		Seed:      strconv.FormatUint(m.Seed, 10),
		Start:     m.Start,
		Stats:     m.Stats,
		EastOpen:  east,
		SouthOpen: south,
		CreatedAt: record.CreatedAt.UnixMilli(),
	}
	return dto
}

type MazeSummaryDTO struct {
	MazeId    string `json:"maze_id"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Seed      string `json:"seed"`
	CreatedAt int64  `json:"created_at"`
}

func NewMazeSummaryDTO(record repository.MazeRecord) MazeSummaryDTO {
	return MazeSummaryDTO{
		MazeId:    record.MazeId.String(),
		Width:     record.Width,
		Height:    record.Height,
		Seed:      strconv.FormatUint(uint64(record.Seed), 10),
		CreatedAt: record.CreatedAt.UnixMilli(),
	}
}

type SolutionDTO struct {
	Path   []maze.Point `json:"path"`
	Length int          `json:"length"`
}
