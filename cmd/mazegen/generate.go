package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/maze-server/internal/maze"
	"github.com/vancomm/maze-server/internal/render"
)

type result struct {
	maze *maze.Maze
	path string
	size string
}

// outputPath names the i-th image of a batch. A single maze is written to
// out itself; a batch inserts the index before the extension.
func outputPath(out string, i, count int) string {
	if count == 1 {
		return out
	}
	ext := filepath.Ext(out)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(out, ext), i, ext)
}

func generateAll(o *options) ([]result, error) {
	results := make([]result, o.count)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range o.count {
		params := maze.Params{Width: o.width, Height: o.height, Seed: o.seed + uint64(i)}
		path := outputPath(o.out, i, o.count)
		g.Go(func() error {
			res, err := generateOne(params, path, o.render, o.solution)
			if err != nil {
				return fmt.Errorf("maze %s: %w", params, err)
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func generateOne(params maze.Params, path string, opts render.Options, solution bool) (*result, error) {
	m, err := maze.Generate(params)
	if err != nil {
		return nil, err
	}

	if solution {
		opts.Path, err = m.Grid.Solve(
			maze.Point{X: 0, Y: 0},
			maze.Point{X: m.Width - 1, Y: m.Height - 1},
		)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"params": params.String(),
			"length": len(opts.Path),
		}).Debug("solution found")
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := render.Encode(f, m.Grid, opts); err != nil {
		f.Close()
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	return &result{maze: m, path: path, size: humanize.Bytes(uint64(info.Size()))}, nil
}
