// Command mazegen carves mazes and writes them as PNG images.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/maze-server/internal/maze"
	"github.com/vancomm/maze-server/internal/render"
)

var log = maze.Log

type options struct {
	width, height int
	seed          uint64
	count         int
	out           string
	render        render.Options
	solution      bool
	ascii         bool
	logFile       string
	verbose       bool
}

func parseFlags() *options {
	o := &options{render: render.DefaultOptions()}
	flag.IntVar(&o.width, "width", 20, "maze width in cells")
	flag.IntVar(&o.height, "height", 20, "maze height in cells")
	flag.Uint64Var(&o.seed, "seed", 0, "generator seed (0 = random)")
	flag.IntVar(&o.count, "count", 1, "number of mazes to generate")
	flag.StringVar(&o.out, "out", "maze.png", "output file")
	flag.IntVar(&o.render.CellSize, "cell", o.render.CellSize, "cell size in pixels")
	flag.IntVar(&o.render.Stroke, "stroke", o.render.Stroke, "wall stroke in pixels")
	flag.BoolVar(&o.solution, "solution", false, "draw the path from the top-left to the bottom-right cell")
	flag.BoolVar(&o.ascii, "ascii", false, "print the maze to stdout")
	flag.StringVar(&o.logFile, "log-file", "", "also write logs to this rotating file")
	flag.BoolVar(&o.verbose, "v", false, "verbose logging")
	flag.Parse()
	return o
}

func setupLogging(o *options) error {
	level := logrus.InfoLevel
	if o.verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	if o.logFile == "" {
		return nil
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   o.logFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Level:      level,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return fmt.Errorf("unable to open log file: %w", err)
	}
	log.AddHook(hook)
	return nil
}

func main() {
	o := parseFlags()
	if err := setupLogging(o); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if o.count <= 0 {
		log.Fatalf("count must be positive, got %d", o.count)
	}
	if err := (maze.Params{Width: o.width, Height: o.height}).Validate(); err != nil {
		log.Fatal(err)
	}
	if o.seed == 0 {
		o.seed = maze.NewEntropySeed()
	}

	results, err := generateAll(o)
	if err != nil {
		log.Fatal(err)
	}

	for _, res := range results {
		if o.ascii {
			fmt.Print(res.maze.Grid.String())
		}
		log.WithFields(logrus.Fields{
			"params": res.maze.Params.String(),
			"file":   res.path,
			"size":   res.size,
		}).Info("maze written")
	}
}
