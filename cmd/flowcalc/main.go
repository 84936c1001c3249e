/*
DESCRIPTION
  flowcalc computes the grid optical flow series of a video or image sequence
  and saves it as a new run in the flowseg database.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// flowcalc is the first stage of flow segmentation: frames to flow series.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/ausocean/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/flowseg/config"
	"github.com/ausocean/flowseg/pipeline"
	"github.com/ausocean/flowseg/store"
)

// Logging configuration.
const (
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logSuppress  = false
)

// Misc constants.
const (
	profilePath = "flowcalc.prof"
	pkg         = "flowcalc: "
)

// This is set to true if the 'profile' build tag is provided on build.
var canProfile = false

func main() {
	var (
		configPtr  = flag.String("config-file", "", "JSON file of config variables")
		inputPtr   = flag.String("input", "", "video file or image sequence directory")
		typePtr    = flag.String("type", "", "input type: video or imageseq")
		gridPtr    = flag.String("grid", "", "block grid as RxC, e.g. 4x4")
		stepPtr    = flag.String("step", "", "use every n'th frame")
		workersPtr = flag.String("workers", "", "number of blocks tracked concurrently")
		dbPtr      = flag.String("db", "", "path of the flowseg database")
		logPtr     = flag.String("log", "flowcalc.log", "path of the log file")
		levelPtr   = flag.String("verbosity", "Info", "log level: Debug, Info, Warning, Error or Fatal")
	)
	flag.Parse()

	fileLog := &lumberjack.Logger{
		Filename:   *logPtr,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logging.Info, io.MultiWriter(os.Stderr, fileLog), logSuppress)

	vars := map[string]string{}
	if *configPtr != "" {
		var err error
		vars, err = config.ReadFile(*configPtr)
		if err != nil {
			log.Fatal(pkg+"could not load config", "error", err.Error())
		}
	}
	vars[config.KeyLogging] = *levelPtr
	setFlag(vars, config.KeyInputPath, *inputPtr)
	setFlag(vars, config.KeyInput, *typePtr)
	setFlag(vars, config.KeyFrameStep, *stepPtr)
	setFlag(vars, config.KeyWorkers, *workersPtr)
	setFlag(vars, config.KeyDBPath, *dbPtr)
	if *gridPtr != "" {
		var rows, cols uint
		_, err := fmt.Sscanf(*gridPtr, "%dx%d", &rows, &cols)
		if err != nil {
			log.Fatal(pkg+"bad grid, want RxC", "grid", *gridPtr)
		}
		vars[config.KeyGridRows] = fmt.Sprint(rows)
		vars[config.KeyGridCols] = fmt.Sprint(cols)
	}

	cfg := config.Config{Logger: log}
	cfg.Update(vars)
	log.SetLevel(cfg.LogLevel)
	err := cfg.Validate()
	if err != nil {
		log.Fatal(pkg+"bad config", "error", err.Error())
	}
	if cfg.InputPath == "" {
		log.Fatal(pkg + "no input given")
	}

	if canProfile {
		profile(log)
		defer pprof.StopCPUProfile()
		log.Info("profiling started")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	id, err := run(ctx, cfg)
	if err != nil {
		log.Fatal(pkg+"flow calculation failed", "error", err.Error())
	}
	fmt.Println(id)
}

// run computes the flow series described by cfg and saves it, returning the
// new run id.
func run(ctx context.Context, cfg config.Config) (string, error) {
	p, err := pipeline.New(cfg, nil, nil)
	if err != nil {
		return "", fmt.Errorf("could not create pipeline: %w", err)
	}
	defer p.Close()

	series, err := p.Flow(ctx)
	if err != nil {
		return "", err
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return "", err
	}
	defer db.Close()

	id, err := db.SaveSeries(cfg.InputPath, int(cfg.GridRows), int(cfg.GridCols), series)
	if err != nil {
		return "", fmt.Errorf("could not save flow series: %w", err)
	}
	cfg.Logger.Info("saved flow series", "run", id.String(), "flows", len(series))
	return id.String(), nil
}

// setFlag sets vars[key] when a flag value was given.
func setFlag(vars map[string]string, key, value string) {
	if value != "" {
		vars[key] = value
	}
}

func profile(l logging.Logger) {
	f, err := os.Create(profilePath)
	if err != nil {
		l.Fatal(pkg+"could not create CPU profile", "error", err.Error())
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		l.Fatal(pkg+"could not start CPU profile", "error", err.Error())
	}
}
