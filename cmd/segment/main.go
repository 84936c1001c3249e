/*
DESCRIPTION
  segment labels a stored flow series with view and visit segments, stores the
  labels and interval tables with the run and writes tables, statistics and
  plots to an output directory.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// segment is the second stage of flow segmentation: flow series to segments.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/flowseg/config"
	"github.com/ausocean/flowseg/pipeline"
	"github.com/ausocean/flowseg/report"
	"github.com/ausocean/flowseg/store"
)

// Logging configuration.
const (
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logSuppress  = false
)

const pkg = "segment: "

func main() {
	var (
		configPtr     = flag.String("config-file", "", "JSON file of config variables")
		dbPtr         = flag.String("db", "", "path of the flowseg database")
		runPtr        = flag.String("run", "", "run id, defaults to the newest run")
		listPtr       = flag.Bool("list", false, "list stored runs and exit")
		motionPtr     = flag.String("motion-threshold", "", "mean accumulated motion starting a new view")
		transitionPtr = flag.String("transition-threshold", "", "z-translation estimate above which a frame is in a visit")
		minViewPtr    = flag.String("min-view", "", "minimum frames in a view")
		minVisitPtr   = flag.String("min-visit", "", "minimum frames in a visit")
		fitPtr        = flag.String("fit-policy", "", "handling of failed fits: abort or previous")
		outPtr        = flag.String("out", "", "output directory")
		logPtr        = flag.String("log", "segment.log", "path of the log file")
		levelPtr      = flag.String("verbosity", "Info", "log level: Debug, Info, Warning, Error or Fatal")
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
	for key, value := range map[string]string{
		config.KeyDBPath:              *dbPtr,
		config.KeyMotionThreshold:     *motionPtr,
		config.KeyTransitionThreshold: *transitionPtr,
		config.KeyMinViewLength:       *minViewPtr,
		config.KeyMinVisitLength:      *minVisitPtr,
		config.KeyFitPolicy:           *fitPtr,
		config.KeyOutputPath:          *outPtr,
	} {
		if value != "" {
			vars[key] = value
		}
	}

	cfg := config.Config{Logger: log}
	cfg.Update(vars)
	log.SetLevel(cfg.LogLevel)
	err := cfg.Validate()
	if err != nil {
		log.Fatal(pkg+"bad config", "error", err.Error())
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal(pkg+"could not open store", "error", err.Error())
	}
	defer db.Close()

	if *listPtr {
		err = list(os.Stdout, db)
		if err != nil {
			log.Fatal(pkg+"could not list runs", "error", err.Error())
		}
		return
	}

	id, err := runID(db, *runPtr)
	if err != nil {
		log.Fatal(pkg+"could not find run", "error", err.Error())
	}
	err = run(cfg, db, id)
	if err != nil {
		log.Fatal(pkg+"segmentation failed", "run", id.String(), "error", err.Error())
	}
}

// run segments the flow series of run id, saves the result with the run and
// writes the report into cfg.OutputPath.
func run(cfg config.Config, db *store.Store, id uuid.UUID) error {
	series, err := db.Series(id)
	if err != nil {
		return fmt.Errorf("could not load flow series: %w", err)
	}
	cfg.Logger.Info("loaded flow series", "run", id.String(), "flows", len(series))

	res, err := pipeline.Segment(cfg, series)
	if err != nil {
		return err
	}

	err = db.SaveLabels(id, res.Labels)
	if err != nil {
		return fmt.Errorf("could not save labels: %w", err)
	}
	err = db.SaveIntervals(id, store.KindView, res.Views)
	if err != nil {
		return fmt.Errorf("could not save view intervals: %w", err)
	}
	err = db.SaveIntervals(id, store.KindVisit, res.Visits)
	if err != nil {
		return fmt.Errorf("could not save visit intervals: %w", err)
	}

	err = report.WriteDir(cfg.OutputPath, res.Labels, res.Views, res.Visits, cfg.MotionThreshold, cfg.TransitionThreshold)
	if err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}
	cfg.Logger.Info("report written", "dir", cfg.OutputPath)
	return nil
}

// runID parses s, or returns the newest run when s is empty.
func runID(db *store.Store, s string) (uuid.UUID, error) {
	if s != "" {
		return uuid.Parse(s)
	}
	runs, err := db.Runs()
	if err != nil {
		return uuid.Nil, err
	}
	if len(runs) == 0 {
		return uuid.Nil, store.ErrNotFound
	}
	return runs[0].ID, nil
}

func list(w io.Writer, db *store.Store) error {
	runs, err := db.Runs()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tGRID\tFLOWS\tINPUT")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%d\t%s\n", r.ID, r.Created.Format(time.RFC3339), r.Rows, r.Cols, r.Frames, r.Input)
	}
	return tw.Flush()
}
