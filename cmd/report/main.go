// Command report prints the aggregate tables of a workout export.
package main

import (
	"flag"
	"fmt"
	"os"

	"workout-stats-go/internal/dataset"
	"workout-stats-go/internal/highlights"
	"workout-stats-go/internal/logger"
	"workout-stats-go/internal/normalizer"
	"workout-stats-go/internal/report"
)

func main() {
	file := flag.String("file", "", "workout export (CSV or XLSX)")
	dimension := flag.String("dimension", "", "only print this dimension (all_time, year, month, week, day, instructor, class_length)")
	discipline := flag.String("discipline", "Cycling", "fitness discipline to keep; empty keeps all")
	flag.Parse()

	base := logger.New()
	if os.Getenv("LOG_FILE") == "" {
		// stdout carries the tables
		base.Logger.SetOutput(os.Stderr)
	}
	log := base.Component("report")
	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	dims := report.Dimensions
	if *dimension != "" {
		d, err := report.DimensionByName(*dimension)
		if err != nil {
			log.WithError(err).Fatal("bad dimension")
		}
		dims = []report.Dimension{d}
	}

	table, err := dataset.Load(*file)
	if err != nil {
		log.WithError(err).Fatal("failed to load export")
	}
	if err := normalizer.Validate(table); err != nil {
		log.WithError(err).Fatal("invalid export")
	}
	workouts, err := normalizer.Normalize(dataset.FilterDiscipline(table, *discipline))
	if err != nil {
		log.WithError(err).Fatal("invalid export")
	}
	log.WithField("rows", len(table.Rows)).WithField("workouts", len(workouts)).Debug("export normalized")

	rep, err := report.BuildDimensions(workouts, dims)
	if err != nil {
		log.WithError(err).Error("some dimensions failed")
	}

	if *dimension == "" {
		for _, msg := range highlights.Generate(rep).Messages {
			fmt.Println(msg)
		}
		fmt.Println()
	}
	for _, t := range rep.Tables {
		if err := report.WriteText(os.Stdout, t); err != nil {
			log.WithError(err).Fatal("write failed")
		}
		fmt.Println()
	}
}
