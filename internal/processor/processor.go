// Package processor runs one export through filtering, normalization and
// aggregation and stores the outcome as a session.
package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"workout-stats-go/internal/dataset"
	"workout-stats-go/internal/highlights"
	"workout-stats-go/internal/logger"
	"workout-stats-go/internal/metrics"
	"workout-stats-go/internal/normalizer"
	"workout-stats-go/internal/report"
	"workout-stats-go/internal/session"
	"workout-stats-go/internal/types"
)

// ErrProcessTimeout is returned when processing outlives its context.
var ErrProcessTimeout = errors.New("processing timed out")

// Result is returned by /workouts.
type Result struct {
	SessionID  string                `json:"session_id"`
	Source     string                `json:"source"`
	Rows       int                   `json:"rows"`
	Workouts   int                   `json:"workouts"`
	Undated    int                   `json:"undated"`
	Highlights highlights.Highlights `json:"highlights"`
	Warnings   []string              `json:"warnings,omitempty"`
	DurationMs int64                 `json:"duration_ms"`

	Report *report.Report `json:"-"`
}

type Processor struct {
	discipline string
	store      *session.Store
	metrics    *metrics.Manager
	log        *logger.Logger
}

func New(discipline string, store *session.Store, m *metrics.Manager, log *logger.Logger) *Processor {
	return &Processor{
		discipline: discipline,
		store:      store,
		metrics:    m,
		log:        log.Component("processor"),
	}
}

// Process handles a table under a fresh session id.
func (p *Processor) Process(ctx context.Context, table types.RawTable, source string) (*Result, error) {
	return p.ProcessAs(ctx, uuid.NewString(), table, source)
}

// ProcessAs handles a table under the given session id, replacing any
// session already stored there.
func (p *Processor) ProcessAs(ctx context.Context, id string, table types.RawTable, source string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		p.metrics.CounterUploads.WithLabelValues("timeout").Inc()
		return nil, fmt.Errorf("%w: %v", ErrProcessTimeout, err)
	}
	log := p.log.WithField("session", id).WithField("source", source)
	start := time.Now()

	type outcome struct {
		res *Result
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		res, err := p.run(table)
		ch <- outcome{res, err}
	}()

	var res *Result
	select {
	case <-ctx.Done():
		p.metrics.CounterUploads.WithLabelValues("timeout").Inc()
		return nil, fmt.Errorf("%w: %v", ErrProcessTimeout, ctx.Err())
	case out := <-ch:
		if out.err != nil {
			p.metrics.CounterUploads.WithLabelValues("rejected").Inc()
			log.WithError(out.err).Warn("export rejected")
			return nil, out.err
		}
		res = out.res
	}

	res.SessionID = id
	res.Source = source
	elapsed := time.Since(start)
	res.DurationMs = elapsed.Milliseconds()

	sess := session.Session{
		ID:         id,
		CreatedAt:  time.Now().UTC(),
		Source:     source,
		Rows:       res.Rows,
		Workouts:   res.Workouts,
		Undated:    res.Undated,
		Highlights: res.Highlights,
		Warnings:   res.Warnings,
	}
	if err := p.store.Put(sess, res.Report); err != nil {
		p.metrics.CounterUploads.WithLabelValues("store_failed").Inc()
		return nil, fmt.Errorf("store session: %w", err)
	}

	p.metrics.CounterUploads.WithLabelValues("ok").Inc()
	p.metrics.CounterWorkouts.Add(float64(res.Workouts))
	p.metrics.HistProcessingDuration.Observe(elapsed.Seconds())
	p.metrics.GaugeCacheEntries.Set(float64(p.store.Len()))

	log.WithField("rows", res.Rows).
		WithField("workouts", res.Workouts).
		WithField("undated", res.Undated).
		WithField("duration_ms", res.DurationMs).
		Info("export processed")
	return res, nil
}

func (p *Processor) run(table types.RawTable) (*Result, error) {
	if err := normalizer.Validate(table); err != nil {
		return nil, err
	}
	filtered := dataset.FilterDiscipline(table, p.discipline)
	workouts, err := normalizer.Normalize(filtered)
	if err != nil {
		return nil, err
	}

	res := &Result{Rows: len(table.Rows), Workouts: len(workouts)}
	for _, w := range workouts {
		if w.Timestamp == nil {
			res.Undated++
		}
	}

	rep, err := report.Build(workouts)
	for _, e := range multierr.Errors(err) {
		p.metrics.CounterDimensionFailures.Inc()
		p.log.WithError(e).Error("dimension failed")
		res.Warnings = append(res.Warnings, e.Error())
	}
	res.Report = rep
	res.Highlights = highlights.Generate(rep)
	return res, nil
}
