package generator

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"go.uber.org/zap"

	"github.com/dataforge-hq/dataforge/internal/schema"
)

// Progress describes how far a run has advanced. RowsDone covers the
// current table only; completed tables report RowsDone == TotalRows.
type Progress struct {
	Table       string
	TableIndex  int
	TotalTables int
	RowsDone    int
	TotalRows   int
}

// Options configures an Engine. Zero values fall back to the documented
// defaults, so Engine{} with New is usable directly in tests.
type Options struct {
	Limits           schema.Limits
	NullRatio        *float64 // default null probability for nullable columns; nil means 0.2
	SelfRefNullRatio *float64 // null probability for self-referencing FK rows past row 0; nil means 0.2
	UniqueRetries    int
	DateStart        time.Time
	DateEnd          time.Time
	Workers          int // >1 enables parallel generation of independent tables
	OnProgress       func(Progress)
	Logger           *zap.Logger
}

func (o *Options) fillDefaults() {
	if o.Limits == (schema.Limits{}) {
		o.Limits = schema.DefaultLimits()
	}
	// Pointers keep an explicit zero distinct from "not configured".
	if o.NullRatio == nil {
		v := 0.2
		o.NullRatio = &v
	}
	if o.SelfRefNullRatio == nil {
		v := 0.2
		o.SelfRefNullRatio = &v
	}
	if o.UniqueRetries == 0 {
		o.UniqueRetries = 100
	}
	if o.DateStart.IsZero() {
		o.DateStart = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if o.DateEnd.IsZero() {
		o.DateEnd = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Engine turns a validated schema and a seed into a Result. It is a
// pure in-memory transformation: no I/O happens inside a run.
type Engine struct {
	opts Options
}

func New(opts Options) *Engine {
	opts.fillDefaults()
	return &Engine{opts: opts}
}

// Run validates, orders, generates, and verifies. The run is atomic: on
// any failure the partial result is discarded and only the error
// surfaces. The context is checked between tables, never mid-table, so
// a cancelled run never leaves a half-generated table in play.
func (e *Engine) Run(ctx context.Context, s *schema.Schema, seed int64) (*Result, error) {
	validation := schema.Validate(s, e.opts.Limits)
	if !validation.Valid() {
		return nil, &ValidationError{Result: validation}
	}

	order, err := Order(s)
	if err != nil {
		return nil, err
	}

	orderNames := make([]string, len(order))
	for i, t := range order {
		orderNames[i] = t.Name
	}
	e.opts.Logger.Info("generation started",
		zap.Int("tables", len(order)),
		zap.Int64("seed", seed),
		zap.Strings("order", orderNames))

	var tables map[string]*Table
	if e.opts.Workers > 1 {
		tables, err = e.runParallel(ctx, s, order, seed)
	} else {
		tables, err = e.runSequential(ctx, order, seed)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{
		Tables:  tables,
		Order:   orderNames,
		Summary: buildSummary(orderNames, tables),
	}

	verification := Verify(result, s)
	if !verification.OK() {
		for _, v := range verification.Violations {
			e.opts.Logger.Error("integrity violation",
				zap.String("table", v.Table),
				zap.Int("row", v.Row),
				zap.String("column", v.Column),
				zap.Any("value", v.Value),
				zap.String("message", v.Message))
		}
		return nil, &IntegrityError{Violations: verification.Violations}
	}

	e.opts.Logger.Info("generation finished",
		zap.Int("total_rows", result.Summary.TotalRows))
	return result, nil
}

func (e *Engine) runSequential(ctx context.Context, order []*schema.TableSpec, seed int64) (map[string]*Table, error) {
	tables := make(map[string]*Table, len(order))
	for i, spec := range order {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation aborted: %w", err)
		}

		table, err := e.generateOne(spec, tables, seed, i, len(order))
		if err != nil {
			return nil, err
		}
		tables[spec.Name] = table
	}
	return tables, nil
}

// runParallel fans independent tables out to a worker pool. A table is
// dispatched once every parent it references is complete, so siblings
// with no ancestor relationship generate concurrently. Output is
// identical to the sequential schedule because every table draws from
// its own seeded RNG.
func (e *Engine) runParallel(ctx context.Context, s *schema.Schema, order []*schema.TableSpec, seed int64) (map[string]*Table, error) {
	completed := cmap.New[*Table]()

	specs := make(map[string]*schema.TableSpec, len(order))
	waiting := make(map[string]int, len(order))
	dependents := make(map[string][]string, len(order))
	position := make(map[string]int, len(order))
	for i, spec := range order {
		specs[spec.Name] = spec
		position[spec.Name] = i
		deps := spec.Dependencies()
		waiting[spec.Name] = len(deps)
		for _, dep := range deps {
			dependents[dep] = append(dependents[dep], spec.Name)
		}
	}

	ready := make(chan string, len(order))
	var mu sync.Mutex
	for _, spec := range order {
		if waiting[spec.Name] == 0 {
			ready <- spec.Name
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, len(order))
	remaining := len(order)

	workers := e.opts.Workers
	if workers > len(order) {
		workers = len(order)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				var name string
				select {
				case <-runCtx.Done():
					return
				case n, ok := <-ready:
					if !ok {
						return
					}
					name = n
				}

				spec := specs[name]
				parents := make(map[string]*Table)
				for _, dep := range spec.Dependencies() {
					if t, ok := completed.Get(dep); ok {
						parents[dep] = t
					}
				}

				table, err := e.generateOne(spec, parents, seed, position[name], len(order))
				if err != nil {
					errCh <- err
					cancel()
					return
				}
				completed.Set(name, table)

				mu.Lock()
				remaining--
				done := remaining == 0
				for _, child := range dependents[name] {
					waiting[child]--
					if waiting[child] == 0 {
						ready <- child
					}
				}
				mu.Unlock()
				if done {
					close(ready)
				}
			}
		}()
	}

	wg.Wait()

	select {
	case err := <-errCh:
		return nil, err
	default:
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generation aborted: %w", err)
	}

	tables := make(map[string]*Table, len(order))
	for item := range completed.IterBuffered() {
		tables[item.Key] = item.Val
	}
	return tables, nil
}

func (e *Engine) generateOne(spec *schema.TableSpec, parents map[string]*Table, seed int64, index, total int) (*Table, error) {
	e.opts.Logger.Debug("generating table",
		zap.String("table", spec.Name),
		zap.Int("rows", spec.Rows))

	var progress func(int)
	if e.opts.OnProgress != nil {
		e.opts.OnProgress(Progress{
			Table:       spec.Name,
			TableIndex:  index,
			TotalTables: total,
			RowsDone:    0,
			TotalRows:   spec.Rows,
		})
		progress = func(rows int) {
			e.opts.OnProgress(Progress{
				Table:       spec.Name,
				TableIndex:  index,
				TotalTables: total,
				RowsDone:    rows,
				TotalRows:   spec.Rows,
			})
		}
	}

	rng := rand.New(rand.NewSource(tableSeed(seed, spec.Name)))
	table, err := generateTable(spec, parents, rng, &e.opts, progress)
	if err != nil {
		return nil, err
	}

	if e.opts.OnProgress != nil {
		e.opts.OnProgress(Progress{
			Table:       spec.Name,
			TableIndex:  index,
			TotalTables: total,
			RowsDone:    spec.Rows,
			TotalRows:   spec.Rows,
		})
	}
	return table, nil
}

// tableSeed derives a per-table seed so every table owns an independent
// deterministic stream regardless of generation schedule.
func tableSeed(seed int64, table string) int64 {
	h := fnv.New64a()
	h.Write([]byte(table))
	return seed ^ int64(h.Sum64())
}
