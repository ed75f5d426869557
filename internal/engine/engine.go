// Package engine glues the nesting pipeline together: the GA population,
// the parallel scheduler, the NFP calculator and placement worker, behind
// a cooperative state machine driven entirely by repeated Step calls,
// adapted from the teacher's Optimizer entrypoint shape but restructured
// around the original's start/stop/step lifecycle instead of a single
// blocking Optimize call.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/piwi3910/deepnest-go/internal/ga"
	"github.com/piwi3910/deepnest-go/internal/nestconfig"
	"github.com/piwi3910/deepnest-go/internal/nestmodel"
	"github.com/piwi3910/deepnest-go/internal/nfp"
	"github.com/piwi3910/deepnest-go/internal/placement"
	"github.com/piwi3910/deepnest-go/internal/scheduler"
)

// State is the engine's lifecycle state.
type State int

const (
	Uninitialized State = iota
	Ready
	Running
	Stopped
)

// TopResultsRetained is K in the "retained top-K list" of best results.
const TopResultsRetained = 10

// MergeMinLength is the shortest edge the merge detector will credit,
// matching the concrete end-to-end scenario's minLength=1.
const MergeMinLength = 1.0

// Progress is the snapshot payload handed to a progress callback.
type Progress struct {
	Generation          int
	EvaluationsComplete int
	BestFitness         float64
	PercentComplete     float64
}

// Result is one retained nest outcome, the result-callback payload.
type Result struct {
	Placement     nestmodel.PlacementResult
	Fitness       float64
	Area          float64
	MergedLength  float64
	Generation    int
	IndividualIdx int
}

// Engine orchestrates one nesting run.
type Engine struct {
	config    nestconfig.Config
	pool      nestmodel.Pool
	calc      *nfp.Calculator
	scheduler *scheduler.Scheduler
	worker    *placement.Worker
	pop       *ga.Population
	rng       *rand.Rand

	state      State
	generation int
	maxGen     int
	startedAt  time.Time

	resultsMu  sync.Mutex
	results    []Result
	bestResult *Result

	popMu sync.Mutex

	progressCb func(Progress)
	resultCb   func(Result)
}

// New builds an engine in the Uninitialized state.
func New(config nestconfig.Config) *Engine {
	return &Engine{config: config, state: Uninitialized}
}

// SetProgressCallback registers the callback invoked at the end of every
// Step.
func (e *Engine) SetProgressCallback(cb func(Progress)) { e.progressCb = cb }

// SetResultCallback registers the callback invoked whenever a strictly
// better individual appears.
func (e *Engine) SetResultCallback(cb func(Result)) { e.resultCb = cb }

// Initialize transitions {Uninitialized|Stopped} -> Ready, building the
// part/sheet pool and a fresh NFP cache/calculator pair.
func (e *Engine) Initialize(input nestmodel.NestInput) error {
	if len(input.Parts) == 0 {
		return fmt.Errorf("engine: no parts to nest")
	}
	if len(input.Sheets) == 0 {
		return fmt.Errorf("engine: no sheets to nest onto")
	}
	e.pool = nestmodel.ExpandInput(input)
	e.calc = nfp.NewCalculator(nfp.NewCache())
	e.scheduler = scheduler.New(e.config.Threads)
	e.worker = placement.NewWorker(e.calc, placement.ParseStrategy(e.config.PlacementType),
		MergeMinLength, e.config.CurveTolerance, e.config.MergeLines)
	e.rng = rand.New(rand.NewSource(e.config.RandomSeed))
	e.pop = ga.New(ga.Config{
		PopulationSize: e.config.PopulationSize,
		MutationRate:   float64(e.config.MutationRate),
		Rotations:      e.config.Rotations,
	}, e.rng)
	if err := e.pop.Initialize(descendingAreaOrder(e.pool)); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	e.generation = 0
	e.results = nil
	e.bestResult = nil
	e.state = Ready
	return nil
}

// Start transitions Ready -> Running. maxGen = 0 means unbounded.
func (e *Engine) Start(maxGen int) error {
	if e.state != Ready {
		return fmt.Errorf("engine: Start requires state Ready, got %v", e.state)
	}
	e.maxGen = maxGen
	e.startedAt = time.Now()
	e.scheduler.Start()
	e.state = Running
	return nil
}

// Stop drains the scheduler and transitions to Stopped.
func (e *Engine) Stop() {
	if e.state != Running {
		return
	}
	e.scheduler.Stop()
	e.state = Stopped
}

// IsRunning reports whether the engine is in the Running state.
func (e *Engine) IsRunning() bool { return e.state == Running }

// State returns the engine's current lifecycle state.
func (e *Engine) State() State { return e.state }

// Step advances the engine by one unit of work: it enqueues evaluation
// of any unevaluated individual, or advances the generation if the
// current one is complete.
func (e *Engine) Step() bool {
	if e.state != Running {
		return false
	}
	if e.timedOut() {
		e.Stop()
		return false
	}

	e.popMu.Lock()
	complete := e.pop.IsGenerationComplete()
	e.popMu.Unlock()

	if complete {
		if e.maxGen > 0 && e.generation >= e.maxGen {
			e.Stop()
			return false
		}
		e.popMu.Lock()
		err := e.pop.NextGeneration()
		e.popMu.Unlock()
		if err != nil {
			e.Stop()
			return false
		}
		e.generation++
	}

	e.enqueueUnevaluated()
	e.recordProgress()
	return true
}

// RunUntilComplete drives Step in a loop, sleeping delay between calls,
// until the engine stops running or maxGen generations have elapsed.
func (e *Engine) RunUntilComplete(maxGen int, delay time.Duration) error {
	if err := e.Start(maxGen); err != nil {
		return err
	}
	for e.Step() {
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	return nil
}

func (e *Engine) timedOut() bool {
	if e.config.TimeoutSeconds <= 0 {
		return false
	}
	return time.Since(e.startedAt).Seconds() > e.config.TimeoutSeconds
}

func (e *Engine) enqueueUnevaluated() {
	e.popMu.Lock()
	defer e.popMu.Unlock()

	for i := 0; i < e.pop.Size(); i++ {
		ind := e.pop.At(i)
		if ind.HasValidFitness() || ind.Processing {
			continue
		}
		ind.Processing = true
		e.pop.Set(i, ind)

		idx := i
		sheets := append([]nestmodel.ExpandedPolygon(nil), e.pool.Sheets...)
		pool := e.pool
		genes := genesFor(ind)

		e.scheduler.Submit(scheduler.Task{
			Index: idx,
			Run: func(ctx context.Context) {
				select {
				case <-ctx.Done():
					return
				default:
				}
				placed := e.worker.Place(sheets, pool, genes)
				fitness := placement.Evaluate(placed, pool, placed.TotalSheetArea(), e.config.MergeLines)

				e.popMu.Lock()
				updated := e.pop.At(idx)
				updated.Fitness = fitness
				updated.Area = placed.TotalSheetArea()
				updated.MergedLength = placed.MergedLength
				updated.Placements = toSheetPlacements(placed)
				updated.Processing = false
				e.pop.Set(idx, updated)
				e.popMu.Unlock()

				e.considerResult(placed, fitness, idx)
			},
		})
	}
}

// descendingAreaOrder returns the pool's part IDs sorted by descending
// polygon area, the order "adam" seeds its placement chromosome with.
func descendingAreaOrder(pool nestmodel.Pool) []int {
	ids := append([]int(nil), pool.PartIDs()...)
	sort.Slice(ids, func(i, j int) bool {
		pi, _ := pool.PartByID(ids[i])
		pj, _ := pool.PartByID(ids[j])
		return pi.Area() > pj.Area()
	})
	return ids
}

func genesFor(ind ga.Individual) []placement.PartGene {
	genes := make([]placement.PartGene, len(ind.Placement))
	for i, partID := range ind.Placement {
		genes[i] = placement.PartGene{PartID: partID, Rotation: ind.Rotation[i]}
	}
	return genes
}

func toSheetPlacements(result nestmodel.PlacementResult) []ga.SheetPlacement {
	out := make([]ga.SheetPlacement, len(result.Sheets))
	for i, s := range result.Sheets {
		ids := make([]int, len(s.Placements))
		for j, p := range s.Placements {
			ids[j] = p.PartID
		}
		out[i] = ga.SheetPlacement{SheetIndex: s.SheetIndex, PartIDs: ids}
	}
	return out
}

func (e *Engine) considerResult(placed nestmodel.PlacementResult, fitness float64, individualIdx int) {
	e.resultsMu.Lock()
	if e.bestResult != nil && fitness >= e.bestResult.Fitness {
		e.resultsMu.Unlock()
		return
	}
	result := Result{
		Placement:     placed,
		Fitness:       fitness,
		Area:          placed.TotalSheetArea(),
		MergedLength:  placed.MergedLength,
		Generation:    e.generation,
		IndividualIdx: individualIdx,
	}
	e.bestResult = &result
	e.results = append(e.results, result)
	sort.Slice(e.results, func(i, j int) bool { return e.results[i].Fitness < e.results[j].Fitness })
	if len(e.results) > TopResultsRetained {
		e.results = e.results[:TopResultsRetained]
	}
	e.resultsMu.Unlock()

	if e.resultCb != nil {
		e.resultCb(result)
	}
}

func (e *Engine) recordProgress() {
	if e.progressCb == nil {
		return
	}
	e.progressCb(e.snapshotProgress())
}

// GetProgress returns an on-demand progress snapshot without requiring a
// callback.
func (e *Engine) GetProgress() Progress {
	return e.snapshotProgress()
}

func (e *Engine) snapshotProgress() Progress {
	e.resultsMu.Lock()
	best := ga.UnevaluatedFitness
	if e.bestResult != nil {
		best = e.bestResult.Fitness
	}
	e.resultsMu.Unlock()

	e.popMu.Lock()
	evaluated := e.pop.Size() - e.pop.ProcessingCount()
	e.popMu.Unlock()

	percent := 0.0
	if e.maxGen > 0 {
		percent = 100.0 * float64(e.generation) / float64(e.maxGen)
		if percent > 100 {
			percent = 100
		}
	}
	return Progress{
		Generation:          e.generation,
		EvaluationsComplete: evaluated,
		BestFitness:         best,
		PercentComplete:     percent,
	}
}

// GetBestResult returns the best individual's result seen so far.
func (e *Engine) GetBestResult() (Result, bool) {
	e.resultsMu.Lock()
	defer e.resultsMu.Unlock()
	if e.bestResult == nil {
		return Result{}, false
	}
	return *e.bestResult, true
}

// GetResults returns the retained top-K results, best first.
func (e *Engine) GetResults() []Result {
	e.resultsMu.Lock()
	defer e.resultsMu.Unlock()
	return append([]Result(nil), e.results...)
}
