// Package solver is the public façade over the nesting engine: a single
// stateful object matching spec.md §6's method list, wrapping
// internal/nestconfig, internal/nestmodel, and internal/engine behind a
// narrow, validated surface — the Go analog of the teacher's top-level
// Optimizer entrypoint, but stateful across calls instead of one-shot.
package solver

import (
	"fmt"
	"time"

	"github.com/piwi3910/deepnest-go/internal/engine"
	"github.com/piwi3910/deepnest-go/internal/geom"
	"github.com/piwi3910/deepnest-go/internal/nestconfig"
	"github.com/piwi3910/deepnest-go/internal/nestmodel"
)

// UsageError is raised synchronously for invalid inputs or lifecycle
// violations: starting without parts or sheets, an out-of-range
// parameter, or an unrecognized placement type string.
type UsageError struct {
	Op     string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("solver: %s: %s", e.Op, e.Reason)
}

func usageError(op, reason string) error {
	return &UsageError{Op: op, Reason: reason}
}

// Solver is the stateful nesting façade. The zero value is not usable;
// construct with New.
type Solver struct {
	config nestconfig.Config
	parts  []nestmodel.PartSpec
	sheets []nestmodel.SheetSpec
	eng    *engine.Engine

	progressCb func(engine.Progress)
	resultCb   func(engine.Result)
}

// New builds a Solver with the default configuration.
func New() *Solver {
	return &Solver{config: nestconfig.Default()}
}

// SetSpacing sets the minimum gap maintained between placed parts.
func (s *Solver) SetSpacing(spacing float64) error {
	next, err := s.config.WithSpacing(spacing)
	if err != nil {
		return usageError("SetSpacing", err.Error())
	}
	s.config = next
	return nil
}

// SetRotations sets the discrete rotation count each part may be tried at.
func (s *Solver) SetRotations(n int) error {
	next, err := s.config.WithRotations(n)
	if err != nil {
		return usageError("SetRotations", err.Error())
	}
	s.config = next
	return nil
}

// SetPopulationSize sets the GA population size; must be >= 3.
func (s *Solver) SetPopulationSize(n int) error {
	next, err := s.config.WithPopulationSize(n)
	if err != nil {
		return usageError("SetPopulationSize", err.Error())
	}
	s.config = next
	return nil
}

// SetMutationRate sets the per-gene mutation probability, as a
// percentage in [0,100].
func (s *Solver) SetMutationRate(rate int) error {
	next, err := s.config.WithMutationRate(rate)
	if err != nil {
		return usageError("SetMutationRate", err.Error())
	}
	s.config = next
	return nil
}

// SetThreads sets the scheduler's worker pool size; 0 uses hardware
// concurrency.
func (s *Solver) SetThreads(n int) error {
	next, err := s.config.WithThreads(n)
	if err != nil {
		return usageError("SetThreads", err.Error())
	}
	s.config = next
	return nil
}

// SetPlacementType sets the placement scoring strategy: "gravity",
// "boundingbox" (or its "box" alias), or "convexhull".
func (s *Solver) SetPlacementType(name string) error {
	next, err := s.config.WithPlacementType(name)
	if err != nil {
		return usageError("SetPlacementType", err.Error())
	}
	s.config = next
	return nil
}

// SetMergeLines toggles the merge-length bonus in the fitness function.
func (s *Solver) SetMergeLines(enabled bool) { s.config = s.config.WithMergeLines(enabled) }

// SetCurveTolerance sets the curve-flattening tolerance; must be > 0.
func (s *Solver) SetCurveTolerance(tolerance float64) error {
	next, err := s.config.WithCurveTolerance(tolerance)
	if err != nil {
		return usageError("SetCurveTolerance", err.Error())
	}
	s.config = next
	return nil
}

// SetSimplify toggles polygon simplification before nesting.
func (s *Solver) SetSimplify(enabled bool) { s.config = s.config.WithSimplify(enabled) }

// SetTimeoutSeconds sets the wall-clock budget for a run; 0 disables the
// timeout.
func (s *Solver) SetTimeoutSeconds(seconds float64) error {
	next, err := s.config.WithTimeoutSeconds(seconds)
	if err != nil {
		return usageError("SetTimeoutSeconds", err.Error())
	}
	s.config = next
	return nil
}

// AddPart registers a part polygon with the given quantity (>= 1) and
// optional name.
func (s *Solver) AddPart(polygon geom.Polygon, quantity int, name string) error {
	if quantity < 1 {
		return usageError("AddPart", fmt.Sprintf("quantity must be >= 1, got %d", quantity))
	}
	if len(polygon.Outer) < 3 || polygon.Area() == 0 {
		return nil // DegeneratePolygon: dropped silently, not an error (spec.md §7)
	}
	s.parts = append(s.parts, nestmodel.PartSpec{Polygon: polygon, Quantity: quantity, Name: name})
	return nil
}

// AddSheet registers a sheet polygon with the given quantity (>= 1) and
// optional name.
func (s *Solver) AddSheet(polygon geom.Polygon, quantity int, name string) error {
	if quantity < 1 {
		return usageError("AddSheet", fmt.Sprintf("quantity must be >= 1, got %d", quantity))
	}
	if len(polygon.Outer) < 3 || polygon.Area() == 0 {
		return nil
	}
	s.sheets = append(s.sheets, nestmodel.SheetSpec{Polygon: polygon, Quantity: quantity, Name: name})
	return nil
}

// Parts returns the currently registered part specs.
func (s *Solver) Parts() []nestmodel.PartSpec { return append([]nestmodel.PartSpec(nil), s.parts...) }

// Sheets returns the currently registered sheet specs.
func (s *Solver) Sheets() []nestmodel.SheetSpec {
	return append([]nestmodel.SheetSpec(nil), s.sheets...)
}

// Config returns the solver's current configuration.
func (s *Solver) Config() nestconfig.Config { return s.config }

// Pool returns the quantity-expanded pool for the currently registered
// parts and sheets, the view report/export code needs to resolve a
// PlacementResult's part IDs back to polygons and names.
func (s *Solver) Pool() nestmodel.Pool {
	return nestmodel.ExpandInput(nestmodel.NestInput{Parts: s.parts, Sheets: s.sheets})
}

// ClearParts discards every registered part.
func (s *Solver) ClearParts() { s.parts = nil }

// ClearSheets discards every registered sheet.
func (s *Solver) ClearSheets() { s.sheets = nil }

// Clear discards every registered part and sheet and any in-progress run.
func (s *Solver) Clear() {
	s.ClearParts()
	s.ClearSheets()
	s.eng = nil
}

// newEngine builds a fresh engine.Engine wired with the solver's current
// config and registered callbacks, then initializes it over the
// currently-registered parts/sheets.
func (s *Solver) newEngine() (*engine.Engine, error) {
	eng := engine.New(s.config)
	if s.progressCb != nil {
		eng.SetProgressCallback(s.progressCb)
	}
	if s.resultCb != nil {
		eng.SetResultCallback(s.resultCb)
	}
	if err := eng.Initialize(nestmodel.NestInput{Parts: s.parts, Sheets: s.sheets}); err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}
	return eng, nil
}

// Start initializes and starts a run. maxGen=0 means unbounded.
func (s *Solver) Start(maxGen int) error {
	if len(s.parts) == 0 {
		return usageError("Start", "no parts registered")
	}
	if len(s.sheets) == 0 {
		return usageError("Start", "no sheets registered")
	}
	eng, err := s.newEngine()
	if err != nil {
		return err
	}
	s.eng = eng
	return s.eng.Start(maxGen)
}

// Stop halts the current run, draining in-flight work.
func (s *Solver) Stop() {
	if s.eng == nil {
		return
	}
	s.eng.Stop()
}

// Step advances the run by one unit of work. See engine.Engine.Step.
func (s *Solver) Step() bool {
	if s.eng == nil {
		return false
	}
	return s.eng.Step()
}

// IsRunning reports whether a run is in progress.
func (s *Solver) IsRunning() bool {
	return s.eng != nil && s.eng.IsRunning()
}

// RunUntilComplete builds and starts a fresh run over the registered
// parts and sheets (a run already in progress is replaced, not resumed)
// and drives Step until the run stops, sleeping delayMs between calls.
func (s *Solver) RunUntilComplete(maxGen int, delayMs int) error {
	if len(s.parts) == 0 {
		return usageError("RunUntilComplete", "no parts registered")
	}
	if len(s.sheets) == 0 {
		return usageError("RunUntilComplete", "no sheets registered")
	}
	eng, err := s.newEngine()
	if err != nil {
		return err
	}
	s.eng = eng
	return s.eng.RunUntilComplete(maxGen, time.Duration(delayMs)*time.Millisecond)
}

// GetProgress returns the current progress snapshot.
func (s *Solver) GetProgress() engine.Progress {
	if s.eng == nil {
		return engine.Progress{}
	}
	return s.eng.GetProgress()
}

// GetBestResult returns the best result seen so far in the current run.
func (s *Solver) GetBestResult() (engine.Result, bool) {
	if s.eng == nil {
		return engine.Result{}, false
	}
	return s.eng.GetBestResult()
}

// GetResults returns the retained top-K results of the current run.
func (s *Solver) GetResults() []engine.Result {
	if s.eng == nil {
		return nil
	}
	return s.eng.GetResults()
}

// SetProgressCallback registers a callback invoked at the end of every
// Step. Applies to the current run, if any, and every run started
// afterward.
func (s *Solver) SetProgressCallback(cb func(engine.Progress)) {
	s.progressCb = cb
	if s.eng != nil {
		s.eng.SetProgressCallback(cb)
	}
}

// SetResultCallback registers a callback invoked whenever a strictly
// better individual appears. Applies to the current run, if any, and
// every run started afterward.
func (s *Solver) SetResultCallback(cb func(engine.Result)) {
	s.resultCb = cb
	if s.eng != nil {
		s.eng.SetResultCallback(cb)
	}
}
