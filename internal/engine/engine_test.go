package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/deepnest-go/internal/geom"
	"github.com/piwi3910/deepnest-go/internal/nestconfig"
	"github.com/piwi3910/deepnest-go/internal/nestmodel"
)

func square(w, h float64) geom.Polygon {
	r := geom.Ring{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
	return geom.NewPolygon(r, nil)
}

func tinyInput() nestmodel.NestInput {
	return nestmodel.NestInput{
		Parts:  []nestmodel.PartSpec{{Polygon: square(5, 5), Quantity: 1, Name: "part"}},
		Sheets: []nestmodel.SheetSpec{{Polygon: square(100, 100), Quantity: 1, Name: "sheet"}},
	}
}

func testConfig() nestconfig.Config {
	c := nestconfig.Default()
	c.PopulationSize = 5
	c.Rotations = 4
	c.MutationRate = 0
	c.RandomSeed = 12345
	c.Threads = 2
	return c
}

func TestEngineStartsUninitialized(t *testing.T) {
	e := New(testConfig())
	assert.Equal(t, Uninitialized, e.State())
}

func TestInitializeRejectsEmptyPartsOrSheets(t *testing.T) {
	e := New(testConfig())
	assert.Error(t, e.Initialize(nestmodel.NestInput{Sheets: tinyInput().Sheets}), "expected error for missing parts")
	assert.Error(t, e.Initialize(nestmodel.NestInput{Parts: tinyInput().Parts}), "expected error for missing sheets")
}

func TestInitializeTransitionsToReady(t *testing.T) {
	e := New(testConfig())
	require.NoError(t, e.Initialize(tinyInput()))
	assert.Equal(t, Ready, e.State())
}

func TestStartRequiresReady(t *testing.T) {
	e := New(testConfig())
	assert.Error(t, e.Start(0), "expected error starting an uninitialized engine")
}

func TestStepReturnsFalseWhenNotRunning(t *testing.T) {
	e := New(testConfig())
	assert.False(t, e.Step(), "Step on an uninitialized/non-running engine should return false")
}

func TestRunUntilCompleteNestsTheOnePart(t *testing.T) {
	e := New(testConfig())
	require.NoError(t, e.Initialize(tinyInput()))
	require.NoError(t, e.RunUntilComplete(3, 0))
	assert.False(t, e.IsRunning(), "engine should have stopped after maxGen generations")

	best, ok := e.GetBestResult()
	require.True(t, ok, "expected a best result after running")
	assert.Empty(t, best.Placement.UnplacedIDs, "the single small part should fit on the large sheet")
}

func TestStopDrainsInFlightWork(t *testing.T) {
	e := New(testConfig())
	require.NoError(t, e.Initialize(tinyInput()))
	require.NoError(t, e.Start(0))

	e.Step()
	e.Stop()

	assert.Equal(t, Stopped, e.State())
	assert.False(t, e.IsRunning())
}

func TestProgressCallbackInvokedOnEveryStep(t *testing.T) {
	e := New(testConfig())
	require.NoError(t, e.Initialize(tinyInput()))

	calls := 0
	e.SetProgressCallback(func(Progress) { calls++ })
	require.NoError(t, e.Start(2))

	for e.Step() {
		time.Sleep(time.Millisecond)
	}
	assert.Greater(t, calls, 0, "expected at least one progress callback invocation")
}

func TestGetResultsRetainsAtMostTopK(t *testing.T) {
	e := New(testConfig())
	require.NoError(t, e.Initialize(tinyInput()))
	require.NoError(t, e.RunUntilComplete(5, 0))
	assert.LessOrEqual(t, len(e.GetResults()), TopResultsRetained)
}
