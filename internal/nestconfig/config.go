// Package nestconfig holds the engine's run configuration: an immutable
// value type with validated With* options, replacing the original
// DeepNestConfig singleton per the design note in spec.md §9 — config is
// threaded explicitly through solver/engine construction instead of
// mutated via global state.
package nestconfig

import "fmt"

// Config is the full set of recognized nesting options (spec.md §6's
// configuration-persistence key list). Zero value is invalid; build one
// via Default() and With* options.
type Config struct {
	ClipperScale   float64
	CurveTolerance float64
	Spacing        float64
	Rotations      int
	PopulationSize int
	MutationRate   int
	Threads        int
	PlacementType  string
	MergeLines     bool
	TimeRatio      float64
	Scale          float64
	Simplify       bool
	UseHoles       bool
	ExploreConcave bool
	MaxIterations  int
	TimeoutSeconds float64
	Progressive    bool
	RandomSeed     int64
}

// Default returns the engine's baseline configuration.
func Default() Config {
	return Config{
		ClipperScale:   10000.0,
		CurveTolerance: 0.3,
		Spacing:        0,
		Rotations:      4,
		PopulationSize: 10,
		MutationRate:   10,
		Threads:        0,
		PlacementType:  "gravity",
		MergeLines:     false,
		TimeRatio:      0.5,
		Scale:          1.0,
		Simplify:       false,
		UseHoles:       false,
		ExploreConcave: false,
		MaxIterations:  0,
		TimeoutSeconds: 0,
		Progressive:    false,
		RandomSeed:     0,
	}
}

// SignatureFields lists the fields whose change invalidates the NFP
// cache: anything that alters the set of polygons an NFP key can refer
// to, or the tolerance the key is normalized against.
type SignatureFields struct {
	Rotations      int
	MutationRate   int
	CurveTolerance float64
	ClipperScale   float64
	Spacing        float64
	UseHoles       bool
	ExploreConcave bool
}

// Signature extracts the cache-invalidating subset of c.
func (c Config) Signature() SignatureFields {
	return SignatureFields{
		Rotations:      c.Rotations,
		MutationRate:   c.MutationRate,
		CurveTolerance: c.CurveTolerance,
		ClipperScale:   c.ClipperScale,
		Spacing:        c.Spacing,
		UseHoles:       c.UseHoles,
		ExploreConcave: c.ExploreConcave,
	}
}

// WithPopulationSize returns a copy of c with PopulationSize set,
// rejecting values below 3 (spec.md §6: setPopulationSize(int>=3)).
func (c Config) WithPopulationSize(n int) (Config, error) {
	if n < 3 {
		return c, fmt.Errorf("nestconfig: population size must be >= 3, got %d", n)
	}
	c.PopulationSize = n
	return c, nil
}

// WithMutationRate returns a copy of c with MutationRate set, rejecting
// values outside [0,100].
func (c Config) WithMutationRate(rate int) (Config, error) {
	if rate < 0 || rate > 100 {
		return c, fmt.Errorf("nestconfig: mutation rate must be in [0,100], got %d", rate)
	}
	c.MutationRate = rate
	return c, nil
}

// WithRotations returns a copy of c with Rotations set, rejecting values
// below 1 (1 means "never rotate").
func (c Config) WithRotations(n int) (Config, error) {
	if n < 1 {
		return c, fmt.Errorf("nestconfig: rotations must be >= 1, got %d", n)
	}
	c.Rotations = n
	return c, nil
}

// WithThreads returns a copy of c with Threads set. Negative values are
// rejected; 0 means "use hardware concurrency" and is resolved by the
// scheduler, not here.
func (c Config) WithThreads(n int) (Config, error) {
	if n < 0 {
		return c, fmt.Errorf("nestconfig: threads must be >= 0, got %d", n)
	}
	c.Threads = n
	return c, nil
}

// WithSpacing returns a copy of c with Spacing set, rejecting negative
// values.
func (c Config) WithSpacing(spacing float64) (Config, error) {
	if spacing < 0 {
		return c, fmt.Errorf("nestconfig: spacing must be >= 0, got %v", spacing)
	}
	c.Spacing = spacing
	return c, nil
}

// WithCurveTolerance returns a copy of c with CurveTolerance set,
// rejecting non-positive values.
func (c Config) WithCurveTolerance(tolerance float64) (Config, error) {
	if tolerance <= 0 {
		return c, fmt.Errorf("nestconfig: curve tolerance must be > 0, got %v", tolerance)
	}
	c.CurveTolerance = tolerance
	return c, nil
}

// WithPlacementType returns a copy of c with PlacementType set, rejecting
// any string that is not one of "gravity", "boundingbox" (or its "box"
// alias), "convexhull".
func (c Config) WithPlacementType(name string) (Config, error) {
	switch name {
	case "gravity", "boundingbox", "box", "convexhull":
		if name == "box" {
			name = "boundingbox"
		}
		c.PlacementType = name
		return c, nil
	default:
		return c, fmt.Errorf("nestconfig: unknown placement type %q", name)
	}
}

// WithMergeLines returns a copy of c with MergeLines set.
func (c Config) WithMergeLines(enabled bool) Config {
	c.MergeLines = enabled
	return c
}

// WithSimplify returns a copy of c with Simplify set.
func (c Config) WithSimplify(enabled bool) Config {
	c.Simplify = enabled
	return c
}

// WithUseHoles returns a copy of c with UseHoles set.
func (c Config) WithUseHoles(enabled bool) Config {
	c.UseHoles = enabled
	return c
}

// WithExploreConcave returns a copy of c with ExploreConcave set.
func (c Config) WithExploreConcave(enabled bool) Config {
	c.ExploreConcave = enabled
	return c
}

// WithTimeoutSeconds returns a copy of c with TimeoutSeconds set,
// rejecting negative values. 0 disables the timeout.
func (c Config) WithTimeoutSeconds(seconds float64) (Config, error) {
	if seconds < 0 {
		return c, fmt.Errorf("nestconfig: timeout seconds must be >= 0, got %v", seconds)
	}
	c.TimeoutSeconds = seconds
	return c, nil
}

// WithMaxIterations returns a copy of c with MaxIterations set, rejecting
// negative values. 0 means unbounded.
func (c Config) WithMaxIterations(n int) (Config, error) {
	if n < 0 {
		return c, fmt.Errorf("nestconfig: max iterations must be >= 0, got %d", n)
	}
	c.MaxIterations = n
	return c, nil
}

// WithRandomSeed returns a copy of c with RandomSeed set, for
// reproducible runs.
func (c Config) WithRandomSeed(seed int64) Config {
	c.RandomSeed = seed
	return c
}

// FromDocument applies a key/value configuration document (as read from
// a persisted config file) on top of c. Unknown keys are ignored;
// out-of-range values are left at their prior setting rather than
// aborting the whole load, per spec.md §6.
func FromDocument(base Config, doc map[string]any) Config {
	c := base
	if v, ok := floatField(doc, "clipperScale"); ok {
		c.ClipperScale = v
	}
	if v, ok := floatField(doc, "curveTolerance"); ok {
		if next, err := c.WithCurveTolerance(v); err == nil {
			c = next
		}
	}
	if v, ok := floatField(doc, "spacing"); ok {
		if next, err := c.WithSpacing(v); err == nil {
			c = next
		}
	}
	if v, ok := intField(doc, "rotations"); ok {
		if next, err := c.WithRotations(v); err == nil {
			c = next
		}
	}
	if v, ok := intField(doc, "populationSize"); ok {
		if next, err := c.WithPopulationSize(v); err == nil {
			c = next
		}
	}
	if v, ok := intField(doc, "mutationRate"); ok {
		if next, err := c.WithMutationRate(v); err == nil {
			c = next
		}
	}
	if v, ok := intField(doc, "threads"); ok {
		if next, err := c.WithThreads(v); err == nil {
			c = next
		}
	}
	if v, ok := doc["placementType"].(string); ok {
		if next, err := c.WithPlacementType(v); err == nil {
			c = next
		}
	}
	if v, ok := doc["mergeLines"].(bool); ok {
		c = c.WithMergeLines(v)
	}
	if v, ok := floatField(doc, "timeRatio"); ok {
		c.TimeRatio = v
	}
	if v, ok := floatField(doc, "scale"); ok {
		c.Scale = v
	}
	if v, ok := doc["simplify"].(bool); ok {
		c = c.WithSimplify(v)
	}
	if v, ok := doc["useHoles"].(bool); ok {
		c = c.WithUseHoles(v)
	}
	if v, ok := doc["exploreConcave"].(bool); ok {
		c = c.WithExploreConcave(v)
	}
	if v, ok := intField(doc, "maxIterations"); ok {
		if next, err := c.WithMaxIterations(v); err == nil {
			c = next
		}
	}
	if v, ok := floatField(doc, "timeoutSeconds"); ok {
		if next, err := c.WithTimeoutSeconds(v); err == nil {
			c = next
		}
	}
	if v, ok := doc["progressive"].(bool); ok {
		c.Progressive = v
	}
	if v, ok := intField(doc, "randomSeed"); ok {
		c = c.WithRandomSeed(int64(v))
	}
	return c
}

func floatField(doc map[string]any, key string) (float64, bool) {
	v, ok := doc[key].(float64)
	return v, ok
}

func intField(doc map[string]any, key string) (int, bool) {
	switch v := doc[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}
