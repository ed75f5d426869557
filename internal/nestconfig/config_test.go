package nestconfig

import "testing"

func TestDefaultIsValidBaseline(t *testing.T) {
	c := Default()
	if c.PopulationSize < 3 {
		t.Fatalf("default population size %d should already satisfy the >=3 invariant", c.PopulationSize)
	}
	if c.PlacementType != "gravity" {
		t.Fatalf("expected gravity as the default placement strategy, got %q", c.PlacementType)
	}
}

func TestWithPopulationSizeRejectsTooSmall(t *testing.T) {
	c := Default()
	if _, err := c.WithPopulationSize(2); err == nil {
		t.Fatal("expected error for population size < 3")
	}
	next, err := c.WithPopulationSize(50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.PopulationSize != 50 {
		t.Fatalf("expected population size 50, got %d", next.PopulationSize)
	}
	if c.PopulationSize == next.PopulationSize {
		t.Fatal("original config should be unmodified (immutability)")
	}
}

func TestWithMutationRateRejectsOutOfRange(t *testing.T) {
	c := Default()
	if _, err := c.WithMutationRate(-1); err == nil {
		t.Fatal("expected error for negative mutation rate")
	}
	if _, err := c.WithMutationRate(101); err == nil {
		t.Fatal("expected error for mutation rate > 100")
	}
	if _, err := c.WithMutationRate(0); err != nil {
		t.Fatal("0 should be a valid mutation rate")
	}
}

func TestWithPlacementTypeAcceptsAliasesRejectsUnknown(t *testing.T) {
	c := Default()
	if _, err := c.WithPlacementType("box"); err != nil {
		t.Fatalf("\"box\" should be an accepted placement type alias: %v", err)
	}
	if _, err := c.WithPlacementType("spiral"); err == nil {
		t.Fatal("expected error for unknown placement type")
	}
}

func TestSignatureChangesWhenCacheAffectingFieldChanges(t *testing.T) {
	c := Default()
	sig1 := c.Signature()
	next, _ := c.WithRotations(8)
	sig2 := next.Signature()
	if sig1 == sig2 {
		t.Fatal("changing Rotations should change the cache-invalidating signature")
	}
	next2 := c.WithMergeLines(true)
	if next2.Signature() != sig1 {
		t.Fatal("MergeLines is not a signature field; it should not change the signature")
	}
}

func TestFromDocumentAppliesKnownKeysIgnoresUnknown(t *testing.T) {
	doc := map[string]any{
		"populationSize": float64(25),
		"mergeLines":     true,
		"mystery":        "ignored",
	}
	c := FromDocument(Default(), doc)
	if c.PopulationSize != 25 {
		t.Fatalf("expected populationSize 25, got %d", c.PopulationSize)
	}
	if !c.MergeLines {
		t.Fatal("expected mergeLines true")
	}
}

func TestFromDocumentOutOfRangeValueKeepsPriorSetting(t *testing.T) {
	base := Default()
	doc := map[string]any{"populationSize": float64(1)}
	c := FromDocument(base, doc)
	if c.PopulationSize != base.PopulationSize {
		t.Fatalf("out-of-range populationSize should leave prior value %d, got %d", base.PopulationSize, c.PopulationSize)
	}
}
