package nestproject

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/deepnest-go/internal/geom"
	"github.com/piwi3910/deepnest-go/internal/nestconfig"
	"github.com/piwi3910/deepnest-go/internal/nestmodel"
)

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := nestconfig.Default()
	cfg, _ = cfg.WithPopulationSize(42)
	cfg = cfg.WithMergeLines(true)

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.PopulationSize != 42 {
		t.Errorf("expected PopulationSize=42, got %d", loaded.PopulationSize)
	}
	if !loaded.MergeLines {
		t.Error("expected MergeLines=true")
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg != nestconfig.Default() {
		t.Error("expected default config for missing file")
	}
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestSaveConfigCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "config.json")

	if err := SaveConfig(path, nestconfig.Default()); err != nil {
		t.Fatalf("SaveConfig should create parent dirs: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestSaveAndLoadProjectRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.json")

	r := geom.Ring{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	input := nestmodel.NestInput{
		Parts:  []nestmodel.PartSpec{{Polygon: geom.NewPolygon(r, nil), Quantity: 2, Name: "widget"}},
		Sheets: []nestmodel.SheetSpec{{Polygon: geom.NewPolygon(r, nil), Quantity: 1, Name: "sheet"}},
	}

	if err := SaveProject(path, "demo", nestconfig.Default(), input, nil); err != nil {
		t.Fatalf("SaveProject failed: %v", err)
	}

	loaded, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if loaded.Name != "demo" {
		t.Errorf("expected name=demo, got %s", loaded.Name)
	}
	if len(loaded.Input.Parts) != 1 || loaded.Input.Parts[0].Quantity != 2 {
		t.Errorf("expected 1 part spec with quantity 2, got %+v", loaded.Input.Parts)
	}
}
