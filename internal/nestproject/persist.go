// Package nestproject persists solver configuration and project state to
// disk, adapted from the teacher's project.SaveAppConfig/LoadAppConfig
// pair for the engine's key/value configuration document (spec.md §6).
package nestproject

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/deepnest-go/internal/nestconfig"
	"github.com/piwi3910/deepnest-go/internal/nestmodel"
)

// DefaultConfigDir returns the default directory for application
// configuration: ~/.deepnest/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".deepnest")
}

// DefaultConfigPath returns the default path for the persisted
// configuration document.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveConfig persists a Config as a JSON key/value document at path,
// creating any missing parent directories.
func SaveConfig(path string, config nestconfig.Config) error {
	doc := toDocument(config)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadConfig reads a configuration document from path and applies it on
// top of nestconfig.Default(). If the file does not exist, it returns
// the default configuration with no error, per spec.md §6 (unknown keys
// ignored, out-of-range values revert to defaults).
func LoadConfig(path string) (nestconfig.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nestconfig.Default(), nil
		}
		return nestconfig.Config{}, err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nestconfig.Config{}, err
	}
	return nestconfig.FromDocument(nestconfig.Default(), doc), nil
}

func toDocument(c nestconfig.Config) map[string]any {
	return map[string]any{
		"clipperScale":   c.ClipperScale,
		"curveTolerance": c.CurveTolerance,
		"spacing":        c.Spacing,
		"rotations":      c.Rotations,
		"populationSize": c.PopulationSize,
		"mutationRate":   c.MutationRate,
		"threads":        c.Threads,
		"placementType":  c.PlacementType,
		"mergeLines":     c.MergeLines,
		"timeRatio":      c.TimeRatio,
		"scale":          c.Scale,
		"simplify":       c.Simplify,
		"useHoles":       c.UseHoles,
		"exploreConcave": c.ExploreConcave,
		"maxIterations":  c.MaxIterations,
		"timeoutSeconds": c.TimeoutSeconds,
		"progressive":    c.Progressive,
		"randomSeed":     c.RandomSeed,
	}
}

// SavedProject is the on-disk document for a nestmodel.Project: a name,
// the input parts/sheets, and the configuration the run used, mirroring
// the teacher's Project JSON shape generalized from CutSettings to
// nestconfig.Config.
type SavedProject struct {
	Name   string                     `json:"name"`
	Config nestconfig.Config          `json:"config"`
	Input  nestmodel.NestInput        `json:"input"`
	Result *nestmodel.PlacementResult `json:"result,omitempty"`
}

// SaveProject persists a project document to path.
func SaveProject(path string, name string, config nestconfig.Config, input nestmodel.NestInput, result *nestmodel.PlacementResult) error {
	doc := SavedProject{Name: name, Config: config, Input: input, Result: result}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadProject reads a project document from path.
func LoadProject(path string) (SavedProject, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SavedProject{}, err
	}
	var doc SavedProject
	if err := json.Unmarshal(data, &doc); err != nil {
		return SavedProject{}, err
	}
	return doc, nil
}
