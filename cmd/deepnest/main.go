// Command deepnest drives the nesting engine from the command line: load
// part/sheet outlines from DXF files or a saved project, run the solver to
// completion, and write the result back as a project file plus optional
// PDF/label/BOM reports. The GUI-less analog of the teacher's cmd/slabcut
// and cmd/cnc-calculator entrypoints (see DESIGN.md for why the Fyne UI
// itself was not carried forward).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/deepnest-go/internal/dxfimport"
	"github.com/piwi3910/deepnest-go/internal/engine"
	"github.com/piwi3910/deepnest-go/internal/nestconfig"
	"github.com/piwi3910/deepnest-go/internal/nestmodel"
	"github.com/piwi3910/deepnest-go/internal/nestproject"
	"github.com/piwi3910/deepnest-go/internal/report"
	"github.com/piwi3910/deepnest-go/internal/solver"
)

// pathList collects a repeatable flag's occurrences, each of the form
// "path[:qty[:name]]".
type pathList []string

func (p *pathList) String() string { return strings.Join(*p, ",") }
func (p *pathList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func main() {
	var (
		parts          pathList
		sheets         pathList
		configPath     string
		savePath       string
		loadPath       string
		pdfPath        string
		labelsPath     string
		bomPath        string
		maxGen         int
		delayMs        int
		timeoutSeconds float64
		populationSize int
		mutationRate   int
		rotations      int
		threads        int
		spacing        float64
		placementType  string
		mergeLines     bool
	)

	flag.Var(&parts, "part", "DXF part file, repeatable: path[:qty[:name]]")
	flag.Var(&sheets, "sheet", "DXF sheet file, repeatable: path[:qty[:name]]")
	flag.StringVar(&configPath, "config", "", "configuration document to load on top of defaults (defaults to "+nestproject.DefaultConfigPath()+")")
	flag.StringVar(&loadPath, "load", "", "load parts/sheets/config from a saved project file instead of -part/-sheet")
	flag.StringVar(&savePath, "save", "", "save the run's input and result as a project file")
	flag.StringVar(&pdfPath, "pdf", "", "write a PDF sheet-layout report to this path")
	flag.StringVar(&labelsPath, "labels", "", "write a QR part-label sheet to this path")
	flag.StringVar(&bomPath, "bom", "", "write a bill-of-materials spreadsheet to this path")
	flag.IntVar(&maxGen, "maxgen", 0, "stop after this many generations (0 = no generation limit; the run ends on timeout)")
	flag.IntVar(&delayMs, "delay", 0, "milliseconds to sleep between engine steps")
	flag.Float64Var(&timeoutSeconds, "timeout", 0, "stop after this many seconds (0 = use the loaded configuration's timeout)")
	flag.IntVar(&populationSize, "population", 0, "GA population size override (0 = use loaded configuration)")
	flag.IntVar(&mutationRate, "mutation", -1, "mutation rate percentage override (-1 = use loaded configuration)")
	flag.IntVar(&rotations, "rotations", 0, "rotation count override (0 = use loaded configuration)")
	flag.IntVar(&threads, "threads", -1, "worker pool size override (-1 = use loaded configuration)")
	flag.Float64Var(&spacing, "spacing", -1, "part spacing override (-1 = use loaded configuration)")
	flag.StringVar(&placementType, "placement", "", "placement strategy override: gravity, boundingbox, convexhull")
	flag.BoolVar(&mergeLines, "mergelines", false, "enable the cut-line merge bonus")
	flag.Parse()

	if err := run(runOptions{
		parts, sheets, configPath, savePath, loadPath, pdfPath, labelsPath, bomPath,
		maxGen, delayMs, timeoutSeconds, populationSize, mutationRate, rotations,
		threads, spacing, placementType, mergeLines,
	}); err != nil {
		log.Fatal(err)
	}
}

type runOptions struct {
	parts, sheets                             pathList
	configPath, savePath, loadPath            string
	pdfPath, labelsPath, bomPath              string
	maxGen, delayMs                           int
	timeoutSeconds                            float64
	populationSize, mutationRate, rotations   int
	threads                                   int
	spacing                                   float64
	placementType                             string
	mergeLines                                bool
}

func run(opts runOptions) error {
	s := solver.New()

	if opts.loadPath != "" {
		project, err := nestproject.LoadProject(opts.loadPath)
		if err != nil {
			return fmt.Errorf("load project: %w", err)
		}
		if err := applyConfig(s, project.Config); err != nil {
			return err
		}
		if err := loadInput(s, project.Input); err != nil {
			return err
		}
	} else {
		configPath := opts.configPath
		if configPath == "" {
			configPath = nestproject.DefaultConfigPath()
		}
		cfg, err := nestproject.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := applyConfig(s, cfg); err != nil {
			return err
		}
		if err := loadDXFInputs(s, opts.parts, opts.sheets); err != nil {
			return err
		}
	}

	if err := applyOverrides(s, opts); err != nil {
		return err
	}

	s.SetProgressCallback(func(p engine.Progress) {
		log.Printf("generation %d: %.0f%% complete, best fitness %.2f", p.Generation, p.PercentComplete, p.BestFitness)
	})

	log.Printf("starting nest run (maxgen=%d)", opts.maxGen)
	if err := s.RunUntilComplete(opts.maxGen, opts.delayMs); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	best, ok := s.GetBestResult()
	if !ok {
		log.Println("run completed with no viable placement")
		return nil
	}
	log.Printf("best fitness %.2f, %d sheets used, %d unplaced parts",
		best.Fitness, len(best.Placement.Sheets), len(best.Placement.UnplacedIDs))

	pool := s.Pool()

	if opts.savePath != "" {
		input := nestmodel.NestInput{Parts: s.Parts(), Sheets: s.Sheets()}
		if err := nestproject.SaveProject(opts.savePath, "deepnest-run", s.Config(), input, &best.Placement); err != nil {
			return fmt.Errorf("save project: %w", err)
		}
	}

	if opts.pdfPath != "" {
		if err := report.ExportPDF(opts.pdfPath, best.Placement, pool); err != nil {
			log.Printf("pdf export failed: %v", err)
		}
	}
	if opts.labelsPath != "" {
		if err := report.ExportLabels(opts.labelsPath, best.Placement, pool); err != nil {
			log.Printf("labels export failed: %v", err)
		}
	}
	if opts.bomPath != "" {
		if err := report.ExportBOM(opts.bomPath, best.Placement, pool); err != nil {
			log.Printf("bom export failed: %v", err)
		}
	}

	return nil
}

func applyConfig(s *solver.Solver, cfg nestconfig.Config) error {
	if err := s.SetPopulationSize(cfg.PopulationSize); err != nil {
		return err
	}
	if err := s.SetMutationRate(cfg.MutationRate); err != nil {
		return err
	}
	if err := s.SetRotations(cfg.Rotations); err != nil {
		return err
	}
	if err := s.SetThreads(cfg.Threads); err != nil {
		return err
	}
	if err := s.SetSpacing(cfg.Spacing); err != nil {
		return err
	}
	if err := s.SetPlacementType(cfg.PlacementType); err != nil {
		return err
	}
	if err := s.SetCurveTolerance(cfg.CurveTolerance); err != nil {
		return err
	}
	if err := s.SetTimeoutSeconds(cfg.TimeoutSeconds); err != nil {
		return err
	}
	s.SetMergeLines(cfg.MergeLines)
	s.SetSimplify(cfg.Simplify)
	return nil
}

func applyOverrides(s *solver.Solver, opts runOptions) error {
	if opts.populationSize > 0 {
		if err := s.SetPopulationSize(opts.populationSize); err != nil {
			return err
		}
	}
	if opts.mutationRate >= 0 {
		if err := s.SetMutationRate(opts.mutationRate); err != nil {
			return err
		}
	}
	if opts.rotations > 0 {
		if err := s.SetRotations(opts.rotations); err != nil {
			return err
		}
	}
	if opts.threads >= 0 {
		if err := s.SetThreads(opts.threads); err != nil {
			return err
		}
	}
	if opts.spacing >= 0 {
		if err := s.SetSpacing(opts.spacing); err != nil {
			return err
		}
	}
	if opts.placementType != "" {
		if err := s.SetPlacementType(opts.placementType); err != nil {
			return err
		}
	}
	if opts.mergeLines {
		s.SetMergeLines(true)
	}
	if opts.timeoutSeconds > 0 {
		if err := s.SetTimeoutSeconds(opts.timeoutSeconds); err != nil {
			return err
		}
	}
	return nil
}

func loadInput(s *solver.Solver, input nestmodel.NestInput) error {
	for _, p := range input.Parts {
		if err := s.AddPart(p.Polygon, p.Quantity, p.Name); err != nil {
			return err
		}
	}
	for _, sh := range input.Sheets {
		if err := s.AddSheet(sh.Polygon, sh.Quantity, sh.Name); err != nil {
			return err
		}
	}
	return nil
}

func loadDXFInputs(s *solver.Solver, parts, sheets pathList) error {
	for _, spec := range parts {
		path, qty, name, err := parsePathSpec(spec)
		if err != nil {
			return err
		}
		result := dxfimport.ImportDXF(path)
		for _, w := range result.Warnings {
			log.Printf("%s: %s", path, w)
		}
		if len(result.Errors) > 0 {
			return fmt.Errorf("import part %s: %s", path, strings.Join(result.Errors, "; "))
		}
		for _, polygon := range result.Parts {
			if err := s.AddPart(polygon, qty, name); err != nil {
				return err
			}
		}
	}
	for _, spec := range sheets {
		path, qty, name, err := parsePathSpec(spec)
		if err != nil {
			return err
		}
		result := dxfimport.ImportDXF(path)
		for _, w := range result.Warnings {
			log.Printf("%s: %s", path, w)
		}
		if len(result.Errors) > 0 {
			return fmt.Errorf("import sheet %s: %s", path, strings.Join(result.Errors, "; "))
		}
		for _, polygon := range result.Parts {
			if err := s.AddSheet(polygon, qty, name); err != nil {
				return err
			}
		}
	}
	return nil
}

// parsePathSpec parses "path[:qty[:name]]" into its components, defaulting
// qty to 1 and name to empty.
func parsePathSpec(spec string) (path string, qty int, name string, err error) {
	parts := strings.SplitN(spec, ":", 3)
	path = parts[0]
	qty = 1
	if len(parts) > 1 && parts[1] != "" {
		qty, err = strconv.Atoi(parts[1])
		if err != nil {
			return "", 0, "", fmt.Errorf("invalid quantity in %q: %w", spec, err)
		}
	}
	if len(parts) > 2 {
		name = parts[2]
	}
	if path == "" {
		return "", 0, "", fmt.Errorf("empty path in spec %q", spec)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return "", 0, "", fmt.Errorf("cannot read %q: %w", path, statErr)
	}
	return path, qty, name, nil
}
