package ga

import (
	"errors"
	"math"
	"math/rand"
	"sort"
)

// Config bundles the GA knobs the population needs; it mirrors the
// signature-affecting subset of the engine configuration (see
// internal/nestconfig) so this package stays decoupled from it.
type Config struct {
	PopulationSize int
	MutationRate   float64 // percentage, 0-100
	Rotations      int
}

// Population owns the current generation of individuals and the single
// RNG the engine seeds for reproducible-per-seed search.
type Population struct {
	individuals []Individual
	config      Config
	rng         *rand.Rand
}

// New builds an empty population; call Initialize before use.
func New(config Config, rng *rand.Rand) *Population {
	return &Population{config: config, rng: rng}
}

// Initialize creates individual #0 ("adam") from partIDs in the given
// order with random rotations, then fills the rest of the population
// with mutated clones of adam.
func (p *Population) Initialize(partIDs []int) error {
	if len(partIDs) == 0 {
		return errors.New("ga: parts list cannot be empty")
	}
	adam := NewAdam(partIDs, p.config.Rotations, p.rng)
	p.individuals = make([]Individual, 0, p.config.PopulationSize)
	p.individuals = append(p.individuals, adam)

	for len(p.individuals) < p.config.PopulationSize {
		mutant := adam.Clone()
		mutant.Mutate(p.config.MutationRate, p.config.Rotations, p.rng)
		p.individuals = append(p.individuals, mutant)
	}
	return nil
}

// Crossover performs single-point, order-preserving crossover: a cut
// point is drawn in [0.1n, 0.9n]; child1 takes parent1's genes up to the
// cut then fills with parent2's remaining genes in parent2's order,
// skipping ids already present. child2 is the symmetric construction.
// Both results are guaranteed full permutations.
func (p *Population) Crossover(parent1, parent2 Individual) (Individual, Individual, error) {
	n := len(parent1.Placement)
	if n == 0 || len(parent2.Placement) == 0 {
		return Individual{}, Individual{}, errors.New("ga: parents cannot have empty placement sequences")
	}

	frac := 0.1 + p.rng.Float64()*0.8
	cut := int(math.Round(frac * float64(n)))

	child1 := fillChild(parent1, parent2, cut)
	child2 := fillChild(parent2, parent1, cut)
	return child1, child2, nil
}

func fillChild(primary, secondary Individual, cut int) Individual {
	n := len(primary.Placement)
	child := Individual{
		Placement: make([]int, 0, n),
		Rotation:  make([]float64, 0, n),
		Fitness:   UnevaluatedFitness,
	}
	child.Placement = append(child.Placement, primary.Placement[:cut]...)
	child.Rotation = append(child.Rotation, primary.Rotation[:cut]...)

	present := make(map[int]bool, n)
	for _, id := range child.Placement {
		present[id] = true
	}
	for i, id := range secondary.Placement {
		if !present[id] {
			child.Placement = append(child.Placement, id)
			child.Rotation = append(child.Rotation, secondary.Rotation[i])
			present[id] = true
		}
	}
	return child
}

// SelectWeightedRandom performs weighted-rank selection over the current
// population (assumed sorted ascending by fitness, best first): uniform
// base weight w=1/|pop|, cumulative upper bound growing by
// 2w*(|pop|-i)/|pop| at each index so earlier (better) individuals are
// favored. excludeIdx, if >= 0, removes that individual from the draw
// first (used to avoid selecting the same parent twice). Returns the
// selected individual together with its index in the live population
// (not the exclusion-filtered pool), so a second call can exclude it.
func (p *Population) SelectWeightedRandom(excludeIdx int) (Individual, int, error) {
	if len(p.individuals) == 0 {
		return Individual{}, -1, errors.New("ga: cannot select from empty population")
	}

	origIdx := make([]int, 0, len(p.individuals))
	for i := range p.individuals {
		if i != excludeIdx {
			origIdx = append(origIdx, i)
		}
	}
	if len(origIdx) == 0 {
		return Individual{}, -1, errors.New("ga: population empty after exclusion")
	}

	r := p.rng.Float64()
	lower := 0.0
	weight := 1.0 / float64(len(origIdx))
	upper := weight

	for i, idx := range origIdx {
		if r > lower && r < upper {
			return p.individuals[idx], idx, nil
		}
		lower = upper
		upper += 2.0 * weight * (float64(len(origIdx)-i) / float64(len(origIdx)))
	}
	return p.individuals[origIdx[0]], origIdx[0], nil
}

// NextGeneration advances the population: sort ascending by fitness,
// carry the best individual unchanged (elitism), then fill the remainder
// by drawing two parents, crossing them over, and mutating both
// children.
func (p *Population) NextGeneration() error {
	if len(p.individuals) == 0 {
		return errors.New("ga: cannot create next generation from empty population")
	}
	p.SortByFitness()

	target := len(p.individuals)
	next := make([]Individual, 0, target)
	next = append(next, p.individuals[0])

	for len(next) < target {
		male, maleIdx, err := p.SelectWeightedRandom(-1)
		if err != nil {
			return err
		}
		female, _, err := p.SelectWeightedRandom(maleIdx)
		if err != nil {
			return err
		}

		child1, child2, err := p.Crossover(male, female)
		if err != nil {
			return err
		}
		child1.Mutate(p.config.MutationRate, p.config.Rotations, p.rng)
		next = append(next, child1)

		if len(next) < target {
			child2.Mutate(p.config.MutationRate, p.config.Rotations, p.rng)
			next = append(next, child2)
		}
	}
	p.individuals = next
	return nil
}

// SortByFitness sorts individuals ascending by fitness (lower is
// better), the ordering Selection and elitism depend on.
func (p *Population) SortByFitness() {
	sort.SliceStable(p.individuals, func(i, j int) bool {
		return p.individuals[i].Fitness < p.individuals[j].Fitness
	})
}

// IsGenerationComplete reports whether every individual has a finite
// fitness and none is Processing.
func (p *Population) IsGenerationComplete() bool {
	for _, ind := range p.individuals {
		if !ind.HasValidFitness() || ind.Processing {
			return false
		}
	}
	return true
}

// ProcessingCount returns how many individuals are currently marked
// Processing.
func (p *Population) ProcessingCount() int {
	count := 0
	for _, ind := range p.individuals {
		if ind.Processing {
			count++
		}
	}
	return count
}

// Individuals exposes the live population slice for the scheduler to
// walk and mutate in place (writing back fitness/processing).
func (p *Population) Individuals() []Individual { return p.individuals }

// Best returns the best individual; callers must ensure the population
// has been sorted (e.g. via SortByFitness) since a generation completed.
func (p *Population) Best() (Individual, error) {
	if len(p.individuals) == 0 {
		return Individual{}, errors.New("ga: cannot get best from empty population")
	}
	return p.individuals[0], nil
}

// Size returns the current population size.
func (p *Population) Size() int { return len(p.individuals) }

// Set replaces the individual at index i, used by the scheduler to write
// back evaluation results.
func (p *Population) Set(i int, ind Individual) { p.individuals[i] = ind }

// At returns the individual at index i.
func (p *Population) At(i int) Individual { return p.individuals[i] }
