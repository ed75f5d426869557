package nestmodel

import "time"

// Project bundles a nest input with its most recent result, the
// in-memory analog of the teacher's model.Project (persistence to disk
// is handled by the peripheral internal/nestproject package, not here).
type Project struct {
	ID        string
	Name      string
	Input     NestInput
	Result    *PlacementResult
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProject builds an empty, named project with a generated ID.
func NewProject(name string) Project {
	now := time.Now()
	return Project{
		ID:        NewID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithResult returns a copy of the project with Result set and UpdatedAt
// refreshed.
func (p Project) WithResult(result PlacementResult) Project {
	p.Result = &result
	p.UpdatedAt = time.Now()
	return p
}
