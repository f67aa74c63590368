// Package session holds the per-browser-session design state that the
// request handlers pass around explicitly.
package session

import (
	"sort"
	"strings"

	"pod-design-backend/internal/apperr"
	"pod-design-backend/internal/models"
)

// Assignments maps a print-area position to the artifact placed on it.
// At most one artifact is assigned per position; the last assignment wins.
// Not safe for concurrent use.
type Assignments struct {
	byPosition map[string]models.DesignArtifact
}

func NewAssignments() *Assignments {
	return &Assignments{byPosition: make(map[string]models.DesignArtifact)}
}

// FromMap builds assignments from a request body. Blank positions are dropped.
// Keys that name the same position once trimmed are rejected.
func FromMap(m map[string]models.DesignArtifact) (*Assignments, error) {
	a := NewAssignments()
	for position, artifact := range m {
		if _, replaced := a.Assign(position, artifact); replaced {
			return nil, apperr.InvalidInput("session: assignments", "position %q is assigned more than once", normalize(position))
		}
	}
	return a, nil
}

// Assign places artifact on position and returns the artifact it replaced, if any.
func (a *Assignments) Assign(position string, artifact models.DesignArtifact) (models.DesignArtifact, bool) {
	position = normalize(position)
	if position == "" {
		return models.DesignArtifact{}, false
	}
	prev, ok := a.byPosition[position]
	a.byPosition[position] = artifact
	return prev, ok
}

func (a *Assignments) Get(position string) (models.DesignArtifact, bool) {
	artifact, ok := a.byPosition[normalize(position)]
	return artifact, ok
}

func (a *Assignments) Unassign(position string) bool {
	position = normalize(position)
	if _, ok := a.byPosition[position]; !ok {
		return false
	}
	delete(a.byPosition, position)
	return true
}

// Positions returns the assigned positions in sorted order.
func (a *Assignments) Positions() []string {
	positions := make([]string, 0, len(a.byPosition))
	for p := range a.byPosition {
		positions = append(positions, p)
	}
	sort.Strings(positions)
	return positions
}

func (a *Assignments) Len() int {
	return len(a.byPosition)
}

func normalize(position string) string {
	return strings.TrimSpace(position)
}
